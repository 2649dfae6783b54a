// Package config loads the service configuration from a YAML file with
// MYCESE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/mmynk/mycese/internal/auth"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/quota"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type RateLimit struct {
	Limit  int
	Window time.Duration
}

type Config struct {
	Server struct {
		Addr       string
		StaticPath string `mapstructure:"static_path"`
	} `mapstructure:"server"`

	Storage struct {
		Driver string
		Path   string
	} `mapstructure:"storage"`

	Log struct {
		Level string
	} `mapstructure:"log"`

	App struct {
		Timezone string
	} `mapstructure:"app"`

	Auth struct {
		JWTSecret          string        `mapstructure:"jwt_secret"`
		TokenTTL           time.Duration `mapstructure:"token_ttl"`
		BcryptCost         int           `mapstructure:"bcrypt_cost"`
		ResetTokenTTL      time.Duration `mapstructure:"reset_token_ttl"`
		SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
		BootstrapAdmin     struct {
			Name     string
			Email    string
			Password string
		} `mapstructure:"bootstrap_admin"`
	} `mapstructure:"auth"`

	// Quota maps role names to monthly amounts. Keys are case-insensitive.
	Quota map[string]string `mapstructure:"quota"`

	Payments struct {
		MaxProofBytes int64 `mapstructure:"max_proof_bytes"`
	} `mapstructure:"payments"`

	Reports struct {
		Window    int
		PinnedNow string `mapstructure:"pinned_now"`
	} `mapstructure:"reports"`

	RateLimits map[string]RateLimit `mapstructure:"rate_limits"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_path", "")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "./data/mycese.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("app.timezone", "Africa/Maputo")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 0)
	v.SetDefault("auth.reset_token_ttl", auth.DefaultResetTTL)
	v.SetDefault("auth.session_idle_timeout", 15*time.Minute)
	v.SetDefault("auth.bootstrap_admin.name", "Administrador")
	v.SetDefault("auth.bootstrap_admin.email", "")
	v.SetDefault("auth.bootstrap_admin.password", "")
	for role, amount := range quota.Default().Amounts() {
		v.SetDefault("quota."+strings.ToLower(string(role)), amount.String())
	}
	v.SetDefault("payments.max_proof_bytes", 5<<20)
	v.SetDefault("reports.window", 6)
	v.SetDefault("reports.pinned_now", "")
	for action, l := range auth.DefaultLimits() {
		v.SetDefault("rate_limits."+action+".limit", l.Max)
		v.SetDefault("rate_limits."+action+".window", l.Window)
	}
	v.SetDefault("metrics.enabled", true)
}

// Load reads the configuration file at path, applies environment
// overrides (MYCESE_SERVER_ADDR overrides server.addr) and validates the
// result. An empty path uses defaults and the environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MYCESE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks the settings that have no safe fallback.
func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for the sqlite driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Quotas(); err != nil {
		errs = append(errs, err)
	}
	if c.Reports.Window < 1 || c.Reports.Window > 60 {
		errs = append(errs, fmt.Errorf("reports.window must be between 1 and 60, got %d", c.Reports.Window))
	}
	if _, _, err := c.PinnedNow(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location returns the time zone in which month boundaries are computed.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid app.timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// Quotas builds the quota schedule. Every role must have an amount.
func (c Config) Quotas() (*quota.Schedule, error) {
	amounts := make(map[models.Role]decimal.Decimal, len(c.Quota))
	for name, raw := range c.Quota {
		role := models.Role(strings.ToUpper(name))
		if strings.TrimSpace(raw) == "" {
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid quota for %s: %w", role, err)
		}
		amounts[role] = amount
	}
	schedule, err := quota.NewSchedule(amounts)
	if err != nil {
		return nil, fmt.Errorf("invalid quota table: %w", err)
	}
	return schedule, nil
}

// Limits returns the rate limits keyed by action.
func (c Config) Limits() map[string]auth.Limit {
	limits := make(map[string]auth.Limit, len(c.RateLimits))
	for action, l := range c.RateLimits {
		limits[action] = auth.Limit{Max: l.Limit, Window: l.Window}
	}
	return limits
}

// PinnedNow returns the date reports are pinned to, if any. A bare date is
// midnight in app.timezone.
func (c Config) PinnedNow() (time.Time, bool, error) {
	if c.Reports.PinnedNow == "" {
		return time.Time{}, false, nil
	}
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, c.Reports.PinnedNow)
	if err != nil {
		t, err = time.ParseInLocation(time.DateOnly, c.Reports.PinnedNow, loc)
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid reports.pinned_now %q: want RFC3339 or YYYY-MM-DD", c.Reports.PinnedNow)
	}
	return t, true, nil
}
