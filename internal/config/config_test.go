package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/internal/auth"
	"github.com/mmynk/mycese/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: s3cret\n")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, DriverSQLite, c.Storage.Driver)
	assert.Equal(t, 24*time.Hour, c.Auth.TokenTTL)
	assert.Equal(t, 15*time.Minute, c.Auth.ResetTokenTTL)
	assert.Equal(t, 6, c.Reports.Window)
	assert.Equal(t, auth.DefaultLimits(), c.Limits())

	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, "Africa/Maputo", loc.String())

	q, err := c.Quotas()
	require.NoError(t, err)
	amount, err := q.For(models.RoleCFO)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(35).Equal(amount))
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
auth:
  jwt_secret: s3cret
  token_ttl: 2h
quota:
  ADMIN: 60
  cfo: 40.5
  member: 12
rate_limits:
  login:
    limit: 10
    window: 30s
reports:
  pinned_now: "2026-05-31"
`)
	t.Setenv("MYCESE_SERVER_ADDR", ":9090")
	t.Setenv("MYCESE_STORAGE_DRIVER", "memory")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, DriverMemory, c.Storage.Driver)
	assert.Equal(t, 2*time.Hour, c.Auth.TokenTTL)
	assert.Equal(t, auth.Limit{Max: 10, Window: 30 * time.Second}, c.Limits()[auth.ActionLogin])

	q, err := c.Quotas()
	require.NoError(t, err)
	amount, err := q.For(models.RoleCFO)
	require.NoError(t, err)
	assert.Equal(t, "40.5", amount.String())

	pinned, ok, err := c.PinnedNow()
	require.NoError(t, err)
	assert.True(t, ok)
	loc, err := c.Location()
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 5, 31, 0, 0, 0, 0, loc).Equal(pinned), "got %s", pinned)
}

func TestPinnedNowUsesTimezone(t *testing.T) {
	tests := []struct {
		name   string
		pinned string
		want   time.Time
	}{
		{"bare date is local midnight", "2026-06-01", time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)},
		{"offset is kept", "2026-06-01T00:00:00Z", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MYCESE_APP_TIMEZONE", "America/Sao_Paulo")
			t.Setenv("MYCESE_REPORTS_PINNED_NOW", tt.pinned)

			c, err := Load(writeConfig(t, "auth:\n  jwt_secret: s3cret\n"))
			require.NoError(t, err)

			pinned, ok, err := c.PinnedNow()
			require.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, tt.want.Equal(pinned), "got %s", pinned)

			loc, err := c.Location()
			require.NoError(t, err)
			assert.Equal(t, time.June, pinned.In(loc).Month())
		})
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing secret", "log:\n  level: info\n", "auth.jwt_secret is required"},
		{"negative quota", "auth:\n  jwt_secret: x\nquota:\n  member: -1\n", "invalid quota table"},
		{"bad timezone", "auth:\n  jwt_secret: x\napp:\n  timezone: Mars/Olympus\n", "invalid app.timezone"},
		{"bad driver", "auth:\n  jwt_secret: x\nstorage:\n  driver: postgres\n", "unknown storage.driver"},
		{"bad window", "auth:\n  jwt_secret: x\nreports:\n  window: 61\n", "reports.window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
