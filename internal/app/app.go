// Package app wires the MyCESE components from a Config. The server and the
// admin command share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/mycese/internal/auditlog"
	"github.com/mmynk/mycese/internal/auth"
	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/config"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/events"
	"github.com/mmynk/mycese/internal/finance"
	"github.com/mmynk/mycese/internal/middleware"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/payments"
	"github.com/mmynk/mycese/internal/roster"
	"github.com/mmynk/mycese/internal/service"
	"github.com/mmynk/mycese/internal/storage"
	"github.com/mmynk/mycese/internal/storage/memory"
	"github.com/mmynk/mycese/internal/storage/sqlite"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

// App holds the components built from a Config.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Clock  clock.Clock

	Store      *entitystore.Store
	Audit      *auditlog.Log
	Roster     *roster.Roster
	Events     *events.Service
	Engine     *payments.Engine
	Aggregator *finance.Aggregator

	Hasher        auth.Hasher
	Authenticator *auth.PasswordAuthenticator
	Sessions      *auth.Sessions
	Resetter      *auth.Resetter

	// Registry is nil when metrics are disabled.
	Registry *prometheus.Registry

	kv storage.KeyValueStore
}

// Option overrides a component built by New.
type Option func(*App)

// WithClock replaces the system clock.
func WithClock(clk clock.Clock) Option {
	return func(a *App) { a.Clock = clk }
}

// WithStorage replaces the configured storage driver.
func WithStorage(kv storage.KeyValueStore) Option {
	return func(a *App) { a.kv = kv }
}

// New opens the storage, loads every collection and builds the services.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	quotas, err := cfg.Quotas()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, Clock: clock.System{Location: loc}}
	for _, opt := range opts {
		opt(a)
	}

	if a.kv == nil {
		a.kv, err = openStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}
	a.Store, err = entitystore.Open(ctx, a.kv)
	if err != nil {
		a.kv.Close()
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	var reg prometheus.Registerer
	if cfg.Metrics.Enabled {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		reg = a.Registry
	}

	reportClock := a.Clock
	if pinned, ok, err := cfg.PinnedNow(); err != nil {
		a.kv.Close()
		return nil, err
	} else if ok {
		reportClock = clock.Fixed(pinned.In(loc))
		logger.Info("Reports pinned", "now", pinned)
	}

	a.Audit = auditlog.New(a.Store.Logs, a.Clock, logger, reg)
	a.Roster = roster.New(a.Store.Users, a.Audit, a.Clock)
	a.Events = events.New(a.Store.Events, a.Audit)
	a.Engine = payments.NewEngine(a.Store, quotas, a.Audit, a.Clock, payments.Options{
		MaxProofBytes: cfg.Payments.MaxProofBytes,
		Registerer:    reg,
		Logger:        logger,
	})
	a.Aggregator = finance.NewAggregator(a.Store, quotas, reportClock)

	a.Hasher = auth.BcryptHasher{Cost: cfg.Auth.BcryptCost}
	limiter := auth.NewRateLimiter(a.Store, a.Clock, cfg.Limits())
	a.Authenticator = auth.NewPasswordAuthenticator(a.Roster, a.Hasher, limiter, a.Audit)
	a.Sessions = auth.NewSessions(auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, a.Clock), a.Roster)
	a.Resetter = auth.NewResetter(a.Roster, a.Hasher, limiter, a.Audit, a.Clock, cfg.Auth.ResetTokenTTL)
	return a, nil
}

func openStorage(ctx context.Context, cfg config.Config) (storage.KeyValueStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		store, err := sqlite.New(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Close releases the storage.
func (a *App) Close() error {
	return a.kv.Close()
}

// Bootstrap creates the configured administrator on first start. It does
// nothing once the store is marked as seeded.
func (a *App) Bootstrap(ctx context.Context) error {
	seeded, err := a.Store.Seeded(ctx)
	if err != nil {
		return err
	}
	if seeded {
		return nil
	}

	admin := a.Config.Auth.BootstrapAdmin
	if admin.Email == "" || admin.Password == "" {
		a.Logger.Warn("No bootstrap administrator configured; set auth.bootstrap_admin to create one")
		return nil
	}
	if _, err := a.CreateAdmin(ctx, admin.Name, admin.Email, admin.Password); err != nil && !errors.Is(err, roster.ErrEmailExists) {
		return err
	}
	return a.Store.MarkSeeded(ctx)
}

// CreateAdmin adds an administrator account with the given password.
func (a *App) CreateAdmin(ctx context.Context, name, email, password string) (models.User, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return models.User{}, err
	}
	hash, err := a.Hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}
	user, err := a.Roster.Create(ctx, models.SystemActor, roster.NewMember{
		Name:         name,
		Email:        email,
		Faculty:      models.Faculties()[0],
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return models.User{}, err
	}
	a.Logger.Info("Administrator created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Handler returns the RPC services, /health and, when enabled, /metrics.
func (a *App) Handler() *http.ServeMux {
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(a.Logger),
		middleware.RequireAuth(a.Sessions, service.PublicProcedures...),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(a.Authenticator, a.Sessions, a.Resetter, a.Roster, a.Config.Auth.SessionIdleTimeout, a.Logger),
		interceptors,
	))
	mux.Handle(apiconnect.NewMemberServiceHandler(service.NewMemberService(a.Roster, a.Hasher, a.Logger), interceptors))
	mux.Handle(apiconnect.NewEventServiceHandler(service.NewEventService(a.Events, a.Logger), interceptors))
	mux.Handle(apiconnect.NewPaymentServiceHandler(service.NewPaymentService(a.Engine, a.Clock, a.Logger), interceptors))
	mux.Handle(apiconnect.NewReportServiceHandler(
		service.NewReportService(a.Aggregator, a.Engine, a.Audit, a.Store, a.Clock, service.ReportOptions{Window: a.Config.Reports.Window}, a.Logger),
		interceptors,
	))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if a.Registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	}
	return mux
}
