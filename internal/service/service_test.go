package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/mycese/internal/auditlog"
	"github.com/mmynk/mycese/internal/auth"
	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/events"
	"github.com/mmynk/mycese/internal/finance"
	"github.com/mmynk/mycese/internal/middleware"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/payments"
	"github.com/mmynk/mycese/internal/quota"
	"github.com/mmynk/mycese/internal/roster"
	"github.com/mmynk/mycese/internal/storage/memory"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

const testPassword = "segredo123"

type testServer struct {
	url      string
	store    *entitystore.Store
	clock    *clock.Manual
	roster   *roster.Roster
	sessions *auth.Sessions
	hasher   auth.Hasher

	admin, cfo, member models.User
}

// setupTestServer creates a test server over an in-memory store with one
// account per role.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	store, err := entitystore.Open(ctx, memory.New())
	require.NoError(t, err)

	clk := clock.NewManual(time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC))
	audit := auditlog.New(store.Logs, clk, logger, nil)
	members := roster.New(store.Users, audit, clk)
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}
	limiter := auth.NewRateLimiter(store, clk, auth.DefaultLimits())
	authenticator := auth.NewPasswordAuthenticator(members, hasher, limiter, audit)
	sessions := auth.NewSessions(auth.NewJWTManager("test-secret", time.Hour, clk), members)
	resetter := auth.NewResetter(members, hasher, limiter, audit, clk, 0)
	quotas := quota.Default()
	engine := payments.NewEngine(store, quotas, audit, clk, payments.Options{Logger: logger})
	aggregator := finance.NewAggregator(store, quotas, clk)

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		middleware.RequireAuth(sessions, PublicProcedures...),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, sessions, resetter, members, 15*time.Minute, logger), interceptors))
	mux.Handle(apiconnect.NewMemberServiceHandler(NewMemberService(members, hasher, logger), interceptors))
	mux.Handle(apiconnect.NewEventServiceHandler(NewEventService(events.New(store.Events, audit), logger), interceptors))
	mux.Handle(apiconnect.NewPaymentServiceHandler(NewPaymentService(engine, clk, logger), interceptors))
	mux.Handle(apiconnect.NewReportServiceHandler(NewReportService(aggregator, engine, audit, store, clk, ReportOptions{Window: 6}, logger), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	ts := &testServer{url: server.URL, store: store, clock: clk, roster: members, sessions: sessions, hasher: hasher}
	ts.admin = ts.createUser(t, "Admin", "admin@mycese.org", models.RoleAdmin, models.FacultyFCT)
	ts.cfo = ts.createUser(t, "Carla CFO", "cfo@mycese.org", models.RoleCFO, models.FacultyESG)
	ts.member = ts.createUser(t, "Ana Membro", "ana@mycese.org", models.RoleMember, models.FacultyFEN)
	return ts
}

func (ts *testServer) createUser(t *testing.T, name, email string, role models.Role, faculty models.Faculty) models.User {
	t.Helper()
	hash, err := ts.hasher.Hash(testPassword)
	require.NoError(t, err)
	u, err := ts.roster.Create(context.Background(), "", roster.NewMember{
		Name: name, Email: email, Role: role, Faculty: faculty, PasswordHash: hash,
	})
	require.NoError(t, err)
	return u
}

// as returns a client option that authenticates requests as user.
func (ts *testServer) as(t *testing.T, user models.User) connect.ClientOption {
	t.Helper()
	token, err := ts.sessions.Issue(user)
	require.NoError(t, err)
	return withToken(token)
}

func withToken(token string) connect.ClientOption {
	return connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}))
}

// assertCode checks the Connect code and, when want is non-empty, the
// failure code header.
func assertCode(t *testing.T, err error, code connect.Code, want string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, connect.CodeOf(err), "error: %v", err)
	if want != "" {
		var connectErr *connect.Error
		require.True(t, errors.As(err, &connectErr))
		assert.Equal(t, want, connectErr.Meta().Get(ErrorCodeHeader))
	}
}
