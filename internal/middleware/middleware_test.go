package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/internal/auth"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/pkg/api"
)

const (
	publicProcedure  = "/test.v1.TestService/Public"
	privateProcedure = "/test.v1.TestService/Private"
)

type whoami struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

type staticVerifier map[string]auth.Claims

func (v staticVerifier) Verify(_ context.Context, token string) (*auth.Claims, error) {
	c, ok := v[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &c, nil
}

func setupTestServer(t *testing.T, logger *slog.Logger) string {
	t.Helper()
	verifier := staticVerifier{
		"admin-token": {UserID: "u-1", Email: "admin@mycese.org", Role: models.RoleAdmin},
	}
	opts := []connect.HandlerOption{
		connect.WithCodec(api.Codec{}),
		connect.WithInterceptors(LoggingInterceptor(logger), RequireAuth(verifier, publicProcedure)),
	}
	identify := func(ctx context.Context, _ *connect.Request[struct{}]) (*connect.Response[whoami], error) {
		return connect.NewResponse(&whoami{UserID: GetUserID(ctx), Email: GetEmail(ctx), Role: GetRole(ctx)}), nil
	}

	mux := http.NewServeMux()
	mux.Handle(publicProcedure, connect.NewUnaryHandler(publicProcedure, identify, opts...))
	mux.Handle(privateProcedure, connect.NewUnaryHandler(privateProcedure, identify, opts...))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL
}

func call(t *testing.T, baseURL, procedure, token string) (*whoami, error) {
	t.Helper()
	client := connect.NewClient[struct{}, whoami](http.DefaultClient, baseURL+procedure, connect.WithCodec(api.Codec{}))
	req := connect.NewRequest(&struct{}{})
	if token != "" {
		req.Header().Set("Authorization", token)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func TestRequireAuth(t *testing.T) {
	url := setupTestServer(t, slog.New(slog.DiscardHandler))

	tests := []struct {
		name      string
		procedure string
		header    string
		wantCode  connect.Code
		wantUser  string
	}{
		{name: "public without token", procedure: publicProcedure},
		{name: "missing token", procedure: privateProcedure, wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", procedure: privateProcedure, header: "Basic admin-token", wantCode: connect.CodeUnauthenticated},
		{name: "unknown token", procedure: privateProcedure, header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
		{name: "valid token", procedure: privateProcedure, header: "Bearer admin-token", wantUser: "u-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, url, tt.procedure, tt.header)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, got.UserID)
			if tt.wantUser != "" {
				assert.Equal(t, "admin@mycese.org", got.Email)
				assert.Equal(t, models.RoleAdmin, got.Role)
			}
		})
	}
}

func TestSplitProcedure(t *testing.T) {
	svc, method := splitProcedure("/mycese.v1.PaymentService/ConfirmPayment")
	assert.Equal(t, "mycese.v1.PaymentService", svc)
	assert.Equal(t, "ConfirmPayment", method)

	svc, method = splitProcedure("garbage")
	assert.Equal(t, "garbage", svc)
	assert.Empty(t, method)
}

func TestRequireRole(t *testing.T) {
	err := RequireRole(context.Background(), models.RoleAdmin)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	ctx := WithIdentity(context.Background(), "u-2", "ana@mycese.org", models.RoleMember)
	err = RequireRole(ctx, models.RoleAdmin, models.RoleCFO)
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	assert.NoError(t, RequireRole(ctx, models.RoleMember))
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	url := setupTestServer(t, slog.New(slog.NewTextHandler(&buf, nil)))

	_, err := call(t, url, publicProcedure, "")
	require.NoError(t, err)
	_, err = call(t, url, privateProcedure, "")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "RPC ok")
	assert.Contains(t, out, "service=test.v1.TestService")
	assert.Contains(t, out, "method=Public")
	assert.Contains(t, out, "RPC error")
	assert.Contains(t, out, "code=unauthenticated")
}
