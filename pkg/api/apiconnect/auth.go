package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "mycese.v1.AuthService"

// Procedure names of the AuthService.
const (
	AuthServiceRegisterProcedure             = "/mycese.v1.AuthService/Register"
	AuthServiceLoginProcedure                = "/mycese.v1.AuthService/Login"
	AuthServiceChangePasswordProcedure       = "/mycese.v1.AuthService/ChangePassword"
	AuthServiceRequestPasswordResetProcedure = "/mycese.v1.AuthService/RequestPasswordReset"
	AuthServiceValidateResetTokenProcedure   = "/mycese.v1.AuthService/ValidateResetToken"
	AuthServiceResetPasswordProcedure        = "/mycese.v1.AuthService/ResetPassword"
	AuthServiceGetCurrentUserProcedure       = "/mycese.v1.AuthService/GetCurrentUser"
)

// AuthServiceHandler handles registration, login, sessions and password recovery.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	ChangePassword(context.Context, *connect.Request[api.ChangePasswordRequest]) (*connect.Response[api.ChangePasswordResponse], error)
	RequestPasswordReset(context.Context, *connect.Request[api.RequestPasswordResetRequest]) (*connect.Response[api.RequestPasswordResetResponse], error)
	ValidateResetToken(context.Context, *connect.Request[api.ValidateResetTokenRequest]) (*connect.Response[api.ValidateResetTokenResponse], error)
	ResetPassword(context.Context, *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceChangePasswordProcedure, connect.NewUnaryHandler(AuthServiceChangePasswordProcedure, svc.ChangePassword, opts...))
	mux.Handle(AuthServiceRequestPasswordResetProcedure, connect.NewUnaryHandler(AuthServiceRequestPasswordResetProcedure, svc.RequestPasswordReset, opts...))
	mux.Handle(AuthServiceValidateResetTokenProcedure, connect.NewUnaryHandler(AuthServiceValidateResetTokenProcedure, svc.ValidateResetToken, opts...))
	mux.Handle(AuthServiceResetPasswordProcedure, connect.NewUnaryHandler(AuthServiceResetPasswordProcedure, svc.ResetPassword, opts...))
	mux.Handle(AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	return "/" + AuthServiceName + "/", mux
}

// AuthServiceClient is a client for the AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	ChangePassword(context.Context, *connect.Request[api.ChangePasswordRequest]) (*connect.Response[api.ChangePasswordResponse], error)
	RequestPasswordReset(context.Context, *connect.Request[api.RequestPasswordResetRequest]) (*connect.Response[api.RequestPasswordResetResponse], error)
	ValidateResetToken(context.Context, *connect.Request[api.ValidateResetTokenRequest]) (*connect.Response[api.ValidateResetTokenResponse], error)
	ResetPassword(context.Context, *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for the AuthService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register:             connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:                connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		changePassword:       connect.NewClient[api.ChangePasswordRequest, api.ChangePasswordResponse](httpClient, baseURL+AuthServiceChangePasswordProcedure, opts...),
		requestPasswordReset: connect.NewClient[api.RequestPasswordResetRequest, api.RequestPasswordResetResponse](httpClient, baseURL+AuthServiceRequestPasswordResetProcedure, opts...),
		validateResetToken:   connect.NewClient[api.ValidateResetTokenRequest, api.ValidateResetTokenResponse](httpClient, baseURL+AuthServiceValidateResetTokenProcedure, opts...),
		resetPassword:        connect.NewClient[api.ResetPasswordRequest, api.ResetPasswordResponse](httpClient, baseURL+AuthServiceResetPasswordProcedure, opts...),
		getCurrentUser:       connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	register             *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login                *connect.Client[api.LoginRequest, api.LoginResponse]
	changePassword       *connect.Client[api.ChangePasswordRequest, api.ChangePasswordResponse]
	requestPasswordReset *connect.Client[api.RequestPasswordResetRequest, api.RequestPasswordResetResponse]
	validateResetToken   *connect.Client[api.ValidateResetTokenRequest, api.ValidateResetTokenResponse]
	resetPassword        *connect.Client[api.ResetPasswordRequest, api.ResetPasswordResponse]
	getCurrentUser       *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) ChangePassword(ctx context.Context, req *connect.Request[api.ChangePasswordRequest]) (*connect.Response[api.ChangePasswordResponse], error) {
	return c.changePassword.CallUnary(ctx, req)
}

func (c *authServiceClient) RequestPasswordReset(ctx context.Context, req *connect.Request[api.RequestPasswordResetRequest]) (*connect.Response[api.RequestPasswordResetResponse], error) {
	return c.requestPasswordReset.CallUnary(ctx, req)
}

func (c *authServiceClient) ValidateResetToken(ctx context.Context, req *connect.Request[api.ValidateResetTokenRequest]) (*connect.Response[api.ValidateResetTokenResponse], error) {
	return c.validateResetToken.CallUnary(ctx, req)
}

func (c *authServiceClient) ResetPassword(ctx context.Context, req *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error) {
	return c.resetPassword.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
