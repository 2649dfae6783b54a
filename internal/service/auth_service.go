package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/internal/auth"
	"github.com/mmynk/mycese/internal/roster"
	"github.com/mmynk/mycese/pkg/api"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

// PublicProcedures can be called without a session.
var PublicProcedures = []string{
	apiconnect.AuthServiceRegisterProcedure,
	apiconnect.AuthServiceLoginProcedure,
	apiconnect.AuthServiceRequestPasswordResetProcedure,
	apiconnect.AuthServiceValidateResetTokenProcedure,
	apiconnect.AuthServiceResetPasswordProcedure,
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	sessions      *auth.Sessions
	resetter      *auth.Resetter
	roster        *roster.Roster
	idleTimeout   time.Duration
	logger        *slog.Logger
}

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator *auth.PasswordAuthenticator, sessions *auth.Sessions, resetter *auth.Resetter, r *roster.Roster, idleTimeout time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		resetter:      resetter,
		roster:        r,
		idleTimeout:   idleTimeout,
		logger:        logger,
	}
}

// Register creates a new member account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Name:     req.Msg.Name,
		Email:    req.Msg.Email,
		Phone:    req.Msg.Phone,
		Faculty:  req.Msg.Faculty,
		Password: req.Msg.Password,
	})
	if err != nil {
		return nil, toConnectError(s.logger, "Registration failed", err)
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to generate token", err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{User: user.Sanitized(), Token: token}), nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password, auth.ClientInfo{UserAgent: req.Header().Get("User-Agent")})
	if err != nil {
		return nil, toConnectError(s.logger, "Login failed", err)
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to generate token", err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{
		User:               user.Sanitized(),
		Token:              token,
		MustChangePassword: user.MustChangePassword,
		IdleTimeoutSeconds: int64(s.idleTimeout / time.Second),
	}), nil
}

// ChangePassword sets a new password for the caller and returns a fresh
// token, since the change ends every existing session.
func (s *AuthService) ChangePassword(ctx context.Context, req *connect.Request[api.ChangePasswordRequest]) (*connect.Response[api.ChangePasswordResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.ChangePassword(ctx, userID, req.Msg.CurrentPassword, req.Msg.NewPassword)
	if err != nil {
		return nil, toConnectError(s.logger, "Password change failed", err)
	}
	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to generate token", err)
	}

	s.logger.Info("Password changed", "user_id", user.ID)
	return connect.NewResponse(&api.ChangePasswordResponse{User: user.Sanitized(), Token: token}), nil
}

// RequestPasswordReset issues a reset token for an email address.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *connect.Request[api.RequestPasswordResetRequest]) (*connect.Response[api.RequestPasswordResetResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	token, err := s.resetter.RequestReset(ctx, req.Msg.Email)
	if err != nil {
		return nil, toConnectError(s.logger, "Password reset request failed", err)
	}
	return connect.NewResponse(&api.RequestPasswordResetResponse{ResetToken: token}), nil
}

// ValidateResetToken reports whether a reset token is still usable.
func (s *AuthService) ValidateResetToken(ctx context.Context, req *connect.Request[api.ValidateResetTokenRequest]) (*connect.Response[api.ValidateResetTokenResponse], error) {
	valid, err := s.resetter.ValidateToken(req.Msg.Token)
	if err != nil {
		return nil, toConnectError(s.logger, "Reset token validation failed", err)
	}
	return connect.NewResponse(&api.ValidateResetTokenResponse{Valid: valid}), nil
}

// ResetPassword completes the forgotten-password flow.
func (s *AuthService) ResetPassword(ctx context.Context, req *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	err := s.resetter.Reset(ctx, req.Msg.Token, req.Msg.MyceseNumber, req.Msg.NewPassword, auth.ClientInfo{UserAgent: req.Header().Get("User-Agent")})
	if err != nil {
		return nil, toConnectError(s.logger, "Password reset failed", err)
	}
	return connect.NewResponse(&api.ResetPasswordResponse{}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("GetCurrentUser request", "user_id", userID)

	user, err := s.roster.Get(userID)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to load user", err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: user.Sanitized()}), nil
}
