// Package auth implements password authentication, session tokens,
// password resets and the persisted rate limiter that guards them.
package auth

import (
	"context"

	"github.com/mmynk/mycese/internal/apperr"
	"github.com/mmynk/mycese/internal/models"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	ErrInactiveUser       = apperr.New(apperr.ErrForbidden, "INACTIVE_USER", "account is inactive")
	ErrWeakPassword       = apperr.New(apperr.ErrValidation, "WEAK_PASSWORD", "password must be at least 8 characters and contain letters and digits")
	ErrInvalidToken       = apperr.New(apperr.ErrUnauthorized, "INVALID_TOKEN", "invalid or expired token")
	ErrMissingToken       = apperr.New(apperr.ErrUnauthorized, "MISSING_TOKEN", "authorization token required")
	ErrTooManyAttempts    = apperr.New(apperr.ErrRateLimited, "TOO_MANY_ATTEMPTS", "too many attempts, try again later")
	ErrInvalidResetToken  = apperr.New(apperr.ErrValidation, "INVALID_RESET_TOKEN", "reset token is invalid or expired")
	ErrNumberMismatch     = apperr.New(apperr.ErrValidation, "MYCESE_NUMBER_MISMATCH", "MyCESE number does not match")
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods without
// changing the service layer code.
type Authenticator interface {
	// Register creates a member account from a self-registration.
	Register(ctx context.Context, reg Registration) (models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string, client ClientInfo) (models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

// Registration is a self-registration request.
type Registration struct {
	Name     string
	Email    string
	Phone    string
	Faculty  models.Faculty
	Password string
}

// ClientInfo describes the caller of an unauthenticated flow, for the audit log.
type ClientInfo struct {
	UserAgent string
}
