package api

import "github.com/mmynk/mycese/internal/models"

type RegisterRequest struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Phone    string         `json:"phone"`
	Faculty  models.Faculty `json:"faculty" validate:"required"`
	Password string         `json:"password" validate:"required"`
}

type RegisterResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User               models.User `json:"user"`
	Token              string      `json:"token"`
	MustChangePassword bool        `json:"mustChangePassword"`
	// IdleTimeoutSeconds is how long the UI may stay idle before it signs out.
	IdleTimeoutSeconds int64 `json:"idleTimeoutSeconds"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type ChangePasswordResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required"`
}

// RequestPasswordResetResponse carries the reset token for delivery to
// the member. It is empty when the email is unknown.
type RequestPasswordResetResponse struct {
	ResetToken string `json:"resetToken,omitempty"`
}

type ValidateResetTokenRequest struct {
	Token string `json:"token"`
}

type ValidateResetTokenResponse struct {
	Valid bool `json:"valid"`
}

type ResetPasswordRequest struct {
	Token        string `json:"token" validate:"required"`
	MyceseNumber string `json:"myceseNumber" validate:"required"`
	NewPassword  string `json:"newPassword" validate:"required"`
}

type ResetPasswordResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User models.User `json:"user"`
}
