package auth

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/mycese/internal/auditlog"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/roster"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher hashes passwords with bcrypt. A zero Cost uses bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

// Hash returns the bcrypt hash of password.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash.
func (h BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the password policy: at least
// MinPasswordLength characters including a letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return ErrWeakPassword
	}
	return nil
}

// PasswordAuthenticator implements password-based authentication over the
// member roster.
type PasswordAuthenticator struct {
	roster  *roster.Roster
	hasher  Hasher
	limiter *RateLimiter
	audit   auditlog.Recorder
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(r *roster.Roster, hasher Hasher, limiter *RateLimiter, audit auditlog.Recorder) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		roster:  r,
		hasher:  hasher,
		limiter: limiter,
		audit:   audit,
	}
}

// ValidateCredential checks if the password meets the policy.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	return ValidatePassword(credential)
}

// Register creates a MEMBER account. Every attempt that passes the rate
// limit and the password policy counts against the register limit.
func (a *PasswordAuthenticator) Register(ctx context.Context, reg Registration) (models.User, error) {
	email := roster.NormalizeEmail(reg.Email)
	if err := a.limiter.Check(ctx, ActionRegister, email); err != nil {
		return models.User{}, err
	}
	if err := a.ValidateCredential(reg.Password); err != nil {
		return models.User{}, err
	}
	if err := a.limiter.Record(ctx, ActionRegister, email); err != nil {
		return models.User{}, err
	}

	hash, err := a.hasher.Hash(reg.Password)
	if err != nil {
		return models.User{}, err
	}
	return a.roster.Create(ctx, reg.Name, roster.NewMember{
		Name:         reg.Name,
		Email:        email,
		Phone:        reg.Phone,
		Faculty:      reg.Faculty,
		Role:         models.RoleMember,
		PasswordHash: hash,
	})
}

// Authenticate verifies the email and password, returning the user if valid.
// Only failed attempts count against the login limit.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string, client ClientInfo) (models.User, error) {
	email = roster.NormalizeEmail(email)
	details := func(status models.LogStatus) *models.LogDetails {
		return &models.LogDetails{Status: status, EmailAttempted: email, UserAgent: client.UserAgent}
	}

	if err := a.limiter.Check(ctx, ActionLogin, email); err != nil {
		a.audit.Record(ctx, "Tentativa de Login Bloqueada (Rate Limit)", models.SystemActor, details(models.LogFailure))
		return models.User{}, err
	}

	user, err := a.verify(email, credential)
	if err != nil {
		a.audit.Record(ctx, "Tentativa de Login", models.SystemActor, details(models.LogFailure))
		if rerr := a.limiter.Record(ctx, ActionLogin, email); rerr != nil {
			return models.User{}, rerr
		}
		return models.User{}, err
	}

	a.audit.Record(ctx, "Tentativa de Login", user.Email, details(models.LogSuccess))
	return user, nil
}

func (a *PasswordAuthenticator) verify(email, credential string) (models.User, error) {
	user, err := a.roster.GetByEmail(email)
	if errors.Is(err, roster.ErrUserNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !a.hasher.Verify(user.PasswordHash, credential) {
		return models.User{}, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return models.User{}, ErrInactiveUser
	}
	return user, nil
}

// ChangePassword replaces the password of userID. The current password is
// required unless the account is flagged to change its password.
func (a *PasswordAuthenticator) ChangePassword(ctx context.Context, userID, current, next string) (models.User, error) {
	user, err := a.roster.Get(userID)
	if err != nil {
		return models.User{}, err
	}
	if !user.MustChangePassword && !a.hasher.Verify(user.PasswordHash, current) {
		return models.User{}, ErrInvalidCredentials
	}
	if err := a.ValidateCredential(next); err != nil {
		return models.User{}, err
	}
	hash, err := a.hasher.Hash(next)
	if err != nil {
		return models.User{}, err
	}
	updated, err := a.roster.SetPassword(ctx, userID, hash, false)
	if err != nil {
		return models.User{}, err
	}
	a.audit.Record(ctx, "Senha alterada pelo usuário", updated.Email, nil)
	return updated, nil
}
