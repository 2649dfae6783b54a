package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mycese/internal/auditlog"
	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/roster"
)

// DefaultResetTTL is how long a reset token stays valid.
const DefaultResetTTL = 15 * time.Minute

// Resetter runs the forgotten-password flow. Only the SHA-256 digest of a
// token is persisted.
type Resetter struct {
	roster  *roster.Roster
	hasher  Hasher
	limiter *RateLimiter
	audit   auditlog.Recorder
	clock   clock.Clock
	ttl     time.Duration
}

// NewResetter creates a Resetter. A non-positive ttl uses DefaultResetTTL.
func NewResetter(r *roster.Roster, hasher Hasher, limiter *RateLimiter, audit auditlog.Recorder, clk clock.Clock, ttl time.Duration) *Resetter {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	return &Resetter{roster: r, hasher: hasher, limiter: limiter, audit: audit, clock: clk, ttl: ttl}
}

// RequestReset issues a reset token for email. Unknown emails return an
// empty token and no error so callers cannot probe for accounts. Every
// attempt counts against the forgot_password limit.
func (r *Resetter) RequestReset(ctx context.Context, email string) (string, error) {
	email = roster.NormalizeEmail(email)
	if err := r.limiter.Check(ctx, ActionForgotPassword, email); err != nil {
		return "", err
	}
	if err := r.limiter.Record(ctx, ActionForgotPassword, email); err != nil {
		return "", err
	}

	var token string
	user, err := r.roster.GetByEmail(email)
	switch {
	case errors.Is(err, roster.ErrUserNotFound):
	case err != nil:
		return "", err
	default:
		token = uuid.New().String()
		if err := r.roster.SetResetToken(ctx, user.ID, digest(token), r.clock.Now().Add(r.ttl)); err != nil {
			return "", err
		}
	}

	r.audit.Record(ctx, fmt.Sprintf("Tentativa de recuperação de senha para o e-mail: %s.", email), models.SystemActor, nil)
	return token, nil
}

// ValidateToken reports whether token is a live reset token.
func (r *Resetter) ValidateToken(token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	_, err := r.roster.FindByResetToken(digest(token), r.clock.Now())
	if errors.Is(err, roster.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Reset sets a new password for the holder of token after checking their
// MyCESE number. Both failures and the success are audited.
func (r *Resetter) Reset(ctx context.Context, token, myceseNumber, password string, client ClientInfo) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}

	user, err := r.roster.FindByResetToken(digest(token), r.clock.Now())
	if errors.Is(err, roster.ErrUserNotFound) {
		r.audit.Record(ctx, "Tentativa de redefinição de senha falhou (Token inválido/expirado)", models.SystemActor,
			&models.LogDetails{Status: models.LogFailure, UserAgent: client.UserAgent})
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	if !strings.EqualFold(user.MyceseNumber, strings.TrimSpace(myceseNumber)) {
		r.audit.Record(ctx, "Tentativa de redefinição de senha falhou (Nº MyCESE incorreto)", models.SystemActor,
			&models.LogDetails{Status: models.LogFailure, EmailAttempted: user.Email, UserAgent: client.UserAgent})
		return ErrNumberMismatch
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return err
	}
	if _, err := r.roster.SetPassword(ctx, user.ID, hash, false); err != nil {
		return err
	}
	r.audit.Record(ctx, "Senha redefinida com sucesso", user.Email,
		&models.LogDetails{Status: models.LogSuccess, UserAgent: client.UserAgent})
	return nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
