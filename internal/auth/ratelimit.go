package auth

import (
	"context"
	"time"

	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
)

// Rate-limited actions.
const (
	ActionLogin          = "login"
	ActionRegister       = "register"
	ActionForgotPassword = "forgot_password"
)

// Limit allows Max attempts within Window.
type Limit struct {
	Max    int
	Window time.Duration
}

// DefaultLimits returns the stock limits for each action.
func DefaultLimits() map[string]Limit {
	return map[string]Limit{
		ActionLogin:          {Max: 5, Window: time.Minute},
		ActionRegister:       {Max: 3, Window: 5 * time.Minute},
		ActionForgotPassword: {Max: 3, Window: 10 * time.Minute},
	}
}

// RateLimiter is a sliding-window limiter whose attempt timestamps are
// persisted in the entity store, keyed by action and subject.
type RateLimiter struct {
	store  *entitystore.Store
	clock  clock.Clock
	limits map[string]Limit
}

// NewRateLimiter creates a RateLimiter. Actions without a limit are never blocked.
func NewRateLimiter(store *entitystore.Store, clk clock.Clock, limits map[string]Limit) *RateLimiter {
	return &RateLimiter{store: store, clock: clk, limits: limits}
}

// Check prunes attempts outside the window and returns ErrTooManyAttempts
// when the remaining ones reach the limit.
func (l *RateLimiter) Check(ctx context.Context, action, subject string) error {
	limit, ok := l.limits[action]
	if !ok || limit.Max <= 0 {
		return nil
	}
	now := l.clock.Now()
	recent, err := l.store.UpdateAttempts(ctx, key(action, subject), func(attempts []time.Time) []time.Time {
		kept := attempts[:0]
		for _, t := range attempts {
			if now.Sub(t) < limit.Window {
				kept = append(kept, t)
			}
		}
		return kept
	})
	if err != nil {
		return err
	}
	if len(recent) >= limit.Max {
		return ErrTooManyAttempts
	}
	return nil
}

// Record adds an attempt at the current time.
func (l *RateLimiter) Record(ctx context.Context, action, subject string) error {
	if _, ok := l.limits[action]; !ok {
		return nil
	}
	now := l.clock.Now()
	_, err := l.store.UpdateAttempts(ctx, key(action, subject), func(attempts []time.Time) []time.Time {
		return append(attempts, now)
	})
	return err
}

func key(action, subject string) string {
	if subject == "" {
		return action
	}
	return action + "_" + subject
}
