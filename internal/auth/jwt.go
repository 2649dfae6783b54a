package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/roster"
)

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	clock         clock.Clock
}

// Claims represents the custom JWT claims for a user session.
type Claims struct {
	UserID          string      `json:"user_id"`
	Email           string      `json:"email"`
	Role            models.Role `json:"role"`
	PasswordVersion int         `json:"pwv"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret and token duration.
func NewJWTManager(secretKey string, tokenDuration time.Duration, clk clock.Clock) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		clock:         clk,
	}
}

// Generate creates a new JWT token for the given user.
func (m *JWTManager) Generate(user models.User) (string, error) {
	now := m.clock.Now()
	claims := &Claims{
		UserID:          user.ID,
		Email:           user.Email,
		Role:            user.Role,
		PasswordVersion: user.PasswordVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate parses and validates a JWT token, returning the claims if valid.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return nil, ErrInvalidToken.Wrap(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Sessions issues tokens and verifies them against the current state of
// the account: deactivated users and tokens issued before a password
// change are rejected.
type Sessions struct {
	jwt    *JWTManager
	roster *roster.Roster
}

// NewSessions creates a Sessions.
func NewSessions(m *JWTManager, r *roster.Roster) *Sessions {
	return &Sessions{jwt: m, roster: r}
}

// Issue returns a token for user.
func (s *Sessions) Issue(user models.User) (string, error) {
	return s.jwt.Generate(user)
}

// Verify validates tokenString and returns its claims with the role
// refreshed from the roster.
func (s *Sessions) Verify(_ context.Context, tokenString string) (*Claims, error) {
	claims, err := s.jwt.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.roster.Get(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken.Wrap(err)
	}
	if !user.IsActive() {
		return nil, ErrInactiveUser
	}
	if user.PasswordVersion != claims.PasswordVersion {
		return nil, ErrInvalidToken.Withf("session ended by a password change")
	}
	claims.Role = user.Role
	return claims, nil
}
