// Package roster manages member accounts.
package roster

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mycese/internal/apperr"
	"github.com/mmynk/mycese/internal/auditlog"
	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/models"
)

var (
	ErrUserNotFound  = apperr.New(apperr.ErrNotFound, "USER_NOT_FOUND", "user not found")
	ErrEmailExists   = apperr.New(apperr.ErrValidation, "EMAIL_EXISTS", "a member with this email already exists")
	ErrInvalidMember = apperr.New(apperr.ErrValidation, "INVALID_MEMBER", "invalid member data")
)

const numberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Roster reads and writes the users collection.
type Roster struct {
	users *entitystore.Collection[models.User]
	audit auditlog.Recorder
	clock clock.Clock
}

// New creates a Roster.
func New(users *entitystore.Collection[models.User], audit auditlog.Recorder, clk clock.Clock) *Roster {
	return &Roster{users: users, audit: audit, clock: clk}
}

// NewMember describes an account to create.
type NewMember struct {
	Name               string
	Email              string
	Phone              string
	Faculty            models.Faculty
	Role               models.Role
	PasswordHash       string
	MustChangePassword bool
}

// Create adds a member. Emails are unique regardless of case.
func (r *Roster) Create(ctx context.Context, actor string, m NewMember) (models.User, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = NormalizeEmail(m.Email)
	if m.Name == "" {
		return models.User{}, ErrInvalidMember.Withf("name is required")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return models.User{}, ErrInvalidMember.Withf("invalid email %q", m.Email)
	}
	if m.Role == "" {
		m.Role = models.RoleMember
	}
	if !m.Role.Valid() {
		return models.User{}, ErrInvalidMember.Withf("invalid role %q", m.Role)
	}
	if !slices.Contains(models.Faculties(), m.Faculty) {
		return models.User{}, ErrInvalidMember.Withf("invalid faculty %q", m.Faculty)
	}

	now := r.clock.Now()
	user := models.User{
		ID:                 uuid.New().String(),
		MyceseNumber:       MyceseNumber(now.Year()),
		Name:               m.Name,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		Phone:              strings.TrimSpace(m.Phone),
		Faculty:            m.Faculty,
		Role:               m.Role,
		Status:             models.StatusActive,
		CreatedAt:          now,
		MustChangePassword: m.MustChangePassword,
		PasswordVersion:    1,
	}

	err := r.users.Mutate(ctx, func(items []models.User) ([]models.User, error) {
		for _, u := range items {
			if NormalizeEmail(u.Email) == user.Email {
				return nil, ErrEmailExists
			}
		}
		return append(items, user), nil
	})
	if err != nil {
		return models.User{}, err
	}

	r.audit.Record(ctx, fmt.Sprintf("Novo usuário criado: %s (%s)", user.Name, user.Email), actor, nil)
	return user, nil
}

// Get returns a member by ID.
func (r *Roster) Get(id string) (models.User, error) {
	u, err := r.users.Get(id)
	if errors.Is(err, entitystore.ErrEntityNotFound) {
		return models.User{}, ErrUserNotFound.Withf("user %s not found", id)
	}
	return u, err
}

// GetByEmail returns a member by email, ignoring case.
func (r *Roster) GetByEmail(email string) (models.User, error) {
	email = NormalizeEmail(email)
	u, ok, err := r.users.Find(func(u models.User) bool { return NormalizeEmail(u.Email) == email })
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrUserNotFound.Withf("no user with email %s", email)
	}
	return u, nil
}

// FindByResetToken returns the member holding an unexpired reset token
// with the given digest.
func (r *Roster) FindByResetToken(digest string, now time.Time) (models.User, error) {
	u, ok, err := r.users.Find(func(u models.User) bool {
		return digest != "" && u.ResetPasswordToken == digest &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now)
	})
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrUserNotFound.Withf("no user holds this reset token")
	}
	return u, nil
}

// Changes lists profile fields to update. Nil fields are left alone.
type Changes struct {
	Name    *string
	Phone   *string
	Faculty *models.Faculty
	Role    *models.Role
}

// Update applies profile changes.
func (r *Roster) Update(ctx context.Context, actor, id string, c Changes) (models.User, error) {
	if c.Name != nil && strings.TrimSpace(*c.Name) == "" {
		return models.User{}, ErrInvalidMember.Withf("name is required")
	}
	if c.Faculty != nil && !slices.Contains(models.Faculties(), *c.Faculty) {
		return models.User{}, ErrInvalidMember.Withf("invalid faculty %q", *c.Faculty)
	}
	if c.Role != nil && !c.Role.Valid() {
		return models.User{}, ErrInvalidMember.Withf("invalid role %q", *c.Role)
	}

	updated, err := r.update(ctx, id, func(u *models.User) {
		if c.Name != nil {
			u.Name = strings.TrimSpace(*c.Name)
		}
		if c.Phone != nil {
			u.Phone = strings.TrimSpace(*c.Phone)
		}
		if c.Faculty != nil {
			u.Faculty = *c.Faculty
		}
		if c.Role != nil {
			u.Role = *c.Role
		}
	})
	if err != nil {
		return models.User{}, err
	}
	r.audit.Record(ctx, fmt.Sprintf("Dados do usuário %s atualizados.", id), actor, nil)
	return updated, nil
}

// SetStatus activates or deactivates a member. Members are never deleted.
func (r *Roster) SetStatus(ctx context.Context, actor, id string, status models.UserStatus) (models.User, error) {
	if !status.Valid() {
		return models.User{}, ErrInvalidMember.Withf("invalid status %q", status)
	}
	updated, err := r.update(ctx, id, func(u *models.User) { u.Status = status })
	if err != nil {
		return models.User{}, err
	}
	r.audit.Record(ctx, fmt.Sprintf("Status do usuário %s alterado para %s", updated.Name, status), actor, nil)
	return updated, nil
}

// SetPassword stores a new password hash, bumps the password version and
// clears any pending reset token.
func (r *Roster) SetPassword(ctx context.Context, id, hash string, mustChange bool) (models.User, error) {
	return r.update(ctx, id, func(u *models.User) {
		u.PasswordHash = hash
		u.MustChangePassword = mustChange
		u.ResetPasswordToken = ""
		u.ResetPasswordExpires = nil
		u.PasswordVersion = max(u.PasswordVersion, 1) + 1
	})
}

// SetResetToken stores the digest of a reset token and its expiry.
func (r *Roster) SetResetToken(ctx context.Context, id, digest string, expires time.Time) error {
	_, err := r.update(ctx, id, func(u *models.User) {
		u.ResetPasswordToken = digest
		u.ResetPasswordExpires = &expires
	})
	return err
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Search  string // name, email or MyCESE number
	Role    models.Role
	Status  models.UserStatus
	Faculty models.Faculty
}

// List returns members matching f, ordered by name.
func (r *Roster) List(f Filter) ([]models.User, error) {
	all, err := r.users.List()
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var out []models.User
	for _, u := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.MyceseNumber), search) {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.Faculty != "" && u.Faculty != f.Faculty {
			continue
		}
		out = append(out, u)
	}
	slices.SortStableFunc(out, func(a, b models.User) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out, nil
}

func (r *Roster) update(ctx context.Context, id string, patch func(*models.User)) (models.User, error) {
	var updated models.User
	err := r.users.Update(ctx, id, func(u *models.User) error {
		patch(u)
		updated = *u
		return nil
	})
	if errors.Is(err, entitystore.ErrEntityNotFound) {
		return models.User{}, ErrUserNotFound.Withf("user %s not found", id)
	}
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MyceseNumber generates a membership number for year.
func MyceseNumber(year int) string {
	return fmt.Sprintf("MYC-%d-%s", year, randomString(6, numberAlphabet))
}

// TemporaryPassword generates a password for admin-created accounts. It
// satisfies the password policy.
func TemporaryPassword() string {
	return "Mudar@" + randomString(5, "abcdefghijklmnopqrstuvwxyz0123456789") + randomString(1, "0123456789")
}

func randomString(n int, alphabet string) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
