package models

import (
	"strings"
	"time"
)

// Role determines a member's permissions and monthly quota.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleCFO    Role = "CFO"
	RoleMember Role = "MEMBER"
)

// Roles lists every role, in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleCFO, RoleMember}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCFO, RoleMember:
		return true
	}
	return false
}

// CanManageFinance reports whether r may review and record payments.
func (r Role) CanManageFinance() bool {
	return r == RoleAdmin || r == RoleCFO
}

// UserStatus is the membership status. Users are deactivated, never deleted.
type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Faculty is the academic unit a member belongs to. The value is the full
// faculty name, as persisted by earlier versions.
type Faculty string

const (
	FacultyFEN  Faculty = "Faculdade de Economia e Negócios (FEN)"
	FacultyFCT  Faculty = "Faculdade de Ciência e Tecnologia (FCT)"
	FacultyESRI Faculty = "Escola Superior de Relações Internacionais (ESRI)"
	FacultyESG  Faculty = "Escola Superior de Governança (ESG)"
	FacultyENAP Faculty = "Escola Nacional de Administração Pública (ENAP)"
)

// Faculties lists every faculty, in display order.
func Faculties() []Faculty {
	return []Faculty{FacultyFEN, FacultyFCT, FacultyESRI, FacultyESG, FacultyENAP}
}

// ShortName returns the acronym in parentheses, e.g. "FEN".
func (f Faculty) ShortName() string {
	s := string(f)
	open := strings.LastIndex(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return s
	}
	return s[open+1 : len(s)-1]
}

// ParseFaculty accepts either the full name or the acronym.
func ParseFaculty(s string) (Faculty, bool) {
	for _, f := range Faculties() {
		if string(f) == s || strings.EqualFold(f.ShortName(), s) {
			return f, true
		}
	}
	return "", false
}

// User represents a member account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// MyceseNumber is the human-facing membership number, MYC-<year>-<suffix>.
	MyceseNumber string `json:"myceseNumber"`

	// Name is the member's display name.
	Name string `json:"name"`

	// Email is unique (case-insensitive) and used for login.
	Email string `json:"email"`

	// PasswordHash is the bcrypt digest of the member's password.
	PasswordHash string `json:"passwordHash,omitempty"`

	Phone   string  `json:"phone,omitempty"`
	Faculty Faculty `json:"faculty"`

	// Role determines the monthly quota amount.
	Role Role `json:"role"`

	// Status excludes inactive users from projections and delinquency.
	Status UserStatus `json:"status"`

	// CreatedAt is the membership start. It gates which quota periods apply.
	CreatedAt time.Time `json:"createdAt"`

	// MustChangePassword is set for accounts created with a temporary password.
	MustChangePassword bool `json:"mustChangePassword,omitempty"`

	// ResetPasswordToken holds the SHA-256 digest of the active reset token.
	ResetPasswordToken   string     `json:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time `json:"resetPasswordExpires,omitempty"`

	// PasswordVersion is bumped on every password change. Session tokens
	// carrying an older version are rejected.
	PasswordVersion int `json:"passwordVersion,omitempty"`
}

// EntityID returns the user ID.
func (u User) EntityID() string { return u.ID }

// IsActive reports whether the user is an active member.
func (u User) IsActive() bool { return u.Status == StatusActive }

// Sanitized returns a copy without credential material.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
	return u
}
