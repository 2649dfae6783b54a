package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a quota period in the payment workflow.
type PaymentStatus string

const (
	PaymentPending              PaymentStatus = "PENDING"
	PaymentOverdue              PaymentStatus = "OVERDUE"
	PaymentAwaitingConfirmation PaymentStatus = "AWAITING_CONFIRMATION"
	PaymentPaid                 PaymentStatus = "PAID"
)

// PaymentStatuses lists every status, in display order.
func PaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPaid, PaymentAwaitingConfirmation, PaymentPending, PaymentOverdue}
}

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentOverdue, PaymentAwaitingConfirmation, PaymentPaid:
		return true
	}
	return false
}

// Settled reports whether the period is paid or already in review, in which
// case it cannot be submitted again.
func (s PaymentStatus) Settled() bool {
	return s == PaymentPaid || s == PaymentAwaitingConfirmation
}

// PaymentMethod identifies how a quota was paid.
type PaymentMethod string

const (
	MethodManualProof     PaymentMethod = "manual-proof"
	MethodSimulatedMobile PaymentMethod = "simulated-mobile-payment"
	MethodManualRecord    PaymentMethod = "manual-record"
)

// legacyMethods maps the display labels persisted by earlier versions.
var legacyMethods = map[string]PaymentMethod{
	"Comprovativo Manual": MethodManualProof,
	"M-Pesa (Simulado)":   MethodSimulatedMobile,
}

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodManualProof, MethodSimulatedMobile, MethodManualRecord:
		return true
	}
	return false
}

// RequiresProof reports whether submissions with m must attach a file.
func (m PaymentMethod) RequiresProof() bool {
	return m == MethodManualProof
}

// UnmarshalJSON accepts both method identifiers and legacy display labels.
func (m *PaymentMethod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("payment method: %w", err)
	}
	if legacy, ok := legacyMethods[s]; ok {
		*m = legacy
		return nil
	}
	*m = PaymentMethod(s)
	return nil
}

// Proof is a submitted payment receipt.
type Proof struct {
	FileName    string    `json:"fileName"`
	SubmittedAt time.Time `json:"submittedAt"`

	// FileContent is the file as a data URI: data:<mime>;base64,<payload>.
	FileContent string `json:"fileContent,omitempty"`
	FileType    string `json:"fileType,omitempty"`
}

// Payment is a materialized quota period for one member. At most one Payment
// exists per (UserID, Month, Year).
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// UserID references the paying member.
	UserID string `json:"userId"`

	Period

	// Amount is the quota snapshot taken when the row was created.
	Amount decimal.Decimal `json:"amount"`

	Status PaymentStatus `json:"status"`
	Method PaymentMethod `json:"method,omitempty"`

	// Proof is present only while awaiting confirmation, or when paid
	// through a proof-based submission.
	Proof *Proof `json:"proof,omitempty"`

	// PaidAt is set only when Status is PAID.
	PaidAt *time.Time `json:"paidAt,omitempty"`

	// Version is incremented on every mutation.
	Version int `json:"version,omitempty"`
}

// EntityID returns the payment ID.
func (p Payment) EntityID() string { return p.ID }

// Key returns the quota period key of the row.
func (p Payment) Key() PeriodKey {
	return PeriodKey{UserID: p.UserID, Period: p.Period}
}

// PeriodKey identifies one member's quota period.
type PeriodKey struct {
	UserID string
	Period Period
}
