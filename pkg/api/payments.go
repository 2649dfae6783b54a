package api

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/mycese/internal/models"
)

// PortalMonth is one cell of the member payment grid.
type PortalMonth struct {
	Period     models.Period        `json:"period"`
	Status     models.PaymentStatus `json:"status"`
	Amount     decimal.Decimal      `json:"amount"`
	PaymentID  string               `json:"paymentId,omitempty"`
	Selectable bool                 `json:"selectable"`
}

type GetPortalRequest struct {
	UserID string `json:"userId,omitempty"`
	Year   int    `json:"year" validate:"required,gte=2000"`
}

type GetPortalResponse struct {
	UserID string          `json:"userId"`
	Year   int             `json:"year"`
	Quota  decimal.Decimal `json:"quota"`
	Months []PortalMonth   `json:"months"`
}

type ListMyPaymentsRequest struct{}

type ListMyPaymentsResponse struct {
	Payments []models.Payment `json:"payments"`
}

type ProofUpload struct {
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data" validate:"required"`
}

type SubmitPaymentsRequest struct {
	UserID  string               `json:"userId,omitempty"`
	Periods []models.Period      `json:"periods" validate:"required,min=1,dive"`
	Method  models.PaymentMethod `json:"method" validate:"required"`
	Proof   *ProofUpload         `json:"proof,omitempty"`
}

// PeriodOutcome reports one period of a batch submission. Code and
// Message are set when the period failed.
type PeriodOutcome struct {
	Period    models.Period `json:"period"`
	PaymentID string        `json:"paymentId,omitempty"`
	Code      string        `json:"code,omitempty"`
	Message   string        `json:"message,omitempty"`
}

type SubmitPaymentsResponse struct {
	Outcomes []PeriodOutcome `json:"outcomes"`
}

type ListLedgerRequest struct {
	Search string               `json:"search"`
	Status models.PaymentStatus `json:"status"`
	Role   models.Role          `json:"role"`
	UserID string               `json:"userId"`
}

type LedgerRow struct {
	Payment models.Payment `json:"payment"`
	Member  models.User    `json:"member"`
}

type ListLedgerResponse struct {
	Rows []LedgerRow `json:"rows"`
}

type PaymentRequest struct {
	ID string `json:"id" validate:"required"`
}

type PaymentResponse struct {
	Payment models.Payment `json:"payment"`
}

type ConfirmPaymentRequest = PaymentRequest
type ConfirmPaymentResponse = PaymentResponse
type RejectPaymentRequest = PaymentRequest
type RejectPaymentResponse = PaymentResponse
type RevertPaymentRequest = PaymentRequest
type RevertPaymentResponse = PaymentResponse

type RecordPaymentRequest struct {
	UserID string           `json:"userId" validate:"required"`
	Period models.Period    `json:"period"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

type RecordPaymentResponse = PaymentResponse

type DeletePaymentRequest = PaymentRequest

type DeletePaymentResponse struct{}

type GetProofRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
}

type GetProofResponse struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}
