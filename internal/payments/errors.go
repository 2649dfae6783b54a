package payments

import "github.com/mmynk/mycese/internal/apperr"

// Validation failures. Each carries a distinct code so callers can tell
// "already paid or in review" apart from "missing attachment".
var (
	ErrAlreadySettled       = apperr.New(apperr.ErrValidation, "ALREADY_SETTLED", "this month is already paid or awaiting confirmation")
	ErrProofRequired        = apperr.New(apperr.ErrValidation, "PROOF_REQUIRED", "a proof file is required for manual proof payments")
	ErrInvalidTransition    = apperr.New(apperr.ErrValidation, "INVALID_TRANSITION", "the payment is not in a state that allows this operation")
	ErrNotRevertible        = apperr.New(apperr.ErrValidation, "NOT_REVERTIBLE", "only paid quotas backed by a proof can be reverted")
	ErrInvalidPeriod        = apperr.New(apperr.ErrValidation, "INVALID_PERIOD", "month must be between 1 and 12")
	ErrInvalidMethod        = apperr.New(apperr.ErrValidation, "INVALID_METHOD", "unsupported payment method")
	ErrEmptySubmission      = apperr.New(apperr.ErrValidation, "EMPTY_SUBMISSION", "select at least one month to pay")
	ErrUnsupportedProofType = apperr.New(apperr.ErrValidation, "UNSUPPORTED_PROOF_TYPE", "proof must be an image or a PDF")
	ErrProofTooLarge        = apperr.New(apperr.ErrValidation, "PROOF_TOO_LARGE", "proof file is too large")
	ErrInvalidAmount        = apperr.New(apperr.ErrValidation, "INVALID_AMOUNT", "amount must not be negative")
	ErrMalformedProof       = apperr.New(apperr.ErrValidation, "MALFORMED_PROOF", "stored proof content is not a data URI")
)

// Lookup failures.
var (
	ErrPaymentNotFound = apperr.New(apperr.ErrNotFound, "PAYMENT_NOT_FOUND", "payment not found")
	ErrUserNotFound    = apperr.New(apperr.ErrNotFound, "USER_NOT_FOUND", "user not found")
	ErrNoProof         = apperr.New(apperr.ErrNotFound, "PROOF_NOT_FOUND", "payment has no proof attached")
)
