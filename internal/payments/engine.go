// Package payments implements the quota payment lifecycle.
//
// A quota period (month, year) for a member is either materialized as a
// models.Payment row or has a status derived from the calendar. Rows move
// through the workflow
//
//	(none) --submit--> AWAITING_CONFIRMATION --confirm--> PAID
//	AWAITING_CONFIRMATION --reject--> PENDING | OVERDUE
//	PAID (with proof) --revert--> AWAITING_CONFIRMATION
//	any --record--> PAID (manual-record, no proof)
//	any --delete--> (none)
//
// Every successful transition is written to the audit log.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/mmynk/mycese/internal/auditlog"
	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/quota"
)

// Options tunes an Engine.
type Options struct {
	// MaxProofBytes bounds uploaded proofs. Zero means DefaultMaxProofBytes.
	MaxProofBytes int64

	// Registerer receives the engine's metrics. Nil disables registration.
	Registerer prometheus.Registerer

	Logger *slog.Logger
}

// Engine applies payment transitions to the payments collection.
type Engine struct {
	store  *entitystore.Store
	quotas *quota.Schedule
	audit  auditlog.Recorder
	clock  clock.Clock
	logger *slog.Logger

	maxProofBytes int64
	transitions   *prometheus.CounterVec
}

// NewEngine creates a payment engine.
func NewEngine(store *entitystore.Store, quotas *quota.Schedule, audit auditlog.Recorder, clk clock.Clock, opts Options) *Engine {
	if opts.MaxProofBytes == 0 {
		opts.MaxProofBytes = DefaultMaxProofBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		store:         store,
		quotas:        quotas,
		audit:         audit,
		clock:         clk,
		logger:        opts.Logger,
		maxProofBytes: opts.MaxProofBytes,
		transitions: promauto.With(opts.Registerer).NewCounterVec(prometheus.CounterOpts{
			Name: "mycese_payment_transitions_total",
			Help: "Payment state transitions by event and resulting status.",
		}, []string{"event", "status"}),
	}
}

// DeriveStatus returns the status of a period that has no payment row:
// OVERDUE once the period's month has fully passed, PENDING otherwise.
func DeriveStatus(period models.Period, now time.Time) models.PaymentStatus {
	if period.Elapsed(now) {
		return models.PaymentOverdue
	}
	return models.PaymentPending
}

// Status returns the stored status of the user's period, or the derived one
// when no row exists.
func (e *Engine) Status(ctx context.Context, userID string, period models.Period) (models.PaymentStatus, error) {
	if !period.Valid() {
		return "", ErrInvalidPeriod
	}
	p, ok, err := e.store.Payments.Find(func(p models.Payment) bool {
		return p.UserID == userID && p.Period == period
	})
	if err != nil {
		return "", err
	}
	if ok {
		return EffectiveStatus(p, e.clock.Now()), nil
	}
	return DeriveStatus(period, e.clock.Now()), nil
}

// EffectiveStatus returns the status to display for a stored row. PENDING
// and OVERDUE only reflect the calendar, so they are re-derived at now; a
// period rejected while current turns OVERDUE once its month has passed.
func EffectiveStatus(p models.Payment, now time.Time) models.PaymentStatus {
	switch p.Status {
	case models.PaymentPending, models.PaymentOverdue:
		return DeriveStatus(p.Period, now)
	}
	return p.Status
}

// Submission is a member's "pay these months" action.
type Submission struct {
	UserID  string
	Periods []models.Period
	Method  models.PaymentMethod
	Proof   *ProofUpload
}

// PeriodOutcome is the result of submitting one period of a batch.
type PeriodOutcome struct {
	Period    models.Period
	PaymentID string
	Err       error
}

// BatchResult reports every period of a submission. Periods are processed
// independently: a failure does not undo earlier successes.
type BatchResult struct {
	Outcomes []PeriodOutcome
}

// Succeeded returns the periods that were submitted.
func (r BatchResult) Succeeded() []models.Period {
	var out []models.Period
	for _, o := range r.Outcomes {
		if o.Err == nil {
			out = append(out, o.Period)
		}
	}
	return out
}

// Failed returns the outcomes that did not succeed.
func (r BatchResult) Failed() []PeriodOutcome {
	var out []PeriodOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// FirstError returns the error of the first failed period, or nil.
func (r BatchResult) FirstError() error {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}

// Submit validates the request as a whole, then submits each period in
// order. The returned error is non-nil only when the request was rejected
// before any period was touched; per-period failures are in the result.
func (e *Engine) Submit(ctx context.Context, actor string, sub Submission) (BatchResult, error) {
	if len(sub.Periods) == 0 {
		return BatchResult{}, ErrEmptySubmission
	}
	if sub.Method != models.MethodManualProof && sub.Method != models.MethodSimulatedMobile {
		return BatchResult{}, ErrInvalidMethod.Withf("unsupported payment method %q", sub.Method)
	}
	for _, p := range sub.Periods {
		if !p.Valid() {
			return BatchResult{}, ErrInvalidPeriod.Withf("invalid period %d/%d", p.Month, p.Year)
		}
	}
	if sub.Method.RequiresProof() && (sub.Proof == nil || sub.Proof.FileName == "") {
		return BatchResult{}, ErrProofRequired
	}

	user, err := e.user(sub.UserID)
	if err != nil {
		return BatchResult{}, err
	}

	now := e.clock.Now()
	proof, err := buildProof(sub.Proof, e.maxProofBytes, now)
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{Outcomes: make([]PeriodOutcome, 0, len(sub.Periods))}
	for _, period := range sub.Periods {
		payment, err := e.submitPeriod(ctx, actor, user, period, sub.Method, proof, now)
		outcome := PeriodOutcome{Period: period, Err: err}
		if err == nil {
			outcome.PaymentID = payment.ID
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result, nil
}

// SubmitProof submits a single period.
func (e *Engine) SubmitProof(ctx context.Context, actor, userID string, period models.Period, method models.PaymentMethod, upload *ProofUpload) (models.Payment, error) {
	result, err := e.Submit(ctx, actor, Submission{
		UserID:  userID,
		Periods: []models.Period{period},
		Method:  method,
		Proof:   upload,
	})
	if err != nil {
		return models.Payment{}, err
	}
	outcome := result.Outcomes[0]
	if outcome.Err != nil {
		return models.Payment{}, outcome.Err
	}
	return e.Get(outcome.PaymentID)
}

func (e *Engine) submitPeriod(ctx context.Context, actor string, user models.User, period models.Period, method models.PaymentMethod, proof *models.Proof, now time.Time) (models.Payment, error) {
	amount, err := e.quotas.For(user.Role)
	if err != nil {
		return models.Payment{}, err
	}

	var submitted models.Payment
	err = e.store.Payments.Mutate(ctx, func(items []models.Payment) ([]models.Payment, error) {
		if i := indexOf(items, user.ID, period); i >= 0 {
			p := &items[i]
			if p.Status.Settled() {
				return nil, ErrAlreadySettled.Withf("%02d/%d is already %s", period.Month, period.Year, statusLabel(p.Status))
			}
			p.Status = models.PaymentAwaitingConfirmation
			p.Method = method
			p.Proof = proof
			p.PaidAt = nil
			p.Version++
			submitted = *p
			return items, nil
		}

		submitted = models.Payment{
			ID:      uuid.New().String(),
			UserID:  user.ID,
			Period:  period,
			Amount:  amount,
			Status:  models.PaymentAwaitingConfirmation,
			Method:  method,
			Proof:   proof,
			Version: 1,
		}
		return append(items, submitted), nil
	})
	if err != nil {
		return models.Payment{}, err
	}

	e.transitions.WithLabelValues("submit", string(submitted.Status)).Inc()
	e.audit.Record(ctx, fmt.Sprintf("Pagamento submetido por %s para %d/%d", user.Name, period.Month, period.Year), actor, nil)
	e.logger.Info("Payment submitted", "payment_id", submitted.ID, "user_id", user.ID, "period", period.String())
	return submitted, nil
}

// Confirm accepts a payment awaiting confirmation.
func (e *Engine) Confirm(ctx context.Context, actor, paymentID string) (models.Payment, error) {
	return e.transition(ctx, actor, paymentID, "confirm", func(p *models.Payment, now time.Time) error {
		if p.Status != models.PaymentAwaitingConfirmation {
			return ErrInvalidTransition.Withf("only payments awaiting confirmation can be confirmed (status is %s)", p.Status)
		}
		p.Status = models.PaymentPaid
		p.PaidAt = &now
		return nil
	})
}

// Reject refuses a payment awaiting confirmation. The status falls back to
// what the calendar says and the proof is discarded.
func (e *Engine) Reject(ctx context.Context, actor, paymentID string) (models.Payment, error) {
	return e.transition(ctx, actor, paymentID, "reject", func(p *models.Payment, now time.Time) error {
		if p.Status != models.PaymentAwaitingConfirmation {
			return ErrInvalidTransition.Withf("only payments awaiting confirmation can be rejected (status is %s)", p.Status)
		}
		p.Status = DeriveStatus(p.Period, now)
		p.Proof = nil
		p.Method = ""
		p.PaidAt = nil
		return nil
	})
}

// Revert sends a proof-backed paid quota back for review.
func (e *Engine) Revert(ctx context.Context, actor, paymentID string) (models.Payment, error) {
	return e.transition(ctx, actor, paymentID, "revert", func(p *models.Payment, _ time.Time) error {
		if p.Status != models.PaymentPaid {
			return ErrInvalidTransition.Withf("only paid quotas can be reverted (status is %s)", p.Status)
		}
		if p.Proof == nil {
			return ErrNotRevertible
		}
		p.Status = models.PaymentAwaitingConfirmation
		p.PaidAt = nil
		return nil
	})
}

// Record marks a period as paid outside the proof workflow, for cash or
// other offline payments. The row is created when missing, using amount when
// given and the user's quota otherwise.
func (e *Engine) Record(ctx context.Context, actor, userID string, period models.Period, amount *decimal.Decimal) (models.Payment, error) {
	if !period.Valid() {
		return models.Payment{}, ErrInvalidPeriod.Withf("invalid period %d/%d", period.Month, period.Year)
	}
	if amount != nil && amount.IsNegative() {
		return models.Payment{}, ErrInvalidAmount
	}
	user, err := e.user(userID)
	if err != nil {
		return models.Payment{}, err
	}
	quotaAmount, err := e.quotas.For(user.Role)
	if err != nil {
		return models.Payment{}, err
	}

	now := e.clock.Now()
	var recorded models.Payment
	err = e.store.Payments.Mutate(ctx, func(items []models.Payment) ([]models.Payment, error) {
		i := indexOf(items, user.ID, period)
		if i < 0 {
			items = append(items, models.Payment{
				ID:     uuid.New().String(),
				UserID: user.ID,
				Period: period,
				Amount: quotaAmount,
			})
			i = len(items) - 1
		}
		p := &items[i]
		if amount != nil {
			p.Amount = *amount
		}
		p.Status = models.PaymentPaid
		p.Method = models.MethodManualRecord
		p.Proof = nil
		p.PaidAt = &now
		p.Version++
		recorded = *p
		return items, nil
	})
	if err != nil {
		return models.Payment{}, err
	}

	e.transitions.WithLabelValues("record", string(recorded.Status)).Inc()
	e.audit.Record(ctx, fmt.Sprintf("Pagamento registrado (manual) para %s: %d/%d", user.Name, period.Month, period.Year), actor, nil)
	e.logger.Info("Payment recorded", "payment_id", recorded.ID, "user_id", user.ID, "period", period.String())
	return recorded, nil
}

// Delete removes a payment row. The period's status falls back to the
// derived one.
func (e *Engine) Delete(ctx context.Context, actor, paymentID string) error {
	err := e.store.Payments.Remove(ctx, paymentID)
	if errors.Is(err, entitystore.ErrEntityNotFound) {
		return ErrPaymentNotFound.Withf("payment %s not found", paymentID)
	}
	if err != nil {
		return err
	}

	e.transitions.WithLabelValues("delete", "").Inc()
	e.audit.Record(ctx, fmt.Sprintf("Pagamento %s removido.", paymentID), actor, nil)
	e.logger.Info("Payment deleted", "payment_id", paymentID)
	return nil
}

// Get returns a payment by ID.
func (e *Engine) Get(paymentID string) (models.Payment, error) {
	p, err := e.store.Payments.Get(paymentID)
	if errors.Is(err, entitystore.ErrEntityNotFound) {
		return models.Payment{}, ErrPaymentNotFound.Withf("payment %s not found", paymentID)
	}
	return p, err
}

// transition applies change to one payment under the collection lock, using
// a single "now" for the whole operation.
func (e *Engine) transition(ctx context.Context, actor, paymentID, event string, change func(p *models.Payment, now time.Time) error) (models.Payment, error) {
	now := e.clock.Now()
	var updated models.Payment
	err := e.store.Payments.Update(ctx, paymentID, func(p *models.Payment) error {
		if err := change(p, now); err != nil {
			return err
		}
		p.Version++
		updated = *p
		return nil
	})
	if errors.Is(err, entitystore.ErrEntityNotFound) {
		return models.Payment{}, ErrPaymentNotFound.Withf("payment %s not found", paymentID)
	}
	if err != nil {
		return models.Payment{}, err
	}

	e.transitions.WithLabelValues(event, string(updated.Status)).Inc()
	e.audit.Record(ctx, fmt.Sprintf("Status do pagamento %s atualizado para %s", paymentID, updated.Status), actor, nil)
	e.logger.Info("Payment status changed", "payment_id", paymentID, "event", event, "status", updated.Status)
	return updated, nil
}

func (e *Engine) user(userID string) (models.User, error) {
	u, err := e.store.Users.Get(userID)
	if errors.Is(err, entitystore.ErrEntityNotFound) {
		return models.User{}, ErrUserNotFound.Withf("user %s not found", userID)
	}
	return u, err
}

func indexOf(items []models.Payment, userID string, period models.Period) int {
	for i := range items {
		if items[i].UserID == userID && items[i].Period == period {
			return i
		}
	}
	return -1
}

func statusLabel(s models.PaymentStatus) string {
	if s == models.PaymentAwaitingConfirmation {
		return "awaiting confirmation"
	}
	return "paid"
}
