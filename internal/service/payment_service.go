package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/internal/apperr"
	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/middleware"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/payments"
	"github.com/mmynk/mycese/pkg/api"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

// PaymentService implements the PaymentService RPC interface.
type PaymentService struct {
	engine *payments.Engine
	clock  clock.Clock
	logger *slog.Logger
}

var _ apiconnect.PaymentServiceHandler = (*PaymentService)(nil)

// NewPaymentService creates a new payment service.
func NewPaymentService(engine *payments.Engine, clk clock.Clock, logger *slog.Logger) *PaymentService {
	return &PaymentService{engine: engine, clock: clk, logger: logger}
}

func canManageFinance(r models.Role) bool { return r.CanManageFinance() }

// GetPortal returns the yearly payment grid of the caller, or of any member
// for finance staff. A zero year means the current one.
func (s *PaymentService) GetPortal(ctx context.Context, req *connect.Request[api.GetPortalRequest]) (*connect.Response[api.GetPortalResponse], error) {
	if req.Msg.Year == 0 {
		req.Msg.Year = s.clock.Now().Year()
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	userID, err := targetUser(ctx, req.Msg.UserID, canManageFinance)
	if err != nil {
		return nil, err
	}

	portal, err := s.engine.Portal(userID, req.Msg.Year)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to build payment portal", err)
	}

	resp := &api.GetPortalResponse{UserID: portal.UserID, Year: portal.Year, Quota: portal.Quota}
	for _, m := range portal.Months {
		resp.Months = append(resp.Months, api.PortalMonth{
			Period:     m.Period,
			Status:     m.Status,
			Amount:     m.Amount,
			PaymentID:  m.PaymentID,
			Selectable: m.Selectable,
		})
	}
	return connect.NewResponse(resp), nil
}

// ListMyPayments returns the caller's payment history, newest period first.
func (s *PaymentService) ListMyPayments(ctx context.Context, req *connect.Request[api.ListMyPaymentsRequest]) (*connect.Response[api.ListMyPaymentsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.engine.UserPayments(userID)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to list payments", err)
	}
	for i := range rows {
		rows[i] = withoutProofContent(rows[i])
	}
	return connect.NewResponse(&api.ListMyPaymentsResponse{Payments: rows}), nil
}

// SubmitPayments submits several months at once. Each month is reported
// separately; a failed month does not undo the others.
func (s *PaymentService) SubmitPayments(ctx context.Context, req *connect.Request[api.SubmitPaymentsRequest]) (*connect.Response[api.SubmitPaymentsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	userID, err := targetUser(ctx, req.Msg.UserID, canManageFinance)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SubmitPayments request", "user_id", userID, "periods", len(req.Msg.Periods), "method", req.Msg.Method)

	sub := payments.Submission{
		UserID:  userID,
		Periods: req.Msg.Periods,
		Method:  req.Msg.Method,
	}
	if p := req.Msg.Proof; p != nil {
		sub.Proof = &payments.ProofUpload{FileName: p.FileName, ContentType: p.ContentType, Data: p.Data}
	}

	result, err := s.engine.Submit(ctx, actor(ctx), sub)
	if err != nil {
		return nil, toConnectError(s.logger, "Payment submission rejected", err)
	}

	resp := &api.SubmitPaymentsResponse{}
	for _, o := range result.Outcomes {
		out := api.PeriodOutcome{Period: o.Period, PaymentID: o.PaymentID}
		if o.Err != nil {
			s.logger.Warn("Payment period failed", "user_id", userID, "period", o.Period.String(), "error", o.Err)
			out.Code = apperr.CodeOf(o.Err)
			out.Message = apperr.MessageOf(o.Err)
			if errors.Is(o.Err, apperr.ErrStorage) {
				out.Message = "failed to save payment"
			}
		}
		resp.Outcomes = append(resp.Outcomes, out)
	}
	return connect.NewResponse(resp), nil
}

// ListLedger returns payments for review by finance staff.
func (s *PaymentService) ListLedger(ctx context.Context, req *connect.Request[api.ListLedgerRequest]) (*connect.Response[api.ListLedgerResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	rows, err := s.engine.Ledger(payments.LedgerFilter{
		Search: req.Msg.Search,
		Status: req.Msg.Status,
		Role:   req.Msg.Role,
		UserID: req.Msg.UserID,
	})
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to load ledger", err)
	}
	resp := &api.ListLedgerResponse{Rows: make([]api.LedgerRow, 0, len(rows))}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, api.LedgerRow{Payment: withoutProofContent(r.Payment), Member: r.Member.Sanitized()})
	}
	return connect.NewResponse(resp), nil
}

func (s *PaymentService) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	return s.transition(ctx, req.Msg, "Failed to confirm payment", s.engine.Confirm)
}

func (s *PaymentService) RejectPayment(ctx context.Context, req *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.RejectPaymentResponse], error) {
	return s.transition(ctx, req.Msg, "Failed to reject payment", s.engine.Reject)
}

func (s *PaymentService) RevertPayment(ctx context.Context, req *connect.Request[api.RevertPaymentRequest]) (*connect.Response[api.RevertPaymentResponse], error) {
	return s.transition(ctx, req.Msg, "Failed to revert payment", s.engine.Revert)
}

func (s *PaymentService) transition(ctx context.Context, msg *api.PaymentRequest, failure string, apply func(context.Context, string, string) (models.Payment, error)) (*connect.Response[api.PaymentResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	if err := validateRequest(msg); err != nil {
		return nil, err
	}
	p, err := apply(ctx, actor(ctx), msg.ID)
	if err != nil {
		return nil, toConnectError(s.logger, failure, err)
	}
	s.logger.Info("Payment updated", "payment_id", p.ID, "status", p.Status)
	return connect.NewResponse(&api.PaymentResponse{Payment: withoutProofContent(p)}), nil
}

// RecordPayment records an offline payment as paid.
func (s *PaymentService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	p, err := s.engine.Record(ctx, actor(ctx), req.Msg.UserID, req.Msg.Period, req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to record payment", err)
	}
	s.logger.Info("Payment recorded", "payment_id", p.ID, "user_id", p.UserID)
	return connect.NewResponse(&api.PaymentResponse{Payment: p}), nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if err := s.engine.Delete(ctx, actor(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(s.logger, "Failed to delete payment", err)
	}
	return connect.NewResponse(&api.DeletePaymentResponse{}), nil
}

// GetProof returns the attachment of a payment to its owner or to finance staff.
func (s *PaymentService) GetProof(ctx context.Context, req *connect.Request[api.GetProofRequest]) (*connect.Response[api.GetProofResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	p, err := s.engine.Get(req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to load payment", err)
	}
	if _, err := targetUser(ctx, p.UserID, canManageFinance); err != nil {
		return nil, err
	}
	data, contentType, err := payments.DecodeProof(p.Proof)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to decode proof", err)
	}
	return connect.NewResponse(&api.GetProofResponse{
		FileName:    p.Proof.FileName,
		ContentType: contentType,
		Data:        data,
	}), nil
}
