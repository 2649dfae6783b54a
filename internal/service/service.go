// Package service implements the Connect handlers of the MyCESE API.
package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/mycese/internal/apperr"
	"github.com/mmynk/mycese/internal/auth"
	"github.com/mmynk/mycese/internal/middleware"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/payments"
	"github.com/mmynk/mycese/internal/roster"
	"github.com/mmynk/mycese/pkg/api"
)

// ErrorCodeHeader carries the stable failure code of an error response.
const ErrorCodeHeader = api.ErrorCodeHeader

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(msg any) error {
	if err := validate.Struct(msg); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}

// toConnectError translates a core error into a Connect error. Storage and
// unexpected failures are logged with their cause and reported to the
// client without it.
func toConnectError(logger *slog.Logger, msg string, err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	code := connect.CodeInternal
	switch {
	case errors.Is(err, payments.ErrAlreadySettled),
		errors.Is(err, payments.ErrInvalidTransition),
		errors.Is(err, payments.ErrNotRevertible):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, roster.ErrEmailExists):
		code = connect.CodeAlreadyExists
	case errors.Is(err, apperr.ErrValidation):
		code = connect.CodeInvalidArgument
	case errors.Is(err, apperr.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		code = connect.CodeUnauthenticated
	case errors.Is(err, apperr.ErrForbidden):
		code = connect.CodePermissionDenied
	case errors.Is(err, apperr.ErrRateLimited):
		code = connect.CodeResourceExhausted
	case errors.Is(err, apperr.ErrStorage):
		code = connect.CodeUnavailable
	}

	var out *connect.Error
	if code == connect.CodeInternal || code == connect.CodeUnavailable {
		logger.Error(msg, "error", err)
		out = connect.NewError(code, errors.New(msg))
	} else {
		logger.Warn(msg, "error", err)
		out = connect.NewError(code, errors.New(apperr.MessageOf(err)))
	}
	if c := apperr.CodeOf(err); c != "" {
		out.Meta().Set(ErrorCodeHeader, c)
	}
	return out
}

func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// actor is the name recorded in the audit log for the caller.
func actor(ctx context.Context) string {
	return middleware.GetEmail(ctx)
}

// targetUser resolves the member an RPC acts on: the caller by default, or
// requested when the caller may act for other members.
func targetUser(ctx context.Context, requested string, mayActForOthers func(models.Role) bool) (string, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	if requested == "" || requested == caller {
		return caller, nil
	}
	if !mayActForOthers(middleware.GetRole(ctx)) {
		return "", connect.NewError(connect.CodePermissionDenied, errors.New("cannot act on behalf of another member"))
	}
	return requested, nil
}

func isAdmin(r models.Role) bool { return r == models.RoleAdmin }

func sanitize(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out
}

// withoutProofContent drops the attachment body from list responses. It
// is served by GetProof.
func withoutProofContent(p models.Payment) models.Payment {
	if p.Proof != nil {
		proof := *p.Proof
		proof.FileContent = ""
		p.Proof = &proof
	}
	return p
}
