package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/pkg/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its service, method, caller and duration. Failures also carry the
// Connect code and the stable failure code, and are logged at ERROR only
// when the server itself failed.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			svc, method := splitProcedure(req.Spec().Procedure)

			resp, err := next(ctx, req)

			attrs := []any{
				"service", svc,
				"method", method,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				logger.Info("RPC ok", attrs...)
				return resp, nil
			}

			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				logger.Error("RPC error", append(attrs, "error", err)...)
				return resp, err
			}
			attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
			if c := connectErr.Meta().Get(api.ErrorCodeHeader); c != "" {
				attrs = append(attrs, "error_code", c)
			}
			if serverFault(connectErr.Code()) {
				logger.Error("RPC error", attrs...)
			} else {
				logger.Warn("RPC error", attrs...)
			}
			return resp, err
		}
	}
}

// splitProcedure turns "/mycese.v1.PaymentService/ConfirmPayment" into its
// service and method names.
func splitProcedure(procedure string) (string, string) {
	svc, method, ok := strings.Cut(strings.TrimPrefix(procedure, "/"), "/")
	if !ok {
		return procedure, ""
	}
	return svc, method
}

func serverFault(code connect.Code) bool {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return true
	}
	return false
}
