package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/pkg/api"
)

// PaymentServiceName is the fully-qualified name of the PaymentService.
const PaymentServiceName = "mycese.v1.PaymentService"

// Procedure names of the PaymentService.
const (
	PaymentServiceGetPortalProcedure      = "/mycese.v1.PaymentService/GetPortal"
	PaymentServiceListMyPaymentsProcedure = "/mycese.v1.PaymentService/ListMyPayments"
	PaymentServiceSubmitPaymentsProcedure = "/mycese.v1.PaymentService/SubmitPayments"
	PaymentServiceListLedgerProcedure     = "/mycese.v1.PaymentService/ListLedger"
	PaymentServiceConfirmPaymentProcedure = "/mycese.v1.PaymentService/ConfirmPayment"
	PaymentServiceRejectPaymentProcedure  = "/mycese.v1.PaymentService/RejectPayment"
	PaymentServiceRevertPaymentProcedure  = "/mycese.v1.PaymentService/RevertPayment"
	PaymentServiceRecordPaymentProcedure  = "/mycese.v1.PaymentService/RecordPayment"
	PaymentServiceDeletePaymentProcedure  = "/mycese.v1.PaymentService/DeletePayment"
	PaymentServiceGetProofProcedure       = "/mycese.v1.PaymentService/GetProof"
)

// PaymentServiceHandler exposes the quota payment workflow.
type PaymentServiceHandler interface {
	GetPortal(context.Context, *connect.Request[api.GetPortalRequest]) (*connect.Response[api.GetPortalResponse], error)
	ListMyPayments(context.Context, *connect.Request[api.ListMyPaymentsRequest]) (*connect.Response[api.ListMyPaymentsResponse], error)
	SubmitPayments(context.Context, *connect.Request[api.SubmitPaymentsRequest]) (*connect.Response[api.SubmitPaymentsResponse], error)
	ListLedger(context.Context, *connect.Request[api.ListLedgerRequest]) (*connect.Response[api.ListLedgerResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
	RejectPayment(context.Context, *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.RejectPaymentResponse], error)
	RevertPayment(context.Context, *connect.Request[api.RevertPaymentRequest]) (*connect.Response[api.RevertPaymentResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	GetProof(context.Context, *connect.Request[api.GetProofRequest]) (*connect.Response[api.GetProofResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(PaymentServiceGetPortalProcedure, connect.NewUnaryHandler(PaymentServiceGetPortalProcedure, svc.GetPortal, opts...))
	mux.Handle(PaymentServiceListMyPaymentsProcedure, connect.NewUnaryHandler(PaymentServiceListMyPaymentsProcedure, svc.ListMyPayments, opts...))
	mux.Handle(PaymentServiceSubmitPaymentsProcedure, connect.NewUnaryHandler(PaymentServiceSubmitPaymentsProcedure, svc.SubmitPayments, opts...))
	mux.Handle(PaymentServiceListLedgerProcedure, connect.NewUnaryHandler(PaymentServiceListLedgerProcedure, svc.ListLedger, opts...))
	mux.Handle(PaymentServiceConfirmPaymentProcedure, connect.NewUnaryHandler(PaymentServiceConfirmPaymentProcedure, svc.ConfirmPayment, opts...))
	mux.Handle(PaymentServiceRejectPaymentProcedure, connect.NewUnaryHandler(PaymentServiceRejectPaymentProcedure, svc.RejectPayment, opts...))
	mux.Handle(PaymentServiceRevertPaymentProcedure, connect.NewUnaryHandler(PaymentServiceRevertPaymentProcedure, svc.RevertPayment, opts...))
	mux.Handle(PaymentServiceRecordPaymentProcedure, connect.NewUnaryHandler(PaymentServiceRecordPaymentProcedure, svc.RecordPayment, opts...))
	mux.Handle(PaymentServiceDeletePaymentProcedure, connect.NewUnaryHandler(PaymentServiceDeletePaymentProcedure, svc.DeletePayment, opts...))
	mux.Handle(PaymentServiceGetProofProcedure, connect.NewUnaryHandler(PaymentServiceGetProofProcedure, svc.GetProof, opts...))
	return "/" + PaymentServiceName + "/", mux
}

// PaymentServiceClient is a client for the PaymentService.
type PaymentServiceClient interface {
	GetPortal(context.Context, *connect.Request[api.GetPortalRequest]) (*connect.Response[api.GetPortalResponse], error)
	ListMyPayments(context.Context, *connect.Request[api.ListMyPaymentsRequest]) (*connect.Response[api.ListMyPaymentsResponse], error)
	SubmitPayments(context.Context, *connect.Request[api.SubmitPaymentsRequest]) (*connect.Response[api.SubmitPaymentsResponse], error)
	ListLedger(context.Context, *connect.Request[api.ListLedgerRequest]) (*connect.Response[api.ListLedgerResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
	RejectPayment(context.Context, *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.RejectPaymentResponse], error)
	RevertPayment(context.Context, *connect.Request[api.RevertPaymentRequest]) (*connect.Response[api.RevertPaymentResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	GetProof(context.Context, *connect.Request[api.GetProofRequest]) (*connect.Response[api.GetProofResponse], error)
}

// NewPaymentServiceClient constructs a client for the PaymentService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &paymentServiceClient{
		getPortal:      connect.NewClient[api.GetPortalRequest, api.GetPortalResponse](httpClient, baseURL+PaymentServiceGetPortalProcedure, opts...),
		listMyPayments: connect.NewClient[api.ListMyPaymentsRequest, api.ListMyPaymentsResponse](httpClient, baseURL+PaymentServiceListMyPaymentsProcedure, opts...),
		submitPayments: connect.NewClient[api.SubmitPaymentsRequest, api.SubmitPaymentsResponse](httpClient, baseURL+PaymentServiceSubmitPaymentsProcedure, opts...),
		listLedger:     connect.NewClient[api.ListLedgerRequest, api.ListLedgerResponse](httpClient, baseURL+PaymentServiceListLedgerProcedure, opts...),
		confirmPayment: connect.NewClient[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse](httpClient, baseURL+PaymentServiceConfirmPaymentProcedure, opts...),
		rejectPayment:  connect.NewClient[api.RejectPaymentRequest, api.RejectPaymentResponse](httpClient, baseURL+PaymentServiceRejectPaymentProcedure, opts...),
		revertPayment:  connect.NewClient[api.RevertPaymentRequest, api.RevertPaymentResponse](httpClient, baseURL+PaymentServiceRevertPaymentProcedure, opts...),
		recordPayment:  connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+PaymentServiceRecordPaymentProcedure, opts...),
		deletePayment:  connect.NewClient[api.DeletePaymentRequest, api.DeletePaymentResponse](httpClient, baseURL+PaymentServiceDeletePaymentProcedure, opts...),
		getProof:       connect.NewClient[api.GetProofRequest, api.GetProofResponse](httpClient, baseURL+PaymentServiceGetProofProcedure, opts...),
	}
}

type paymentServiceClient struct {
	getPortal      *connect.Client[api.GetPortalRequest, api.GetPortalResponse]
	listMyPayments *connect.Client[api.ListMyPaymentsRequest, api.ListMyPaymentsResponse]
	submitPayments *connect.Client[api.SubmitPaymentsRequest, api.SubmitPaymentsResponse]
	listLedger     *connect.Client[api.ListLedgerRequest, api.ListLedgerResponse]
	confirmPayment *connect.Client[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse]
	rejectPayment  *connect.Client[api.RejectPaymentRequest, api.RejectPaymentResponse]
	revertPayment  *connect.Client[api.RevertPaymentRequest, api.RevertPaymentResponse]
	recordPayment  *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	deletePayment  *connect.Client[api.DeletePaymentRequest, api.DeletePaymentResponse]
	getProof       *connect.Client[api.GetProofRequest, api.GetProofResponse]
}

func (c *paymentServiceClient) GetPortal(ctx context.Context, req *connect.Request[api.GetPortalRequest]) (*connect.Response[api.GetPortalResponse], error) {
	return c.getPortal.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListMyPayments(ctx context.Context, req *connect.Request[api.ListMyPaymentsRequest]) (*connect.Response[api.ListMyPaymentsResponse], error) {
	return c.listMyPayments.CallUnary(ctx, req)
}

func (c *paymentServiceClient) SubmitPayments(ctx context.Context, req *connect.Request[api.SubmitPaymentsRequest]) (*connect.Response[api.SubmitPaymentsResponse], error) {
	return c.submitPayments.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListLedger(ctx context.Context, req *connect.Request[api.ListLedgerRequest]) (*connect.Response[api.ListLedgerResponse], error) {
	return c.listLedger.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	return c.confirmPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) RejectPayment(ctx context.Context, req *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.RejectPaymentResponse], error) {
	return c.rejectPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) RevertPayment(ctx context.Context, req *connect.Request[api.RevertPaymentRequest]) (*connect.Response[api.RevertPaymentResponse], error) {
	return c.revertPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) GetProof(ctx context.Context, req *connect.Request[api.GetProofRequest]) (*connect.Response[api.GetProofResponse], error) {
	return c.getProof.CallUnary(ctx, req)
}
