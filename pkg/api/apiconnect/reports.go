package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/pkg/api"
)

// ReportServiceName is the fully-qualified name of the ReportService.
const ReportServiceName = "mycese.v1.ReportService"

// Procedure names of the ReportService.
const (
	ReportServiceGetDashboardProcedure           = "/mycese.v1.ReportService/GetDashboard"
	ReportServiceGetFinancialSummaryProcedure    = "/mycese.v1.ReportService/GetFinancialSummary"
	ReportServiceGetDelinquencyProcedure         = "/mycese.v1.ReportService/GetDelinquency"
	ReportServiceGetRevenueVsProjectionProcedure = "/mycese.v1.ReportService/GetRevenueVsProjection"
	ReportServiceGetFacultyComparisonProcedure   = "/mycese.v1.ReportService/GetFacultyComparison"
	ReportServiceGetFinanceOverviewProcedure     = "/mycese.v1.ReportService/GetFinanceOverview"
	ReportServiceListLogsProcedure               = "/mycese.v1.ReportService/ListLogs"
	ReportServiceExportBackupProcedure           = "/mycese.v1.ReportService/ExportBackup"
	ReportServiceExportWorkbookProcedure         = "/mycese.v1.ReportService/ExportWorkbook"
)

// ReportServiceHandler serves financial reports, the audit log and exports.
type ReportServiceHandler interface {
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	GetFinancialSummary(context.Context, *connect.Request[api.GetFinancialSummaryRequest]) (*connect.Response[api.GetFinancialSummaryResponse], error)
	GetDelinquency(context.Context, *connect.Request[api.GetDelinquencyRequest]) (*connect.Response[api.GetDelinquencyResponse], error)
	GetRevenueVsProjection(context.Context, *connect.Request[api.GetRevenueVsProjectionRequest]) (*connect.Response[api.GetRevenueVsProjectionResponse], error)
	GetFacultyComparison(context.Context, *connect.Request[api.GetFacultyComparisonRequest]) (*connect.Response[api.GetFacultyComparisonResponse], error)
	GetFinanceOverview(context.Context, *connect.Request[api.GetFinanceOverviewRequest]) (*connect.Response[api.GetFinanceOverviewResponse], error)
	ListLogs(context.Context, *connect.Request[api.ListLogsRequest]) (*connect.Response[api.ListLogsResponse], error)
	ExportBackup(context.Context, *connect.Request[api.ExportBackupRequest]) (*connect.Response[api.ExportBackupResponse], error)
	ExportWorkbook(context.Context, *connect.Request[api.ExportWorkbookRequest]) (*connect.Response[api.ExportWorkbookResponse], error)
}

// NewReportServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewReportServiceHandler(svc ReportServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ReportServiceGetDashboardProcedure, connect.NewUnaryHandler(ReportServiceGetDashboardProcedure, svc.GetDashboard, opts...))
	mux.Handle(ReportServiceGetFinancialSummaryProcedure, connect.NewUnaryHandler(ReportServiceGetFinancialSummaryProcedure, svc.GetFinancialSummary, opts...))
	mux.Handle(ReportServiceGetDelinquencyProcedure, connect.NewUnaryHandler(ReportServiceGetDelinquencyProcedure, svc.GetDelinquency, opts...))
	mux.Handle(ReportServiceGetRevenueVsProjectionProcedure, connect.NewUnaryHandler(ReportServiceGetRevenueVsProjectionProcedure, svc.GetRevenueVsProjection, opts...))
	mux.Handle(ReportServiceGetFacultyComparisonProcedure, connect.NewUnaryHandler(ReportServiceGetFacultyComparisonProcedure, svc.GetFacultyComparison, opts...))
	mux.Handle(ReportServiceGetFinanceOverviewProcedure, connect.NewUnaryHandler(ReportServiceGetFinanceOverviewProcedure, svc.GetFinanceOverview, opts...))
	mux.Handle(ReportServiceListLogsProcedure, connect.NewUnaryHandler(ReportServiceListLogsProcedure, svc.ListLogs, opts...))
	mux.Handle(ReportServiceExportBackupProcedure, connect.NewUnaryHandler(ReportServiceExportBackupProcedure, svc.ExportBackup, opts...))
	mux.Handle(ReportServiceExportWorkbookProcedure, connect.NewUnaryHandler(ReportServiceExportWorkbookProcedure, svc.ExportWorkbook, opts...))
	return "/" + ReportServiceName + "/", mux
}

// ReportServiceClient is a client for the ReportService.
type ReportServiceClient interface {
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	GetFinancialSummary(context.Context, *connect.Request[api.GetFinancialSummaryRequest]) (*connect.Response[api.GetFinancialSummaryResponse], error)
	GetDelinquency(context.Context, *connect.Request[api.GetDelinquencyRequest]) (*connect.Response[api.GetDelinquencyResponse], error)
	GetRevenueVsProjection(context.Context, *connect.Request[api.GetRevenueVsProjectionRequest]) (*connect.Response[api.GetRevenueVsProjectionResponse], error)
	GetFacultyComparison(context.Context, *connect.Request[api.GetFacultyComparisonRequest]) (*connect.Response[api.GetFacultyComparisonResponse], error)
	GetFinanceOverview(context.Context, *connect.Request[api.GetFinanceOverviewRequest]) (*connect.Response[api.GetFinanceOverviewResponse], error)
	ListLogs(context.Context, *connect.Request[api.ListLogsRequest]) (*connect.Response[api.ListLogsResponse], error)
	ExportBackup(context.Context, *connect.Request[api.ExportBackupRequest]) (*connect.Response[api.ExportBackupResponse], error)
	ExportWorkbook(context.Context, *connect.Request[api.ExportWorkbookRequest]) (*connect.Response[api.ExportWorkbookResponse], error)
}

// NewReportServiceClient constructs a client for the ReportService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewReportServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReportServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &reportServiceClient{
		getDashboard:           connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](httpClient, baseURL+ReportServiceGetDashboardProcedure, opts...),
		getFinancialSummary:    connect.NewClient[api.GetFinancialSummaryRequest, api.GetFinancialSummaryResponse](httpClient, baseURL+ReportServiceGetFinancialSummaryProcedure, opts...),
		getDelinquency:         connect.NewClient[api.GetDelinquencyRequest, api.GetDelinquencyResponse](httpClient, baseURL+ReportServiceGetDelinquencyProcedure, opts...),
		getRevenueVsProjection: connect.NewClient[api.GetRevenueVsProjectionRequest, api.GetRevenueVsProjectionResponse](httpClient, baseURL+ReportServiceGetRevenueVsProjectionProcedure, opts...),
		getFacultyComparison:   connect.NewClient[api.GetFacultyComparisonRequest, api.GetFacultyComparisonResponse](httpClient, baseURL+ReportServiceGetFacultyComparisonProcedure, opts...),
		getFinanceOverview:     connect.NewClient[api.GetFinanceOverviewRequest, api.GetFinanceOverviewResponse](httpClient, baseURL+ReportServiceGetFinanceOverviewProcedure, opts...),
		listLogs:               connect.NewClient[api.ListLogsRequest, api.ListLogsResponse](httpClient, baseURL+ReportServiceListLogsProcedure, opts...),
		exportBackup:           connect.NewClient[api.ExportBackupRequest, api.ExportBackupResponse](httpClient, baseURL+ReportServiceExportBackupProcedure, opts...),
		exportWorkbook:         connect.NewClient[api.ExportWorkbookRequest, api.ExportWorkbookResponse](httpClient, baseURL+ReportServiceExportWorkbookProcedure, opts...),
	}
}

type reportServiceClient struct {
	getDashboard           *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
	getFinancialSummary    *connect.Client[api.GetFinancialSummaryRequest, api.GetFinancialSummaryResponse]
	getDelinquency         *connect.Client[api.GetDelinquencyRequest, api.GetDelinquencyResponse]
	getRevenueVsProjection *connect.Client[api.GetRevenueVsProjectionRequest, api.GetRevenueVsProjectionResponse]
	getFacultyComparison   *connect.Client[api.GetFacultyComparisonRequest, api.GetFacultyComparisonResponse]
	getFinanceOverview     *connect.Client[api.GetFinanceOverviewRequest, api.GetFinanceOverviewResponse]
	listLogs               *connect.Client[api.ListLogsRequest, api.ListLogsResponse]
	exportBackup           *connect.Client[api.ExportBackupRequest, api.ExportBackupResponse]
	exportWorkbook         *connect.Client[api.ExportWorkbookRequest, api.ExportWorkbookResponse]
}

func (c *reportServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *reportServiceClient) GetFinancialSummary(ctx context.Context, req *connect.Request[api.GetFinancialSummaryRequest]) (*connect.Response[api.GetFinancialSummaryResponse], error) {
	return c.getFinancialSummary.CallUnary(ctx, req)
}

func (c *reportServiceClient) GetDelinquency(ctx context.Context, req *connect.Request[api.GetDelinquencyRequest]) (*connect.Response[api.GetDelinquencyResponse], error) {
	return c.getDelinquency.CallUnary(ctx, req)
}

func (c *reportServiceClient) GetRevenueVsProjection(ctx context.Context, req *connect.Request[api.GetRevenueVsProjectionRequest]) (*connect.Response[api.GetRevenueVsProjectionResponse], error) {
	return c.getRevenueVsProjection.CallUnary(ctx, req)
}

func (c *reportServiceClient) GetFacultyComparison(ctx context.Context, req *connect.Request[api.GetFacultyComparisonRequest]) (*connect.Response[api.GetFacultyComparisonResponse], error) {
	return c.getFacultyComparison.CallUnary(ctx, req)
}

func (c *reportServiceClient) GetFinanceOverview(ctx context.Context, req *connect.Request[api.GetFinanceOverviewRequest]) (*connect.Response[api.GetFinanceOverviewResponse], error) {
	return c.getFinanceOverview.CallUnary(ctx, req)
}

func (c *reportServiceClient) ListLogs(ctx context.Context, req *connect.Request[api.ListLogsRequest]) (*connect.Response[api.ListLogsResponse], error) {
	return c.listLogs.CallUnary(ctx, req)
}

func (c *reportServiceClient) ExportBackup(ctx context.Context, req *connect.Request[api.ExportBackupRequest]) (*connect.Response[api.ExportBackupResponse], error) {
	return c.exportBackup.CallUnary(ctx, req)
}

func (c *reportServiceClient) ExportWorkbook(ctx context.Context, req *connect.Request[api.ExportWorkbookRequest]) (*connect.Response[api.ExportWorkbookResponse], error) {
	return c.exportWorkbook.CallUnary(ctx, req)
}
