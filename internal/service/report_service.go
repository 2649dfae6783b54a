package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/internal/auditlog"
	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/export"
	"github.com/mmynk/mycese/internal/finance"
	"github.com/mmynk/mycese/internal/middleware"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/payments"
	"github.com/mmynk/mycese/pkg/api"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

// ReportService implements the ReportService RPC interface.
type ReportService struct {
	aggregator *finance.Aggregator
	engine     *payments.Engine
	logs       *auditlog.Log
	store      *entitystore.Store
	clock      clock.Clock
	window     int
	logger     *slog.Logger
}

var _ apiconnect.ReportServiceHandler = (*ReportService)(nil)

// ReportOptions configures a ReportService.
type ReportOptions struct {
	// Window is the default number of months of monthly series.
	Window int
}

// NewReportService creates a new report service.
func NewReportService(agg *finance.Aggregator, engine *payments.Engine, logs *auditlog.Log, store *entitystore.Store, clk clock.Clock, opts ReportOptions, logger *slog.Logger) *ReportService {
	if opts.Window <= 0 {
		opts.Window = 6
	}
	return &ReportService{
		aggregator: agg,
		engine:     engine,
		logs:       logs,
		store:      store,
		clock:      clk,
		window:     opts.Window,
		logger:     logger,
	}
}

func (s *ReportService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	report, err := s.aggregator.Dashboard()
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to compute dashboard", err)
	}
	return connect.NewResponse(&api.GetDashboardResponse{Dashboard: report}), nil
}

func (s *ReportService) GetFinancialSummary(ctx context.Context, req *connect.Request[api.GetFinancialSummaryRequest]) (*connect.Response[api.GetFinancialSummaryResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	overview, err := s.aggregator.Overview()
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to compute summary", err)
	}
	return connect.NewResponse(&api.GetFinancialSummaryResponse{
		Summary:        overview.Summary,
		CollectionRate: overview.CollectionRate,
	}), nil
}

func (s *ReportService) GetDelinquency(ctx context.Context, req *connect.Request[api.GetDelinquencyRequest]) (*connect.Response[api.GetDelinquencyResponse], error) {
	r, err := s.rangeOf(ctx, req.Msg)
	if err != nil {
		return nil, err
	}
	months, err := s.aggregator.DelinquencyByMonth(r)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to compute delinquency", err)
	}
	return connect.NewResponse(&api.GetDelinquencyResponse{Months: months}), nil
}

func (s *ReportService) GetRevenueVsProjection(ctx context.Context, req *connect.Request[api.GetRevenueVsProjectionRequest]) (*connect.Response[api.GetRevenueVsProjectionResponse], error) {
	r, err := s.rangeOf(ctx, req.Msg)
	if err != nil {
		return nil, err
	}
	months, err := s.aggregator.RevenueVsProjectionByMonth(r)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to compute revenue", err)
	}
	return connect.NewResponse(&api.GetRevenueVsProjectionResponse{Months: months}), nil
}

func (s *ReportService) rangeOf(ctx context.Context, msg *api.WindowRequest) (finance.Range, error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return finance.Range{}, err
	}
	if err := validateRequest(msg); err != nil {
		return finance.Range{}, err
	}
	r := finance.LastMonths(s.window)
	if msg.Months > 0 {
		r.Months = msg.Months
	}
	if msg.End != nil {
		r.End = *msg.End
	}
	return r, nil
}

func (s *ReportService) GetFacultyComparison(ctx context.Context, req *connect.Request[api.GetFacultyComparisonRequest]) (*connect.Response[api.GetFacultyComparisonResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	stats, err := s.aggregator.FacultyComparison()
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to compare faculties", err)
	}
	return connect.NewResponse(&api.GetFacultyComparisonResponse{Faculties: stats}), nil
}

func (s *ReportService) GetFinanceOverview(ctx context.Context, req *connect.Request[api.GetFinanceOverviewRequest]) (*connect.Response[api.GetFinanceOverviewResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	overview, err := s.aggregator.Overview()
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to compute finance overview", err)
	}
	return connect.NewResponse(&api.GetFinanceOverviewResponse{Overview: overview}), nil
}

// ListLogs returns the most recent audit entries.
func (s *ReportService) ListLogs(ctx context.Context, req *connect.Request[api.ListLogsRequest]) (*connect.Response[api.ListLogsResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	entries, err := s.logs.List(req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to list logs", err)
	}
	return connect.NewResponse(&api.ListLogsResponse{Entries: entries}), nil
}

// ExportBackup returns users, events and payments as JSON without
// credentials.
func (s *ReportService) ExportBackup(ctx context.Context, req *connect.Request[api.ExportBackupRequest]) (*connect.Response[api.ExportBackupResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to read data", err)
	}
	now := s.clock.Now()
	data, err := export.BackupJSON(snap, now, false)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to encode backup", err)
	}
	s.logger.Info("Backup exported", "user_id", middleware.GetUserID(ctx), "bytes", len(data))
	return connect.NewResponse(&api.ExportBackupResponse{
		FileName: fmt.Sprintf("mycese_backup_%s.json", now.Format(time.DateOnly)),
		Data:     data,
	}), nil
}

// ExportWorkbook renders the finance workbook.
func (s *ReportService) ExportWorkbook(ctx context.Context, req *connect.Request[api.ExportWorkbookRequest]) (*connect.Response[api.ExportWorkbookResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin, models.RoleCFO); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	wb, err := export.Collect(s.engine, s.aggregator, finance.LastMonths(s.window), now.Location())
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to collect workbook data", err)
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, wb); err != nil {
		return nil, toConnectError(s.logger, "Failed to render workbook", err)
	}
	return connect.NewResponse(&api.ExportWorkbookResponse{
		FileName: fmt.Sprintf("mycese_financas_%s.xlsx", now.Format(time.DateOnly)),
		Data:     buf.Bytes(),
	}), nil
}
