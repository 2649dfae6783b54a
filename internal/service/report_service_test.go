package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/pkg/api"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

func TestFinanceReports(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	cfoPayments := apiconnect.NewPaymentServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.cfo))
	cfo := apiconnect.NewReportServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.cfo))
	member := apiconnect.NewReportServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.member))

	june := models.Period{Month: 6, Year: 2026}
	_, err := cfoPayments.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{UserID: ts.member.ID, Period: june}))
	require.NoError(t, err)

	_, err = member.GetDashboard(ctx, connect.NewRequest(&api.GetDashboardRequest{}))
	assertCode(t, err, connect.CodePermissionDenied, "")

	summary, err := cfo.GetFinancialSummary(ctx, connect.NewRequest(&api.GetFinancialSummaryRequest{}))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(summary.Msg.Summary.TotalCollected), "collected %s", summary.Msg.Summary.TotalCollected)
	assert.True(t, decimal.NewFromInt(95).Equal(summary.Msg.Summary.ProjectedMonthly), "projected %s", summary.Msg.Summary.ProjectedMonthly)

	delinquency, err := cfo.GetDelinquency(ctx, connect.NewRequest(&api.GetDelinquencyRequest{Months: 3, End: &june}))
	require.NoError(t, err)
	require.Len(t, delinquency.Msg.Months, 3)
	last := delinquency.Msg.Months[2]
	assert.Equal(t, june, last.Period)
	assert.Equal(t, 1, last.Paid)

	_, err = cfo.GetRevenueVsProjection(ctx, connect.NewRequest(&api.GetRevenueVsProjectionRequest{Months: 61}))
	assertCode(t, err, connect.CodeInvalidArgument, "")

	revenue, err := cfo.GetRevenueVsProjection(ctx, connect.NewRequest(&api.GetRevenueVsProjectionRequest{}))
	require.NoError(t, err)
	assert.Len(t, revenue.Msg.Months, 6)

	faculties, err := cfo.GetFacultyComparison(ctx, connect.NewRequest(&api.GetFacultyComparisonRequest{}))
	require.NoError(t, err)
	assert.Len(t, faculties.Msg.Faculties, len(models.Faculties()))

	dashboard, err := cfo.GetDashboard(ctx, connect.NewRequest(&api.GetDashboardRequest{}))
	require.NoError(t, err)
	assert.NotEmpty(t, dashboard.Msg.Dashboard)

	_, err = cfo.GetFinanceOverview(ctx, connect.NewRequest(&api.GetFinanceOverviewRequest{}))
	require.NoError(t, err)
}

func TestExports(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	admin := apiconnect.NewReportServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.admin))
	cfo := apiconnect.NewReportServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.cfo))

	_, err := cfo.ExportBackup(ctx, connect.NewRequest(&api.ExportBackupRequest{}))
	assertCode(t, err, connect.CodePermissionDenied, "")

	backup, err := admin.ExportBackup(ctx, connect.NewRequest(&api.ExportBackupRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "mycese_backup_2026-06-15.json", backup.Msg.FileName)
	assert.Contains(t, string(backup.Msg.Data), ts.member.Email)
	assert.NotContains(t, string(backup.Msg.Data), "passwordHash")

	workbook, err := cfo.ExportWorkbook(ctx, connect.NewRequest(&api.ExportWorkbookRequest{}))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(workbook.Msg.FileName, ".xlsx"))
	f, err := excelize.OpenReader(bytes.NewReader(workbook.Msg.Data))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Pagamentos")
}

func TestListLogs(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	admin := apiconnect.NewReportServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.admin))
	member := apiconnect.NewReportServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.member))

	_, err := member.ListLogs(ctx, connect.NewRequest(&api.ListLogsRequest{}))
	assertCode(t, err, connect.CodePermissionDenied, "")

	logs, err := admin.ListLogs(ctx, connect.NewRequest(&api.ListLogsRequest{Limit: 2}))
	require.NoError(t, err)
	require.Len(t, logs.Msg.Entries, 2)
	// Newest first: the last account created in setup.
	assert.Contains(t, logs.Msg.Entries[0].Action, ts.member.Email)
}
