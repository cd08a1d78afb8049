package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bookkeeper/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	reports []model.TaxReport
}

func (f *fakeReportRepo) Create(_ context.Context, report *model.TaxReport) error {
	report.ID = uuid.New()
	report.GeneratedAt = time.Now()
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeReportRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]model.TaxReport, int64, error) {
	var out []model.TaxReport
	for _, r := range f.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func newReportFixture() (ReportService, LedgerService, *fakeReportRepo, *fakeJurisdictionRepo) {
	ledger := NewLedgerService(&fakeLedgerRepo{}, &fakeAuditRepo{}, passthroughTx{}, NopBroadcaster{})
	reportRepo := &fakeReportRepo{}
	nl := &model.Jurisdiction{ID: uuid.New(), Name: "Netherlands", CountryCode: "NL", CurrencyCode: "EUR"}
	uk := &model.Jurisdiction{ID: uuid.New(), Name: "United Kingdom", CountryCode: "UK", CurrencyCode: "GBP"}
	jurisdictions := &fakeJurisdictionRepo{byCode: map[string]*model.Jurisdiction{"NL": nl, "UK": uk}}
	svc := NewReportService(reportRepo, jurisdictions, &fakeAuditRepo{}, ledger)
	return svc, ledger, reportRepo, jurisdictions
}

func seedEntries(t *testing.T, ledger LedgerService, userID string) {
	t.Helper()
	entries := []CreateEntryRequest{
		{EntryType: "income", EntryDate: "2024-01-15", Amount: 500000, Currency: "GBP", Jurisdiction: "UK", Category: "consulting"},
		{EntryType: "income", EntryDate: "2024-02-15", Amount: 300000, Currency: "EUR", ExchangeRate: "0.86", Jurisdiction: "NL", Category: "consulting"},
		{EntryType: "expense", EntryDate: "2024-02-20", Amount: 45000, Currency: "GBP", Jurisdiction: "UK", Category: "software"},
	}
	for _, e := range entries {
		_, err := ledger.CreateEntry(context.Background(), userID, e)
		require.NoError(t, err)
	}
}

func TestReportSummary(t *testing.T) {
	svc, ledger, _, _ := newReportFixture()
	userID := uuid.New().String()
	seedEntries(t, ledger, userID)

	summary, err := svc.Summary(context.Background(), userID, mustDate(t, "2024-01-01"), mustDate(t, "2024-03-31"), nil)
	require.NoError(t, err)

	// 5000.00 + 2580.00 income, 450.00 expenses, all in GBP.
	assert.True(t, decimal.NewFromFloat(7580.00).Equal(summary.TotalIncome), "income %s", summary.TotalIncome)
	assert.True(t, decimal.NewFromFloat(450.00).Equal(summary.TotalExpenses))
	assert.True(t, decimal.NewFromFloat(7130.00).Equal(summary.NetProfit))
	assert.Equal(t, 3, summary.TransactionCount)
}

func TestReportSummaryJurisdictionFilter(t *testing.T) {
	svc, ledger, _, _ := newReportFixture()
	userID := uuid.New().String()
	seedEntries(t, ledger, userID)

	nl := "NL"
	summary, err := svc.Summary(context.Background(), userID, mustDate(t, "2024-01-01"), mustDate(t, "2024-03-31"), &nl)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TransactionCount)
	assert.True(t, decimal.NewFromFloat(2580.00).Equal(summary.TotalIncome))
	assert.Len(t, summary.ByJurisdiction, 1)
}

func TestGenerateReportPersistsSnapshot(t *testing.T) {
	svc, ledger, reportRepo, jurisdictions := newReportFixture()
	userID := uuid.New().String()
	seedEntries(t, ledger, userID)

	nl := "NL"
	resp, err := svc.GenerateReport(context.Background(), userID, mustDate(t, "2024-01-01"), mustDate(t, "2024-03-31"), &nl)
	require.NoError(t, err)

	assert.Equal(t, model.ReportTypePeriodSummary, resp.ReportType)
	require.NotNil(t, resp.JurisdictionID)
	assert.Equal(t, jurisdictions.byCode["NL"].ID.String(), *resp.JurisdictionID)

	require.Len(t, reportRepo.reports, 1)
	var stored map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(reportRepo.reports[0].ReportData), &stored))
	assert.Contains(t, stored, "total_income")
	assert.Contains(t, stored, "by_jurisdiction")
}

func TestGenerateReportUnknownJurisdiction(t *testing.T) {
	svc, _, reportRepo, _ := newReportFixture()

	de := "DE"
	_, err := svc.GenerateReport(context.Background(), uuid.New().String(), mustDate(t, "2024-01-01"), mustDate(t, "2024-03-31"), &de)
	assert.ErrorContains(t, err, "unknown jurisdiction")
	assert.Empty(t, reportRepo.reports)
}

func TestListReports(t *testing.T) {
	svc, ledger, _, _ := newReportFixture()
	userID := uuid.New().String()
	seedEntries(t, ledger, userID)

	_, err := svc.GenerateReport(context.Background(), userID, mustDate(t, "2024-01-01"), mustDate(t, "2024-03-31"), nil)
	require.NoError(t, err)
	_, err = svc.GenerateReport(context.Background(), userID, mustDate(t, "2024-04-01"), mustDate(t, "2024-06-30"), nil)
	require.NoError(t, err)

	list, total, err := svc.ListReports(context.Background(), userID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	// Someone else's reports stay invisible.
	other, total, err := svc.ListReports(context.Background(), uuid.New().String(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, other)
}
