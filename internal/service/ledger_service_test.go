package service

import (
	"context"
	"testing"

	"bookkeeper/internal/model"
	"bookkeeper/internal/reporting"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture() (LedgerService, *fakeLedgerRepo, *fakeAuditRepo, *recordingBroadcaster) {
	entryRepo := &fakeLedgerRepo{}
	auditRepo := &fakeAuditRepo{}
	events := &recordingBroadcaster{}
	return NewLedgerService(entryRepo, auditRepo, passthroughTx{}, events), entryRepo, auditRepo, events
}

func TestLedgerCreateEntryGBP(t *testing.T) {
	svc, entryRepo, auditRepo, events := newLedgerFixture()

	resp, err := svc.CreateEntry(context.Background(), uuid.New().String(), CreateEntryRequest{
		EntryType:    "income",
		EntryDate:    "2024-03-15",
		Amount:       500000,
		Currency:     "GBP",
		Jurisdiction: "UK",
		Category:     "consulting",
		Description:  "March invoice",
	})
	require.NoError(t, err)

	assert.Equal(t, "5000.00", resp.Amount)
	require.NotNil(t, resp.AmountBase)
	assert.Equal(t, "5000.00", *resp.AmountBase)

	require.Len(t, entryRepo.entries, 1)
	require.NotNil(t, entryRepo.entries[0].AmountBase)
	assert.Equal(t, int64(500000), *entryRepo.entries[0].AmountBase)

	require.Len(t, auditRepo.logs, 1)
	assert.Equal(t, model.ActionCreateEntry, auditRepo.logs[0].Action)
	assert.Equal(t, []string{"entry_created"}, events.events)
}

func TestLedgerCreateEntryEURWithRate(t *testing.T) {
	svc, entryRepo, _, _ := newLedgerFixture()

	resp, err := svc.CreateEntry(context.Background(), uuid.New().String(), CreateEntryRequest{
		EntryType:    "expense",
		EntryDate:    "2024-03-15",
		Amount:       10000,
		Currency:     "EUR",
		ExchangeRate: "0.86",
		Jurisdiction: "NL",
		Category:     "software",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.AmountBase)
	assert.Equal(t, "86.00", *resp.AmountBase)
	require.Len(t, entryRepo.entries, 1)
	assert.Equal(t, int64(8600), *entryRepo.entries[0].AmountBase)
}

func TestLedgerCreateEntryEURWithoutRateFails(t *testing.T) {
	// Non-base currency without a rate must be rejected at creation time, not
	// stored and misreported at 1:1 later.
	svc, entryRepo, _, events := newLedgerFixture()

	_, err := svc.CreateEntry(context.Background(), uuid.New().String(), CreateEntryRequest{
		EntryType:    "expense",
		EntryDate:    "2024-03-15",
		Amount:       10000,
		Currency:     "EUR",
		Jurisdiction: "NL",
		Category:     "software",
	})
	assert.ErrorIs(t, err, reporting.ErrMissingExchangeRate)
	assert.Empty(t, entryRepo.entries)
	assert.Empty(t, events.events)
}

func TestLedgerCreateEntryInvalidRate(t *testing.T) {
	svc, _, _, _ := newLedgerFixture()

	_, err := svc.CreateEntry(context.Background(), uuid.New().String(), CreateEntryRequest{
		EntryType:    "expense",
		EntryDate:    "2024-03-15",
		Amount:       10000,
		Currency:     "EUR",
		ExchangeRate: "-1",
		Jurisdiction: "NL",
		Category:     "software",
	})
	assert.ErrorIs(t, err, reporting.ErrMissingExchangeRate)

	_, err = svc.CreateEntry(context.Background(), uuid.New().String(), CreateEntryRequest{
		EntryType:    "expense",
		EntryDate:    "2024-03-15",
		Amount:       10000,
		Currency:     "EUR",
		ExchangeRate: "not-a-number",
		Jurisdiction: "NL",
		Category:     "software",
	})
	assert.ErrorContains(t, err, "invalid exchange_rate")
}

func TestLedgerCreateEntryBadDate(t *testing.T) {
	svc, _, _, _ := newLedgerFixture()

	_, err := svc.CreateEntry(context.Background(), uuid.New().String(), CreateEntryRequest{
		EntryType:    "income",
		EntryDate:    "15/03/2024",
		Amount:       10000,
		Currency:     "GBP",
		Jurisdiction: "UK",
		Category:     "consulting",
	})
	assert.ErrorContains(t, err, "entry_date")
}

func TestLedgerEntriesByPeriodFilters(t *testing.T) {
	svc, _, _, _ := newLedgerFixture()
	userID := uuid.New().String()

	create := func(date, currency, rate, jurisdiction string) {
		req := CreateEntryRequest{
			EntryType:    "income",
			EntryDate:    date,
			Amount:       10000,
			Currency:     currency,
			ExchangeRate: rate,
			Jurisdiction: jurisdiction,
			Category:     "consulting",
		}
		_, err := svc.CreateEntry(context.Background(), userID, req)
		require.NoError(t, err)
	}

	create("2024-01-10", "GBP", "", "UK")
	create("2024-02-10", "EUR", "0.86", "NL")
	create("2024-05-10", "GBP", "", "UK")

	start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-03-31")

	all, err := svc.EntriesByPeriod(context.Background(), userID, start, end, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	nl := "NL"
	filtered, err := svc.EntriesByPeriod(context.Background(), userID, start, end, &nl)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "NL", filtered[0].Jurisdiction)
}
