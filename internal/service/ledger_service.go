package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookkeeper/internal/model"
	"bookkeeper/internal/reporting"
	"bookkeeper/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateEntryRequest struct {
	DocumentID   string `json:"document_id"`
	EntryType    string `json:"entry_type" binding:"required,oneof=income expense"`
	EntryDate    string `json:"entry_date" binding:"required"` // YYYY-MM-DD
	Amount       int64  `json:"amount" binding:"required,min=1"` // minor units
	Currency     string `json:"currency" binding:"required,len=3"`
	ExchangeRate string `json:"exchange_rate"` // decimal string, required for non-GBP
	Jurisdiction string `json:"jurisdiction" binding:"required,len=2"`
	Category     string `json:"category" binding:"required"`
	Description  string `json:"description"`
}

type LedgerEntryResponse struct {
	ID           string  `json:"id"`
	DocumentID   *string `json:"document_id"`
	EntryType    string  `json:"entry_type"`
	EntryDate    string  `json:"entry_date"`
	Amount       string  `json:"amount"` // major units, original currency
	Currency     string  `json:"currency"`
	AmountBase   *string `json:"amount_gbp"` // major units, GBP
	ExchangeRate *string `json:"exchange_rate"`
	Jurisdiction string  `json:"jurisdiction"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"created_at"`
}

// --- Interface ---

type LedgerService interface {
	CreateEntry(ctx context.Context, userID string, req CreateEntryRequest) (LedgerEntryResponse, error)
	ListEntries(ctx context.Context, userID string, page, limit int) ([]LedgerEntryResponse, int64, error)
	EntriesByPeriod(ctx context.Context, userID string, start, end time.Time, jurisdiction *string) ([]model.LedgerEntry, error)
}

type ledgerService struct {
	entryRepo repository.LedgerEntryRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	events    EventBroadcaster
}

func NewLedgerService(
	entryRepo repository.LedgerEntryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventBroadcaster,
) LedgerService {
	return &ledgerService{
		entryRepo: entryRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		events:    events,
	}
}

// --- Implementation ---

// CreateEntry books an income or expense line. Non-GBP amounts must arrive
// with an exchange rate so the base amount is fixed at creation time; there is
// no silent 1:1 fallback at report time for new entries.
func (s *ledgerService) CreateEntry(ctx context.Context, userID string, req CreateEntryRequest) (LedgerEntryResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return LedgerEntryResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		return LedgerEntryResponse{}, fmt.Errorf("invalid entry_date format (expected YYYY-MM-DD): %w", err)
	}

	var rate *decimal.Decimal
	if req.ExchangeRate != "" {
		parsed, err := decimal.NewFromString(req.ExchangeRate)
		if err != nil {
			return LedgerEntryResponse{}, fmt.Errorf("invalid exchange_rate: %w", err)
		}
		rate = &parsed
	}

	amountBase, err := reporting.Normalize(req.Amount, req.Currency, rate)
	if err != nil {
		return LedgerEntryResponse{}, err
	}

	entry := model.LedgerEntry{
		UserID:       uid,
		EntryType:    req.EntryType,
		EntryDate:    entryDate,
		Amount:       req.Amount,
		Currency:     req.Currency,
		AmountBase:   &amountBase,
		ExchangeRate: rate,
		Jurisdiction: req.Jurisdiction,
		Category:     req.Category,
		Description:  req.Description,
	}
	if req.DocumentID != "" {
		parsed, parseErr := uuid.Parse(req.DocumentID)
		if parseErr != nil {
			return LedgerEntryResponse{}, fmt.Errorf("invalid document_id: %w", parseErr)
		}
		entry.DocumentID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.entryRepo.Create(txCtx, &entry); createErr != nil {
			return fmt.Errorf("failed to create ledger entry: %w", createErr)
		}

		auditDetails, _ := json.Marshal(map[string]interface{}{
			"entry_type":   req.EntryType,
			"amount":       req.Amount,
			"currency":     req.Currency,
			"jurisdiction": req.Jurisdiction,
			"category":     req.Category,
		})
		audit := &model.AuditLog{
			UserID:     &uid,
			Action:     model.ActionCreateEntry,
			EntityID:   entry.ID.String(),
			EntityName: req.Category,
			Details:    string(auditDetails),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return LedgerEntryResponse{}, err
	}

	s.events.BroadcastEvent("entry_created", map[string]interface{}{
		"id":           entry.ID.String(),
		"entry_type":   entry.EntryType,
		"jurisdiction": entry.Jurisdiction,
	})

	return toLedgerEntryResponse(entry), nil
}

func (s *ledgerService) ListEntries(ctx context.Context, userID string, page, limit int) ([]LedgerEntryResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	entries, total, err := s.entryRepo.ListByUser(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch ledger entries: %w", err)
	}

	res := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toLedgerEntryResponse(e))
	}
	return res, total, nil
}

func (s *ledgerService) EntriesByPeriod(ctx context.Context, userID string, start, end time.Time, jurisdiction *string) ([]model.LedgerEntry, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	return s.entryRepo.FindByPeriod(ctx, uid, start, end, jurisdiction)
}

// --- Helpers ---

func toLedgerEntryResponse(e model.LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:           e.ID.String(),
		EntryType:    e.EntryType,
		EntryDate:    e.EntryDate.Format("2006-01-02"),
		Amount:       minorToMajorString(e.Amount),
		Currency:     e.Currency,
		Jurisdiction: e.Jurisdiction,
		Category:     e.Category,
		Description:  e.Description,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
	if e.DocumentID != nil {
		s := e.DocumentID.String()
		resp.DocumentID = &s
	}
	if e.AmountBase != nil {
		s := minorToMajorString(*e.AmountBase)
		resp.AmountBase = &s
	}
	if e.ExchangeRate != nil {
		s := e.ExchangeRate.StringFixed(6)
		resp.ExchangeRate = &s
	}
	return resp
}
