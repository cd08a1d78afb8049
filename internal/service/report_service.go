package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookkeeper/internal/model"
	"bookkeeper/internal/reporting"
	"bookkeeper/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Interface ---

type ReportService interface {
	Summary(ctx context.Context, userID string, start, end time.Time, jurisdiction *string) (reporting.Summary, error)
	GenerateReport(ctx context.Context, userID string, start, end time.Time, jurisdiction *string) (TaxReportResponse, error)
	ListReports(ctx context.Context, userID string, page, limit int) ([]TaxReportResponse, int64, error)
}

type TaxReportResponse struct {
	ID             string          `json:"id"`
	JurisdictionID *string         `json:"jurisdiction_id"`
	ReportType     string          `json:"report_type"`
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	ReportData     json.RawMessage `json:"report_data"`
	GeneratedAt    string          `json:"generated_at"`
}

type reportService struct {
	reportRepo       repository.ReportRepository
	jurisdictionRepo repository.JurisdictionRepository
	auditRepo        repository.AuditRepository
	ledger           LedgerService
}

func NewReportService(
	reportRepo repository.ReportRepository,
	jurisdictionRepo repository.JurisdictionRepository,
	auditRepo repository.AuditRepository,
	ledger LedgerService,
) ReportService {
	return &reportService{
		reportRepo:       reportRepo,
		jurisdictionRepo: jurisdictionRepo,
		auditRepo:        auditRepo,
		ledger:           ledger,
	}
}

// --- Implementation ---

// Summary computes the period fold fresh on every call; nothing is cached.
func (s *reportService) Summary(ctx context.Context, userID string, start, end time.Time, jurisdiction *string) (reporting.Summary, error) {
	entries, err := s.ledger.EntriesByPeriod(ctx, userID, start, end, jurisdiction)
	if err != nil {
		return reporting.Summary{}, fmt.Errorf("failed to fetch entries: %w", err)
	}
	return reporting.Summarize(toReportingEntries(entries)), nil
}

// GenerateReport computes a summary and persists it as an immutable report
// snapshot.
func (s *reportService) GenerateReport(ctx context.Context, userID string, start, end time.Time, jurisdiction *string) (TaxReportResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return TaxReportResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	summary, err := s.Summary(ctx, userID, start, end, jurisdiction)
	if err != nil {
		return TaxReportResponse{}, err
	}

	report := model.TaxReport{
		UserID:      uid,
		ReportType:  model.ReportTypePeriodSummary,
		PeriodStart: start,
		PeriodEnd:   end,
	}
	if jurisdiction != nil && *jurisdiction != "" {
		j, jErr := s.jurisdictionRepo.FindByCode(ctx, *jurisdiction)
		if jErr != nil {
			if errors.Is(jErr, gorm.ErrRecordNotFound) {
				return TaxReportResponse{}, fmt.Errorf("unknown jurisdiction %q", *jurisdiction)
			}
			return TaxReportResponse{}, fmt.Errorf("failed to look up jurisdiction: %w", jErr)
		}
		report.JurisdictionID = &j.ID
	}

	data, _ := json.Marshal(summary)
	report.ReportData = string(data)

	if err := s.reportRepo.Create(ctx, &report); err != nil {
		return TaxReportResponse{}, fmt.Errorf("failed to persist report: %w", err)
	}

	auditDetails, _ := json.Marshal(map[string]interface{}{
		"period_start": start.Format("2006-01-02"),
		"period_end":   end.Format("2006-01-02"),
	})
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     &uid,
		Action:     model.ActionGenerateReport,
		EntityID:   report.ID.String(),
		EntityName: report.ReportType,
		Details:    string(auditDetails),
	})

	return toTaxReportResponse(report), nil
}

func (s *reportService) ListReports(ctx context.Context, userID string, page, limit int) ([]TaxReportResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	reports, total, err := s.reportRepo.ListByUser(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reports: %w", err)
	}

	res := make([]TaxReportResponse, 0, len(reports))
	for _, r := range reports {
		res = append(res, toTaxReportResponse(r))
	}
	return res, total, nil
}

// --- Helpers ---

func toReportingEntries(entries []model.LedgerEntry) []reporting.Entry {
	out := make([]reporting.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, reporting.Entry{
			EntryType:    e.EntryType,
			Amount:       e.Amount,
			AmountBase:   e.AmountBase,
			Jurisdiction: e.Jurisdiction,
			Category:     e.Category,
		})
	}
	return out
}

func toTaxReportResponse(r model.TaxReport) TaxReportResponse {
	resp := TaxReportResponse{
		ID:          r.ID.String(),
		ReportType:  r.ReportType,
		PeriodStart: r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   r.PeriodEnd.Format("2006-01-02"),
		ReportData:  json.RawMessage(r.ReportData),
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
	}
	if r.JurisdictionID != nil {
		s := r.JurisdictionID.String()
		resp.JurisdictionID = &s
	}
	return resp
}
