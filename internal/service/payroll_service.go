package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookkeeper/internal/model"
	"bookkeeper/internal/repository"
	"bookkeeper/internal/taxcalc"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CalculatePayrollRequest struct {
	EmployeeName        string `json:"employee_name" binding:"required"`
	Jurisdiction        string `json:"jurisdiction" binding:"required"`
	GrossSalary         int64  `json:"gross_salary" binding:"min=0"` // minor units; zero is a valid salary
	Currency            string `json:"currency" binding:"required"`
	ThirtyPercentRuling bool   `json:"thirty_percent_ruling"`
	PeriodStart         string `json:"period_start" binding:"required"` // YYYY-MM-DD
	PeriodEnd           string `json:"period_end" binding:"required"`   // YYYY-MM-DD
}

// PayrollResponse carries major-unit decimals; the stored record keeps the
// exact minor-unit breakdown.
type PayrollResponse struct {
	ID             string   `json:"id"`
	EmployeeName   string   `json:"employee_name"`
	Jurisdiction   string   `json:"jurisdiction"`
	Currency       string   `json:"currency"`
	GrossSalary    string   `json:"gross_salary"`
	WageTax        string   `json:"wage_tax"`
	SocialSecurity string   `json:"social_security"`
	NetSalary      string   `json:"net_salary"`
	Status         string   `json:"status"`
	MissingRules   []string `json:"missing_rules,omitempty"`
	PeriodStart    string   `json:"period_start"`
	PeriodEnd      string   `json:"period_end"`
	CreatedAt      string   `json:"created_at"`
}

// --- Interface ---

type PayrollService interface {
	Calculate(ctx context.Context, userID string, req CalculatePayrollRequest) (PayrollResponse, error)
	ListCalculations(ctx context.Context, userID string, page, limit int) ([]PayrollResponse, int64, error)
}

type payrollService struct {
	payrollRepo      repository.PayrollRepository
	jurisdictionRepo repository.JurisdictionRepository
	auditRepo        repository.AuditRepository
	txManager        repository.TransactionManager
	taxRules         TaxRuleService
	events           EventBroadcaster
}

func NewPayrollService(
	payrollRepo repository.PayrollRepository,
	jurisdictionRepo repository.JurisdictionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	taxRules TaxRuleService,
	events EventBroadcaster,
) PayrollService {
	return &payrollService{
		payrollRepo:      payrollRepo,
		jurisdictionRepo: jurisdictionRepo,
		auditRepo:        auditRepo,
		txManager:        txManager,
		taxRules:         taxRules,
		events:           events,
	}
}

// --- Implementation ---

func (s *payrollService) Calculate(ctx context.Context, userID string, req CalculatePayrollRequest) (PayrollResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return PayrollResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	if !taxcalc.SupportedJurisdiction(req.Jurisdiction) {
		return PayrollResponse{}, fmt.Errorf("unsupported jurisdiction %q", req.Jurisdiction)
	}

	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return PayrollResponse{}, fmt.Errorf("invalid period_start date format (expected YYYY-MM-DD): %w", err)
	}
	periodEnd, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return PayrollResponse{}, fmt.Errorf("invalid period_end date format (expected YYYY-MM-DD): %w", err)
	}
	if periodEnd.Before(periodStart) {
		return PayrollResponse{}, fmt.Errorf("period_end must not be before period_start")
	}

	// Rule versions are selected for the pay period, not the wall clock, so
	// recalculating an old period reproduces the rules in force back then.
	rules := taxcalc.RuleSet{}
	jurisdiction, err := s.jurisdictionRepo.FindByCode(ctx, req.Jurisdiction)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, fmt.Errorf("failed to look up jurisdiction: %w", err)
		}
	} else {
		rules, err = s.taxRules.ActiveRuleSet(ctx, jurisdiction.ID, periodStart)
		if err != nil {
			return PayrollResponse{}, err
		}
	}

	result, err := taxcalc.Calculate(req.GrossSalary, req.Jurisdiction, req.ThirtyPercentRuling, rules)
	if err != nil {
		return PayrollResponse{}, err
	}

	details, _ := json.Marshal(map[string]interface{}{
		"gross_salary":          minorToMajorString(result.GrossSalary),
		"taxable_income":        minorToMajorString(result.TaxableIncome),
		"wage_tax":              minorToMajorString(result.WageTax),
		"social_security":       minorToMajorString(result.SocialSecurity),
		"net_salary":            minorToMajorString(result.NetSalary),
		"thirty_percent_ruling": req.ThirtyPercentRuling,
		"missing_rules":         result.MissingRules,
	})

	calc := model.PayrollCalculation{
		UserID:              uid,
		EmployeeName:        req.EmployeeName,
		Jurisdiction:        req.Jurisdiction,
		Currency:            req.Currency,
		GrossSalary:         result.GrossSalary,
		WageTax:             result.WageTax,
		SocialSecurity:      result.SocialSecurity,
		NetSalary:           result.NetSalary,
		ThirtyPercentRuling: req.ThirtyPercentRuling,
		Status:              string(result.Status),
		Details:             string(details),
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.payrollRepo.Create(txCtx, &calc); createErr != nil {
			return fmt.Errorf("failed to persist payroll calculation: %w", createErr)
		}

		auditDetails, _ := json.Marshal(map[string]interface{}{
			"employee_name": req.EmployeeName,
			"jurisdiction":  req.Jurisdiction,
			"gross_salary":  req.GrossSalary,
			"status":        calc.Status,
		})
		audit := &model.AuditLog{
			UserID:     &uid,
			Action:     model.ActionCalcPayroll,
			EntityID:   calc.ID.String(),
			EntityName: req.EmployeeName,
			Details:    string(auditDetails),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	s.events.BroadcastEvent("payroll_calculated", map[string]interface{}{
		"id":           calc.ID.String(),
		"jurisdiction": calc.Jurisdiction,
		"status":       calc.Status,
	})

	resp := toPayrollResponse(calc)
	resp.MissingRules = result.MissingRules
	return resp, nil
}

func (s *payrollService) ListCalculations(ctx context.Context, userID string, page, limit int) ([]PayrollResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	calcs, total, err := s.payrollRepo.ListByUser(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payroll calculations: %w", err)
	}

	res := make([]PayrollResponse, 0, len(calcs))
	for _, c := range calcs {
		res = append(res, toPayrollResponse(c))
	}
	return res, total, nil
}

// --- Helpers ---

func toPayrollResponse(c model.PayrollCalculation) PayrollResponse {
	return PayrollResponse{
		ID:             c.ID.String(),
		EmployeeName:   c.EmployeeName,
		Jurisdiction:   c.Jurisdiction,
		Currency:       c.Currency,
		GrossSalary:    minorToMajorString(c.GrossSalary),
		WageTax:        minorToMajorString(c.WageTax),
		SocialSecurity: minorToMajorString(c.SocialSecurity),
		NetSalary:      minorToMajorString(c.NetSalary),
		Status:         c.Status,
		PeriodStart:    c.PeriodStart.Format("2006-01-02"),
		PeriodEnd:      c.PeriodEnd.Format("2006-01-02"),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

// minorToMajorString renders integer minor units as a major-unit decimal
// string ("154500" -> "1545.00").
func minorToMajorString(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}
