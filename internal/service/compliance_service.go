package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookkeeper/internal/model"
	"bookkeeper/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateComplianceCheckRequest struct {
	CheckName   string `json:"check_name" binding:"required"`
	Description string `json:"description"`
	RuleID      string `json:"rule_id"` // optional link to the tax rule being verified
}

type RecordComplianceResultRequest struct {
	Status string `json:"status" binding:"required,oneof=pass fail warning pending"`
	Result string `json:"result"` // JSON payload with the detailed findings
}

type ComplianceCheckResponse struct {
	ID          string `json:"id"`
	CheckName   string `json:"check_name"`
	Description string `json:"description,omitempty"`
	RuleID      string `json:"rule_id,omitempty"`
	LastRun     string `json:"last_run,omitempty"`
	Status      string `json:"status"`
	Result      string `json:"result,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type ComplianceService interface {
	ListChecks(ctx context.Context) ([]ComplianceCheckResponse, error)
	CreateCheck(ctx context.Context, userID string, req CreateComplianceCheckRequest) (ComplianceCheckResponse, error)
	RecordResult(ctx context.Context, userID, checkID string, req RecordComplianceResultRequest) (ComplianceCheckResponse, error)
}

type complianceService struct {
	complianceRepo repository.ComplianceRepository
	taxRuleRepo    repository.TaxRuleRepository
	auditRepo      repository.AuditRepository
}

func NewComplianceService(
	complianceRepo repository.ComplianceRepository,
	taxRuleRepo repository.TaxRuleRepository,
	auditRepo repository.AuditRepository,
) ComplianceService {
	return &complianceService{
		complianceRepo: complianceRepo,
		taxRuleRepo:    taxRuleRepo,
		auditRepo:      auditRepo,
	}
}

func (s *complianceService) ListChecks(ctx context.Context) ([]ComplianceCheckResponse, error) {
	checks, err := s.complianceRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch compliance checks: %w", err)
	}

	res := make([]ComplianceCheckResponse, 0, len(checks))
	for _, c := range checks {
		res = append(res, toComplianceCheckResponse(&c))
	}
	return res, nil
}

func (s *complianceService) CreateCheck(ctx context.Context, userID string, req CreateComplianceCheckRequest) (ComplianceCheckResponse, error) {
	check := model.ComplianceCheck{
		CheckName:   req.CheckName,
		Description: req.Description,
		Status:      model.ComplianceStatusPending,
	}

	if req.RuleID != "" {
		ruleID, err := uuid.Parse(req.RuleID)
		if err != nil {
			return ComplianceCheckResponse{}, errors.New("invalid rule id")
		}
		if _, err := s.taxRuleRepo.FindByID(ctx, ruleID); err != nil {
			return ComplianceCheckResponse{}, errors.New("rule not found")
		}
		check.RuleID = &ruleID
	}

	if err := s.complianceRepo.Create(ctx, &check); err != nil {
		return ComplianceCheckResponse{}, fmt.Errorf("failed to create compliance check: %w", err)
	}

	s.writeComplianceAudit(ctx, userID, model.ActionCreateComplianceCheck, check.ID.String(), check.CheckName, req)
	return toComplianceCheckResponse(&check), nil
}

func (s *complianceService) RecordResult(ctx context.Context, userID, checkID string, req RecordComplianceResultRequest) (ComplianceCheckResponse, error) {
	id, err := uuid.Parse(checkID)
	if err != nil {
		return ComplianceCheckResponse{}, errors.New("invalid check id")
	}

	check, err := s.complianceRepo.FindByID(ctx, id)
	if err != nil {
		return ComplianceCheckResponse{}, errors.New("compliance check not found")
	}

	if req.Result != "" && !json.Valid([]byte(req.Result)) {
		return ComplianceCheckResponse{}, errors.New("result must be valid JSON")
	}

	now := time.Now().UTC()
	check.Status = req.Status
	check.Result = req.Result
	check.LastRun = &now

	if err := s.complianceRepo.Update(ctx, check); err != nil {
		return ComplianceCheckResponse{}, fmt.Errorf("failed to update compliance check: %w", err)
	}

	s.writeComplianceAudit(ctx, userID, model.ActionRecordComplianceResult, check.ID.String(), check.CheckName, req)
	return toComplianceCheckResponse(check), nil
}

func (s *complianceService) writeComplianceAudit(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}
	if parsed, err := uuid.Parse(userID); err == nil {
		entry.UserID = &parsed
	}

	// Best-effort audit log — don't fail the operation if logging fails
	_ = s.auditRepo.Log(ctx, &entry)
}

func toComplianceCheckResponse(c *model.ComplianceCheck) ComplianceCheckResponse {
	res := ComplianceCheckResponse{
		ID:          c.ID.String(),
		CheckName:   c.CheckName,
		Description: c.Description,
		Status:      c.Status,
		Result:      c.Result,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
	if c.RuleID != nil {
		res.RuleID = c.RuleID.String()
	}
	if c.LastRun != nil {
		res.LastRun = c.LastRun.Format(time.RFC3339)
	}
	return res
}
