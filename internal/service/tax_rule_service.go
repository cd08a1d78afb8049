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
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateTaxRuleRequest struct {
	JurisdictionID string `json:"jurisdiction_id" binding:"required"`
	RuleType       string `json:"rule_type" binding:"required,oneof=wage_tax social_security thirty_percent_ruling vat corporation_tax double_taxation_treaty"`
	Description    string `json:"description"`
	ValidFrom      string `json:"valid_from" binding:"required"` // YYYY-MM-DD
	ValidTo        string `json:"valid_to"`                      // YYYY-MM-DD, nullable
	Details        string `json:"details" binding:"required"`    // JSON payload, shape depends on rule_type
}

type UpdateTaxRuleRequest struct {
	RuleType    string `json:"rule_type" binding:"required,oneof=wage_tax social_security thirty_percent_ruling vat corporation_tax double_taxation_treaty"`
	Description string `json:"description"`
	ValidFrom   string `json:"valid_from" binding:"required"`
	ValidTo     string `json:"valid_to"`
	Details     string `json:"details" binding:"required"`
}

type TaxRuleResponse struct {
	ID             string          `json:"id"`
	JurisdictionID string          `json:"jurisdiction_id"`
	RuleType       string          `json:"rule_type"`
	Description    string          `json:"description"`
	ValidFrom      string          `json:"valid_from"`
	ValidTo        *string         `json:"valid_to"`
	Details        json.RawMessage `json:"details"`
	CreatedAt      string          `json:"created_at"`
}

// --- Interface ---

type TaxRuleService interface {
	ListByJurisdiction(ctx context.Context, jurisdictionID string, page, limit int) ([]TaxRuleResponse, int64, error)
	CreateTaxRule(ctx context.Context, req CreateTaxRuleRequest, userID string) (TaxRuleResponse, error)
	UpdateTaxRule(ctx context.Context, id string, req UpdateTaxRuleRequest, userID string) (TaxRuleResponse, error)
	DeleteTaxRule(ctx context.Context, id string, userID string) error
	ActiveRuleSet(ctx context.Context, jurisdictionID uuid.UUID, onDate time.Time) (taxcalc.RuleSet, error)
}

type taxRuleService struct {
	ruleRepo  repository.TaxRuleRepository
	auditRepo repository.AuditRepository
}

func NewTaxRuleService(ruleRepo repository.TaxRuleRepository, auditRepo repository.AuditRepository) TaxRuleService {
	return &taxRuleService{ruleRepo: ruleRepo, auditRepo: auditRepo}
}

// --- Implementation ---

func (s *taxRuleService) ListByJurisdiction(ctx context.Context, jurisdictionID string, page, limit int) ([]TaxRuleResponse, int64, error) {
	jid, err := uuid.Parse(jurisdictionID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid jurisdiction id: %w", err)
	}

	rules, total, err := s.ruleRepo.ListByJurisdiction(ctx, jid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tax rules: %w", err)
	}

	res := make([]TaxRuleResponse, 0, len(rules))
	for _, r := range rules {
		res = append(res, toTaxRuleResponse(r))
	}
	return res, total, nil
}

func (s *taxRuleService) CreateTaxRule(ctx context.Context, req CreateTaxRuleRequest, userID string) (TaxRuleResponse, error) {
	jid, err := uuid.Parse(req.JurisdictionID)
	if err != nil {
		return TaxRuleResponse{}, fmt.Errorf("invalid jurisdiction id: %w", err)
	}

	validFrom, validTo, err := parseValidityWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return TaxRuleResponse{}, err
	}

	if err := validateRuleDetails(req.RuleType, req.Details); err != nil {
		return TaxRuleResponse{}, err
	}

	if err := s.checkOverlap(ctx, jid, req.RuleType, validFrom, validTo, nil); err != nil {
		return TaxRuleResponse{}, err
	}

	rule := model.TaxRule{
		JurisdictionID: jid,
		RuleType:       req.RuleType,
		Description:    req.Description,
		ValidFrom:      validFrom,
		ValidTo:        validTo,
		Details:        req.Details,
	}
	if err := s.ruleRepo.Create(ctx, &rule); err != nil {
		return TaxRuleResponse{}, fmt.Errorf("failed to create tax rule: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionCreateTaxRule, rule.ID.String(), req.RuleType, req)

	return toTaxRuleResponse(rule), nil
}

func (s *taxRuleService) UpdateTaxRule(ctx context.Context, id string, req UpdateTaxRuleRequest, userID string) (TaxRuleResponse, error) {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return TaxRuleResponse{}, fmt.Errorf("invalid tax rule id: %w", err)
	}

	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaxRuleResponse{}, fmt.Errorf("tax rule not found")
		}
		return TaxRuleResponse{}, fmt.Errorf("failed to fetch tax rule: %w", err)
	}

	validFrom, validTo, err := parseValidityWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return TaxRuleResponse{}, err
	}

	if err := validateRuleDetails(req.RuleType, req.Details); err != nil {
		return TaxRuleResponse{}, err
	}

	if err := s.checkOverlap(ctx, rule.JurisdictionID, req.RuleType, validFrom, validTo, &ruleID); err != nil {
		return TaxRuleResponse{}, err
	}

	rule.RuleType = req.RuleType
	rule.Description = req.Description
	rule.ValidFrom = validFrom
	rule.ValidTo = validTo
	rule.Details = req.Details

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return TaxRuleResponse{}, fmt.Errorf("failed to update tax rule: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionUpdateTaxRule, rule.ID.String(), req.RuleType, req)

	return toTaxRuleResponse(*rule), nil
}

func (s *taxRuleService) DeleteTaxRule(ctx context.Context, id string, userID string) error {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid tax rule id: %w", err)
	}

	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("tax rule not found")
		}
		return fmt.Errorf("failed to fetch tax rule: %w", err)
	}

	if err := s.ruleRepo.Delete(ctx, ruleID); err != nil {
		return fmt.Errorf("failed to delete tax rule: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionDeleteTaxRule, rule.ID.String(), rule.RuleType, map[string]string{"deleted_id": id})

	return nil
}

// ActiveRuleSet loads the wage tax and social security rules active on the
// given date and parses their payloads into calculator form. A missing rule
// leaves its slot nil; the calculator reports that as no_applicable_rules
// rather than treating it as zero tax.
func (s *taxRuleService) ActiveRuleSet(ctx context.Context, jurisdictionID uuid.UUID, onDate time.Time) (taxcalc.RuleSet, error) {
	var rules taxcalc.RuleSet

	wageRule, err := s.ruleRepo.FindActive(ctx, jurisdictionID, model.RuleTypeWageTax, onDate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return taxcalc.RuleSet{}, fmt.Errorf("failed to query wage tax rule: %w", err)
	}
	if wageRule != nil {
		var details taxcalc.WageTaxDetails
		if err := json.Unmarshal([]byte(wageRule.Details), &details); err != nil {
			return taxcalc.RuleSet{}, fmt.Errorf("malformed wage_tax rule details (%s): %w", wageRule.ID, err)
		}
		rules.WageTax = &details
	}

	socialRule, err := s.ruleRepo.FindActive(ctx, jurisdictionID, model.RuleTypeSocialSecurity, onDate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return taxcalc.RuleSet{}, fmt.Errorf("failed to query social security rule: %w", err)
	}
	if socialRule != nil {
		var details taxcalc.SocialSecurityDetails
		if err := json.Unmarshal([]byte(socialRule.Details), &details); err != nil {
			return taxcalc.RuleSet{}, fmt.Errorf("malformed social_security rule details (%s): %w", socialRule.ID, err)
		}
		rules.SocialSecurity = &details
	}

	return rules, nil
}

// --- Helpers ---

func parseValidityWindow(fromStr, toStr string) (time.Time, *time.Time, error) {
	validFrom, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid valid_from date format (expected YYYY-MM-DD): %w", err)
	}

	var validTo *time.Time
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("invalid valid_to date format (expected YYYY-MM-DD): %w", err)
		}
		if !t.After(validFrom) {
			return time.Time{}, nil, fmt.Errorf("valid_to must be after valid_from")
		}
		validTo = &t
	}

	return validFrom, validTo, nil
}

// validateRuleDetails rejects rule payloads the calculator would later fail
// on. Calculator-facing rule types get full structural validation; the rest
// only need to be well-formed JSON.
func validateRuleDetails(ruleType, details string) error {
	switch ruleType {
	case model.RuleTypeWageTax:
		var d taxcalc.WageTaxDetails
		if err := json.Unmarshal([]byte(details), &d); err != nil {
			return fmt.Errorf("invalid wage_tax details: %w", err)
		}
		if err := taxcalc.ValidateWageTaxDetails(&d); err != nil {
			return fmt.Errorf("invalid wage_tax details: %w", err)
		}
	case model.RuleTypeSocialSecurity:
		var d taxcalc.SocialSecurityDetails
		if err := json.Unmarshal([]byte(details), &d); err != nil {
			return fmt.Errorf("invalid social_security details: %w", err)
		}
		if err := taxcalc.ValidateSocialSecurityDetails(&d); err != nil {
			return fmt.Errorf("invalid social_security details: %w", err)
		}
	default:
		if !json.Valid([]byte(details)) {
			return fmt.Errorf("rule details must be valid JSON")
		}
	}
	return nil
}

func (s *taxRuleService) checkOverlap(ctx context.Context, jurisdictionID uuid.UUID, ruleType string, from time.Time, to *time.Time, excludeID *uuid.UUID) error {
	count, err := s.ruleRepo.FindOverlapping(ctx, jurisdictionID, ruleType, from, to, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check overlap: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("a %s rule already exists with an overlapping validity window", ruleType)
	}
	return nil
}

func toTaxRuleResponse(r model.TaxRule) TaxRuleResponse {
	resp := TaxRuleResponse{
		ID:             r.ID.String(),
		JurisdictionID: r.JurisdictionID.String(),
		RuleType:       r.RuleType,
		Description:    r.Description,
		ValidFrom:      r.ValidFrom.Format("2006-01-02"),
		Details:        json.RawMessage(r.Details),
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.ValidTo != nil {
		s := r.ValidTo.Format("2006-01-02")
		resp.ValidTo = &s
	}
	return resp
}

func (s *taxRuleService) writeAuditLog(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	// Best-effort audit log — don't fail the operation if logging fails
	_ = s.auditRepo.Log(ctx, &entry)
}
