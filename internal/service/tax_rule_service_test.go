package service

import (
	"context"
	"testing"

	"bookkeeper/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidityWindow(t *testing.T) {
	from, to, err := parseValidityWindow("2024-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2024-01-01"), from)
	assert.Nil(t, to)

	from, to, err = parseValidityWindow("2024-01-01", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2024-01-01"), from)
	require.NotNil(t, to)
	assert.Equal(t, mustDate(t, "2025-01-01"), *to)

	_, _, err = parseValidityWindow("01/01/2024", "")
	assert.ErrorContains(t, err, "valid_from")

	_, _, err = parseValidityWindow("2024-01-01", "2024-01-01")
	assert.ErrorContains(t, err, "valid_to must be after valid_from")

	_, _, err = parseValidityWindow("2024-01-01", "2023-06-01")
	assert.ErrorContains(t, err, "valid_to must be after valid_from")
}

func TestValidateRuleDetails(t *testing.T) {
	assert.NoError(t, validateRuleDetails(model.RuleTypeWageTax, nlWageTaxDetails))
	assert.NoError(t, validateRuleDetails(model.RuleTypeSocialSecurity, nlSocialSecurityDetails))
	assert.NoError(t, validateRuleDetails(model.RuleTypeVAT, `{"standard_rate": 0.21}`))

	// Structural problems the calculator would choke on are caught at write time.
	assert.Error(t, validateRuleDetails(model.RuleTypeWageTax, `{"brackets": []}`))
	assert.Error(t, validateRuleDetails(model.RuleTypeWageTax, `{"brackets": [{"threshold": 100, "rate": 0.37}]}`))
	assert.Error(t, validateRuleDetails(model.RuleTypeSocialSecurity, `{"employee_rate": 0.7, "employer_rate": 0.5}`))
	assert.Error(t, validateRuleDetails(model.RuleTypeVAT, `not json`))
}

func TestCreateTaxRuleRejectsOverlap(t *testing.T) {
	ruleRepo := &fakeTaxRuleRepo{}
	auditRepo := &fakeAuditRepo{}
	svc := NewTaxRuleService(ruleRepo, auditRepo)
	jid := uuid.New()
	userID := uuid.New().String()

	_, err := svc.CreateTaxRule(context.Background(), CreateTaxRuleRequest{
		JurisdictionID: jid.String(),
		RuleType:       model.RuleTypeWageTax,
		ValidFrom:      "2024-01-01",
		Details:        nlWageTaxDetails,
	}, userID)
	require.NoError(t, err)

	// Second open-ended wage tax rule for the same jurisdiction overlaps.
	_, err = svc.CreateTaxRule(context.Background(), CreateTaxRuleRequest{
		JurisdictionID: jid.String(),
		RuleType:       model.RuleTypeWageTax,
		ValidFrom:      "2024-06-01",
		Details:        nlWageTaxDetails,
	}, userID)
	assert.Error(t, err)

	// Same window is fine for a different rule type.
	_, err = svc.CreateTaxRule(context.Background(), CreateTaxRuleRequest{
		JurisdictionID: jid.String(),
		RuleType:       model.RuleTypeSocialSecurity,
		ValidFrom:      "2024-01-01",
		Details:        nlSocialSecurityDetails,
	}, userID)
	assert.NoError(t, err)
}

func TestActiveRuleSetValidToBoundary(t *testing.T) {
	// A rule with valid_to = d is no longer active on d: the window is
	// half-open [valid_from, valid_to).
	ruleRepo := &fakeTaxRuleRepo{}
	auditRepo := &fakeAuditRepo{}
	svc := NewTaxRuleService(ruleRepo, auditRepo)
	jid := uuid.New()

	validTo := mustDate(t, "2025-01-01")
	require.NoError(t, ruleRepo.Create(context.Background(), &model.TaxRule{
		JurisdictionID: jid,
		RuleType:       model.RuleTypeWageTax,
		ValidFrom:      mustDate(t, "2024-01-01"),
		ValidTo:        &validTo,
		Details:        nlWageTaxDetails,
	}))

	during, err := svc.ActiveRuleSet(context.Background(), jid, mustDate(t, "2024-12-31"))
	require.NoError(t, err)
	assert.NotNil(t, during.WageTax)

	at, err := svc.ActiveRuleSet(context.Background(), jid, mustDate(t, "2025-01-01"))
	require.NoError(t, err)
	assert.Nil(t, at.WageTax)

	before, err := svc.ActiveRuleSet(context.Background(), jid, mustDate(t, "2023-12-31"))
	require.NoError(t, err)
	assert.Nil(t, before.WageTax)
}

func TestActiveRuleSetMalformedDetails(t *testing.T) {
	ruleRepo := &fakeTaxRuleRepo{}
	svc := NewTaxRuleService(ruleRepo, &fakeAuditRepo{})
	jid := uuid.New()

	require.NoError(t, ruleRepo.Create(context.Background(), &model.TaxRule{
		JurisdictionID: jid,
		RuleType:       model.RuleTypeWageTax,
		ValidFrom:      mustDate(t, "2024-01-01"),
		Details:        `{"brackets": "oops"`,
	}))

	_, err := svc.ActiveRuleSet(context.Background(), jid, mustDate(t, "2024-06-01"))
	assert.ErrorContains(t, err, "malformed wage_tax rule details")
}

func TestUpdateAndDeleteTaxRule(t *testing.T) {
	ruleRepo := &fakeTaxRuleRepo{}
	auditRepo := &fakeAuditRepo{}
	svc := NewTaxRuleService(ruleRepo, auditRepo)
	jid := uuid.New()
	userID := uuid.New().String()

	created, err := svc.CreateTaxRule(context.Background(), CreateTaxRuleRequest{
		JurisdictionID: jid.String(),
		RuleType:       model.RuleTypeWageTax,
		ValidFrom:      "2024-01-01",
		Details:        nlWageTaxDetails,
	}, userID)
	require.NoError(t, err)

	updated, err := svc.UpdateTaxRule(context.Background(), created.ID, UpdateTaxRuleRequest{
		RuleType:    model.RuleTypeWageTax,
		Description: "2024 bracket table",
		ValidFrom:   "2024-01-01",
		ValidTo:     "2025-01-01",
		Details:     nlWageTaxDetails,
	}, userID)
	require.NoError(t, err)
	assert.Equal(t, "2024 bracket table", updated.Description)
	require.NotNil(t, updated.ValidTo)

	require.NoError(t, svc.DeleteTaxRule(context.Background(), created.ID, userID))
	assert.Empty(t, ruleRepo.rules)

	err = svc.DeleteTaxRule(context.Background(), created.ID, userID)
	assert.ErrorContains(t, err, "tax rule not found")

	// Every mutation left an audit record.
	assert.Len(t, auditRepo.logs, 3)
}

func TestMinorToMajorString(t *testing.T) {
	assert.Equal(t, "1545.00", minorToMajorString(154500))
	assert.Equal(t, "0.00", minorToMajorString(0))
	assert.Equal(t, "0.05", minorToMajorString(5))
	assert.Equal(t, "-12.34", minorToMajorString(-1234))
}
