package model

import (
	"time"

	"github.com/google/uuid"
)

// RuleType enum constants
const (
	RuleTypeWageTax         = "wage_tax"
	RuleTypeSocialSecurity  = "social_security"
	RuleTypeThirtyPctRuling = "thirty_percent_ruling"
	RuleTypeVAT             = "vat"
	RuleTypeCorporationTax  = "corporation_tax"
	RuleTypeDoubleTaxTreaty = "double_taxation_treaty"
)

// TaxRule stores jurisdiction-specific tax rules with temporal validity.
// Details holds a JSON payload whose shape depends on RuleType (bracket tables,
// flat rates, caps). A rule is active on date d when valid_from <= d AND
// (valid_to IS NULL OR valid_to > d).
type TaxRule struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JurisdictionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"jurisdiction_id"`
	RuleType       string     `gorm:"type:varchar(50);not null;index" json:"rule_type"`
	Description    string     `gorm:"type:text" json:"description"`
	ValidFrom      time.Time  `gorm:"type:date;not null;index" json:"valid_from"`
	ValidTo        *time.Time `gorm:"type:date;index" json:"valid_to"` // nullable = open-ended
	Details        string     `gorm:"type:jsonb;not null" json:"details"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
