package model

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceStatus enum constants
const (
	ComplianceStatusPass    = "pass"
	ComplianceStatusFail    = "fail"
	ComplianceStatusWarning = "warning"
	ComplianceStatusPending = "pending"
)

// ComplianceCheck records the outcome of a periodic filing/record check
// (VAT return due, payroll submissions complete, and so on). Result holds a
// JSON payload with the detailed findings. RuleID optionally links the check
// to the tax rule it verifies.
type ComplianceCheck struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CheckName   string     `gorm:"type:varchar(255);not null" json:"check_name"`
	Description string     `gorm:"type:text" json:"description"`
	RuleID      *uuid.UUID `gorm:"type:uuid;index" json:"rule_id"`
	Rule        *TaxRule   `gorm:"foreignKey:RuleID" json:"rule,omitempty"`
	LastRun     *time.Time `json:"last_run"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Result      string     `gorm:"type:jsonb" json:"result"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
