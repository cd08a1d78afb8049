package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportType enum constants
const (
	ReportTypeQuarterlyVAT  = "quarterly_vat"
	ReportTypeAnnualSummary = "annual_summary"
	ReportTypePeriodSummary = "period_summary"
)

// TaxReport is a persisted snapshot of a generated period report. The summary
// payload is computed fresh at generation time and stored verbatim.
type TaxReport struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	JurisdictionID *uuid.UUID `gorm:"type:uuid;index" json:"jurisdiction_id"` // nil = all jurisdictions

	ReportType  string    `gorm:"type:varchar(50);not null" json:"report_type"`
	PeriodStart time.Time `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"type:date;not null" json:"period_end"`

	ReportData  string    `gorm:"type:jsonb" json:"report_data"` // serialized summary
	GeneratedAt time.Time `gorm:"autoCreateTime" json:"generated_at"`
}
