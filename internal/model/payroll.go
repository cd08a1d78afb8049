package model

import (
	"time"

	"github.com/google/uuid"
)

// PayrollStatus enum constants
const (
	PayrollStatusComputed          = "computed"
	PayrollStatusNoApplicableRules = "no_applicable_rules"
)

// PayrollCalculation is an immutable record of a single payroll run. All money
// fields are integer minor units. Corrections are not supported — a new
// calculation is a new record.
type PayrollCalculation struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	EmployeeName string `gorm:"type:varchar(255);not null" json:"employee_name"`
	Jurisdiction string `gorm:"type:varchar(2);not null" json:"jurisdiction"`
	Currency     string `gorm:"type:varchar(3);not null" json:"currency"`

	GrossSalary         int64  `gorm:"not null" json:"gross_salary"`
	WageTax             int64  `gorm:"not null;default:0" json:"wage_tax"`
	SocialSecurity      int64  `gorm:"not null;default:0" json:"social_security"`
	NetSalary           int64  `gorm:"not null" json:"net_salary"`
	ThirtyPercentRuling bool   `gorm:"default:false" json:"thirty_percent_ruling"`
	Status              string `gorm:"type:varchar(30);not null;default:'computed'" json:"status"`

	Details string `gorm:"type:jsonb" json:"details"` // full rounded breakdown

	PeriodStart time.Time `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"type:date;not null" json:"period_end"`
	CreatedAt   time.Time `json:"created_at"`
}
