package model

import (
	"time"

	"github.com/google/uuid"
)

// Jurisdiction is a taxing country context (UK, NL). Each jurisdiction owns a
// currency and a versioned set of tax rules.
type Jurisdiction struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(100);not null" json:"name"`
	CountryCode      string    `gorm:"type:varchar(2);not null;uniqueIndex" json:"country_code"`
	CurrencyCode     string    `gorm:"type:varchar(3);not null" json:"currency_code"`
	TaxAuthorityName string    `gorm:"type:varchar(255)" json:"tax_authority_name"`
	TaxAuthorityURL  string    `gorm:"type:varchar(500)" json:"tax_authority_url"`
	CreatedAt        time.Time `json:"created_at"`
}
