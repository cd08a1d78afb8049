package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType enum constants
const (
	EntryTypeIncome  = "income"
	EntryTypeExpense = "expense"
)

// BaseCurrency is the single reporting currency all entries are normalized into.
const BaseCurrency = "GBP"

// LedgerEntry represents an income or expense booking with multi-currency
// support (base: GBP). Amounts are stored as integer minor units (pence/cents)
// to avoid floating-point rounding error. AmountBase is the GBP equivalent
// computed at creation time; entries created before base-amount enforcement may
// still carry NULL here, which reporting treats as a 1:1 legacy fallback.
type LedgerEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentID *uuid.UUID `gorm:"type:uuid;index" json:"document_id"`

	EntryType string    `gorm:"type:varchar(10);not null;index" json:"entry_type"` // income, expense
	EntryDate time.Time `gorm:"type:date;not null;index" json:"entry_date"`

	Amount       int64            `gorm:"not null" json:"amount"` // minor units, original currency
	Currency     string           `gorm:"type:varchar(3);not null" json:"currency"`
	AmountBase   *int64           `gorm:"column:amount_gbp" json:"amount_gbp"` // minor units, GBP
	ExchangeRate *decimal.Decimal `gorm:"type:decimal(18,6)" json:"exchange_rate"`

	Jurisdiction string `gorm:"type:varchar(2);not null;index" json:"jurisdiction"`
	Category     string `gorm:"type:varchar(100);not null" json:"category"`
	Description  string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
