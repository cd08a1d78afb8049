package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus enum constants
const (
	DocStatusPending   = "pending"
	DocStatusProcessed = "processed"
	DocStatusVerified  = "verified"
	DocStatusRejected  = "rejected"
)

// Document is the metadata record for an uploaded receipt or invoice. The file
// itself lives in object storage and OCR happens outside this service — only
// the storage key and the extracted fields are kept here.
type Document struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	FileKey  string `gorm:"type:varchar(500);not null" json:"file_key"`
	FileURL  string `gorm:"type:varchar(1000);not null" json:"file_url"`
	FileName string `gorm:"type:varchar(255);not null" json:"file_name"`
	FileType string `gorm:"type:varchar(50);not null" json:"file_type"` // receipt, invoice
	MimeType string `gorm:"type:varchar(100)" json:"mime_type"`

	Provider     string     `gorm:"type:varchar(255)" json:"provider"`
	DocumentDate *time.Time `gorm:"type:date" json:"document_date"`
	Amount       int64      `gorm:"not null;default:0" json:"amount"` // minor units
	Currency     string     `gorm:"type:varchar(3);not null" json:"currency"`
	TaxAmount    *int64     `json:"tax_amount"` // minor units
	Category     string     `gorm:"type:varchar(100)" json:"category"`
	Jurisdiction string     `gorm:"type:varchar(2)" json:"jurisdiction"`

	ExtractedData string `gorm:"type:jsonb" json:"extracted_data"` // raw OCR payload
	Status        string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
