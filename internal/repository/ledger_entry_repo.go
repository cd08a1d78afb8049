package repository

import (
	"context"
	"time"

	"bookkeeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LedgerEntryRepository interface {
	Create(ctx context.Context, entry *model.LedgerEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.LedgerEntry, int64, error)
	FindByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time, jurisdiction *string) ([]model.LedgerEntry, error)
}

type ledgerEntryRepository struct {
	db *gorm.DB
}

func NewLedgerEntryRepository(db *gorm.DB) LedgerEntryRepository {
	return &ledgerEntryRepository{db: db}
}

func (r *ledgerEntryRepository) Create(ctx context.Context, entry *model.LedgerEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *ledgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	if err := GetDB(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerEntryRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.LedgerEntry, int64, error) {
	var entries []model.LedgerEntry
	var total int64

	db := GetDB(ctx, r.db).Model(&model.LedgerEntry{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("entry_date desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// FindByPeriod returns a user's entries inside [start, end], oldest first,
// optionally restricted to one jurisdiction.
func (r *ledgerEntryRepository) FindByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time, jurisdiction *string) ([]model.LedgerEntry, error) {
	query := GetDB(ctx, r.db).
		Where("user_id = ? AND entry_date >= ? AND entry_date <= ?", userID, start, end)
	if jurisdiction != nil && *jurisdiction != "" {
		query = query.Where("jurisdiction = ?", *jurisdiction)
	}

	var entries []model.LedgerEntry
	if err := query.Order("entry_date asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
