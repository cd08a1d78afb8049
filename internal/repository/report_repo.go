package repository

import (
	"context"

	"bookkeeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.TaxReport) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.TaxReport, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.TaxReport) error {
	return GetDB(ctx, r.db).Create(report).Error
}

func (r *reportRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.TaxReport, int64, error) {
	var reports []model.TaxReport
	var total int64

	db := GetDB(ctx, r.db).Model(&model.TaxReport{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("generated_at desc").Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}
