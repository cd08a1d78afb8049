package repository

import (
	"context"

	"bookkeeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayrollRepository interface {
	Create(ctx context.Context, calc *model.PayrollCalculation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PayrollCalculation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.PayrollCalculation, int64, error)
}

type payrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) Create(ctx context.Context, calc *model.PayrollCalculation) error {
	return GetDB(ctx, r.db).Create(calc).Error
}

func (r *payrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PayrollCalculation, error) {
	var calc model.PayrollCalculation
	if err := GetDB(ctx, r.db).First(&calc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &calc, nil
}

func (r *payrollRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.PayrollCalculation, int64, error) {
	var calcs []model.PayrollCalculation
	var total int64

	db := GetDB(ctx, r.db).Model(&model.PayrollCalculation{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&calcs).Error; err != nil {
		return nil, 0, err
	}

	return calcs, total, nil
}
