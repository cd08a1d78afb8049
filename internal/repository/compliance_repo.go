package repository

import (
	"context"

	"bookkeeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplianceRepository interface {
	Create(ctx context.Context, check *model.ComplianceCheck) error
	Update(ctx context.Context, check *model.ComplianceCheck) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ComplianceCheck, error)
	// FindAll returns every check, most recently run first; never-run checks last.
	FindAll(ctx context.Context) ([]model.ComplianceCheck, error)
}

type complianceRepository struct {
	db *gorm.DB
}

func NewComplianceRepository(db *gorm.DB) ComplianceRepository {
	return &complianceRepository{db: db}
}

func (r *complianceRepository) Create(ctx context.Context, check *model.ComplianceCheck) error {
	return GetDB(ctx, r.db).Create(check).Error
}

func (r *complianceRepository) Update(ctx context.Context, check *model.ComplianceCheck) error {
	return GetDB(ctx, r.db).Save(check).Error
}

func (r *complianceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ComplianceCheck, error) {
	var check model.ComplianceCheck
	if err := GetDB(ctx, r.db).First(&check, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &check, nil
}

func (r *complianceRepository) FindAll(ctx context.Context) ([]model.ComplianceCheck, error) {
	var checks []model.ComplianceCheck
	if err := GetDB(ctx, r.db).Order("last_run desc NULLS LAST").Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}
