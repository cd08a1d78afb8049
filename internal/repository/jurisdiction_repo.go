package repository

import (
	"context"

	"bookkeeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JurisdictionRepository interface {
	Create(ctx context.Context, jurisdiction *model.Jurisdiction) error
	List(ctx context.Context) ([]model.Jurisdiction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Jurisdiction, error)
	FindByCode(ctx context.Context, countryCode string) (*model.Jurisdiction, error)
}

type jurisdictionRepository struct {
	db *gorm.DB
}

func NewJurisdictionRepository(db *gorm.DB) JurisdictionRepository {
	return &jurisdictionRepository{db: db}
}

func (r *jurisdictionRepository) Create(ctx context.Context, jurisdiction *model.Jurisdiction) error {
	return GetDB(ctx, r.db).Create(jurisdiction).Error
}

func (r *jurisdictionRepository) List(ctx context.Context) ([]model.Jurisdiction, error) {
	var jurisdictions []model.Jurisdiction
	if err := GetDB(ctx, r.db).Order("name").Find(&jurisdictions).Error; err != nil {
		return nil, err
	}
	return jurisdictions, nil
}

func (r *jurisdictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Jurisdiction, error) {
	var jurisdiction model.Jurisdiction
	if err := GetDB(ctx, r.db).First(&jurisdiction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &jurisdiction, nil
}

func (r *jurisdictionRepository) FindByCode(ctx context.Context, countryCode string) (*model.Jurisdiction, error) {
	var jurisdiction model.Jurisdiction
	if err := GetDB(ctx, r.db).First(&jurisdiction, "country_code = ?", countryCode).Error; err != nil {
		return nil, err
	}
	return &jurisdiction, nil
}
