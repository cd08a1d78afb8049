package service

import (
	"context"
	"fmt"

	"bookkeeper/internal/repository"
)

type JurisdictionResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	CountryCode      string `json:"country_code"`
	CurrencyCode     string `json:"currency_code"`
	TaxAuthorityName string `json:"tax_authority_name"`
	TaxAuthorityURL  string `json:"tax_authority_url"`
}

type JurisdictionService interface {
	List(ctx context.Context) ([]JurisdictionResponse, error)
}

type jurisdictionService struct {
	repo repository.JurisdictionRepository
}

func NewJurisdictionService(repo repository.JurisdictionRepository) JurisdictionService {
	return &jurisdictionService{repo: repo}
}

func (s *jurisdictionService) List(ctx context.Context) ([]JurisdictionResponse, error) {
	jurisdictions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jurisdictions: %w", err)
	}

	res := make([]JurisdictionResponse, 0, len(jurisdictions))
	for _, j := range jurisdictions {
		res = append(res, JurisdictionResponse{
			ID:               j.ID.String(),
			Name:             j.Name,
			CountryCode:      j.CountryCode,
			CurrencyCode:     j.CurrencyCode,
			TaxAuthorityName: j.TaxAuthorityName,
			TaxAuthorityURL:  j.TaxAuthorityURL,
		})
	}
	return res, nil
}
