package database

import (
	"log"
	"time"

	"bookkeeper/internal/model"

	"gorm.io/gorm"
)

// SeedJurisdictions inserts the UK and NL jurisdictions with their current
// rule sets when the jurisdictions table is empty. Bracket thresholds are
// stored in minor units; social security caps in major units.
func SeedJurisdictions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Jurisdiction{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	uk := model.Jurisdiction{
		Name:             "United Kingdom",
		CountryCode:      "UK",
		CurrencyCode:     "GBP",
		TaxAuthorityName: "HMRC",
		TaxAuthorityURL:  "https://www.gov.uk/government/organisations/hm-revenue-customs",
	}
	nl := model.Jurisdiction{
		Name:             "Netherlands",
		CountryCode:      "NL",
		CurrencyCode:     "EUR",
		TaxAuthorityName: "Belastingdienst",
		TaxAuthorityURL:  "https://www.belastingdienst.nl",
	}
	if err := db.Create(&uk).Error; err != nil {
		return err
	}
	if err := db.Create(&nl).Error; err != nil {
		return err
	}

	ukRules := []model.TaxRule{
		{
			JurisdictionID: uk.ID,
			RuleType:       model.RuleTypeCorporationTax,
			Description:    "UK Corporation Tax Rate 2025",
			ValidFrom:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			Details:        `{"rate": 0.25, "threshold": 0}`,
		},
		{
			JurisdictionID: uk.ID,
			RuleType:       model.RuleTypeVAT,
			Description:    "UK VAT Standard Rate",
			ValidFrom:      time.Date(2011, 1, 4, 0, 0, 0, 0, time.UTC),
			Details:        `{"standard_rate": 0.20, "reduced_rate": 0.05, "zero_rate": 0.00, "registration_threshold": 90000, "filing_frequency": "quarterly"}`,
		},
		{
			JurisdictionID: uk.ID,
			RuleType:       model.RuleTypeDoubleTaxTreaty,
			Description:    "UK-NL Double Taxation Convention (2008, amended 2013)",
			ValidFrom:      time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
			Details:        `{"partner": "NL", "dividend_rate": 0.10, "interest_rate": 0.00, "royalty_rate": 0.00}`,
		},
	}
	nlRules := []model.TaxRule{
		{
			JurisdictionID: nl.ID,
			RuleType:       model.RuleTypeWageTax,
			Description:    "Netherlands Wage Tax Progressive Rates",
			ValidFrom:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Details:        `{"brackets": [{"threshold": 0, "rate": 0.3710}, {"threshold": 7551800, "rate": 0.4950}]}`,
		},
		{
			JurisdictionID: nl.ID,
			RuleType:       model.RuleTypeSocialSecurity,
			Description:    "Netherlands Social Security Contributions",
			ValidFrom:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Details:        `{"employee_rate": 0.12, "employer_rate": 0.20, "max_income": 75864}`,
		},
		{
			JurisdictionID: nl.ID,
			RuleType:       model.RuleTypeThirtyPctRuling,
			Description:    "Netherlands 30% Ruling for Expats",
			ValidFrom:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Details:        `{"tax_free_percentage": 0.30, "max_duration_months": 60}`,
		},
		{
			JurisdictionID: nl.ID,
			RuleType:       model.RuleTypeVAT,
			Description:    "Netherlands BTW (VAT) Rates",
			ValidFrom:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Details:        `{"standard_rate": 0.21, "reduced_rate": 0.09, "zero_rate": 0.00, "filing_frequency": "quarterly"}`,
		},
	}

	for _, rule := range append(ukRules, nlRules...) {
		if err := db.Create(&rule).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded jurisdictions and default tax rules")
	return nil
}
