package taxcalc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nlRules mirrors the seeded Dutch rule set: two wage tax brackets and a
// capped social security contribution.
func nlRules() RuleSet {
	return RuleSet{
		WageTax: &WageTaxDetails{
			Brackets: []Bracket{
				{Threshold: 0, Rate: decimal.NewFromFloat(0.3710)},
				{Threshold: 7551800, Rate: decimal.NewFromFloat(0.4950)},
			},
		},
		SocialSecurity: &SocialSecurityDetails{
			EmployeeRate: decimal.NewFromFloat(0.12),
			EmployerRate: decimal.NewFromFloat(0.20),
			MaxIncome:    75864,
		},
	}
}

func TestCalculateNLMonthlySalary(t *testing.T) {
	// 5000.00 gross: first bracket only, social security uncapped.
	res, err := Calculate(500000, "NL", false, nlRules())
	require.NoError(t, err)

	assert.Equal(t, StatusComputed, res.Status)
	assert.Empty(t, res.MissingRules)
	assert.Equal(t, int64(500000), res.GrossSalary)
	assert.Equal(t, int64(500000), res.TaxableIncome)
	assert.Equal(t, int64(185500), res.WageTax)
	assert.Equal(t, int64(160000), res.SocialSecurity)
	assert.Equal(t, int64(154500), res.NetSalary)
}

func TestCalculateNLThirtyPercentRuling(t *testing.T) {
	res, err := Calculate(500000, "NL", true, nlRules())
	require.NoError(t, err)

	// Wage tax runs on 70% of gross; social security stays on full gross.
	assert.Equal(t, int64(350000), res.TaxableIncome)
	assert.Equal(t, int64(129850), res.WageTax)
	assert.Equal(t, int64(160000), res.SocialSecurity)
	assert.Equal(t, int64(210150), res.NetSalary)
}

func TestRulingStrictlyLowersWageTax(t *testing.T) {
	for _, gross := range []int64{100000, 500000, 2000000, 10000000} {
		plain, err := Calculate(gross, "NL", false, nlRules())
		require.NoError(t, err)
		ruling, err := Calculate(gross, "NL", true, nlRules())
		require.NoError(t, err)

		assert.Less(t, ruling.WageTax, plain.WageTax, "gross %d", gross)
		assert.Greater(t, ruling.NetSalary, plain.NetSalary, "gross %d", gross)
		assert.Equal(t, plain.SocialSecurity, ruling.SocialSecurity, "gross %d", gross)
	}
}

func TestCalculateSecondBracket(t *testing.T) {
	// 80000.00 gross crosses into the 49.50% bracket and exceeds the
	// social security cap of 75864.00.
	res, err := Calculate(8000000, "NL", false, nlRules())
	require.NoError(t, err)

	// First bracket: 7551800 * 0.3710 = 2801717.8 -> 2801718
	// Second bracket: 448200 * 0.4950 = 221859
	assert.Equal(t, int64(2801718+221859), res.WageTax)
	// Capped at 7586400 minor units: 7586400 * 0.32 = 2427648
	assert.Equal(t, int64(2427648), res.SocialSecurity)
	assert.Equal(t, res.GrossSalary-res.WageTax-res.SocialSecurity, res.NetSalary)
}

func TestCalculateBracketBoundary(t *testing.T) {
	// A salary exactly at the second threshold leaves a zero slice in the
	// upper bracket.
	res, err := Calculate(7551800, "NL", false, nlRules())
	require.NoError(t, err)
	assert.Equal(t, int64(2801718), res.WageTax)
}

func TestCalculateSocialSecurityCap(t *testing.T) {
	capMinor := int64(75864 * 100)

	below, err := Calculate(capMinor-100, "NL", false, nlRules())
	require.NoError(t, err)
	at, err := Calculate(capMinor, "NL", false, nlRules())
	require.NoError(t, err)
	above, err := Calculate(capMinor+5000000, "NL", false, nlRules())
	require.NoError(t, err)

	assert.Less(t, below.SocialSecurity, at.SocialSecurity)
	assert.Equal(t, at.SocialSecurity, above.SocialSecurity, "contribution must not grow past the cap")
}

func TestCalculateUKNoWithholding(t *testing.T) {
	// No UK evaluators are registered, so the calculation completes with
	// zero withholding and no missing rules.
	res, err := Calculate(500000, "UK", false, RuleSet{})
	require.NoError(t, err)

	assert.Equal(t, StatusComputed, res.Status)
	assert.Empty(t, res.MissingRules)
	assert.Equal(t, int64(0), res.WageTax)
	assert.Equal(t, int64(0), res.SocialSecurity)
	assert.Equal(t, int64(500000), res.NetSalary)
	assert.Equal(t, int64(500000), res.TaxableIncome)
}

func TestCalculateZeroGross(t *testing.T) {
	res, err := Calculate(0, "NL", false, nlRules())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.WageTax)
	assert.Equal(t, int64(0), res.SocialSecurity)
	assert.Equal(t, int64(0), res.NetSalary)
}

func TestCalculateNegativeGross(t *testing.T) {
	_, err := Calculate(-1, "NL", false, nlRules())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculateUnknownJurisdiction(t *testing.T) {
	_, err := Calculate(500000, "DE", false, nlRules())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculateMissingRules(t *testing.T) {
	// No wage tax rule active for the date: the result must say so instead
	// of passing off zero withholding as computed.
	res, err := Calculate(500000, "NL", false, RuleSet{
		SocialSecurity: nlRules().SocialSecurity,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusNoApplicableRules, res.Status)
	assert.Equal(t, []string{"wage_tax"}, res.MissingRules)
	assert.Equal(t, int64(0), res.WageTax)
	assert.Equal(t, int64(160000), res.SocialSecurity)
}

func TestCalculateAllRulesMissing(t *testing.T) {
	res, err := Calculate(500000, "NL", false, RuleSet{})
	require.NoError(t, err)

	assert.Equal(t, StatusNoApplicableRules, res.Status)
	assert.Equal(t, []string{"wage_tax", "social_security"}, res.MissingRules)
	assert.Equal(t, int64(500000), res.NetSalary)
}

func TestCalculateDeterministic(t *testing.T) {
	first, err := Calculate(1234567, "NL", true, nlRules())
	require.NoError(t, err)
	second, err := Calculate(1234567, "NL", true, nlRules())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateWageTaxDetails(t *testing.T) {
	tests := []struct {
		name     string
		brackets []Bracket
		wantErr  bool
	}{
		{
			name:     "empty table",
			brackets: nil,
			wantErr:  true,
		},
		{
			name: "first threshold not zero",
			brackets: []Bracket{
				{Threshold: 1000, Rate: decimal.NewFromFloat(0.37)},
			},
			wantErr: true,
		},
		{
			name: "non ascending thresholds",
			brackets: []Bracket{
				{Threshold: 0, Rate: decimal.NewFromFloat(0.37)},
				{Threshold: 5000, Rate: decimal.NewFromFloat(0.49)},
				{Threshold: 5000, Rate: decimal.NewFromFloat(0.52)},
			},
			wantErr: true,
		},
		{
			name: "rate above one",
			brackets: []Bracket{
				{Threshold: 0, Rate: decimal.NewFromFloat(1.5)},
			},
			wantErr: true,
		},
		{
			name: "negative rate",
			brackets: []Bracket{
				{Threshold: 0, Rate: decimal.NewFromFloat(-0.1)},
			},
			wantErr: true,
		},
		{
			name: "valid two tier table",
			brackets: []Bracket{
				{Threshold: 0, Rate: decimal.NewFromFloat(0.3710)},
				{Threshold: 7551800, Rate: decimal.NewFromFloat(0.4950)},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWageTaxDetails(&WageTaxDetails{Brackets: tt.brackets})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadRuleConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSocialSecurityDetails(t *testing.T) {
	assert.NoError(t, ValidateSocialSecurityDetails(&SocialSecurityDetails{
		EmployeeRate: decimal.NewFromFloat(0.12),
		EmployerRate: decimal.NewFromFloat(0.20),
		MaxIncome:    75864,
	}))

	assert.ErrorIs(t, ValidateSocialSecurityDetails(&SocialSecurityDetails{
		EmployeeRate: decimal.NewFromFloat(0.7),
		EmployerRate: decimal.NewFromFloat(0.5),
	}), ErrBadRuleConfig)

	assert.ErrorIs(t, ValidateSocialSecurityDetails(&SocialSecurityDetails{
		EmployeeRate: decimal.NewFromFloat(-0.1),
		EmployerRate: decimal.NewFromFloat(0.2),
	}), ErrBadRuleConfig)

	assert.ErrorIs(t, ValidateSocialSecurityDetails(&SocialSecurityDetails{
		EmployeeRate: decimal.NewFromFloat(0.12),
		EmployerRate: decimal.NewFromFloat(0.20),
		MaxIncome:    -1,
	}), ErrBadRuleConfig)
}

func TestCalculateBadBrackets(t *testing.T) {
	_, err := Calculate(500000, "NL", false, RuleSet{
		WageTax: &WageTaxDetails{Brackets: []Bracket{
			{Threshold: 100, Rate: decimal.NewFromFloat(0.37)},
		}},
		SocialSecurity: nlRules().SocialSecurity,
	})
	assert.ErrorIs(t, err, ErrBadRuleConfig)
}

func TestExpectedRuleTypes(t *testing.T) {
	assert.Equal(t, []string{"wage_tax", "social_security"}, ExpectedRuleTypes("NL"))
	assert.Empty(t, ExpectedRuleTypes("UK"))
	assert.True(t, SupportedJurisdiction("NL"))
	assert.True(t, SupportedJurisdiction("UK"))
	assert.False(t, SupportedJurisdiction("FR"))
}
