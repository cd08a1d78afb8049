package reporting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestNormalizeBaseCurrencyPassthrough(t *testing.T) {
	got, err := Normalize(123456, "GBP", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(123456), got)
}

func TestNormalizeAppliesRate(t *testing.T) {
	// 100.00 EUR at 0.86 -> 86.00 GBP
	got, err := Normalize(10000, "EUR", rate(0.86))
	require.NoError(t, err)
	assert.Equal(t, int64(8600), got)
}

func TestNormalizeRoundsHalfUp(t *testing.T) {
	// 33.33 EUR at 0.865 -> 2883.045 pence -> 2883
	got, err := Normalize(3333, "EUR", rate(0.865))
	require.NoError(t, err)
	assert.Equal(t, int64(2883), got)

	// 1.01 EUR at 0.005 -> 0.505 pence rounds up to 1
	got, err = Normalize(101, "EUR", rate(0.005))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNormalizeMissingRate(t *testing.T) {
	_, err := Normalize(10000, "EUR", nil)
	assert.ErrorIs(t, err, ErrMissingExchangeRate)
}

func TestNormalizeNonPositiveRate(t *testing.T) {
	_, err := Normalize(10000, "EUR", rate(0))
	assert.ErrorIs(t, err, ErrMissingExchangeRate)

	_, err = Normalize(10000, "EUR", rate(-1.5))
	assert.ErrorIs(t, err, ErrMissingExchangeRate)
}
