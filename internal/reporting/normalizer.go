package reporting

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the reporting currency all ledger amounts normalize into.
const BaseCurrency = "GBP"

// ErrMissingExchangeRate is returned when a non-base-currency amount arrives
// without a usable exchange rate. Entry creation must fail in that case rather
// than store an entry the aggregator would later misreport at 1:1.
var ErrMissingExchangeRate = errors.New("reporting: exchange rate required for non-GBP amount")

// Normalize converts an amount in integer minor units into base-currency minor
// units using the supplied exchange rate. Base-currency amounts pass through
// unchanged and need no rate. Rounding is half-up, consistent with minor-unit
// integer storage.
func Normalize(amount int64, currency string, exchangeRate *decimal.Decimal) (int64, error) {
	if currency == BaseCurrency {
		return amount, nil
	}
	if exchangeRate == nil {
		return 0, fmt.Errorf("%w: currency %s", ErrMissingExchangeRate, currency)
	}
	if exchangeRate.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: rate %s must be greater than 0", ErrMissingExchangeRate, exchangeRate)
	}
	return decimal.NewFromInt(amount).Mul(*exchangeRate).Round(0).IntPart(), nil
}
