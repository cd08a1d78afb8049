package reporting

import "github.com/shopspring/decimal"

// Entry type constants, matching the values stored on ledger entries.
const (
	EntryTypeIncome  = "income"
	EntryTypeExpense = "expense"
)

// Entry is the slice of a ledger entry the aggregator needs. Amount is the
// original minor-unit amount; AmountBase is the base-currency minor-unit
// amount computed at entry creation. Entries written before base-amount
// enforcement may carry a nil AmountBase, in which case Amount is used as a
// 1:1 legacy fallback.
type Entry struct {
	EntryType    string
	Amount       int64
	AmountBase   *int64
	Jurisdiction string
	Category     string
}

// JurisdictionTotals splits a jurisdiction's activity into income and
// expenses, in major base-currency units.
type JurisdictionTotals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Summary is the derived, non-persisted output of one aggregation pass. All
// monetary fields are major base-currency units.
type Summary struct {
	TotalIncome      decimal.Decimal               `json:"total_income"`
	TotalExpenses    decimal.Decimal               `json:"total_expenses"`
	NetProfit        decimal.Decimal               `json:"net_profit"`
	ByJurisdiction   map[string]JurisdictionTotals `json:"by_jurisdiction"`
	ByCategory       map[string]decimal.Decimal    `json:"by_category"`
	TransactionCount int                           `json:"transaction_count"`
}

// Summarize folds a period's entries into totals, per-jurisdiction and
// per-category breakdowns. The caller supplies entries already filtered to the
// period and, if requested, to a jurisdiction. Categories deliberately merge
// income and expense amounts under one label — that is what the
// spend/earn-by-category view wants. Sums run in integer minor units and only
// convert to major-unit decimals at the end.
func Summarize(entries []Entry) Summary {
	var income, expenses int64
	type juriSums struct{ income, expenses int64 }
	byJurisdiction := make(map[string]juriSums)
	byCategory := make(map[string]int64)

	for _, e := range entries {
		amount := e.Amount
		if e.AmountBase != nil {
			amount = *e.AmountBase
		}

		j := byJurisdiction[e.Jurisdiction]
		if e.EntryType == EntryTypeIncome {
			income += amount
			j.income += amount
		} else {
			expenses += amount
			j.expenses += amount
		}
		byJurisdiction[e.Jurisdiction] = j
		byCategory[e.Category] += amount
	}

	summary := Summary{
		TotalIncome:      minorToMajor(income),
		TotalExpenses:    minorToMajor(expenses),
		NetProfit:        minorToMajor(income - expenses),
		ByJurisdiction:   make(map[string]JurisdictionTotals, len(byJurisdiction)),
		ByCategory:       make(map[string]decimal.Decimal, len(byCategory)),
		TransactionCount: len(entries),
	}
	for code, sums := range byJurisdiction {
		summary.ByJurisdiction[code] = JurisdictionTotals{
			Income:   minorToMajor(sums.income),
			Expenses: minorToMajor(sums.expenses),
		}
	}
	for category, sum := range byCategory {
		summary.ByCategory[category] = minorToMajor(sum)
	}
	return summary
}

// minorToMajor converts integer minor units to a major-unit decimal (pence to
// pounds).
func minorToMajor(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}
