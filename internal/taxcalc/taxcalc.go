package taxcalc

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput marks rejected calculator input (negative salary,
	// unknown jurisdiction).
	ErrInvalidInput = errors.New("taxcalc: invalid input")
	// ErrBadRuleConfig marks a malformed rule payload (empty or non-ascending
	// bracket table, rate outside [0,1]).
	ErrBadRuleConfig = errors.New("taxcalc: bad rule configuration")
)

// Status reports whether a calculation ran against a complete rule set.
type Status string

const (
	StatusComputed Status = "computed"
	// StatusNoApplicableRules means at least one rule the jurisdiction expects
	// was not active for the reference date. Contributions from missing rules
	// are zero, and callers must surface the condition instead of presenting
	// the result as a genuinely zero-tax outcome.
	StatusNoApplicableRules Status = "no_applicable_rules"
)

// Bracket is one progressive-tax tier: a lower income threshold in minor
// currency units and the marginal rate applied above it.
type Bracket struct {
	Threshold int64           `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
}

// WageTaxDetails is the payload of a wage_tax rule. Brackets must be sorted
// ascending by threshold with the first threshold at 0.
type WageTaxDetails struct {
	Brackets []Bracket `json:"brackets"`
}

// SocialSecurityDetails is the payload of a social_security rule. MaxIncome is
// the contribution cap in major currency units.
type SocialSecurityDetails struct {
	EmployeeRate decimal.Decimal `json:"employee_rate"`
	EmployerRate decimal.Decimal `json:"employer_rate"`
	MaxIncome    int64           `json:"max_income"`
}

// RuleSet is the snapshot of active rules a single calculation runs against.
// Nil members mean no rule was active for the reference date.
type RuleSet struct {
	WageTax        *WageTaxDetails
	SocialSecurity *SocialSecurityDetails
}

// Result is the full rounded breakdown of one payroll run, all in integer
// minor units. NetSalary is not floored at zero: a rule set that drives it
// negative is a configuration problem the caller has to deal with.
type Result struct {
	GrossSalary    int64
	TaxableIncome  int64
	WageTax        int64
	SocialSecurity int64
	NetSalary      int64
	Status         Status
	MissingRules   []string
}

// Input carries the per-run values evaluators consume.
type Input struct {
	GrossSalary         int64
	ThirtyPercentRuling bool
}

// ruleEvaluator computes one withholding component from the active rule set.
// Jurisdictions map to an ordered list of evaluators, so adding a jurisdiction
// means registering evaluators, not adding branches.
type ruleEvaluator interface {
	RuleType() string
	Missing(rules RuleSet) bool
	Apply(in Input, rules RuleSet, res *Result) error
}

var jurisdictionEvaluators = map[string][]ruleEvaluator{
	"UK": {},
	"NL": {wageTaxEvaluator{}, socialSecurityEvaluator{}},
}

// SupportedJurisdiction reports whether the calculator knows the given country
// code. Unknown codes are rejected rather than silently treated as tax-free.
func SupportedJurisdiction(code string) bool {
	_, ok := jurisdictionEvaluators[code]
	return ok
}

// ExpectedRuleTypes lists the rule types a jurisdiction's evaluators consume,
// in evaluation order.
func ExpectedRuleTypes(code string) []string {
	evals := jurisdictionEvaluators[code]
	types := make([]string, 0, len(evals))
	for _, ev := range evals {
		types = append(types, ev.RuleType())
	}
	return types
}

// Calculate runs the progressive payroll computation for one gross salary in
// integer minor units. It is a pure function: identical inputs always yield
// identical results.
func Calculate(grossSalary int64, jurisdiction string, thirtyPercentRuling bool, rules RuleSet) (Result, error) {
	if grossSalary < 0 {
		return Result{}, fmt.Errorf("%w: gross salary must be non-negative, got %d", ErrInvalidInput, grossSalary)
	}

	evals, ok := jurisdictionEvaluators[jurisdiction]
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown jurisdiction %q", ErrInvalidInput, jurisdiction)
	}

	res := Result{
		GrossSalary:   grossSalary,
		TaxableIncome: grossSalary,
		Status:        StatusComputed,
	}
	in := Input{GrossSalary: grossSalary, ThirtyPercentRuling: thirtyPercentRuling}

	for _, ev := range evals {
		if ev.Missing(rules) {
			res.MissingRules = append(res.MissingRules, ev.RuleType())
			continue
		}
		if err := ev.Apply(in, rules, &res); err != nil {
			return Result{}, err
		}
	}

	if len(res.MissingRules) > 0 {
		res.Status = StatusNoApplicableRules
	}

	res.NetSalary = grossSalary - res.WageTax - res.SocialSecurity
	return res, nil
}

var thirtyPercent = decimal.NewFromFloat(0.30)

// --- Wage tax ---

type wageTaxEvaluator struct{}

func (wageTaxEvaluator) RuleType() string { return "wage_tax" }

func (wageTaxEvaluator) Missing(rules RuleSet) bool { return rules.WageTax == nil }

func (wageTaxEvaluator) Apply(in Input, rules RuleSet, res *Result) error {
	if err := ValidateWageTaxDetails(rules.WageTax); err != nil {
		return err
	}
	brackets := rules.WageTax.Brackets

	// The 30% ruling excludes 30% of gross from wage-tax-table income. It does
	// not touch social security, which stays on gross.
	taxable := in.GrossSalary
	if in.ThirtyPercentRuling {
		taxFree := roundMinor(decimal.NewFromInt(in.GrossSalary).Mul(thirtyPercent))
		taxable = in.GrossSalary - taxFree
	}
	res.TaxableIncome = taxable

	var tax int64
	for i, b := range brackets {
		slice := taxable - b.Threshold
		if slice <= 0 {
			break
		}
		if i+1 < len(brackets) {
			if width := brackets[i+1].Threshold - b.Threshold; slice > width {
				slice = width
			}
		}
		tax += roundMinor(decimal.NewFromInt(slice).Mul(b.Rate))
	}

	res.WageTax = tax
	return nil
}

// ValidateWageTaxDetails checks a wage tax payload the way the evaluator
// will: failing fast here keeps silently wrong tax figures out of stored
// rules.
func ValidateWageTaxDetails(d *WageTaxDetails) error {
	brackets := d.Brackets
	if len(brackets) == 0 {
		return fmt.Errorf("%w: wage tax bracket table is empty", ErrBadRuleConfig)
	}
	if brackets[0].Threshold != 0 {
		return fmt.Errorf("%w: first bracket threshold must be 0, got %d", ErrBadRuleConfig, brackets[0].Threshold)
	}
	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: bracket %d rate %s outside [0,1]", ErrBadRuleConfig, i, b.Rate)
		}
		if i > 0 && b.Threshold <= brackets[i-1].Threshold {
			return fmt.Errorf("%w: bracket thresholds must be strictly ascending (%d then %d)", ErrBadRuleConfig, brackets[i-1].Threshold, b.Threshold)
		}
	}
	return nil
}

// --- Social security ---

type socialSecurityEvaluator struct{}

func (socialSecurityEvaluator) RuleType() string { return "social_security" }

func (socialSecurityEvaluator) Missing(rules RuleSet) bool { return rules.SocialSecurity == nil }

// ValidateSocialSecurityDetails checks a social security payload: rates must
// be non-negative and sum to at most 1, and the cap cannot be negative.
func ValidateSocialSecurityDetails(d *SocialSecurityDetails) error {
	combined := d.EmployeeRate.Add(d.EmployerRate)
	if d.EmployeeRate.IsNegative() || d.EmployerRate.IsNegative() || combined.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: social security rates %s + %s outside [0,1]", ErrBadRuleConfig, d.EmployeeRate, d.EmployerRate)
	}
	if d.MaxIncome < 0 {
		return fmt.Errorf("%w: social security max income %d is negative", ErrBadRuleConfig, d.MaxIncome)
	}
	return nil
}

func (socialSecurityEvaluator) Apply(in Input, rules RuleSet, res *Result) error {
	details := rules.SocialSecurity
	if err := ValidateSocialSecurityDetails(details); err != nil {
		return err
	}
	combined := details.EmployeeRate.Add(details.EmployerRate)

	// Cap is stored in major units; contributions run on gross, not the
	// ruling-adjusted taxable income.
	capMinor := details.MaxIncome * 100
	capped := in.GrossSalary
	if capped > capMinor {
		capped = capMinor
	}

	res.SocialSecurity = roundMinor(decimal.NewFromInt(capped).Mul(combined))
	return nil
}

// roundMinor rounds a decimal amount to a whole number of minor units,
// half-up.
func roundMinor(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
