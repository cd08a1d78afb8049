package service

import (
	"context"
	"sort"
	"time"

	"bookkeeper/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes shared by the service tests.

type fakePayrollRepo struct {
	calcs []model.PayrollCalculation
}

func (f *fakePayrollRepo) Create(_ context.Context, calc *model.PayrollCalculation) error {
	calc.ID = uuid.New()
	calc.CreatedAt = time.Now()
	f.calcs = append(f.calcs, *calc)
	return nil
}

func (f *fakePayrollRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PayrollCalculation, error) {
	for i := range f.calcs {
		if f.calcs[i].ID == id {
			return &f.calcs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]model.PayrollCalculation, int64, error) {
	var out []model.PayrollCalculation
	for _, c := range f.calcs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

type fakeJurisdictionRepo struct {
	byCode map[string]*model.Jurisdiction
}

func (f *fakeJurisdictionRepo) Create(_ context.Context, j *model.Jurisdiction) error {
	if f.byCode == nil {
		f.byCode = make(map[string]*model.Jurisdiction)
	}
	f.byCode[j.CountryCode] = j
	return nil
}

func (f *fakeJurisdictionRepo) List(_ context.Context) ([]model.Jurisdiction, error) {
	var out []model.Jurisdiction
	for _, j := range f.byCode {
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeJurisdictionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Jurisdiction, error) {
	for _, j := range f.byCode {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeJurisdictionRepo) FindByCode(_ context.Context, code string) (*model.Jurisdiction, error) {
	if j, ok := f.byCode[code]; ok {
		return j, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAuditRepo struct {
	logs []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeAuditRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, l := range f.logs {
		if l.UserID != nil && *l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

type fakeTaxRuleRepo struct {
	rules []model.TaxRule
}

func (f *fakeTaxRuleRepo) Create(_ context.Context, rule *model.TaxRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	rule.CreatedAt = time.Now()
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeTaxRuleRepo) Update(_ context.Context, rule *model.TaxRule) error {
	for i := range f.rules {
		if f.rules[i].ID == rule.ID {
			f.rules[i] = *rule
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeTaxRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.rules {
		if f.rules[i].ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeTaxRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TaxRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == id {
			r := f.rules[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTaxRuleRepo) ListByJurisdiction(_ context.Context, jurisdictionID uuid.UUID, _, _ int) ([]model.TaxRule, int64, error) {
	var out []model.TaxRule
	for _, r := range f.rules {
		if r.JurisdictionID == jurisdictionID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

// FindActive mirrors the SQL predicate: valid_from <= d AND (valid_to IS NULL
// OR valid_to > d), most recent valid_from first.
func (f *fakeTaxRuleRepo) FindActive(_ context.Context, jurisdictionID uuid.UUID, ruleType string, onDate time.Time) (*model.TaxRule, error) {
	var best *model.TaxRule
	for i := range f.rules {
		r := &f.rules[i]
		if r.JurisdictionID != jurisdictionID || r.RuleType != ruleType {
			continue
		}
		if r.ValidFrom.After(onDate) {
			continue
		}
		if r.ValidTo != nil && !r.ValidTo.After(onDate) {
			continue
		}
		if best == nil || r.ValidFrom.After(best.ValidFrom) {
			best = r
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	out := *best
	return &out, nil
}

func (f *fakeTaxRuleRepo) FindOverlapping(_ context.Context, jurisdictionID uuid.UUID, ruleType string, from time.Time, to *time.Time, excludeID *uuid.UUID) (int64, error) {
	var count int64
	for _, r := range f.rules {
		if r.JurisdictionID != jurisdictionID || r.RuleType != ruleType {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if to != nil && !r.ValidFrom.Before(*to) {
			continue
		}
		if r.ValidTo != nil && !r.ValidTo.After(from) {
			continue
		}
		count++
	}
	return count, nil
}

type fakeLedgerRepo struct {
	entries []model.LedgerEntry
}

func (f *fakeLedgerRepo) Create(_ context.Context, entry *model.LedgerEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.LedgerEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			return &f.entries[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLedgerRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]model.LedgerEntry, int64, error) {
	var out []model.LedgerEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLedgerRepo) FindByPeriod(_ context.Context, userID uuid.UUID, start, end time.Time, jurisdiction *string) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		if e.EntryDate.Before(start) || e.EntryDate.After(end) {
			continue
		}
		if jurisdiction != nil && e.Jurisdiction != *jurisdiction {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeComplianceRepo struct {
	checks []model.ComplianceCheck
}

func (f *fakeComplianceRepo) Create(_ context.Context, check *model.ComplianceCheck) error {
	check.ID = uuid.New()
	check.CreatedAt = time.Now()
	f.checks = append(f.checks, *check)
	return nil
}

func (f *fakeComplianceRepo) Update(_ context.Context, check *model.ComplianceCheck) error {
	for i := range f.checks {
		if f.checks[i].ID == check.ID {
			f.checks[i] = *check
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeComplianceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ComplianceCheck, error) {
	for i := range f.checks {
		if f.checks[i].ID == id {
			c := f.checks[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeComplianceRepo) FindAll(_ context.Context) ([]model.ComplianceCheck, error) {
	out := make([]model.ComplianceCheck, len(f.checks))
	copy(out, f.checks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastRun, out[j].LastRun
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out, nil
}

// passthroughTx runs the callback without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// recordingBroadcaster captures broadcast event types for assertions.
type recordingBroadcaster struct {
	events []string
}

func (r *recordingBroadcaster) BroadcastEvent(eventType string, _ interface{}) {
	r.events = append(r.events, eventType)
}
