package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// ValidationError describes a single problem found in a snapshot.
type ValidationError struct {
	Kind        string // accounts, incomes, expenses, debts, categories, payments
	ID          string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.ID, e.Description)
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(kind, id, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Kind: kind, ID: id, Description: fmt.Sprintf(format, args...)})
}

func (v *validator) ids(kind string, ids []string) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			v.add(kind, id, "missing id")
			continue
		}
		if seen[id] {
			v.add(kind, id, "duplicate id")
		}
		seen[id] = true
	}
}

func (v *validator) nonNegative(kind, id, field string, d decimal.Decimal) {
	if d.IsNegative() {
		v.add(kind, id, "%s %s is negative", field, d)
	}
}

// ValidateSnapshot checks every entry collection and the references between
// them. An empty result means the snapshot is consistent.
func ValidateSnapshot(s model.Snapshot) []ValidationError {
	v := &validator{}

	ids := make([]string, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		ids = append(ids, a.ID)
		if !a.Type.Valid() {
			v.add("accounts", a.ID, "unknown account type %q", a.Type)
		}
	}
	v.ids("accounts", ids)

	ids = ids[:0]
	for _, in := range s.Incomes {
		ids = append(ids, in.ID)
		v.nonNegative("incomes", in.ID, "amount", in.Amount)
		if !in.Frequency.Valid() {
			v.add("incomes", in.ID, "unknown frequency %q", in.Frequency)
		}
	}
	v.ids("incomes", ids)

	ids = ids[:0]
	for _, e := range s.Expenses {
		ids = append(ids, e.ID)
		v.nonNegative("expenses", e.ID, "amount", e.Amount)
		if !e.Frequency.Valid() {
			v.add("expenses", e.ID, "unknown frequency %q", e.Frequency)
		}
	}
	v.ids("expenses", ids)

	categories := make(map[string]bool, len(s.Categories))
	ids = ids[:0]
	for _, c := range s.Categories {
		ids = append(ids, c.ID)
		categories[c.ID] = true
	}
	v.ids("categories", ids)

	debts := make(map[string]bool, len(s.Debts))
	ids = ids[:0]
	for _, d := range s.Debts {
		ids = append(ids, d.ID)
		debts[d.ID] = true
		validateDebt(v, d, categories)
	}
	v.ids("debts", ids)

	ids = ids[:0]
	for _, p := range s.Payments {
		ids = append(ids, p.ID)
		validatePayment(v, p, debts)
	}
	v.ids("payments", ids)

	return v.errs
}

func validateDebt(v *validator, d model.DebtEntry, categories map[string]bool) {
	const kind = "debts"
	v.nonNegative(kind, d.ID, "original_amount", d.OriginalAmount)
	v.nonNegative(kind, d.ID, "current_balance", d.CurrentBalance)
	v.nonNegative(kind, d.ID, "interest_rate", d.InterestRate)
	v.nonNegative(kind, d.ID, "monthly_payment", d.MonthlyPayment)

	if d.CurrentBalance.GreaterThan(d.OriginalAmount) {
		v.add(kind, d.ID, "current balance %s exceeds original amount %s",
			d.CurrentBalance.StringFixed(2), d.OriginalAmount.StringFixed(2))
	}
	if d.MinimumPayment.Valid {
		v.nonNegative(kind, d.ID, "minimum_payment", d.MinimumPayment.Decimal)
		if d.MinimumPayment.Decimal.GreaterThan(d.MonthlyPayment) {
			v.add(kind, d.ID, "minimum payment %s exceeds monthly payment %s",
				d.MinimumPayment.Decimal.StringFixed(2), d.MonthlyPayment.StringFixed(2))
		}
	}
	if !d.Priority.Valid() {
		v.add(kind, d.ID, "unknown priority %q", d.Priority)
	}
	if !d.DebtType.Valid() {
		v.add(kind, d.ID, "unknown debt type %q", d.DebtType)
	}
	if d.CategoryID != "" && !categories[d.CategoryID] {
		v.add(kind, d.ID, "unknown category %q", d.CategoryID)
	}
	if d.DueDay < 0 || d.DueDay > 31 {
		v.add(kind, d.ID, "due day %d out of range", d.DueDay)
	}
}

func validatePayment(v *validator, p model.DebtPayment, debts map[string]bool) {
	const kind = "payments"
	if !debts[p.DebtID] {
		v.add(kind, p.ID, "unknown debt %q", p.DebtID)
	}
	if !p.Amount.IsPositive() {
		v.add(kind, p.ID, "amount %s is not positive", p.Amount)
	}
	v.nonNegative(kind, p.ID, "principal_amount", p.PrincipalAmount)
	v.nonNegative(kind, p.ID, "interest_amount", p.InterestAmount)
	if !p.PaymentType.Valid() {
		v.add(kind, p.ID, "unknown payment type %q", p.PaymentType)
	}
	if !p.PrincipalAmount.Add(p.InterestAmount).Round(2).Equal(p.Amount.Round(2)) {
		v.add(kind, p.ID, "principal %s + interest %s != amount %s",
			p.PrincipalAmount.StringFixed(2), p.InterestAmount.StringFixed(2), p.Amount.StringFixed(2))
	}
	if p.Date.IsZero() {
		v.add(kind, p.ID, "missing date")
	}
}
