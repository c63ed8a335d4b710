package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/finance"
)

// NotAvailable is shown wherever a figure has no finite value.
const NotAvailable = "N/A"

// Money formats an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent formats a percentage with one decimal.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// Months formats a payoff as a month count or "never".
func Months(p finance.Payoff) string {
	return p.String()
}

// Date formats a calendar date, or N/A for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format("2006-01-02")
}

// Interest formats an interest total, or N/A when the payoff never ends.
func Interest(d decimal.Decimal, p finance.Payoff) string {
	if p.IsNever() {
		return NotAvailable
	}
	return Money(d)
}
