package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func entry(id, balance, rate, payment string) model.DebtEntry {
	return model.DebtEntry{
		ID:             id,
		Description:    "debt " + id,
		OriginalAmount: dec(balance),
		CurrentBalance: dec(balance),
		InterestRate:   dec(rate),
		MonthlyPayment: dec(payment),
		Priority:       model.PriorityMedium,
		DebtType:       model.DebtTypeFixed,
		IsActive:       true,
	}
}
