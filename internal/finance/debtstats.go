package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// DebtStatsInput is the snapshot slice the debt statistics are computed from.
type DebtStatsInput struct {
	Debts      []model.DebtEntry // inactive entries are ignored
	Categories []model.DebtCategory
	Payments   []model.DebtPayment
	// AssumedMonthlyIncome is configured, not derived from incomes.
	AssumedMonthlyIncome decimal.Decimal
	Now                  time.Time
}

// PayoffProjection estimates when a balance is cleared under fixed payments.
// When Months is Never, TotalInterest is zero and PayoffDate is the zero time.
type PayoffProjection struct {
	Months        Payoff          `json:"months"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	PayoffDate    time.Time       `json:"payoff_date"`
}

// CategoryStats aggregates the active debts of one category.
type CategoryStats struct {
	CategoryID     string          `json:"category_id"`
	Name           string          `json:"name"`
	Color          string          `json:"color,omitempty"`
	Count          int             `json:"count"`
	TotalDebt      decimal.Decimal `json:"total_debt"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Percentage     decimal.Decimal `json:"percentage"`
	AverageRate    decimal.Decimal `json:"average_rate"`
}

// PriorityStats aggregates the active debts of one priority.
type PriorityStats struct {
	Priority       model.Priority  `json:"priority"`
	Count          int             `json:"count"`
	TotalDebt      decimal.Decimal `json:"total_debt"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// DebtStats is a portfolio-level snapshot of the active debts.
type DebtStats struct {
	ActiveDebts          int              `json:"active_debts"`
	TotalDebt            decimal.Decimal  `json:"total_debt"`
	TotalMonthlyPayments decimal.Decimal  `json:"total_monthly_payments"`
	TotalInterestPaid    decimal.Decimal  `json:"total_interest_paid"`
	TotalPrincipalPaid   decimal.Decimal  `json:"total_principal_paid"`
	AverageInterestRate  decimal.Decimal  `json:"average_interest_rate"`
	DebtToIncomeRatio    decimal.Decimal  `json:"debt_to_income_ratio"`
	PayoffProjection     PayoffProjection `json:"payoff_projection"`
	ByCategory           []CategoryStats  `json:"by_category"`
	ByPriority           []PriorityStats  `json:"by_priority"`
}

// AverageInterestRate is the balance-weighted mean rate of the active
// entries, or zero when their total balance is zero.
func AverageInterestRate(entries []model.DebtEntry) decimal.Decimal {
	weighted := decimal.Zero
	total := decimal.Zero
	for _, d := range entries {
		if !d.IsActive {
			continue
		}
		weighted = weighted.Add(d.CurrentBalance.Mul(d.InterestRate))
		total = total.Add(d.CurrentBalance)
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return weighted.Div(total)
}

// ProjectPortfolioPayoff treats balance, rate and payment as one debt.
func ProjectPortfolioPayoff(balance, annualRatePercent, monthlyPayment decimal.Decimal, now time.Time) PayoffProjection {
	if !balance.IsPositive() || !monthlyPayment.IsPositive() {
		return PayoffProjection{Months: PayoffIn(0), TotalInterest: decimal.Zero, PayoffDate: now}
	}

	months := PayoffMonths(balance, annualRatePercent, monthlyPayment)
	n, ok := months.Months()
	if !ok {
		return PayoffProjection{Months: Never, TotalInterest: decimal.Zero}
	}

	interest := decimal.Zero
	if annualRatePercent.IsPositive() {
		interest = decimal.Max(monthlyPayment.Mul(decimal.NewFromInt(int64(n))).Sub(balance), decimal.Zero)
	}
	return PayoffProjection{
		Months:        months,
		TotalInterest: interest,
		PayoffDate:    now.AddDate(0, n, 0),
	}
}

// ComputeDebtStats derives the portfolio statistics.
func ComputeDebtStats(in DebtStatsInput) DebtStats {
	var active []model.DebtEntry
	known := make(map[string]bool, len(in.Debts))
	for _, d := range in.Debts {
		known[d.ID] = true
		if d.IsActive {
			active = append(active, d)
		}
	}

	stats := DebtStats{
		ActiveDebts:          len(active),
		TotalDebt:            TotalActiveDebt(active),
		TotalMonthlyPayments: ActiveMonthlyPayments(active),
		TotalInterestPaid:    decimal.Zero,
		TotalPrincipalPaid:   decimal.Zero,
		AverageInterestRate:  AverageInterestRate(active),
	}

	year := in.Now.Year()
	for _, p := range in.Payments {
		if !known[p.DebtID] || p.Date.Year() != year {
			continue
		}
		stats.TotalInterestPaid = stats.TotalInterestPaid.Add(p.InterestAmount)
		stats.TotalPrincipalPaid = stats.TotalPrincipalPaid.Add(p.PrincipalAmount)
	}

	stats.DebtToIncomeRatio = decimal.Zero
	if in.AssumedMonthlyIncome.IsPositive() {
		stats.DebtToIncomeRatio = stats.TotalMonthlyPayments.Div(in.AssumedMonthlyIncome).Mul(hundred)
	}

	stats.PayoffProjection = ProjectPortfolioPayoff(stats.TotalDebt, stats.AverageInterestRate, stats.TotalMonthlyPayments, in.Now)
	stats.ByCategory = categoryBreakdown(active, in.Categories, stats.TotalDebt)
	stats.ByPriority = priorityBreakdown(active)
	return stats
}

func categoryBreakdown(active []model.DebtEntry, categories []model.DebtCategory, totalDebt decimal.Decimal) []CategoryStats {
	out := make([]CategoryStats, 0, len(categories))
	for _, c := range categories {
		var members []model.DebtEntry
		for _, d := range active {
			if d.CategoryID == c.ID {
				members = append(members, d)
			}
		}

		debt := TotalActiveDebt(members)
		if debt.IsZero() {
			continue
		}
		out = append(out, CategoryStats{
			CategoryID:     c.ID,
			Name:           c.Name,
			Color:          c.Color,
			Count:          len(members),
			TotalDebt:      debt,
			MonthlyPayment: ActiveMonthlyPayments(members),
			Percentage:     Percentage(debt, totalDebt),
			AverageRate:    AverageInterestRate(members),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalDebt.GreaterThan(out[j].TotalDebt)
	})
	return out
}

func priorityBreakdown(active []model.DebtEntry) []PriorityStats {
	out := make([]PriorityStats, len(model.Priorities))
	index := make(map[model.Priority]int, len(model.Priorities))
	for i, p := range model.Priorities {
		out[i] = PriorityStats{Priority: p, TotalDebt: decimal.Zero, MonthlyPayment: decimal.Zero}
		index[p] = i
	}

	for _, d := range active {
		i, ok := index[d.Priority]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].TotalDebt = out[i].TotalDebt.Add(d.CurrentBalance)
		out[i].MonthlyPayment = out[i].MonthlyPayment.Add(d.MonthlyPayment)
	}
	return out
}
