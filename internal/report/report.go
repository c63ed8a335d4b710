// Package report assembles every derived figure of a snapshot into one
// Summary and renders it as Markdown or HTML.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/finance"
	"github.com/tally-dev/tally/internal/model"
)

// Options are the scalars a summary needs besides the snapshot.
type Options struct {
	Profile              string
	AssumedMonthlyIncome decimal.Decimal
	ExtraPayment         decimal.Decimal
	TargetMonths         int
	ProjectionYears      int
}

// OptionsFrom reads Options from a repository config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Profile:              cfg.Profile.Name,
		AssumedMonthlyIncome: cfg.Finance.AssumedIncome(),
		ExtraPayment:         cfg.Finance.Extra(),
		TargetMonths:         cfg.Finance.TargetMonths,
		ProjectionYears:      cfg.Finance.ProjectionYears,
	}
}

// CategoryAmount is one expense category's monthly total.
type CategoryAmount struct {
	Category string          `json:"category"`
	Monthly  decimal.Decimal `json:"monthly"`
	Share    decimal.Decimal `json:"share"`
}

// DebtLine summarizes one active debt.
type DebtLine struct {
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Progress       decimal.Decimal `json:"progress"`
	Payoff         finance.Payoff  `json:"payoff_months"`
}

// Summary is everything derived from one snapshot.
type Summary struct {
	GeneratedAt        time.Time                 `json:"generated_at"`
	Profile            string                    `json:"profile,omitempty"`
	Metrics            finance.Metrics           `json:"metrics"`
	ExpensesByCategory []CategoryAmount          `json:"expenses_by_category"`
	Health             finance.HealthScore       `json:"health"`
	Debts              []DebtLine                `json:"debts"`
	DebtStats          finance.DebtStats         `json:"debt_stats"`
	Strategies         []finance.StrategyResult  `json:"strategies"`
	Recommended        string                    `json:"recommended_strategy,omitempty"`
	Projections        []finance.ProjectionPoint `json:"projections"`
}

// Build derives a Summary. It never fails: degenerate inputs produce
// neutral figures and Never payoffs.
func Build(snap model.Snapshot, opts Options, now time.Time) Summary {
	state := finance.StateFromSnapshot(snap)
	metrics := finance.Compute(state)
	stats := Stats(snap, opts, now)

	s := Summary{
		GeneratedAt:        now,
		Profile:            opts.Profile,
		Metrics:            metrics,
		ExpensesByCategory: expensesByCategory(snap.Expenses, metrics.MonthlyExpenses),
		Health:             finance.HealthFromMetrics(metrics),
		Debts:              debtLines(snap.ActiveDebts()),
		DebtStats:          stats,
		Strategies:         Strategies(snap, opts, stats),
		Projections:        finance.GenerateProjections(state, opts.ProjectionYears),
	}
	if best, ok := finance.Cheapest(s.Strategies); ok {
		s.Recommended = string(best.Name)
	}
	return s
}

// Stats computes the debt statistics of a snapshot.
func Stats(snap model.Snapshot, opts Options, now time.Time) finance.DebtStats {
	return finance.ComputeDebtStats(finance.DebtStatsInput{
		Debts:                snap.Debts,
		Categories:           snap.Categories,
		Payments:             snap.Payments,
		AssumedMonthlyIncome: opts.AssumedMonthlyIncome,
		Now:                  now,
	})
}

// Strategies compares the repayment strategies against the current payoff
// projection in stats.
func Strategies(snap model.Snapshot, opts Options, stats finance.DebtStats) []finance.StrategyResult {
	return finance.CompareStrategies(finance.StrategyInput{
		Debts:        snap.Debts,
		ExtraPayment: opts.ExtraPayment,
		TargetMonths: opts.TargetMonths,
		Baseline:     stats.PayoffProjection,
	})
}

func expensesByCategory(expenses []model.Expense, total decimal.Decimal) []CategoryAmount {
	byCat := finance.ExpensesByCategory(expenses)
	out := make([]CategoryAmount, 0, len(byCat))
	for cat, monthly := range byCat {
		out = append(out, CategoryAmount{
			Category: cat,
			Monthly:  monthly,
			Share:    finance.Percentage(monthly, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Monthly.Equal(out[j].Monthly) {
			return out[i].Monthly.GreaterThan(out[j].Monthly)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func debtLines(active []model.DebtEntry) []DebtLine {
	out := make([]DebtLine, 0, len(active))
	for _, d := range active {
		out = append(out, DebtLine{
			ID:             d.ID,
			Description:    d.Description,
			Balance:        d.CurrentBalance,
			InterestRate:   d.InterestRate,
			MonthlyPayment: d.MonthlyPayment,
			Progress:       finance.DebtProgress(d),
			Payoff:         finance.PayoffMonths(d.CurrentBalance, d.InterestRate, d.MonthlyPayment),
		})
	}
	return out
}
