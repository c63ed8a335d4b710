package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestAverageInterestRate(t *testing.T) {
	debts := []model.DebtEntry{
		entry("a", "1000", "10", "50"),
		entry("b", "3000", "20", "90"),
	}
	assert.True(t, AverageInterestRate(debts).Equal(dec("17.5")))

	closed := entry("c", "6000", "30", "100")
	closed.IsActive = false
	assert.True(t, AverageInterestRate(append(debts, closed)).Equal(dec("17.5")))

	assert.True(t, AverageInterestRate(nil).IsZero())
	assert.True(t, AverageInterestRate([]model.DebtEntry{entry("z", "0", "12", "10")}).IsZero())
}

func TestProjectPortfolioPayoff(t *testing.T) {
	now := date(2026, 3, 15)

	t.Run("nothing owed", func(t *testing.T) {
		p := ProjectPortfolioPayoff(decimal.Zero, dec("10"), dec("100"), now)
		assert.Equal(t, PayoffIn(0), p.Months)
		assert.True(t, p.TotalInterest.IsZero())
		assert.True(t, p.PayoffDate.Equal(now))
	})

	t.Run("nothing paid", func(t *testing.T) {
		p := ProjectPortfolioPayoff(dec("500"), dec("10"), decimal.Zero, now)
		assert.Equal(t, PayoffIn(0), p.Months)
		assert.True(t, p.PayoffDate.Equal(now))
	})

	t.Run("zero rate", func(t *testing.T) {
		p := ProjectPortfolioPayoff(dec("1000"), decimal.Zero, dec("300"), now)
		assert.Equal(t, PayoffIn(4), p.Months)
		assert.True(t, p.TotalInterest.IsZero())
		assert.True(t, p.PayoffDate.Equal(date(2026, 7, 15)))
	})

	t.Run("never", func(t *testing.T) {
		p := ProjectPortfolioPayoff(dec("1000"), dec("24"), dec("15"), now)
		assert.True(t, p.Months.IsNever())
		assert.True(t, p.TotalInterest.IsZero())
		assert.True(t, p.PayoffDate.IsZero())
	})
}

func TestComputeDebtStats(t *testing.T) {
	now := date(2026, 3, 15)

	a := entry("a", "1000", "10", "100")
	a.CategoryID = "cards"
	a.Priority = model.PriorityHigh
	b := entry("b", "3000", "20", "200")
	b.CategoryID = "loans"
	b.Priority = model.PriorityLow
	closed := entry("c", "500", "5", "50")
	closed.CategoryID = "cards"
	closed.IsActive = false

	in := DebtStatsInput{
		Debts: []model.DebtEntry{a, b, closed},
		Categories: []model.DebtCategory{
			{ID: "cards", Name: "Credit cards", Color: "#ff0000"},
			{ID: "loans", Name: "Loans"},
			{ID: "empty", Name: "Nothing here"},
		},
		Payments: []model.DebtPayment{
			{ID: "p1", DebtID: "a", Amount: dec("100"), Date: date(2026, 2, 1), PrincipalAmount: dec("95"), InterestAmount: dec("5")},
			{ID: "p2", DebtID: "c", Amount: dec("50"), Date: date(2026, 1, 9), PrincipalAmount: dec("50"), InterestAmount: decimal.Zero},
			{ID: "p3", DebtID: "a", Amount: dec("100"), Date: date(2025, 12, 1), PrincipalAmount: dec("90"), InterestAmount: dec("10")},
			{ID: "p4", DebtID: "gone", Amount: dec("70"), Date: date(2026, 2, 2), PrincipalAmount: dec("70"), InterestAmount: decimal.Zero},
		},
		AssumedMonthlyIncome: dec("3000"),
		Now:                  now,
	}

	stats := ComputeDebtStats(in)

	assert.Equal(t, 2, stats.ActiveDebts)
	assert.True(t, stats.TotalDebt.Equal(dec("4000")))
	assert.True(t, stats.TotalMonthlyPayments.Equal(dec("300")))
	assert.True(t, stats.TotalInterestPaid.Equal(dec("5")))
	assert.True(t, stats.TotalPrincipalPaid.Equal(dec("145")))
	assert.True(t, stats.AverageInterestRate.Equal(dec("17.5")))
	assert.True(t, stats.DebtToIncomeRatio.Equal(dec("10")))

	assert.Equal(t, PayoffIn(15), stats.PayoffProjection.Months)
	assert.True(t, stats.PayoffProjection.TotalInterest.Equal(dec("500")))
	assert.True(t, stats.PayoffProjection.PayoffDate.Equal(date(2027, 6, 15)))

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "loans", stats.ByCategory[0].CategoryID)
	assert.True(t, stats.ByCategory[0].Percentage.Equal(dec("75")))
	assert.True(t, stats.ByCategory[0].AverageRate.Equal(dec("20")))
	assert.Equal(t, "cards", stats.ByCategory[1].CategoryID)
	assert.Equal(t, 1, stats.ByCategory[1].Count)
	assert.Equal(t, "#ff0000", stats.ByCategory[1].Color)
	assert.True(t, stats.ByCategory[1].TotalDebt.Equal(dec("1000")))

	require.Len(t, stats.ByPriority, 3)
	assert.Equal(t, model.PriorityHigh, stats.ByPriority[0].Priority)
	assert.Equal(t, 1, stats.ByPriority[0].Count)
	assert.True(t, stats.ByPriority[0].TotalDebt.Equal(dec("1000")))
	assert.Equal(t, model.PriorityMedium, stats.ByPriority[1].Priority)
	assert.Equal(t, 0, stats.ByPriority[1].Count)
	assert.True(t, stats.ByPriority[1].TotalDebt.IsZero())
	assert.Equal(t, model.PriorityLow, stats.ByPriority[2].Priority)
	assert.True(t, stats.ByPriority[2].MonthlyPayment.Equal(dec("200")))
}

func TestComputeDebtStatsEmpty(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	stats := ComputeDebtStats(DebtStatsInput{Now: now})

	assert.Equal(t, 0, stats.ActiveDebts)
	assert.True(t, stats.TotalDebt.IsZero())
	assert.True(t, stats.DebtToIncomeRatio.IsZero())
	assert.Equal(t, PayoffIn(0), stats.PayoffProjection.Months)
	assert.True(t, stats.PayoffProjection.PayoffDate.Equal(now))
	assert.Empty(t, stats.ByCategory)
	assert.Len(t, stats.ByPriority, 3)
}
