package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tally-dev/tally/internal/model"
)

func sampleState() State {
	return State{
		Accounts: []model.Account{
			{ID: "chk", Name: "Checking", Balance: dec("5000"), Type: model.AccountTypeChecking},
			{ID: "sav", Name: "Rainy day", Balance: dec("10000"), Type: model.AccountTypeSavings},
		},
		Incomes: []model.Income{
			{ID: "i1", Description: "Salary", Amount: dec("6000"), Frequency: model.FrequencyMonthly},
			{ID: "i2", Description: "Bonus", Amount: dec("12000"), Frequency: model.FrequencyYearly},
		},
		Expenses: []model.Expense{
			{ID: "e1", Description: "Rent", Amount: dec("3000"), Frequency: model.FrequencyMonthly, Category: "housing"},
			{ID: "e2", Description: "Insurance", Amount: dec("1200"), Frequency: model.FrequencyYearly, Category: "housing"},
			{ID: "e3", Description: "Gym", Amount: dec("600"), Frequency: model.FrequencyYearly, Category: "health"},
		},
		Debts: []model.Debt{
			{ID: "d1", Description: "Car", Amount: dec("5000"), InterestRate: dec("6"), MonthlyPayment: dec("200")},
		},
	}
}

func TestFrequencyRoundTrip(t *testing.T) {
	amounts := []string{"0", "123.45", "1000", "99.99"}
	for _, a := range amounts {
		amount := dec(a)

		yearly := ToYearly(amount, model.FrequencyMonthly)
		assert.True(t, ToMonthly(yearly, model.FrequencyYearly).Equal(amount), "monthly round trip of %s", a)

		monthly := ToMonthly(amount, model.FrequencyYearly)
		back := ToYearly(monthly, model.FrequencyMonthly)
		assert.InDelta(t, amount.InexactFloat64(), back.InexactFloat64(), 1e-9, "yearly round trip of %s", a)
	}

	assert.True(t, ToMonthly(dec("50"), model.FrequencyMonthly).Equal(dec("50")))
	assert.True(t, ToYearly(dec("50"), model.FrequencyYearly).Equal(dec("50")))
}

func TestCompute(t *testing.T) {
	m := Compute(sampleState())

	assert.True(t, m.TotalBalance.Equal(dec("15000")))
	assert.True(t, m.TotalDebt.Equal(dec("5000")))
	assert.True(t, m.MonthlyIncome.Equal(dec("7000")))
	assert.True(t, m.MonthlyExpenses.Equal(dec("3150")))
	assert.True(t, m.MonthlyDebtPayments.Equal(dec("200")))
	assert.True(t, m.MonthlySavings.Equal(dec("3650")))
	assert.True(t, m.NetWorth.Equal(dec("10000")))
	assert.Equal(t, "52.14", m.SavingsRate.StringFixed(2))
	assert.Equal(t, "33.33", m.DebtToAssetRatio.StringFixed(2))
	assert.True(t, m.EmergencyFund.Equal(dec("10000")))
	assert.Equal(t, "3.17", m.EmergencyFundMonths.StringFixed(2))
}

func TestComputeDegenerate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		m := Compute(State{})
		assert.True(t, m.SavingsRate.IsZero())
		assert.True(t, m.DebtToAssetRatio.IsZero())
		assert.True(t, m.EmergencyFundMonths.IsZero())
		assert.True(t, m.NetWorth.IsZero())
	})

	t.Run("debt without assets", func(t *testing.T) {
		m := Compute(State{Debts: []model.Debt{{ID: "d", Amount: dec("100")}}})
		assert.True(t, m.DebtToAssetRatio.Equal(dec("100")))
		assert.True(t, m.NetWorth.Equal(dec("-100")))
	})

	t.Run("expenses without income", func(t *testing.T) {
		m := Compute(State{Expenses: []model.Expense{{ID: "e", Amount: dec("10"), Frequency: model.FrequencyMonthly}}})
		assert.True(t, m.SavingsRate.IsZero())
		assert.True(t, m.MonthlySavings.Equal(dec("-10")))
	})
}

func TestExpensesByCategory(t *testing.T) {
	got := ExpensesByCategory(sampleState().Expenses)
	assert.Len(t, got, 2)
	assert.True(t, got["housing"].Equal(dec("3100")))
	assert.True(t, got["health"].Equal(dec("50")))
}

func TestTotalActiveDebtSkipsInactive(t *testing.T) {
	a := entry("a", "1000", "10", "100")
	b := entry("b", "400", "10", "50")
	b.IsActive = false

	assert.True(t, TotalActiveDebt([]model.DebtEntry{a, b}).Equal(dec("1000")))
	assert.True(t, ActiveMonthlyPayments([]model.DebtEntry{a, b}).Equal(dec("100")))
}

func TestPercentageHelpers(t *testing.T) {
	assert.True(t, Percentage(dec("5"), decimal.Zero).IsZero())
	assert.True(t, Percentage(dec("25"), dec("200")).Equal(dec("12.5")))

	assert.True(t, PercentChange(decimal.Zero, dec("10")).IsZero())
	assert.True(t, PercentChange(dec("100"), dec("150")).Equal(dec("50")))
	assert.True(t, PercentChange(dec("-100"), dec("-50")).Equal(dec("50")))
}

func TestDebtProgress(t *testing.T) {
	d := entry("a", "1000", "10", "100")
	d.CurrentBalance = dec("250")
	assert.True(t, DebtProgress(d).Equal(dec("75")))

	d.OriginalAmount = decimal.Zero
	assert.True(t, DebtProgress(d).IsZero())
}

func TestStateFromSnapshotUsesActiveDebts(t *testing.T) {
	a := entry("a", "1000", "10", "100")
	b := entry("b", "400", "10", "50")
	b.IsActive = false

	s := StateFromSnapshot(model.Snapshot{Debts: []model.DebtEntry{a, b}})
	assert.Len(t, s.Debts, 1)
	assert.Equal(t, "a", s.Debts[0].ID)
	assert.True(t, s.Debts[0].Amount.Equal(dec("1000")))
}
