package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func threeDebts() []model.DebtEntry {
	return []model.DebtEntry{
		entry("a", "1000", "10", "100"),
		entry("b", "3000", "20", "200"),
		entry("c", "500", "5", "50"),
	}
}

func planIDs(r StrategyResult) []string {
	ids := make([]string, 0, len(r.PaymentPlan))
	for _, p := range r.PaymentPlan {
		ids = append(ids, p.DebtID)
	}
	return ids
}

func TestAvalanche(t *testing.T) {
	r := Avalanche(StrategyInput{Debts: threeDebts(), ExtraPayment: dec("100")})

	assert.Equal(t, StrategyAvalanche, r.Name)
	assert.Equal(t, []string{"b", "a", "c"}, planIDs(r))
	assert.Equal(t, 1, r.PaymentPlan[0].Priority)
	assert.True(t, r.PaymentPlan[0].SuggestedPayment.Equal(dec("300")))
	assert.True(t, r.PaymentPlan[0].CurrentPayment.Equal(dec("200")))
	assert.True(t, r.PaymentPlan[1].SuggestedPayment.Equal(dec("100")))

	// b: 12 months at 300, a: 11 at 100, c: 11 at 50
	assert.Equal(t, PayoffIn(12), r.TotalTime)
	assert.True(t, r.TotalInterest.Equal(dec("750")), "interest %s", r.TotalInterest)
	assert.True(t, r.TotalMonthlyPayment.Equal(dec("450")))
	assert.True(t, r.MonthlyIncrease.IsZero())
}

func TestSnowball(t *testing.T) {
	r := Snowball(StrategyInput{Debts: threeDebts(), ExtraPayment: dec("100")})

	assert.Equal(t, []string{"c", "a", "b"}, planIDs(r))
	assert.True(t, r.PaymentPlan[0].SuggestedPayment.Equal(dec("150")))
	assert.True(t, r.PaymentPlan[2].SuggestedPayment.Equal(dec("200")))
	assert.True(t, r.TotalMonthlyPayment.Equal(dec("450")))
}

func TestBalancedOrdering(t *testing.T) {
	r := Balanced(StrategyInput{Debts: threeDebts(), ExtraPayment: dec("100")})

	// scores: c 8.1, a 4.2, b 1.73
	assert.Equal(t, []string{"c", "a", "b"}, planIDs(r))
	assert.True(t, r.PaymentPlan[0].SuggestedPayment.Equal(dec("150")))
}

func TestBalancedAveragesAvalancheAndSnowball(t *testing.T) {
	in := StrategyInput{Debts: threeDebts(), ExtraPayment: dec("100")}
	avalanche := Avalanche(in)
	snowball := Snowball(in)
	balanced := Balanced(in)

	wantInterest := avalanche.TotalInterest.Add(snowball.TotalInterest).Div(decimal.NewFromInt(2))
	assert.True(t, balanced.TotalInterest.Equal(wantInterest))

	am, _ := avalanche.TotalTime.Months()
	sm, _ := snowball.TotalTime.Months()
	bm, ok := balanced.TotalTime.Months()
	require.True(t, ok)
	assert.GreaterOrEqual(t, bm, min(am, sm))
	assert.LessOrEqual(t, bm, max(am, sm))
}

func TestBalancedScore(t *testing.T) {
	assert.True(t, BalancedScore(entry("a", "1000", "10", "100")).Equal(dec("4.2")))
	assert.True(t, BalancedScore(entry("z", "0", "30", "100")).Equal(dec("0.6")))
}

func TestSingleDebtStrategiesAgree(t *testing.T) {
	in := StrategyInput{Debts: []model.DebtEntry{entry("only", "1800", "23.5", "150")}, ExtraPayment: dec("25")}

	avalanche := Avalanche(in)
	for _, r := range []StrategyResult{Snowball(in), Balanced(in)} {
		require.Len(t, r.PaymentPlan, 1)
		assert.Equal(t, avalanche.PaymentPlan[0].DebtID, r.PaymentPlan[0].DebtID)
		assert.Equal(t, avalanche.PaymentPlan[0].Priority, r.PaymentPlan[0].Priority)
		assert.True(t, avalanche.PaymentPlan[0].SuggestedPayment.Equal(r.PaymentPlan[0].SuggestedPayment))
		assert.True(t, avalanche.PaymentPlan[0].CurrentPayment.Equal(r.PaymentPlan[0].CurrentPayment))
		assert.Equal(t, avalanche.TotalTime, r.TotalTime, r.Name)
		assert.True(t, avalanche.TotalInterest.Equal(r.TotalInterest), r.Name)
		assert.True(t, avalanche.TotalMonthlyPayment.Equal(r.TotalMonthlyPayment), r.Name)
	}
}

func TestStrategiesPropagateNever(t *testing.T) {
	debts := []model.DebtEntry{
		entry("ok", "1000", "10", "100"),
		entry("stuck", "10000", "24", "150"),
	}
	// extra goes to "stuck" under avalanche and clears its interest
	in := StrategyInput{Debts: debts, ExtraPayment: dec("100")}

	assert.False(t, Avalanche(in).TotalTime.IsNever())
	assert.True(t, Snowball(in).TotalTime.IsNever())
	assert.True(t, Balanced(in).TotalTime.IsNever())
}

func TestStrategyIgnoresInactiveAndNegativeExtra(t *testing.T) {
	debts := threeDebts()
	debts[1].IsActive = false

	r := Avalanche(StrategyInput{Debts: debts, ExtraPayment: dec("-50")})
	assert.Equal(t, []string{"a", "c"}, planIDs(r))
	assert.True(t, r.PaymentPlan[0].SuggestedPayment.Equal(dec("100")))
}

func TestFixedTerm(t *testing.T) {
	debts := []model.DebtEntry{
		entry("a", "1000", "0", "10"),
		entry("b", "3000", "0", "20"),
	}
	r := FixedTerm(StrategyInput{Debts: debts, TargetMonths: 10})

	assert.Equal(t, StrategyFixedTerm, r.Name)
	assert.Equal(t, PayoffIn(10), r.TotalTime)
	assert.True(t, r.MonthlyIncrease.Equal(dec("370")))
	assert.True(t, r.TotalInterest.IsZero())
	assert.True(t, r.TotalMonthlyPayment.Equal(dec("400")))
	require.Len(t, r.PaymentPlan, 2)
	assert.True(t, r.PaymentPlan[0].SuggestedPayment.Equal(dec("102.5")))
	assert.True(t, r.PaymentPlan[1].SuggestedPayment.Equal(dec("297.5")))
}

func TestFixedTermAlreadyOnTrack(t *testing.T) {
	debts := []model.DebtEntry{entry("a", "1200", "0", "500")}
	r := FixedTerm(StrategyInput{Debts: debts})

	assert.Equal(t, PayoffIn(DefaultTargetMonths), r.TotalTime)
	assert.True(t, r.MonthlyIncrease.IsZero())
	assert.True(t, r.PaymentPlan[0].SuggestedPayment.Equal(dec("500")))
}

func TestFixedTermNoDebt(t *testing.T) {
	r := FixedTerm(StrategyInput{TargetMonths: 12})
	assert.Equal(t, PayoffIn(0), r.TotalTime)
	assert.True(t, r.MonthlyIncrease.IsZero())
	assert.Empty(t, r.PaymentPlan)
}

func TestCompareStrategies(t *testing.T) {
	in := StrategyInput{
		Debts:        threeDebts(),
		ExtraPayment: dec("100"),
		TargetMonths: 24,
		Baseline:     PayoffProjection{Months: PayoffIn(20), TotalInterest: dec("1000")},
	}
	results := CompareStrategies(in)
	require.Len(t, results, 4)

	names := []StrategyName{results[0].Name, results[1].Name, results[2].Name, results[3].Name}
	assert.Equal(t, []StrategyName{StrategyAvalanche, StrategySnowball, StrategyFixedTerm, StrategyBalanced}, names)

	assert.True(t, results[0].Savings.Comparable)
	assert.Equal(t, 8, results[0].Savings.Months)
	assert.True(t, results[0].Savings.Interest.Equal(dec("250")))
}

func TestCompareStrategiesNeverBaseline(t *testing.T) {
	results := CompareStrategies(StrategyInput{
		Debts:    threeDebts(),
		Baseline: PayoffProjection{Months: Never, TotalInterest: decimal.Zero},
	})
	for _, r := range results {
		assert.False(t, r.Savings.Comparable, r.Name)
		assert.True(t, r.Savings.Interest.IsZero())
	}
}

func TestCheapest(t *testing.T) {
	results := []StrategyResult{
		{Name: StrategyAvalanche, TotalTime: Never, TotalInterest: decimal.Zero},
		{Name: StrategySnowball, TotalTime: PayoffIn(20), TotalInterest: dec("300")},
		{Name: StrategyFixedTerm, TotalTime: PayoffIn(36), TotalInterest: dec("120")},
		{Name: StrategyBalanced, TotalTime: PayoffIn(20), TotalInterest: dec("120")},
	}
	best, ok := Cheapest(results)
	require.True(t, ok)
	assert.Equal(t, StrategyFixedTerm, best.Name)

	_, ok = Cheapest(results[:1])
	assert.False(t, ok)
}
