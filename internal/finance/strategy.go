package finance

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// StrategyName identifies a repayment strategy.
type StrategyName string

const (
	StrategyAvalanche StrategyName = "avalanche"
	StrategySnowball  StrategyName = "snowball"
	StrategyFixedTerm StrategyName = "fixed_term"
	StrategyBalanced  StrategyName = "balanced"
)

// DefaultTargetMonths is the fixed-term horizon used when none is given.
const DefaultTargetMonths = 36

// Weights of the balanced score: 0.6*(rate/30) + 0.4*(10000/balance).
var (
	rateWeight    = decimal.RequireFromString("0.6")
	balanceWeight = decimal.RequireFromString("0.4")
	rateScale     = decimal.NewFromInt(30)
	balanceScale  = decimal.NewFromInt(10000)
	decimalTwo    = decimal.NewFromInt(2)
)

// StrategyInput holds what every strategy is computed from.
type StrategyInput struct {
	Debts        []model.DebtEntry // inactive entries are ignored
	ExtraPayment decimal.Decimal
	TargetMonths int
	// Baseline is the no-extra-payment projection savings are measured against.
	Baseline PayoffProjection
}

// PlanItem is the suggested payment for one debt. Priority is the 1-based
// rank within the strategy.
type PlanItem struct {
	DebtID           string          `json:"debt_id"`
	Description      string          `json:"description"`
	Priority         int             `json:"priority"`
	SuggestedPayment decimal.Decimal `json:"suggested_payment"`
	CurrentPayment   decimal.Decimal `json:"current_payment"`
	Reasoning        string          `json:"reasoning"`
}

// Savings compares a strategy with the baseline. Comparable is false when
// either side never pays off; Interest and Months are zero then.
type Savings struct {
	Interest   decimal.Decimal `json:"interest"`
	Months     int             `json:"months"`
	Comparable bool            `json:"comparable"`
}

// StrategyResult is a full plan with portfolio totals. TotalInterest is only
// meaningful when TotalTime is finite.
type StrategyResult struct {
	Name                StrategyName    `json:"name"`
	TotalTime           Payoff          `json:"total_time_months"`
	TotalInterest       decimal.Decimal `json:"total_interest"`
	TotalMonthlyPayment decimal.Decimal `json:"total_monthly_payment"`
	MonthlyIncrease     decimal.Decimal `json:"monthly_increase"`
	PaymentPlan         []PlanItem      `json:"payment_plan"`
	Savings             Savings         `json:"savings"`
}

// CompareStrategies computes avalanche, snowball, fixed-term and balanced
// results, in that order, each with its savings against the baseline.
func CompareStrategies(in StrategyInput) []StrategyResult {
	avalanche := Avalanche(in)
	snowball := Snowball(in)
	results := []StrategyResult{
		avalanche,
		snowball,
		FixedTerm(in),
		balanced(in, avalanche, snowball),
	}
	for i := range results {
		results[i].Savings = savingsAgainst(in.Baseline, results[i])
	}
	return results
}

// Cheapest returns the finite strategy with the least interest. Ties keep
// the earlier result.
func Cheapest(results []StrategyResult) (StrategyResult, bool) {
	var best StrategyResult
	found := false
	for _, r := range results {
		if r.TotalTime.IsNever() {
			continue
		}
		if !found || r.TotalInterest.LessThan(best.TotalInterest) {
			best = r
			found = true
		}
	}
	return best, found
}

// Avalanche sends the extra payment to the highest-rate debt.
func Avalanche(in StrategyInput) StrategyResult {
	return prioritized(StrategyAvalanche, in,
		func(a, b model.DebtEntry) bool { return a.InterestRate.GreaterThan(b.InterestRate) },
		func(rank int, d model.DebtEntry) string {
			if rank == 0 {
				return fmt.Sprintf("Highest interest rate (%s%%): receives the extra payment", d.InterestRate.StringFixed(2))
			}
			return fmt.Sprintf("Pay the minimum until higher-rate debts are cleared (%s%%)", d.InterestRate.StringFixed(2))
		})
}

// Snowball sends the extra payment to the smallest balance.
func Snowball(in StrategyInput) StrategyResult {
	return prioritized(StrategySnowball, in,
		func(a, b model.DebtEntry) bool { return a.CurrentBalance.LessThan(b.CurrentBalance) },
		func(rank int, d model.DebtEntry) string {
			if rank == 0 {
				return fmt.Sprintf("Smallest balance (%s): receives the extra payment", d.CurrentBalance.StringFixed(2))
			}
			return "Pay the minimum until smaller balances are cleared"
		})
}

// BalancedScore ranks a debt by rate and balance; higher goes first.
func BalancedScore(d model.DebtEntry) decimal.Decimal {
	score := rateWeight.Mul(d.InterestRate).Div(rateScale)
	if d.CurrentBalance.IsPositive() {
		score = score.Add(balanceWeight.Mul(balanceScale).Div(d.CurrentBalance))
	}
	return score
}

// Balanced sends the extra payment to the best-scored debt. Its totals are
// the mean of the avalanche and snowball totals rather than a simulation of
// its own plan.
func Balanced(in StrategyInput) StrategyResult {
	return balanced(in, Avalanche(in), Snowball(in))
}

func balanced(in StrategyInput, avalanche, snowball StrategyResult) StrategyResult {
	ordered := activeDebts(in.Debts)
	scores := make(map[string]decimal.Decimal, len(ordered))
	for _, d := range ordered {
		scores[d.ID] = BalancedScore(d)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return scores[ordered[i].ID].GreaterThan(scores[ordered[j].ID])
	})

	extra := nonNegative(in.ExtraPayment)
	res := StrategyResult{
		Name:                StrategyBalanced,
		TotalMonthlyPayment: decimal.Zero,
		MonthlyIncrease:     decimal.Zero,
	}
	for i, d := range ordered {
		suggested := d.MonthlyPayment
		reason := fmt.Sprintf("Pay the minimum; rate/balance score %s", scores[d.ID].StringFixed(2))
		if i == 0 {
			suggested = suggested.Add(extra)
			reason = fmt.Sprintf("Best rate/balance score (%s): receives the extra payment", scores[d.ID].StringFixed(2))
		}
		res.TotalMonthlyPayment = res.TotalMonthlyPayment.Add(suggested)
		res.PaymentPlan = append(res.PaymentPlan, PlanItem{
			DebtID:           d.ID,
			Description:      d.Description,
			Priority:         i + 1,
			SuggestedPayment: suggested,
			CurrentPayment:   d.MonthlyPayment,
			Reasoning:        reason,
		})
	}

	res.TotalInterest = avalanche.TotalInterest.Add(snowball.TotalInterest).Div(decimalTwo)
	am, aok := avalanche.TotalTime.Months()
	sm, sok := snowball.TotalTime.Months()
	if aok && sok {
		res.TotalTime = PayoffIn((am + sm + 1) / 2)
	} else {
		res.TotalTime = Never
	}
	return res
}

// FixedTerm raises payments so the whole portfolio clears in the target
// number of months, spreading the increase by share of balance.
func FixedTerm(in StrategyInput) StrategyResult {
	target := in.TargetMonths
	if target <= 0 {
		target = DefaultTargetMonths
	}

	active := activeDebts(in.Debts)
	totalDebt := TotalActiveDebt(active)
	current := ActiveMonthlyPayments(active)

	required := decimal.Zero
	if totalDebt.IsPositive() {
		required = totalDebt.Div(decimal.NewFromInt(int64(target)))
	}
	additional := decimal.Max(required.Sub(current), decimal.Zero)

	res := StrategyResult{
		Name:                StrategyFixedTerm,
		TotalTime:           PayoffIn(target),
		TotalMonthlyPayment: decimal.Zero,
		MonthlyIncrease:     additional,
		TotalInterest:       decimal.Max(required.Mul(decimal.NewFromInt(int64(target))).Sub(totalDebt), decimal.Zero),
	}
	if !totalDebt.IsPositive() {
		res.TotalTime = PayoffIn(0)
	}

	for i, d := range active {
		share := Percentage(d.CurrentBalance, totalDebt)
		suggested := d.MonthlyPayment.Add(additional.Mul(share).Div(hundred))
		res.TotalMonthlyPayment = res.TotalMonthlyPayment.Add(suggested)
		res.PaymentPlan = append(res.PaymentPlan, PlanItem{
			DebtID:           d.ID,
			Description:      d.Description,
			Priority:         i + 1,
			SuggestedPayment: suggested,
			CurrentPayment:   d.MonthlyPayment,
			Reasoning:        fmt.Sprintf("%s%% of the balance; clears with the portfolio in %d months", share.StringFixed(1), target),
		})
	}
	return res
}

func prioritized(name StrategyName, in StrategyInput, less func(a, b model.DebtEntry) bool, reason func(rank int, d model.DebtEntry) string) StrategyResult {
	ordered := activeDebts(in.Debts)
	sort.SliceStable(ordered, func(i, j int) bool { return less(ordered[i], ordered[j]) })

	extra := nonNegative(in.ExtraPayment)
	res := StrategyResult{
		Name:                name,
		TotalInterest:       decimal.Zero,
		TotalMonthlyPayment: decimal.Zero,
		MonthlyIncrease:     decimal.Zero,
	}

	longest := 0
	never := false
	for i, d := range ordered {
		suggested := d.MonthlyPayment
		if i == 0 {
			suggested = suggested.Add(extra)
		}

		if n, ok := PayoffMonths(d.CurrentBalance, d.InterestRate, suggested).Months(); ok {
			if n > longest {
				longest = n
			}
			paid := suggested.Mul(decimal.NewFromInt(int64(n)))
			res.TotalInterest = res.TotalInterest.Add(decimal.Max(paid.Sub(d.CurrentBalance), decimal.Zero))
		} else {
			never = true
		}

		res.TotalMonthlyPayment = res.TotalMonthlyPayment.Add(suggested)
		res.PaymentPlan = append(res.PaymentPlan, PlanItem{
			DebtID:           d.ID,
			Description:      d.Description,
			Priority:         i + 1,
			SuggestedPayment: suggested,
			CurrentPayment:   d.MonthlyPayment,
			Reasoning:        reason(i, d),
		})
	}

	res.TotalTime = PayoffIn(longest)
	if never {
		res.TotalTime = Never
	}
	return res
}

func savingsAgainst(baseline PayoffProjection, r StrategyResult) Savings {
	bm, bok := baseline.Months.Months()
	sm, sok := r.TotalTime.Months()
	if !bok || !sok {
		return Savings{Interest: decimal.Zero}
	}
	return Savings{
		Interest:   baseline.TotalInterest.Sub(r.TotalInterest),
		Months:     bm - sm,
		Comparable: true,
	}
}

func activeDebts(debts []model.DebtEntry) []model.DebtEntry {
	out := make([]model.DebtEntry, 0, len(debts))
	for _, d := range debts {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	return decimal.Max(d, decimal.Zero)
}
