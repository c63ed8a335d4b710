package finance

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// calcPlaces bounds the scale of intermediate interest so long simulations
// keep a compact decimal representation.
const calcPlaces = 10

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Payoff is the number of months needed to clear a balance, or Never when
// the payment does not cover the accruing interest.
type Payoff struct {
	months int
	never  bool
}

// Never is the payoff of a balance that does not shrink.
var Never = Payoff{never: true}

// PayoffIn returns a finite payoff of n months.
func PayoffIn(n int) Payoff {
	if n < 0 {
		n = 0
	}
	return Payoff{months: n}
}

// Months returns the month count and true, or 0 and false for Never.
func (p Payoff) Months() (int, bool) {
	if p.never {
		return 0, false
	}
	return p.months, true
}

// IsNever reports whether the balance never pays off.
func (p Payoff) IsNever() bool {
	return p.never
}

func (p Payoff) String() string {
	if p.never {
		return "never"
	}
	return strconv.Itoa(p.months)
}

// MarshalJSON encodes a finite payoff as a number and Never as "never".
func (p Payoff) MarshalJSON() ([]byte, error) {
	if p.never {
		return json.Marshal("never")
	}
	return json.Marshal(p.months)
}

// MonthlyRate converts an annual percentage rate into a monthly fraction.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	if !annualRatePercent.IsPositive() {
		return decimal.Zero
	}
	return annualRatePercent.Div(hundred).Div(twelve)
}

// MonthlyInterest is the interest one month adds to balance.
func MonthlyInterest(balance, annualRatePercent decimal.Decimal) decimal.Decimal {
	return balance.Mul(annualRatePercent).Div(hundred).Div(twelve)
}

// PayoffMonths returns how many fixed monthly payments clear balance.
func PayoffMonths(balance, annualRatePercent, monthlyPayment decimal.Decimal) Payoff {
	if !balance.IsPositive() {
		return PayoffIn(0)
	}
	if !monthlyPayment.IsPositive() {
		return Never
	}

	if !annualRatePercent.IsPositive() {
		return PayoffIn(int(balance.Div(monthlyPayment).Ceil().IntPart()))
	}

	r := MonthlyRate(annualRatePercent)
	interest := balance.Mul(r)
	if monthlyPayment.LessThanOrEqual(interest) {
		return Never
	}

	// n = ln(1 + B*r/(P - B*r)) / ln(1 + r)
	ratio := interest.Div(monthlyPayment.Sub(interest)).InexactFloat64()
	n := math.Log1p(ratio) / math.Log1p(r.InexactFloat64())
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Never
	}
	// Absorb float noise so an exact count does not round up a month.
	return PayoffIn(int(math.Ceil(n - 1e-9)))
}

// Simulation is the outcome of paying a fixed amount for a number of months.
type Simulation struct {
	RemainingBalance  decimal.Decimal `json:"remaining_balance"`
	TotalInterestPaid decimal.Decimal `json:"total_interest_paid"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	MonthsElapsed     int             `json:"months_elapsed"`
	// Stalled is set when the payment stopped covering interest; the balance
	// is then frozen at RemainingBalance.
	Stalled bool `json:"stalled"`
}

// SimulateFixedPayments applies monthlyPayment for up to numMonths months,
// stopping early once the balance reaches zero or the payment no longer
// covers the month's interest.
func SimulateFixedPayments(balance, annualRatePercent, monthlyPayment decimal.Decimal, numMonths int) Simulation {
	remaining := decimal.Max(balance, decimal.Zero)
	r := MonthlyRate(annualRatePercent)

	sim := Simulation{
		TotalInterestPaid: decimal.Zero,
		TotalPaid:         decimal.Zero,
	}
	for sim.MonthsElapsed < numMonths && remaining.IsPositive() {
		interest := remaining.Mul(r).Round(calcPlaces)
		principal := decimal.Min(monthlyPayment.Sub(interest), remaining)
		if !principal.IsPositive() {
			sim.Stalled = true
			break
		}
		remaining = remaining.Sub(principal)
		sim.TotalInterestPaid = sim.TotalInterestPaid.Add(interest)
		sim.TotalPaid = sim.TotalPaid.Add(principal).Add(interest)
		sim.MonthsElapsed++
	}
	sim.RemainingBalance = remaining
	return sim
}
