package finance

import "github.com/shopspring/decimal"

// DefaultProjectionYears is the horizon used when none is given.
const DefaultProjectionYears = 15

// ProjectionPoint is one year of a projection.
type ProjectionPoint struct {
	Year      int             `json:"year"`
	NetWorth  decimal.Decimal `json:"net_worth"`
	TotalDebt decimal.Decimal `json:"total_debt"`
	Savings   decimal.Decimal `json:"savings"`
}

// GenerateProjections projects the state forward one point per year.
//
// Debt is amortized per debt with its own payment. Savings accumulate
// linearly without interest, and projected net worth is the current net
// worth plus accumulated savings; it does not separately add the amortized
// debt reduction.
func GenerateProjections(s State, years int) []ProjectionPoint {
	if years <= 0 {
		years = DefaultProjectionYears
	}

	m := Compute(s)
	points := make([]ProjectionPoint, 0, years)
	for year := 1; year <= years; year++ {
		months := year * 12

		debt := decimal.Zero
		for _, d := range s.Debts {
			sim := SimulateFixedPayments(d.Amount, d.InterestRate, d.MonthlyPayment, months)
			debt = debt.Add(sim.RemainingBalance)
		}

		savings := m.MonthlySavings.Mul(decimal.NewFromInt(int64(months)))
		points = append(points, ProjectionPoint{
			Year:      year,
			NetWorth:  m.NetWorth.Add(savings),
			TotalDebt: debt,
			Savings:   savings,
		})
	}
	return points
}
