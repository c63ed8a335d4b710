package finance

import "github.com/shopspring/decimal"

// HealthStatus labels a health score.
type HealthStatus string

const (
	HealthExcellent        HealthStatus = "Excellent"
	HealthGood             HealthStatus = "Good"
	HealthFair             HealthStatus = "Fair"
	HealthNeedsImprovement HealthStatus = "Needs improvement"
)

// bandPoints is the ceiling of each of the four bands.
const bandPoints = 25

// HealthInputs are the figures the score is derived from.
type HealthInputs struct {
	NetWorth            decimal.Decimal
	SavingsRate         decimal.Decimal
	DebtToAssetRatio    decimal.Decimal
	EmergencyFundMonths decimal.Decimal
}

// HealthScore is a 0-100 composite with its per-band points.
type HealthScore struct {
	Score               int          `json:"score"`
	Status              HealthStatus `json:"status"`
	NetWorthPoints      int          `json:"net_worth_points"`
	SavingsPoints       int          `json:"savings_points"`
	DebtPoints          int          `json:"debt_points"`
	EmergencyFundPoints int          `json:"emergency_fund_points"`
}

type band struct {
	limit  decimal.Decimal
	points int
}

var (
	savingsBands = []band{
		{decimal.NewFromInt(20), 25},
		{decimal.NewFromInt(10), 15},
		{decimal.NewFromInt(5), 10},
	}
	debtBands = []band{
		{decimal.NewFromInt(30), 25},
		{decimal.NewFromInt(50), 15},
		{decimal.NewFromInt(70), 10},
	}
	emergencyBands = []band{
		{decimal.NewFromInt(6), 25},
		{decimal.NewFromInt(3), 15},
		{decimal.NewFromInt(1), 10},
	}
)

// atLeast returns the points of the first band whose limit v reaches.
func atLeast(v decimal.Decimal, bands []band) int {
	for _, b := range bands {
		if v.GreaterThanOrEqual(b.limit) {
			return b.points
		}
	}
	return 0
}

// atMost returns the points of the first band whose limit v stays within.
func atMost(v decimal.Decimal, bands []band) int {
	for _, b := range bands {
		if v.LessThanOrEqual(b.limit) {
			return b.points
		}
	}
	return 0
}

// ScoreHealth applies the fixed band table.
func ScoreHealth(in HealthInputs) HealthScore {
	h := HealthScore{
		SavingsPoints:       atLeast(in.SavingsRate, savingsBands),
		DebtPoints:          atMost(in.DebtToAssetRatio, debtBands),
		EmergencyFundPoints: atLeast(in.EmergencyFundMonths, emergencyBands),
	}
	if in.NetWorth.IsPositive() {
		h.NetWorthPoints = bandPoints
	}
	h.Score = h.NetWorthPoints + h.SavingsPoints + h.DebtPoints + h.EmergencyFundPoints
	h.Status = StatusFor(h.Score)
	return h
}

// HealthFromMetrics scores a set of aggregate metrics.
func HealthFromMetrics(m Metrics) HealthScore {
	return ScoreHealth(HealthInputs{
		NetWorth:            m.NetWorth,
		SavingsRate:         m.SavingsRate,
		DebtToAssetRatio:    m.DebtToAssetRatio,
		EmergencyFundMonths: m.EmergencyFundMonths,
	})
}

// StatusFor labels a score.
func StatusFor(score int) HealthStatus {
	switch {
	case score >= 80:
		return HealthExcellent
	case score >= 60:
		return HealthGood
	case score >= 40:
		return HealthFair
	default:
		return HealthNeedsImprovement
	}
}
