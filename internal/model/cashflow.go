package model

import "github.com/shopspring/decimal"

// Frequency is how often an income or expense recurs.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyYearly
}

// Income represents a row in incomes.csv.
type Income struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Frequency   Frequency
}

// Expense represents a row in expenses.csv.
type Expense struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Frequency   Frequency
	Category    string
}
