package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Priority is the user-assigned urgency of a debt.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// DebtType describes how a debt is repaid.
type DebtType string

const (
	DebtTypeFixed       DebtType = "fixed"
	DebtTypeRevolving   DebtType = "revolving"
	DebtTypeInstallment DebtType = "installment"
)

// Valid reports whether t is a known debt type.
func (t DebtType) Valid() bool {
	return t == DebtTypeFixed || t == DebtTypeRevolving || t == DebtTypeInstallment
}

// Debt is the minimal debt shape used by projections. Amount is the live
// balance being amortized, not the original principal.
type Debt struct {
	ID             string
	Description    string
	Amount         decimal.Decimal
	InterestRate   decimal.Decimal // percent per year
	MonthlyPayment decimal.Decimal
}

// DebtEntry represents a row in debts.csv.
type DebtEntry struct {
	ID             string
	Description    string
	CategoryID     string
	CreditorName   string
	OriginalAmount decimal.Decimal
	CurrentBalance decimal.Decimal
	InterestRate   decimal.Decimal // percent per year
	MonthlyPayment decimal.Decimal
	MinimumPayment decimal.NullDecimal
	Priority       Priority
	DebtType       DebtType
	IsActive       bool
	StartDate      time.Time
	DueDay         int // 0 = not set
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Simple returns the projection view of the entry, using the current
// balance as the amount.
func (d DebtEntry) Simple() Debt {
	return Debt{
		ID:             d.ID,
		Description:    d.Description,
		Amount:         d.CurrentBalance,
		InterestRate:   d.InterestRate,
		MonthlyPayment: d.MonthlyPayment,
	}
}

// DebtCategory groups debts for breakdowns (e.g. "Credit cards").
type DebtCategory struct {
	ID    string
	Name  string
	Color string
}
