package model

import "github.com/shopspring/decimal"

// AccountType classifies where money is held.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeInvestment:
		return true
	}
	return false
}

// Account represents a row in accounts.csv.
type Account struct {
	ID      string
	Name    string
	Balance decimal.Decimal
	Type    AccountType
}
