package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType says how a payment is applied to a debt.
type PaymentType string

const (
	PaymentTypePrincipal PaymentType = "principal"
	PaymentTypeInterest  PaymentType = "interest"
	PaymentTypeMixed     PaymentType = "mixed"
	PaymentTypeExtra     PaymentType = "extra"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypePrincipal, PaymentTypeInterest, PaymentTypeMixed, PaymentTypeExtra:
		return true
	}
	return false
}

// DebtPayment represents a row in debt-payments.csv.
// PrincipalAmount + InterestAmount equals Amount.
type DebtPayment struct {
	ID              string          `json:"id"`
	DebtID          string          `json:"debt_id"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	PaymentType     PaymentType     `json:"payment_type"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount"`
	Notes           string          `json:"notes,omitempty"`
}
