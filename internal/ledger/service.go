package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/finance"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
)

var (
	ErrDebtNotFound       = errors.New("debt not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidPaymentType = errors.New("unknown payment type")
)

// Service applies payment lifecycle changes to a snapshot and persists them
// through a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a ledger Service. A nil clock means time.Now.
func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Snapshot loads the current snapshot.
func (s *Service) Snapshot(ctx context.Context) (model.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("loading snapshot: %w", err)
	}
	return snap, nil
}

// RecordPaymentParams holds parameters for recording a debt payment.
type RecordPaymentParams struct {
	DebtID      string
	Amount      decimal.Decimal
	Date        time.Time // zero means today
	PaymentType model.PaymentType
	Notes       string
}

// SplitPayment divides amount into principal and interest for a debt.
// A mixed payment covers the month's interest (rounded to cents) first.
func SplitPayment(d model.DebtEntry, amount decimal.Decimal, t model.PaymentType) (principal, interest decimal.Decimal) {
	switch t {
	case model.PaymentTypeInterest:
		return decimal.Zero, amount
	case model.PaymentTypeMixed:
		interest = decimal.Min(amount, finance.MonthlyInterest(d.CurrentBalance, d.InterestRate).Round(2))
		return amount.Sub(interest), interest
	default:
		return amount, decimal.Zero
	}
}

// RecordPayment appends a payment and reduces the debt's current balance by
// its principal, floored at zero.
func (s *Service) RecordPayment(ctx context.Context, params RecordPaymentParams) (model.DebtPayment, error) {
	if !params.Amount.IsPositive() {
		return model.DebtPayment{}, fmt.Errorf("%w: %s", ErrInvalidAmount, params.Amount)
	}
	if params.PaymentType == "" {
		params.PaymentType = model.PaymentTypeMixed
	}
	if !params.PaymentType.Valid() {
		return model.DebtPayment{}, fmt.Errorf("%w: %q", ErrInvalidPaymentType, params.PaymentType)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return model.DebtPayment{}, err
	}
	snap = snap.Clone()

	idx := debtIndex(snap, params.DebtID)
	if idx < 0 {
		return model.DebtPayment{}, fmt.Errorf("%w: %s", ErrDebtNotFound, params.DebtID)
	}
	debt := snap.Debts[idx]

	date := params.Date
	if date.IsZero() {
		date = s.now()
	}
	principal, interest := SplitPayment(debt, params.Amount, params.PaymentType)

	payment := model.DebtPayment{
		ID:              uuid.NewString(),
		DebtID:          debt.ID,
		Amount:          params.Amount,
		Date:            truncateDay(date),
		PaymentType:     params.PaymentType,
		PrincipalAmount: principal,
		InterestAmount:  interest,
		Notes:           strings.TrimSpace(params.Notes),
	}

	debt.CurrentBalance = decimal.Max(debt.CurrentBalance.Sub(principal), decimal.Zero)
	debt.UpdatedAt = s.now().UTC()
	snap.Debts[idx] = debt
	snap.Payments = append(snap.Payments, payment)

	if err := s.store.Save(ctx, snap); err != nil {
		return model.DebtPayment{}, fmt.Errorf("saving payment: %w", err)
	}
	return payment, nil
}

// DeletePayment removes a payment and restores its principal to the debt,
// capped at the original amount.
func (s *Service) DeletePayment(ctx context.Context, paymentID string) (model.DebtPayment, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return model.DebtPayment{}, err
	}
	snap = snap.Clone()

	pidx := -1
	for i, p := range snap.Payments {
		if p.ID == paymentID {
			pidx = i
			break
		}
	}
	if pidx < 0 {
		return model.DebtPayment{}, fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
	}
	payment := snap.Payments[pidx]
	snap.Payments = append(snap.Payments[:pidx], snap.Payments[pidx+1:]...)

	// The debt may have been removed since; the payment still goes.
	if idx := debtIndex(snap, payment.DebtID); idx >= 0 {
		debt := snap.Debts[idx]
		restored := debt.CurrentBalance.Add(payment.PrincipalAmount)
		if debt.OriginalAmount.IsPositive() {
			restored = decimal.Min(restored, debt.OriginalAmount)
		}
		debt.CurrentBalance = restored
		debt.UpdatedAt = s.now().UTC()
		snap.Debts[idx] = debt
	} else {
		log.FromContext(ctx).WithComponent(log.ComponentLedger).Warn("payment references a missing debt",
			log.FieldPaymentID, payment.ID, log.FieldDebtID, payment.DebtID)
	}

	if err := s.store.Save(ctx, snap); err != nil {
		return model.DebtPayment{}, fmt.Errorf("saving after delete: %w", err)
	}
	return payment, nil
}

// Payments returns the payments of one debt, or all payments when debtID is
// empty.
func (s *Service) Payments(ctx context.Context, debtID string) ([]model.DebtPayment, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if debtID == "" {
		return snap.Payments, nil
	}
	if _, ok := snap.DebtByID(debtID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrDebtNotFound, debtID)
	}
	return snap.PaymentsFor(debtID), nil
}

func debtIndex(snap model.Snapshot, id string) int {
	for i, d := range snap.Debts {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
