package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestDebtsRoundTrip(t *testing.T) {
	debts := sampleSnapshot().Debts

	var buf bytes.Buffer
	require.NoError(t, WriteDebts(&buf, debts))
	assert.True(t, strings.HasPrefix(buf.String(), "id,description,"))

	got, err := ReadDebts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	visa := got[0]
	assert.Equal(t, "visa", visa.ID)
	assert.Equal(t, "cards", visa.CategoryID)
	assert.Equal(t, "Big Bank", visa.CreditorName)
	assert.True(t, visa.CurrentBalance.Equal(dec("1800")))
	assert.True(t, visa.InterestRate.Equal(dec("23.5")))
	require.True(t, visa.MinimumPayment.Valid)
	assert.True(t, visa.MinimumPayment.Decimal.Equal(dec("45")))
	assert.Equal(t, model.PriorityHigh, visa.Priority)
	assert.Equal(t, model.DebtTypeRevolving, visa.DebtType)
	assert.True(t, visa.IsActive)
	assert.True(t, visa.StartDate.Equal(date(2024, 5, 1)))
	assert.Equal(t, 12, visa.DueDay)
	assert.True(t, visa.CreatedAt.Equal(debts[0].CreatedAt))
	assert.True(t, visa.UpdatedAt.Equal(debts[0].UpdatedAt))

	car := got[1]
	assert.False(t, car.MinimumPayment.Valid)
	assert.True(t, car.StartDate.IsZero())
	assert.Equal(t, 0, car.DueDay)
	assert.True(t, car.CreatedAt.IsZero())
}

func TestPaymentsRoundTrip(t *testing.T) {
	payments := sampleSnapshot().Payments

	var buf bytes.Buffer
	require.NoError(t, WritePayments(&buf, payments))

	got, err := ReadPayments(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "visa", got[0].DebtID)
	assert.True(t, got[0].Date.Equal(date(2026, 1, 12)))
	assert.Equal(t, model.PaymentTypeMixed, got[0].PaymentType)
	assert.True(t, got[0].PrincipalAmount.Equal(dec("114.75")))
	assert.True(t, got[0].InterestAmount.Equal(dec("35.25")))
	assert.Equal(t, "January", got[0].Notes)
}

func TestAccountsQuotedNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, sampleSnapshot().Accounts))
	assert.Contains(t, buf.String(), `"Rainy day, emergency"`)
	assert.Contains(t, buf.String(), "2500.10")

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rainy day, emergency", got[1].Name)
	assert.Equal(t, model.AccountTypeSavings, got[1].Type)
}

func TestCashflowRoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	var buf bytes.Buffer
	require.NoError(t, WriteIncomes(&buf, snap.Incomes))
	incomes, err := ReadIncomes(&buf)
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.True(t, incomes[0].Amount.Equal(dec("4200")))

	buf.Reset()
	require.NoError(t, WriteExpenses(&buf, snap.Expenses))
	expenses, err := ReadExpenses(&buf)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, model.FrequencyYearly, expenses[1].Frequency)
	assert.Equal(t, "transport", expenses[1].Category)
}

func TestReadEmpty(t *testing.T) {
	got, err := ReadDebts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ReadDebts(strings.NewReader(DebtsHeader + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bad amount", PaymentsHeader + "\np1,visa,abc,2026-01-01,mixed,0,0,\n", "row 2: parsing amount"},
		{"bad date", PaymentsHeader + "\np1,visa,10,01/02/2026,mixed,10,0,\n", "row 2: parsing date"},
		{"wrong field count", PaymentsHeader + "\np1,visa,10\n", "reading debt payments CSV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPayments(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnmarshalDebtBadBool(t *testing.T) {
	row := MarshalDebt(sampleSnapshot().Debts[0])
	row[debtActive] = "maybe"
	_, err := UnmarshalDebt(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is_active")
}
