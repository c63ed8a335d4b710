package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleSnapshot() model.Snapshot {
	return model.Snapshot{
		Accounts: []model.Account{
			{ID: "chk", Name: "Everyday", Balance: dec("2500.10"), Type: model.AccountTypeChecking},
			{ID: "sav", Name: "Rainy day, emergency", Balance: dec("9000"), Type: model.AccountTypeSavings},
		},
		Incomes: []model.Income{
			{ID: "salary", Description: "Salary", Amount: dec("4200"), Frequency: model.FrequencyMonthly},
		},
		Expenses: []model.Expense{
			{ID: "rent", Description: "Rent", Amount: dec("1500"), Frequency: model.FrequencyMonthly, Category: "housing"},
			{ID: "car-ins", Description: "Car insurance", Amount: dec("960"), Frequency: model.FrequencyYearly, Category: "transport"},
		},
		Categories: []model.DebtCategory{
			{ID: "cards", Name: "Credit cards", Color: "#d9534f"},
		},
		Debts: []model.DebtEntry{
			{
				ID:             "visa",
				Description:    "Visa card",
				CategoryID:     "cards",
				CreditorName:   "Big Bank",
				OriginalAmount: dec("2500"),
				CurrentBalance: dec("1800"),
				InterestRate:   dec("23.5"),
				MonthlyPayment: dec("150"),
				MinimumPayment: decimal.NewNullDecimal(dec("45")),
				Priority:       model.PriorityHigh,
				DebtType:       model.DebtTypeRevolving,
				IsActive:       true,
				StartDate:      date(2024, 5, 1),
				DueDay:         12,
				CreatedAt:      time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
				UpdatedAt:      time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC),
			},
			{
				ID:             "car",
				Description:    "Car loan",
				OriginalAmount: dec("12000"),
				CurrentBalance: dec("7400"),
				InterestRate:   dec("6.9"),
				MonthlyPayment: dec("310"),
				Priority:       model.PriorityMedium,
				DebtType:       model.DebtTypeInstallment,
				IsActive:       true,
			},
		},
		Payments: []model.DebtPayment{
			{
				ID:              "p1",
				DebtID:          "visa",
				Amount:          dec("150"),
				Date:            date(2026, 1, 12),
				PaymentType:     model.PaymentTypeMixed,
				PrincipalAmount: dec("114.75"),
				InterestAmount:  dec("35.25"),
				Notes:           "January",
			},
		},
	}
}
