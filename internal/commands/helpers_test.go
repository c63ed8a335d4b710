package commands_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/commands"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

// runTally executes the root command in-process and returns combined output.
func runTally(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// initRepo creates a repository without git and seeds it with snap.
func initRepo(t *testing.T, snap model.Snapshot) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "Test Household", "--no-git")
	require.NoError(t, err)
	require.NoError(t, ledger.NewCSVStore(dir).Save(context.Background(), snap))
	return dir
}

func loadRepo(t *testing.T, dir string) model.Snapshot {
	t.Helper()
	snap, err := ledger.NewCSVStore(dir).Load(context.Background())
	require.NoError(t, err)
	return snap
}

func householdSnapshot() model.Snapshot {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return model.Snapshot{
		Accounts: []model.Account{
			{ID: "chk", Name: "Checking", Balance: dec("3000"), Type: model.AccountTypeChecking},
			{ID: "sav", Name: "Rainy day", Balance: dec("6000"), Type: model.AccountTypeSavings},
		},
		Incomes: []model.Income{
			{ID: "salary", Description: "Salary", Amount: dec("4000"), Frequency: model.FrequencyMonthly},
		},
		Expenses: []model.Expense{
			{ID: "rent", Description: "Rent", Amount: dec("1200"), Frequency: model.FrequencyMonthly, Category: "housing"},
			{ID: "insurance", Description: "Car insurance", Amount: dec("600"), Frequency: model.FrequencyYearly, Category: "transport"},
		},
		Categories: []model.DebtCategory{{ID: "cards", Name: "Credit cards", Color: "#c0392b"}},
		Debts: []model.DebtEntry{
			{
				ID: "visa", Description: "Visa", CategoryID: "cards",
				OriginalAmount: dec("2500"), CurrentBalance: dec("1800"),
				InterestRate: dec("23.5"), MonthlyPayment: dec("150"),
				Priority: model.PriorityHigh, DebtType: model.DebtTypeRevolving, IsActive: true,
				CreatedAt: created, UpdatedAt: created,
			},
			{
				ID: "car", Description: "Car loan",
				OriginalAmount: dec("12000"), CurrentBalance: dec("7400"),
				InterestRate: dec("6.9"), MonthlyPayment: dec("260"),
				Priority: model.PriorityMedium, DebtType: model.DebtTypeInstallment, IsActive: true,
				CreatedAt: created, UpdatedAt: created,
			},
		},
	}
}
