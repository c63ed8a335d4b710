package finance

import (
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// State is the input of the aggregate metrics and the projection engine.
type State struct {
	Accounts []model.Account
	Incomes  []model.Income
	Expenses []model.Expense
	Debts    []model.Debt
}

// StateFromSnapshot builds a State from a snapshot, using the active debts.
func StateFromSnapshot(s model.Snapshot) State {
	return State{
		Accounts: s.Accounts,
		Incomes:  s.Incomes,
		Expenses: s.Expenses,
		Debts:    s.SimpleDebts(),
	}
}

// Metrics are the aggregate figures derived from a State.
type Metrics struct {
	TotalBalance        decimal.Decimal `json:"total_balance"`
	TotalDebt           decimal.Decimal `json:"total_debt"`
	MonthlyIncome       decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses     decimal.Decimal `json:"monthly_expenses"`
	MonthlyDebtPayments decimal.Decimal `json:"monthly_debt_payments"`
	MonthlySavings      decimal.Decimal `json:"monthly_savings"`
	NetWorth            decimal.Decimal `json:"net_worth"`
	SavingsRate         decimal.Decimal `json:"savings_rate"`
	DebtToAssetRatio    decimal.Decimal `json:"debt_to_asset_ratio"`
	EmergencyFund       decimal.Decimal `json:"emergency_fund"`
	EmergencyFundMonths decimal.Decimal `json:"emergency_fund_months"`
}

// ToMonthly normalizes an amount to its monthly equivalent.
func ToMonthly(amount decimal.Decimal, f model.Frequency) decimal.Decimal {
	if f == model.FrequencyYearly {
		return amount.Div(twelve)
	}
	return amount
}

// ToYearly normalizes an amount to its yearly equivalent.
func ToYearly(amount decimal.Decimal, f model.Frequency) decimal.Decimal {
	if f == model.FrequencyMonthly {
		return amount.Mul(twelve)
	}
	return amount
}

// TotalBalance sums account balances.
func TotalBalance(accounts []model.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// EmergencyFund sums the balances of savings accounts.
func EmergencyFund(accounts []model.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Type == model.AccountTypeSavings {
			total = total.Add(a.Balance)
		}
	}
	return total
}

// MonthlyIncome sums incomes normalized to a month.
func MonthlyIncome(incomes []model.Income) decimal.Decimal {
	total := decimal.Zero
	for _, in := range incomes {
		total = total.Add(ToMonthly(in.Amount, in.Frequency))
	}
	return total
}

// MonthlyExpenses sums expenses normalized to a month.
func MonthlyExpenses(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(ToMonthly(e.Amount, e.Frequency))
	}
	return total
}

// ExpensesByCategory groups monthly-normalized expenses by category.
func ExpensesByCategory(expenses []model.Expense) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		sum, ok := out[e.Category]
		if !ok {
			sum = decimal.Zero
		}
		out[e.Category] = sum.Add(ToMonthly(e.Amount, e.Frequency))
	}
	return out
}

// TotalDebt sums the live balances of simple debts.
func TotalDebt(debts []model.Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Amount)
	}
	return total
}

// MonthlyDebtPayments sums the scheduled payments of simple debts.
func MonthlyDebtPayments(debts []model.Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.MonthlyPayment)
	}
	return total
}

// TotalActiveDebt sums current balances of active entries.
func TotalActiveDebt(entries []model.DebtEntry) decimal.Decimal {
	total := decimal.Zero
	for _, d := range entries {
		if d.IsActive {
			total = total.Add(d.CurrentBalance)
		}
	}
	return total
}

// ActiveMonthlyPayments sums monthly payments of active entries.
func ActiveMonthlyPayments(entries []model.DebtEntry) decimal.Decimal {
	total := decimal.Zero
	for _, d := range entries {
		if d.IsActive {
			total = total.Add(d.MonthlyPayment)
		}
	}
	return total
}

// Percentage returns part as a percentage of total, or zero when total is zero.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}

// PercentChange returns the change from previous to current in percent,
// or zero when previous is zero.
func PercentChange(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred)
}

// DebtProgress is the share of the original amount already repaid.
func DebtProgress(d model.DebtEntry) decimal.Decimal {
	if !d.OriginalAmount.IsPositive() {
		return decimal.Zero
	}
	paid := d.OriginalAmount.Sub(d.CurrentBalance)
	return Percentage(decimal.Max(paid, decimal.Zero), d.OriginalAmount)
}

// Compute derives the aggregate metrics of a state.
func Compute(s State) Metrics {
	m := Metrics{
		TotalBalance:        TotalBalance(s.Accounts),
		TotalDebt:           TotalDebt(s.Debts),
		MonthlyIncome:       MonthlyIncome(s.Incomes),
		MonthlyExpenses:     MonthlyExpenses(s.Expenses),
		MonthlyDebtPayments: MonthlyDebtPayments(s.Debts),
		EmergencyFund:       EmergencyFund(s.Accounts),
	}
	m.MonthlySavings = m.MonthlyIncome.Sub(m.MonthlyExpenses).Sub(m.MonthlyDebtPayments)
	m.NetWorth = m.TotalBalance.Sub(m.TotalDebt)
	m.SavingsRate = Percentage(m.MonthlySavings, m.MonthlyIncome)

	switch {
	case !m.TotalBalance.IsZero():
		m.DebtToAssetRatio = Percentage(m.TotalDebt, m.TotalBalance)
	case m.TotalDebt.IsPositive():
		m.DebtToAssetRatio = hundred
	default:
		m.DebtToAssetRatio = decimal.Zero
	}

	m.EmergencyFundMonths = decimal.Zero
	if m.MonthlyExpenses.IsPositive() {
		m.EmergencyFundMonths = m.EmergencyFund.Div(m.MonthlyExpenses)
	}
	return m
}
