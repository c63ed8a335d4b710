package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// CSV headers, one file per entry kind.
const (
	AccountsHeader   = "id,name,balance,type"
	IncomesHeader    = "id,description,amount,frequency"
	ExpensesHeader   = "id,description,amount,frequency,category"
	DebtsHeader      = "id,description,category_id,creditor_name,original_amount,current_balance,interest_rate,monthly_payment,minimum_payment,priority,debt_type,is_active,start_date,due_day,created_at,updated_at"
	CategoriesHeader = "id,name,color"
	PaymentsHeader   = "id,debt_id,amount,date,payment_type,principal_amount,interest_amount,notes"
)

const (
	dateFormat  = "2006-01-02"
	stampFormat = time.RFC3339
)

const (
	acctFields = 4
	acctID     = 0
	acctName   = 1
	acctBal    = 2
	acctType   = 3
)

const (
	incomeFields  = 4
	expenseFields = 5
	flowID        = 0
	flowDesc      = 1
	flowAmount    = 2
	flowFreq      = 3
	flowCategory  = 4
)

const (
	debtFields    = 16
	debtID        = 0
	debtDesc      = 1
	debtCategory  = 2
	debtCreditor  = 3
	debtOriginal  = 4
	debtCurrent   = 5
	debtRate      = 6
	debtPayment   = 7
	debtMinimum   = 8
	debtPriority  = 9
	debtType      = 10
	debtActive    = 11
	debtStart     = 12
	debtDueDay    = 13
	debtCreatedAt = 14
	debtUpdatedAt = 15
)

const (
	catFields = 3
	catID     = 0
	catName   = 1
	catColor  = 2
)

const (
	payFields    = 8
	payID        = 0
	payDebtID    = 1
	payAmount    = 2
	payDate      = 3
	payType      = 4
	payPrincipal = 5
	payInterest  = 6
	payNotes     = 7
)

// readRows reads a CSV with a header row and unmarshals every data row.
func readRows[T any](r io.Reader, what string, fields int, unmarshal func([]string) (T, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", what, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var out []T
	for i, rec := range records[1:] {
		v, err := unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeRows[T any](w io.Writer, header string, rows []T, marshal func(T) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(marshal(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	return readRows(r, "accounts", acctFields, UnmarshalAccount)
}

// WriteAccounts writes accounts.csv (including header).
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	return writeRows(w, AccountsHeader, accounts, MarshalAccount)
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, acctFields)
	row[acctID] = a.ID
	row[acctName] = a.Name
	row[acctBal] = a.Balance.StringFixed(2)
	row[acctType] = string(a.Type)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != acctFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", acctFields, len(record))
	}
	balance, err := parseDecimal("balance", record[acctBal])
	if err != nil {
		return model.Account{}, err
	}
	return model.Account{
		ID:      record[acctID],
		Name:    record[acctName],
		Balance: balance,
		Type:    model.AccountType(record[acctType]),
	}, nil
}

// ReadIncomes reads incomes.csv.
func ReadIncomes(r io.Reader) ([]model.Income, error) {
	return readRows(r, "incomes", incomeFields, UnmarshalIncome)
}

// WriteIncomes writes incomes.csv (including header).
func WriteIncomes(w io.Writer, incomes []model.Income) error {
	return writeRows(w, IncomesHeader, incomes, MarshalIncome)
}

// MarshalIncome converts an Income to a CSV row.
func MarshalIncome(in model.Income) []string {
	row := make([]string, incomeFields)
	row[flowID] = in.ID
	row[flowDesc] = in.Description
	row[flowAmount] = in.Amount.StringFixed(2)
	row[flowFreq] = string(in.Frequency)
	return row
}

// UnmarshalIncome converts a CSV row to an Income.
func UnmarshalIncome(record []string) (model.Income, error) {
	if len(record) != incomeFields {
		return model.Income{}, fmt.Errorf("expected %d fields, got %d", incomeFields, len(record))
	}
	amount, err := parseDecimal("amount", record[flowAmount])
	if err != nil {
		return model.Income{}, err
	}
	return model.Income{
		ID:          record[flowID],
		Description: record[flowDesc],
		Amount:      amount,
		Frequency:   model.Frequency(record[flowFreq]),
	}, nil
}

// ReadExpenses reads expenses.csv.
func ReadExpenses(r io.Reader) ([]model.Expense, error) {
	return readRows(r, "expenses", expenseFields, UnmarshalExpense)
}

// WriteExpenses writes expenses.csv (including header).
func WriteExpenses(w io.Writer, expenses []model.Expense) error {
	return writeRows(w, ExpensesHeader, expenses, MarshalExpense)
}

// MarshalExpense converts an Expense to a CSV row.
func MarshalExpense(e model.Expense) []string {
	row := make([]string, expenseFields)
	row[flowID] = e.ID
	row[flowDesc] = e.Description
	row[flowAmount] = e.Amount.StringFixed(2)
	row[flowFreq] = string(e.Frequency)
	row[flowCategory] = e.Category
	return row
}

// UnmarshalExpense converts a CSV row to an Expense.
func UnmarshalExpense(record []string) (model.Expense, error) {
	if len(record) != expenseFields {
		return model.Expense{}, fmt.Errorf("expected %d fields, got %d", expenseFields, len(record))
	}
	amount, err := parseDecimal("amount", record[flowAmount])
	if err != nil {
		return model.Expense{}, err
	}
	return model.Expense{
		ID:          record[flowID],
		Description: record[flowDesc],
		Amount:      amount,
		Frequency:   model.Frequency(record[flowFreq]),
		Category:    record[flowCategory],
	}, nil
}

// ReadDebts reads debts.csv.
func ReadDebts(r io.Reader) ([]model.DebtEntry, error) {
	return readRows(r, "debts", debtFields, UnmarshalDebt)
}

// WriteDebts writes debts.csv (including header).
func WriteDebts(w io.Writer, debts []model.DebtEntry) error {
	return writeRows(w, DebtsHeader, debts, MarshalDebt)
}

// MarshalDebt converts a DebtEntry to a CSV row.
func MarshalDebt(d model.DebtEntry) []string {
	row := make([]string, debtFields)
	row[debtID] = d.ID
	row[debtDesc] = d.Description
	row[debtCategory] = d.CategoryID
	row[debtCreditor] = d.CreditorName
	row[debtOriginal] = d.OriginalAmount.StringFixed(2)
	row[debtCurrent] = d.CurrentBalance.StringFixed(2)
	row[debtRate] = d.InterestRate.String()
	row[debtPayment] = d.MonthlyPayment.StringFixed(2)
	if d.MinimumPayment.Valid {
		row[debtMinimum] = d.MinimumPayment.Decimal.StringFixed(2)
	}
	row[debtPriority] = string(d.Priority)
	row[debtType] = string(d.DebtType)
	row[debtActive] = strconv.FormatBool(d.IsActive)
	if !d.StartDate.IsZero() {
		row[debtStart] = d.StartDate.Format(dateFormat)
	}
	if d.DueDay != 0 {
		row[debtDueDay] = strconv.Itoa(d.DueDay)
	}
	if !d.CreatedAt.IsZero() {
		row[debtCreatedAt] = d.CreatedAt.UTC().Format(stampFormat)
	}
	if !d.UpdatedAt.IsZero() {
		row[debtUpdatedAt] = d.UpdatedAt.UTC().Format(stampFormat)
	}
	return row
}

// UnmarshalDebt converts a CSV row to a DebtEntry.
func UnmarshalDebt(record []string) (model.DebtEntry, error) {
	if len(record) != debtFields {
		return model.DebtEntry{}, fmt.Errorf("expected %d fields, got %d", debtFields, len(record))
	}

	d := model.DebtEntry{
		ID:           record[debtID],
		Description:  record[debtDesc],
		CategoryID:   record[debtCategory],
		CreditorName: record[debtCreditor],
		Priority:     model.Priority(record[debtPriority]),
		DebtType:     model.DebtType(record[debtType]),
	}

	var err error
	if d.OriginalAmount, err = parseDecimal("original_amount", record[debtOriginal]); err != nil {
		return model.DebtEntry{}, err
	}
	if d.CurrentBalance, err = parseDecimal("current_balance", record[debtCurrent]); err != nil {
		return model.DebtEntry{}, err
	}
	if d.InterestRate, err = parseDecimal("interest_rate", record[debtRate]); err != nil {
		return model.DebtEntry{}, err
	}
	if d.MonthlyPayment, err = parseDecimal("monthly_payment", record[debtPayment]); err != nil {
		return model.DebtEntry{}, err
	}
	if record[debtMinimum] != "" {
		minimum, err := parseDecimal("minimum_payment", record[debtMinimum])
		if err != nil {
			return model.DebtEntry{}, err
		}
		d.MinimumPayment = decimal.NewNullDecimal(minimum)
	}

	if d.IsActive, err = strconv.ParseBool(record[debtActive]); err != nil {
		return model.DebtEntry{}, fmt.Errorf("parsing is_active %q: %w", record[debtActive], err)
	}
	if record[debtStart] != "" {
		if d.StartDate, err = time.Parse(dateFormat, record[debtStart]); err != nil {
			return model.DebtEntry{}, fmt.Errorf("parsing start_date %q: %w", record[debtStart], err)
		}
	}
	if record[debtDueDay] != "" {
		if d.DueDay, err = strconv.Atoi(record[debtDueDay]); err != nil {
			return model.DebtEntry{}, fmt.Errorf("parsing due_day %q: %w", record[debtDueDay], err)
		}
	}
	if record[debtCreatedAt] != "" {
		if d.CreatedAt, err = time.Parse(stampFormat, record[debtCreatedAt]); err != nil {
			return model.DebtEntry{}, fmt.Errorf("parsing created_at %q: %w", record[debtCreatedAt], err)
		}
	}
	if record[debtUpdatedAt] != "" {
		if d.UpdatedAt, err = time.Parse(stampFormat, record[debtUpdatedAt]); err != nil {
			return model.DebtEntry{}, fmt.Errorf("parsing updated_at %q: %w", record[debtUpdatedAt], err)
		}
	}
	return d, nil
}

// ReadCategories reads debt-categories.csv.
func ReadCategories(r io.Reader) ([]model.DebtCategory, error) {
	return readRows(r, "debt categories", catFields, UnmarshalCategory)
}

// WriteCategories writes debt-categories.csv (including header).
func WriteCategories(w io.Writer, categories []model.DebtCategory) error {
	return writeRows(w, CategoriesHeader, categories, MarshalCategory)
}

// MarshalCategory converts a DebtCategory to a CSV row.
func MarshalCategory(c model.DebtCategory) []string {
	return []string{c.ID, c.Name, c.Color}
}

// UnmarshalCategory converts a CSV row to a DebtCategory.
func UnmarshalCategory(record []string) (model.DebtCategory, error) {
	if len(record) != catFields {
		return model.DebtCategory{}, fmt.Errorf("expected %d fields, got %d", catFields, len(record))
	}
	return model.DebtCategory{
		ID:    record[catID],
		Name:  record[catName],
		Color: record[catColor],
	}, nil
}

// ReadPayments reads debt-payments.csv.
func ReadPayments(r io.Reader) ([]model.DebtPayment, error) {
	return readRows(r, "debt payments", payFields, UnmarshalPayment)
}

// WritePayments writes debt-payments.csv (including header).
func WritePayments(w io.Writer, payments []model.DebtPayment) error {
	return writeRows(w, PaymentsHeader, payments, MarshalPayment)
}

// MarshalPayment converts a DebtPayment to a CSV row.
func MarshalPayment(p model.DebtPayment) []string {
	row := make([]string, payFields)
	row[payID] = p.ID
	row[payDebtID] = p.DebtID
	row[payAmount] = p.Amount.StringFixed(2)
	row[payDate] = p.Date.Format(dateFormat)
	row[payType] = string(p.PaymentType)
	row[payPrincipal] = p.PrincipalAmount.StringFixed(2)
	row[payInterest] = p.InterestAmount.StringFixed(2)
	row[payNotes] = p.Notes
	return row
}

// UnmarshalPayment converts a CSV row to a DebtPayment.
func UnmarshalPayment(record []string) (model.DebtPayment, error) {
	if len(record) != payFields {
		return model.DebtPayment{}, fmt.Errorf("expected %d fields, got %d", payFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[payDate])
	if err != nil {
		return model.DebtPayment{}, fmt.Errorf("parsing date %q: %w", record[payDate], err)
	}

	p := model.DebtPayment{
		ID:          record[payID],
		DebtID:      record[payDebtID],
		Date:        date,
		PaymentType: model.PaymentType(record[payType]),
		Notes:       record[payNotes],
	}
	if p.Amount, err = parseDecimal("amount", record[payAmount]); err != nil {
		return model.DebtPayment{}, err
	}
	if p.PrincipalAmount, err = parseDecimal("principal_amount", record[payPrincipal]); err != nil {
		return model.DebtPayment{}, err
	}
	if p.InterestAmount, err = parseDecimal("interest_amount", record[payInterest]); err != nil {
		return model.DebtPayment{}, err
	}
	return p, nil
}

// parseDecimal parses a money or rate column; an empty value is zero.
func parseDecimal(column, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s %q: %w", column, value, err)
	}
	return d, nil
}
