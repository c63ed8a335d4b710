package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
)

// Columns mirror the CSV headers so rows share the ledger codecs.
var (
	accountsTable   = table{"accounts", ledger.AccountsHeader}
	incomesTable    = table{"incomes", ledger.IncomesHeader}
	expensesTable   = table{"expenses", ledger.ExpensesHeader}
	categoriesTable = table{"debt_categories", ledger.CategoriesHeader}
	debtsTable      = table{"debts", ledger.DebtsHeader}
	paymentsTable   = table{"debt_payments", ledger.PaymentsHeader}
)

type table struct {
	name   string
	header string
}

func (t table) columns() []string {
	return strings.Split(t.header, ",")
}

// SQLiteStore keeps snapshots in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at dbPath and applies
// pending migrations.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads every table in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) (model.Snapshot, error) {
	var (
		snap model.Snapshot
		err  error
	)
	if snap.Accounts, err = selectAll(ctx, s.db, accountsTable, ledger.UnmarshalAccount); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Incomes, err = selectAll(ctx, s.db, incomesTable, ledger.UnmarshalIncome); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Expenses, err = selectAll(ctx, s.db, expensesTable, ledger.UnmarshalExpense); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Categories, err = selectAll(ctx, s.db, categoriesTable, ledger.UnmarshalCategory); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Debts, err = selectAll(ctx, s.db, debtsTable, ledger.UnmarshalDebt); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Payments, err = selectAll(ctx, s.db, paymentsTable, ledger.UnmarshalPayment); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// Save replaces the stored snapshot in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap model.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = replaceAll(ctx, tx, accountsTable, snap.Accounts, ledger.MarshalAccount); err != nil {
		return err
	}
	if err = replaceAll(ctx, tx, incomesTable, snap.Incomes, ledger.MarshalIncome); err != nil {
		return err
	}
	if err = replaceAll(ctx, tx, expensesTable, snap.Expenses, ledger.MarshalExpense); err != nil {
		return err
	}
	if err = replaceAll(ctx, tx, categoriesTable, snap.Categories, ledger.MarshalCategory); err != nil {
		return err
	}
	if err = replaceAll(ctx, tx, debtsTable, snap.Debts, ledger.MarshalDebt); err != nil {
		return err
	}
	if err = replaceAll(ctx, tx, paymentsTable, snap.Payments, ledger.MarshalPayment); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.FromContext(ctx).WithComponent(log.ComponentStorage).Debug("snapshot saved",
		log.FieldOperation, log.OpSave, "payments", len(snap.Payments))
	return nil
}

func selectAll[T any](ctx context.Context, db *sql.DB, t table, unmarshal func([]string) (T, error)) ([]T, error) {
	cols := t.columns()
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY position", strings.Join(cols, ", "), t.name)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []T
	record := make([]string, len(cols))
	dest := make([]any, len(cols))
	for i := range record {
		dest[i] = &record[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		v, err := unmarshal(record)
		if err != nil {
			return nil, fmt.Errorf("decode %s row: %w", t.name, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.name, err)
	}
	return out, nil
}

func replaceAll[T any](ctx context.Context, tx *sql.Tx, t table, items []T, marshal func(T) []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.name); err != nil {
		return fmt.Errorf("clear %s: %w", t.name, err)
	}
	if len(items) == 0 {
		return nil
	}

	cols := t.columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)+1), ", ")
	query := fmt.Sprintf("INSERT INTO %s (position, %s) VALUES (%s)", t.name, strings.Join(cols, ", "), placeholders)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", t.name, err)
	}
	defer stmt.Close()

	for i, item := range items {
		row := marshal(item)
		args := make([]any, 0, len(row)+1)
		args = append(args, i)
		for _, v := range row {
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", t.name, err)
		}
	}
	return nil
}
