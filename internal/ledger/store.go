package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
)

// Store loads and saves whole snapshots.
type Store interface {
	Load(ctx context.Context) (model.Snapshot, error)
	Save(ctx context.Context, s model.Snapshot) error
}

// DataDir is the directory under the repo root holding the entry CSVs.
const DataDir = "data"

// Entry CSV file names under DataDir.
const (
	AccountsFile   = "accounts.csv"
	IncomesFile    = "incomes.csv"
	ExpensesFile   = "expenses.csv"
	DebtsFile      = "debts.csv"
	CategoriesFile = "debt-categories.csv"
	PaymentsFile   = "debt-payments.csv"
)

// CSVStore keeps one CSV file per entry kind under <root>/data.
type CSVStore struct {
	dir string
}

// NewCSVStore creates a CSVStore rooted at a repo directory.
func NewCSVStore(repoRoot string) *CSVStore {
	return &CSVStore{dir: filepath.Join(repoRoot, DataDir)}
}

// Dir returns the data directory.
func (s *CSVStore) Dir() string {
	return s.dir
}

// Load reads every entry file concurrently. Missing files read as empty.
func (s *CSVStore) Load(ctx context.Context) (model.Snapshot, error) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentStorage)
	start := time.Now()

	var snap model.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Accounts, err = readFile(ctx, s.path(AccountsFile), ReadAccounts)
		return err
	})
	g.Go(func() (err error) {
		snap.Incomes, err = readFile(ctx, s.path(IncomesFile), ReadIncomes)
		return err
	})
	g.Go(func() (err error) {
		snap.Expenses, err = readFile(ctx, s.path(ExpensesFile), ReadExpenses)
		return err
	})
	g.Go(func() (err error) {
		snap.Debts, err = readFile(ctx, s.path(DebtsFile), ReadDebts)
		return err
	})
	g.Go(func() (err error) {
		snap.Categories, err = readFile(ctx, s.path(CategoriesFile), ReadCategories)
		return err
	})
	g.Go(func() (err error) {
		snap.Payments, err = readFile(ctx, s.path(PaymentsFile), ReadPayments)
		return err
	})

	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}
	logger.Debug("snapshot loaded", log.FieldOperation, log.OpLoad, "dir", s.dir,
		log.FieldDuration, time.Since(start).Milliseconds())
	return snap, nil
}

// Save writes every entry file. Each file is replaced atomically.
func (s *CSVStore) Save(ctx context.Context, snap model.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	writes := []struct {
		name  string
		write func(io.Writer) error
	}{
		{AccountsFile, func(w io.Writer) error { return WriteAccounts(w, snap.Accounts) }},
		{IncomesFile, func(w io.Writer) error { return WriteIncomes(w, snap.Incomes) }},
		{ExpensesFile, func(w io.Writer) error { return WriteExpenses(w, snap.Expenses) }},
		{DebtsFile, func(w io.Writer) error { return WriteDebts(w, snap.Debts) }},
		{CategoriesFile, func(w io.Writer) error { return WriteCategories(w, snap.Categories) }},
		{PaymentsFile, func(w io.Writer) error { return WritePayments(w, snap.Payments) }},
	}
	for _, f := range writes {
		if err := ctx.Err(); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := f.write(&buf); err != nil {
			return fmt.Errorf("encoding %s: %w", f.name, err)
		}
		if err := writeFileAtomic(s.path(f.name), buf.Bytes()); err != nil {
			return err
		}
	}
	log.FromContext(ctx).WithComponent(log.ComponentStorage).
		Debug("snapshot saved", log.FieldOperation, log.OpSave, "dir", s.dir)
	return nil
}

func (s *CSVStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func readFile[T any](ctx context.Context, path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting mode of %s: %w", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
