package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/storage"
)

// repo is an opened data repository.
type repo struct {
	root    string
	cfg     *config.Config
	logger  *log.Logger
	store   ledger.Store
	service *ledger.Service
	close   func() error
}

// openRepo resolves --repo, loads its configuration and opens the
// configured store. Callers must call close.
func openRepo(cmd *cobra.Command, g *globalFlags) (*repo, error) {
	root, err := filepath.Abs(g.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadRepo(root)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logger = logger.With(log.FieldRepo, root, log.FieldBackend, cfg.Storage.Backend)

	store, closeFn, err := openStore(root, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("repository opened")

	return &repo{
		root:    root,
		cfg:     cfg,
		logger:  logger,
		store:   store,
		service: ledger.NewService(store, time.Now),
		close:   closeFn,
	}, nil
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.New(log.Config{Level: lvl, Component: log.ComponentCLI, Output: w}), nil
}

func openStore(root string, cfg *config.Config) (ledger.Store, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := storage.OpenSQLite(cfg.SQLitePath(root))
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return ledger.NewCSVStore(root), func() error { return nil }, nil
	}
}

// ctx returns the command context carrying the repo logger.
func (r *repo) ctx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return log.WithContext(ctx, r.logger)
}

// record appends an activity entry and, when enabled, commits the data
// repository. The entry carries the hash of the commit holding the change.
func (r *repo) record(ctx context.Context, action activity.Action, entityID, details string) error {
	hash := ""
	if r.cfg.Git.AutoCommit && gitops.Available() && gitops.IsRepo(r.root) {
		author := gitops.Author{Name: r.cfg.Git.AuthorName, Email: r.cfg.Git.AuthorEmail}
		h, err := gitops.CommitAll(ctx, r.root, fmt.Sprintf("%s: %s", action, details), author)
		if err != nil {
			return fmt.Errorf("committing %s: %w", action, err)
		}
		hash = h
		r.logger.WithComponent(log.ComponentGit).Debug("committed", log.FieldCommit, hash)
	}

	err := activity.Append(r.root, activity.Entry{
		Timestamp:  time.Now().UTC(),
		Action:     action,
		Details:    details,
		EntityID:   entityID,
		CommitHash: hash,
	})
	if err != nil {
		r.logger.Warn("failed to write activity log", log.FieldError, err)
	}
	return nil
}
