package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
)

func newInitCommand(g *globalFlags) *cobra.Command {
	var name string
	var backend string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally data repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			logger, err := newLogger(cmd.ErrOrStderr(), g.logLevel)
			if err != nil {
				return err
			}
			ctx := log.WithContext(cmd.Context(), logger)
			return runInit(ctx, cmd.OutOrStdout(), absDir, name, backend, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "profile name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&backend, "backend", config.BackendCSV, "storage backend (csv or sqlite)")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git init and the initial commit")

	return cmd
}

func runInit(ctx context.Context, w io.Writer, dir, name, backend string, useGit bool) error {
	logger := log.FromContext(ctx)

	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	for _, d := range []string{"data", "logs", "reports"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	cfg.Storage.Backend = backend
	cfg.Git.AutoCommit = useGit
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// An empty snapshot writes every data file with its header row.
	store, closeStore, err := openStore(dir, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := store.Save(ctx, model.Snapshot{}); err != nil {
		return fmt.Errorf("writing data files: %w", err)
	}

	ignore := []string{".env", "reports/"}
	if cfg.Storage.Backend == config.BackendSQLite {
		ignore = append(ignore, "*.db-journal", "*.db-wal", "*.db-shm")
	}
	slices.Sort(ignore)
	if err := writeLines(filepath.Join(dir, ".gitignore"), ignore); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "reports", ".gitkeep"), nil, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if err := activity.Append(dir, activity.Entry{
		Timestamp: time.Now().UTC(),
		Action:    activity.ActionInit,
		Details:   "Initialize " + name,
	}); err != nil {
		return err
	}

	hash := ""
	if useGit {
		if !gitops.Available() {
			logger.Warn("git not found, skipping initial commit")
		} else {
			if err := gitops.Init(ctx, dir); err != nil {
				return err
			}
			author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
			hash, err = gitops.CommitAll(ctx, dir, "init: Initialize "+name, author)
			if err != nil {
				return fmt.Errorf("initial commit: %w", err)
			}
		}
	}

	if hash != "" {
		fmt.Fprintf(w, "Initialized tally repository at %s (%s)\n", dir, hash)
	} else {
		fmt.Fprintf(w, "Initialized tally repository at %s\n", dir)
	}
	return nil
}

func writeLines(path string, lines []string) error {
	var data []byte
	for _, l := range lines {
		data = append(data, l...)
		data = append(data, '\n')
	}
	return os.WriteFile(path, data, 0o644)
}
