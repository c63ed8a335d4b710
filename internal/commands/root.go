package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/buildinfo"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	repo     string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal finance figures from a plain-text data repository",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.repo, "repo", ".", "data repository directory")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides tally.yaml")

	rootCmd.AddCommand(
		newInitCommand(g),
		newSummaryCommand(g),
		newProjectionCommand(g),
		newDebtCommand(g),
		newReportCommand(g),
		newCheckCommand(g),
	)

	return rootCmd
}
