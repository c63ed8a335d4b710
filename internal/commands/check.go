package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
)

func newCheckCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the data files and report every problem found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd, g)
			if err != nil {
				return err
			}
			defer r.close()

			snap, err := r.service.Snapshot(r.ctx(cmd))
			if err != nil {
				return err
			}

			problems := ledger.ValidateSnapshot(snap)
			w := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintf(w, "OK: %d accounts, %d debts, %d payments\n", len(snap.Accounts), len(snap.Debts), len(snap.Payments))
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(w, p.Error())
			}
			r.logger.Debug("validation failed", log.FieldOperation, log.OpValidate, "problems", len(problems))
			return fmt.Errorf("%d problem(s) found", len(problems))
		},
	}
}
