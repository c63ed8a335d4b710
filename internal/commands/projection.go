package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/finance"
	"github.com/tally-dev/tally/internal/report"
)

func newProjectionCommand(g *globalFlags) *cobra.Command {
	var years int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "projection",
		Short: "Project net worth, debt and savings forward year by year",
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
			if !cmd.Flags().Changed("years") {
				years = r.cfg.Finance.ProjectionYears
			}
			points := finance.GenerateProjections(finance.StateFromSnapshot(snap), years)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), points)
			}
			return printProjection(cmd.OutOrStdout(), points)
		},
	}

	cmd.Flags().IntVar(&years, "years", finance.DefaultProjectionYears, "number of years to project")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printProjection(w io.Writer, points []finance.ProjectionPoint) error {
	t := newTable(w, "YEAR", "NET WORTH", "DEBT", "SAVINGS")
	for _, p := range points {
		t.row(fmt.Sprint(p.Year), report.Money(p.NetWorth), report.Money(p.TotalDebt), report.Money(p.Savings))
	}
	return t.flush()
}
