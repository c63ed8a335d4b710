package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/finance"
	"github.com/tally-dev/tally/internal/report"
)

func newSummaryCommand(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show aggregate metrics, expenses by category and the health score",
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
			s := report.Build(snap, report.OptionsFrom(r.cfg), time.Now())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaryJSON{s.Metrics, s.ExpensesByCategory, s.Health})
			}
			return printSummary(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

type summaryJSON struct {
	Metrics            finance.Metrics         `json:"metrics"`
	ExpensesByCategory []report.CategoryAmount `json:"expenses_by_category"`
	Health             finance.HealthScore     `json:"health"`
}

func printSummary(w io.Writer, s report.Summary) error {
	m := s.Metrics
	t := newTable(w)
	t.row("Total balance", report.Money(m.TotalBalance))
	t.row("Total debt", report.Money(m.TotalDebt))
	t.row("Net worth", report.Money(m.NetWorth))
	t.row("Monthly income", report.Money(m.MonthlyIncome))
	t.row("Monthly expenses", report.Money(m.MonthlyExpenses))
	t.row("Monthly debt payments", report.Money(m.MonthlyDebtPayments))
	t.row("Monthly savings", report.Money(m.MonthlySavings))
	t.row("Savings rate", report.Percent(m.SavingsRate))
	t.row("Debt to assets", report.Percent(m.DebtToAssetRatio))
	t.row("Emergency fund", fmt.Sprintf("%s (%s months)", report.Money(m.EmergencyFund), m.EmergencyFundMonths.StringFixed(1)))
	if err := t.flush(); err != nil {
		return err
	}

	if len(s.ExpensesByCategory) > 0 {
		fmt.Fprintln(w)
		t = newTable(w, "CATEGORY", "MONTHLY", "SHARE")
		for _, c := range s.ExpensesByCategory {
			cat := c.Category
			if cat == "" {
				cat = "-"
			}
			t.row(cat, report.Money(c.Monthly), report.Percent(c.Share))
		}
		if err := t.flush(); err != nil {
			return err
		}
	}

	h := s.Health
	fmt.Fprintf(w, "\nHealth: %d/100 (%s)\n", h.Score, h.Status)
	return nil
}
