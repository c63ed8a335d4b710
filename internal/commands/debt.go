package commands

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/finance"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/report"
)

func newDebtCommand(g *globalFlags) *cobra.Command {
	debtCmd := &cobra.Command{
		Use:   "debt",
		Short: "Debt statistics, repayment strategies and payments",
	}
	debtCmd.AddCommand(
		newDebtStatsCommand(g),
		newDebtStrategiesCommand(g),
		newDebtPayCommand(g),
		newDebtUnpayCommand(g),
		newDebtPaymentsCommand(g),
	)
	return debtCmd
}

func newDebtStatsCommand(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show portfolio debt statistics",
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
			stats := report.Stats(snap, report.OptionsFrom(r.cfg), time.Now())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			return printDebtStats(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printDebtStats(w io.Writer, st finance.DebtStats) error {
	p := st.PayoffProjection
	t := newTable(w)
	t.row("Active debts", fmt.Sprint(st.ActiveDebts))
	t.row("Total debt", report.Money(st.TotalDebt))
	t.row("Monthly payments", report.Money(st.TotalMonthlyPayments))
	t.row("Average interest rate", report.Percent(st.AverageInterestRate))
	t.row("Debt to income", report.Percent(st.DebtToIncomeRatio))
	t.row("Interest paid this year", report.Money(st.TotalInterestPaid))
	t.row("Principal paid this year", report.Money(st.TotalPrincipalPaid))
	t.row("Payoff in (months)", report.Months(p.Months))
	t.row("Payoff date", report.Date(p.PayoffDate))
	t.row("Projected interest", report.Interest(p.TotalInterest, p.Months))
	if err := t.flush(); err != nil {
		return err
	}

	if len(st.ByCategory) > 0 {
		fmt.Fprintln(w)
		t = newTable(w, "CATEGORY", "DEBTS", "BALANCE", "PAYMENT", "SHARE", "AVG RATE")
		for _, c := range st.ByCategory {
			t.row(c.Name, fmt.Sprint(c.Count), report.Money(c.TotalDebt), report.Money(c.MonthlyPayment),
				report.Percent(c.Percentage), report.Percent(c.AverageRate))
		}
		if err := t.flush(); err != nil {
			return err
		}
	}

	if len(st.ByPriority) > 0 {
		fmt.Fprintln(w)
		t = newTable(w, "PRIORITY", "DEBTS", "BALANCE", "PAYMENT")
		for _, pr := range st.ByPriority {
			t.row(string(pr.Priority), fmt.Sprint(pr.Count), report.Money(pr.TotalDebt), report.Money(pr.MonthlyPayment))
		}
		return t.flush()
	}
	return nil
}

func newDebtStrategiesCommand(g *globalFlags) *cobra.Command {
	var extra string
	var targetMonths int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "Compare avalanche, snowball, fixed-term and balanced repayment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd, g)
			if err != nil {
				return err
			}
			defer r.close()

			opts := report.OptionsFrom(r.cfg)
			if extra != "" {
				opts.ExtraPayment, err = decimal.NewFromString(extra)
				if err != nil {
					return fmt.Errorf("parsing --extra %q: %w", extra, err)
				}
			}
			if cmd.Flags().Changed("target-months") {
				opts.TargetMonths = targetMonths
			}

			snap, err := r.service.Snapshot(r.ctx(cmd))
			if err != nil {
				return err
			}
			results := report.Strategies(snap, opts, report.Stats(snap, opts, time.Now()))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			return printStrategies(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVar(&extra, "extra", "", "extra monthly payment (default from tally.yaml)")
	cmd.Flags().IntVar(&targetMonths, "target-months", finance.DefaultTargetMonths, "fixed-term payoff target in months")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printStrategies(w io.Writer, results []finance.StrategyResult) error {
	t := newTable(w, "STRATEGY", "MONTHS", "INTEREST", "MONTHLY", "INCREASE", "SAVES")
	for _, r := range results {
		saves := report.NotAvailable
		if r.Savings.Comparable {
			saves = fmt.Sprintf("%s / %d months", report.Money(r.Savings.Interest), r.Savings.Months)
		}
		t.row(string(r.Name), report.Months(r.TotalTime), report.Interest(r.TotalInterest, r.TotalTime),
			report.Money(r.TotalMonthlyPayment), report.Money(r.MonthlyIncrease), saves)
	}
	if err := t.flush(); err != nil {
		return err
	}

	for _, r := range results {
		if len(r.PaymentPlan) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", r.Name)
		t = newTable(w, "#", "DEBT", "CURRENT", "SUGGESTED", "REASON")
		for _, item := range r.PaymentPlan {
			t.row(fmt.Sprint(item.Priority), item.Description, report.Money(item.CurrentPayment),
				report.Money(item.SuggestedPayment), item.Reasoning)
		}
		if err := t.flush(); err != nil {
			return err
		}
	}

	if best, ok := finance.Cheapest(results); ok {
		fmt.Fprintf(w, "\nLowest interest: %s\n", best.Name)
	}
	return nil
}

func newDebtPayCommand(g *globalFlags) *cobra.Command {
	var amount string
	var paymentType string
	var date string
	var notes string

	cmd := &cobra.Command{
		Use:   "pay <debt-id>",
		Short: "Record a payment against a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ledger.RecordPaymentParams{
				DebtID:      args[0],
				PaymentType: model.PaymentType(paymentType),
				Notes:       notes,
			}
			var err error
			if params.Amount, err = decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("parsing --amount %q: %w", amount, err)
			}
			if date != "" {
				if params.Date, err = time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("parsing --date %q: %w", date, err)
				}
			}

			r, err := openRepo(cmd, g)
			if err != nil {
				return err
			}
			defer r.close()
			return runDebtPay(cmd, r, params)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "payment amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&paymentType, "type", string(model.PaymentTypeMixed), "principal, interest, mixed or extra")
	cmd.Flags().StringVar(&date, "date", "", "payment date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form note")
	return cmd
}

func runDebtPay(cmd *cobra.Command, r *repo, params ledger.RecordPaymentParams) error {
	ctx := r.ctx(cmd)
	p, err := r.service.RecordPayment(ctx, params)
	if err != nil {
		return err
	}
	r.logger.WithFields(log.NewFields().WithOperation(log.OpRecord).
		WithPayment(p.DebtID, p.ID, p.Amount.String())).Info("payment recorded")

	details := fmt.Sprintf("%s %s on %s (principal %s, interest %s)",
		p.PaymentType, report.Money(p.Amount), p.DebtID, report.Money(p.PrincipalAmount), report.Money(p.InterestAmount))
	if err := r.record(ctx, activity.ActionRecordPayment, p.ID, details); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded payment %s: %s\n", p.ID, details)
	return nil
}

func newDebtUnpayCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "unpay <payment-id>",
		Short: "Delete a payment and restore its principal to the debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd, g)
			if err != nil {
				return err
			}
			defer r.close()

			ctx := r.ctx(cmd)
			p, err := r.service.DeletePayment(ctx, args[0])
			if err != nil {
				return err
			}
			r.logger.WithFields(log.NewFields().WithOperation(log.OpDelete).
				WithPayment(p.DebtID, p.ID, p.Amount.String())).Info("payment deleted")

			details := fmt.Sprintf("%s on %s, restored principal %s", report.Money(p.Amount), p.DebtID, report.Money(p.PrincipalAmount))
			if err := r.record(ctx, activity.ActionDeletePayment, p.ID, details); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted payment %s: %s\n", p.ID, details)
			return nil
		},
	}
}

func newDebtPaymentsCommand(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "payments [debt-id]",
		Short: "List recorded payments, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd, g)
			if err != nil {
				return err
			}
			defer r.close()

			debtID := ""
			if len(args) > 0 {
				debtID = args[0]
			}
			payments, err := r.service.Payments(r.ctx(cmd), debtID)
			if err != nil {
				return err
			}
			slices.SortStableFunc(payments, func(a, b model.DebtPayment) int {
				return b.Date.Compare(a.Date)
			})
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), payments)
			}
			return printPayments(cmd.OutOrStdout(), payments)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printPayments(w io.Writer, payments []model.DebtPayment) error {
	if len(payments) == 0 {
		fmt.Fprintln(w, "No payments.")
		return nil
	}
	t := newTable(w, "ID", "DEBT", "DATE", "TYPE", "AMOUNT", "PRINCIPAL", "INTEREST", "NOTES")
	for _, p := range payments {
		t.row(p.ID, p.DebtID, report.Date(p.Date), string(p.PaymentType), report.Money(p.Amount),
			report.Money(p.PrincipalAmount), report.Money(p.InterestAmount), p.Notes)
	}
	return t.flush()
}
