package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tally-dev/tally/internal/finance"
)

// WriteMarkdown renders a Summary as a GitHub-flavored Markdown document.
func WriteMarkdown(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)
	md := &mdWriter{w: bw}

	title := "Financial report"
	if s.Profile != "" {
		title += ": " + s.Profile
	}
	md.line("# %s", title)
	md.line("")
	md.line("Generated %s.", s.GeneratedAt.Format("2006-01-02 15:04"))
	md.line("")

	m := s.Metrics
	md.line("## Overview")
	md.line("")
	md.table([]string{"Metric", "Value"}, [][]string{
		{"Total balance", Money(m.TotalBalance)},
		{"Total debt", Money(m.TotalDebt)},
		{"Net worth", Money(m.NetWorth)},
		{"Monthly income", Money(m.MonthlyIncome)},
		{"Monthly expenses", Money(m.MonthlyExpenses)},
		{"Monthly debt payments", Money(m.MonthlyDebtPayments)},
		{"Monthly savings", Money(m.MonthlySavings)},
		{"Savings rate", Percent(m.SavingsRate)},
		{"Debt to assets", Percent(m.DebtToAssetRatio)},
		{"Emergency fund", fmt.Sprintf("%s (%s months)", Money(m.EmergencyFund), m.EmergencyFundMonths.StringFixed(1))},
	})

	h := s.Health
	md.line("## Financial health: %d/100 (%s)", h.Score, h.Status)
	md.line("")
	md.table([]string{"Band", "Points"}, [][]string{
		{"Net worth", fmt.Sprint(h.NetWorthPoints)},
		{"Savings rate", fmt.Sprint(h.SavingsPoints)},
		{"Debt to assets", fmt.Sprint(h.DebtPoints)},
		{"Emergency fund", fmt.Sprint(h.EmergencyFundPoints)},
	})

	if len(s.ExpensesByCategory) > 0 {
		md.line("## Expenses by category")
		md.line("")
		rows := make([][]string, 0, len(s.ExpensesByCategory))
		for _, c := range s.ExpensesByCategory {
			rows = append(rows, []string{orDash(c.Category), Money(c.Monthly), Percent(c.Share)})
		}
		md.table([]string{"Category", "Monthly", "Share"}, rows)
	}

	writeDebtSections(md, s)

	md.line("## Projection")
	md.line("")
	rows := make([][]string, 0, len(s.Projections))
	for _, p := range s.Projections {
		rows = append(rows, []string{fmt.Sprint(p.Year), Money(p.NetWorth), Money(p.TotalDebt), Money(p.Savings)})
	}
	md.table([]string{"Year", "Net worth", "Debt", "Savings"}, rows)

	if md.err != nil {
		return md.err
	}
	return bw.Flush()
}

func writeDebtSections(md *mdWriter, s Summary) {
	if len(s.Debts) == 0 {
		md.line("## Debts")
		md.line("")
		md.line("No active debts.")
		md.line("")
		return
	}

	md.line("## Debts")
	md.line("")
	rows := make([][]string, 0, len(s.Debts))
	for _, d := range s.Debts {
		rows = append(rows, []string{
			d.Description, Money(d.Balance), Percent(d.InterestRate), Money(d.MonthlyPayment),
			Percent(d.Progress), Months(d.Payoff),
		})
	}
	md.table([]string{"Debt", "Balance", "Rate", "Payment", "Repaid", "Months left"}, rows)

	st := s.DebtStats
	md.line("### Statistics")
	md.line("")
	md.table([]string{"Metric", "Value"}, [][]string{
		{"Active debts", fmt.Sprint(st.ActiveDebts)},
		{"Total debt", Money(st.TotalDebt)},
		{"Monthly payments", Money(st.TotalMonthlyPayments)},
		{"Average interest rate", Percent(st.AverageInterestRate)},
		{"Debt to income", Percent(st.DebtToIncomeRatio)},
		{"Interest paid this year", Money(st.TotalInterestPaid)},
		{"Principal paid this year", Money(st.TotalPrincipalPaid)},
		{"Payoff in (months)", Months(st.PayoffProjection.Months)},
		{"Payoff date", Date(st.PayoffProjection.PayoffDate)},
		{"Projected interest", Interest(st.PayoffProjection.TotalInterest, st.PayoffProjection.Months)},
	})

	md.line("### Strategies")
	md.line("")
	rows = rows[:0]
	for _, r := range s.Strategies {
		rows = append(rows, []string{
			string(r.Name), Months(r.TotalTime), Interest(r.TotalInterest, r.TotalTime),
			Money(r.TotalMonthlyPayment), savingsText(r.Savings),
		})
	}
	md.table([]string{"Strategy", "Months", "Interest", "Monthly payment", "Saves"}, rows)
	if s.Recommended != "" {
		md.line("Lowest interest: **%s**.", s.Recommended)
		md.line("")
	}
}

func savingsText(sv finance.Savings) string {
	if !sv.Comparable {
		return NotAvailable
	}
	return fmt.Sprintf("%s, %d months", Money(sv.Interest), sv.Months)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// mdWriter keeps the first write error so callers check once at the end.
type mdWriter struct {
	w   io.Writer
	err error
}

func (m *mdWriter) line(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format+"\n", args...)
}

func (m *mdWriter) table(header []string, rows [][]string) {
	m.line("| %s |", strings.Join(header, " | "))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	m.line("| %s |", strings.Join(sep, " | "))
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		m.line("| %s |", strings.Join(cells, " | "))
	}
	m.line("")
}
