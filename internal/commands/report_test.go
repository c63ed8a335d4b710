package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestReport_MarkdownToStdout(t *testing.T) {
	dir := initRepo(t, householdSnapshot())

	out, err := runTally(t, "report", "--repo", dir)
	require.NoError(t, err, out)
	assert.True(t, strings.HasPrefix(out, "# Financial report: Test Household\n"))
	assert.Contains(t, out, "## Debts")
	assert.Contains(t, out, "### Strategies")
}

func TestReport_HTMLToFile(t *testing.T) {
	dir := initRepo(t, householdSnapshot())
	path := filepath.Join(dir, "reports", "2026", "report.html")

	out, err := runTally(t, "report", "--repo", dir, "--html", "--out", path)
	require.NoError(t, err, out)
	assert.Equal(t, "Wrote "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Financial report: Test Household</title>")
	assert.Contains(t, string(data), "<table>")
}

func TestCheck_OK(t *testing.T) {
	dir := initRepo(t, householdSnapshot())

	out, err := runTally(t, "check", "--repo", dir)
	require.NoError(t, err, out)
	assert.Equal(t, "OK: 2 accounts, 2 debts, 0 payments\n", out)
}

func TestCheck_ReportsEveryProblem(t *testing.T) {
	snap := householdSnapshot()
	snap.Debts[0].CurrentBalance = dec("3000")
	snap.Payments = []model.DebtPayment{{
		ID: "p1", DebtID: "ghost", Amount: dec("10"), PaymentType: model.PaymentTypePrincipal,
		PrincipalAmount: dec("10"), Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	dir := initRepo(t, snap)

	out, err := runTally(t, "check", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 problem(s) found")
	assert.Contains(t, out, "debts [visa]: current balance 3000.00 exceeds original amount 2500.00")
	assert.Contains(t, out, `payments [p1]: unknown debt "ghost"`)
}
