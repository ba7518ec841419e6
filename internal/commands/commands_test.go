package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runMoneta executes the CLI in-process and returns combined output.
func runMoneta(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// initProject creates a project in a temp dir and returns its config path.
func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runMoneta(t, "init", dir, "--owner", "alice")
	require.NoError(t, err)
	return filepath.Join(dir, "moneta.yaml")
}

func TestInit_CreatesProject(t *testing.T) {
	dir := t.TempDir()
	out, err := runMoneta(t, "init", dir, "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized")

	_, err = os.Stat(filepath.Join(dir, "moneta.yaml"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "import"))
	require.NoError(t, err)

	// A second init must not clobber the existing config.
	_, err = runMoneta(t, "init", dir, "--owner", "bob")
	require.Error(t, err)
}

func TestInit_RequiresOwner(t *testing.T) {
	_, err := runMoneta(t, "init", t.TempDir())
	require.Error(t, err)
}

func TestImport_Template(t *testing.T) {
	out, err := runMoneta(t, "import", "--template")
	require.NoError(t, err)
	assert.Contains(t, out, "date,type,category,subcategory,amount,currency,notes")
}

func TestImport_DryRunReportsPartition(t *testing.T) {
	cfgPath := initProject(t)

	csvPath := filepath.Join(t.TempDir(), "txns.csv")
	data := "date,amount,currency,category\n" +
		"2024-01-05,-42.50,EUR,Groceries\n" +
		"2024-01-06,0,EUR,Groceries\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0o644))

	out, err := runMoneta(t, "import", csvPath, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry-run")
	assert.Contains(t, out, "1 accepted, 1 rejected of 2 rows")
	assert.Contains(t, out, "row 3")
	assert.Contains(t, out, "zero amount")
}

func TestImport_CommitThenReport(t *testing.T) {
	cfgPath := initProject(t)

	csvPath := filepath.Join(t.TempDir(), "txns.csv")
	data := "date,amount,currency,category\n" +
		"2024-01-05,-420,EUR,Groceries\n" +
		"2024-01-10,-100,USD,Travel\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0o644))

	out, err := runMoneta(t, "import", csvPath, "--commit", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Committed")
	assert.Contains(t, out, "2 accepted, 0 rejected")

	_, err = runMoneta(t, "rates", "add", "USD", "0.90", "2024-01-01", "--config", cfgPath)
	require.NoError(t, err)

	_, err = runMoneta(t, "budget", "add",
		"--category", "Groceries", "--amount", "500", "--month", "01/24",
		"--config", cfgPath)
	require.NoError(t, err)

	out, err = runMoneta(t, "report", "--month", "01/24", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "420.00")
	assert.Contains(t, out, "500.00")
	assert.Contains(t, out, "-80.00")
	// 100 USD at 0.90.
	assert.Contains(t, out, "90.00")
}

func TestImport_ErrorsOut(t *testing.T) {
	cfgPath := initProject(t)

	tmp := t.TempDir()
	csvPath := filepath.Join(tmp, "txns.csv")
	data := "date,amount,currency,category\n" +
		"NOTADATE,-1.00,EUR,Groceries\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0o644))

	errPath := filepath.Join(tmp, "errors.csv")
	_, err := runMoneta(t, "import", csvPath, "--errors-out", errPath, "--config", cfgPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(errPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "row_number,field,message")
	assert.Contains(t, string(raw), "NOTADATE")
}

func TestImport_UnknownProfile(t *testing.T) {
	cfgPath := initProject(t)
	_, err := runMoneta(t, "import", "whatever.csv", "--profile", "nope", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile")
}

func TestBudget_OverlapRejected(t *testing.T) {
	cfgPath := initProject(t)

	_, err := runMoneta(t, "budget", "add",
		"--category", "Rent", "--amount", "800", "--month", "01/24", "--config", cfgPath)
	require.NoError(t, err)

	_, err = runMoneta(t, "budget", "add",
		"--category", "Rent", "--amount", "900", "--quarter", "1", "--year", "2024", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already covers")
}

func TestRates_BaseCurrencyRejected(t *testing.T) {
	cfgPath := initProject(t)
	_, err := runMoneta(t, "rates", "add", "EUR", "1.0", "2024-01-01", "--config", cfgPath)
	require.Error(t, err)
}

func TestTx_AddAndList(t *testing.T) {
	cfgPath := initProject(t)

	out, err := runMoneta(t, "tx", "add",
		"--category", "Coffee", "--amount", "-3.20", "--date", "2024-01-03",
		"--note", "espresso", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "expense")

	out, err = runMoneta(t, "tx", "list", "--month", "01/24", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "3.2")
	assert.Contains(t, out, "espresso")
}
