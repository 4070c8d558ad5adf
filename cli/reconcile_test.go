package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/wallinder/levrec/match"
	"github.com/wallinder/levrec/sie"
)

func writeSIE(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.se")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecutePipeline(t *testing.T) {
	path := writeSIE(t, `
#VALUTA SEK
#VER A 129 20250308 "Leverantörsfaktura - Mottagen - Acme - 123"
{
#TRANS 2440 {} -163.00
#TRANS 4010 {} 163.00
}
#VER A 137 20250311 "Leverantörsfaktura - Betalat - Acme - 123"
{
#TRANS 2440 {} 163.00
#TRANS 1930 {} -163.00
}
`)

	cmd := &ReconcileCmd{
		Files:       []string{path},
		Year:        2025,
		Opening:     "0",
		MaxDays:     120,
		APAccount:   "2440",
		BankAccount: "1930",
	}
	cfg, opening, err := cmd.config()
	assert.NoError(t, err)
	assert.True(t, opening.IsZero())

	run, err := executePipeline(context.Background(), []string{path}, cfg, opening)
	assert.NoError(t, err)
	assert.Equal(t, run.Currency, "SEK")
	assert.Equal(t, len(run.Result.Cases), 1)
	assert.Equal(t, run.Result.Cases[0].Status, match.StatusOK)
	assert.Equal(t, run.Result.Summary.Closing.String(), "0")
}

func TestExecutePipeline_CarryOverFile(t *testing.T) {
	// Receipt and clearing in separate files, clearing in the next year.
	receipts := writeSIE(t, `
#VER A 90 20251220 "Leverantörsfaktura - Mottagen - Acme - 888"
{
#TRANS 2440 {} -163.00
#TRANS 4010 {} 163.00
}
`)
	clearings := writeSIE(t, `
#VER A 3 20260110 "Leverantörsfaktura - Betalat - Acme - 888"
{
#TRANS 2440 {} 163.00
#TRANS 1930 {} -163.00
}
`)

	cmd := &ReconcileCmd{Year: 2025, Opening: "0", MaxDays: 120, APAccount: "2440", BankAccount: "1930"}
	cfg, opening, err := cmd.config()
	assert.NoError(t, err)

	run, err := executePipeline(context.Background(), []string{receipts, clearings}, cfg, opening)
	assert.NoError(t, err)
	assert.Equal(t, len(run.Result.Cases), 1)
	assert.Equal(t, run.Result.Cases[0].Status, match.StatusOK)
	assert.Equal(t, run.Result.Cases[0].Clearing.ID(), "A3")
}

func TestReconcileConfig_InvalidOpening(t *testing.T) {
	cmd := &ReconcileCmd{Year: 2025, Opening: "abc", MaxDays: 120, APAccount: "2440", BankAccount: "1930"}
	_, _, err := cmd.config()
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid opening balance"))
}

func TestPrintSummary(t *testing.T) {
	var buf strings.Builder
	printSummary(&buf, match.Summary{
		Year:         2025,
		Opening:      decimal.RequireFromString("1000"),
		KreditSum:    decimal.RequireFromString("200.5"),
		DebetSum:     decimal.RequireFromString("163"),
		PeriodChange: decimal.RequireFromString("37.5"),
		Closing:      decimal.RequireFromString("1037.5"),
		TotalCases:   2,
		ByStatus:     map[match.Status]int{match.StatusOK: 2},
	}, "SEK")

	out := buf.String()
	assert.True(t, strings.Contains(out, "Leverantörsskulder 2025"))
	assert.True(t, strings.Contains(out, "Ingående saldo"))
	assert.True(t, strings.Contains(out, "1037,50 SEK"))
	assert.True(t, strings.Contains(out, "Fakturahändelser"))
	assert.True(t, strings.Contains(out, "OK"))
	assert.False(t, strings.Contains(out, string(match.StatusAmbiguous)))
}

func TestPrintWarnings(t *testing.T) {
	warnings := []sie.Warning{
		{Line: 3, Voucher: "A9", Message: "voucher does not balance (off by -1.00)"},
		{Line: 9, Message: "unrecognized directive #X"},
	}

	var buf strings.Builder
	printWarnings(&buf, warnings, false)
	assert.True(t, strings.Contains(buf.String(), "2 warning(s)"))

	buf.Reset()
	printWarnings(&buf, warnings, true)
	assert.True(t, strings.Contains(buf.String(), "does not balance"))
	assert.True(t, strings.Contains(buf.String(), "unrecognized directive"))

	buf.Reset()
	printWarnings(&buf, nil, true)
	assert.Equal(t, buf.String(), "")
}

func TestConfirmOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	// Missing file needs no confirmation.
	ok, err := confirmOverwrite(path, false)
	assert.NoError(t, err)
	assert.True(t, ok)

	// Force skips the prompt even when the file exists.
	assert.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	ok, err = confirmOverwrite(path, true)
	assert.NoError(t, err)
	assert.True(t, ok)
}
