// Package cli implements the levrec command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/wallinder/levrec/match"
	"github.com/wallinder/levrec/report"
	"github.com/wallinder/levrec/sie"
)

// Globals holds flags shared by every command.
type Globals struct {
	Verbose   bool `help:"Show every per-voucher warning instead of a count."`
	Telemetry bool `help:"Report stage timings to stderr."`
}

// Commands is the root command set.
type Commands struct {
	Reconcile ReconcileCmd `cmd:"" help:"Reconcile supplier invoices for one fiscal year and write the case report."`
	Check     CheckCmd     `cmd:"" help:"Decode a SIE file and report its statistics and warnings."`
	Dump      DumpCmd      `cmd:"" help:"Decode a SIE file and dump its structure."`
	Watch     WatchCmd     `cmd:"" help:"Reconcile, then re-run whenever an input file changes."`

	Globals
}

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FFAF00", Dark: "#FFAF00"})
	dimStyle     = lipgloss.NewStyle().Faint(true)
	labelStyle   = lipgloss.NewStyle().Bold(true)
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", successStyle.Render(successSymbol), message)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render(errorSymbol), errorStyle.Render(message))
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, "%s %s\n", infoStyle.Render(infoSymbol), fmt.Sprintf(format, args...))
}

// printWarnings renders decode warnings: every one when verbose, otherwise
// just the count.
func printWarnings(w io.Writer, warnings []sie.Warning, verbose bool) {
	if len(warnings) == 0 {
		return
	}
	if !verbose {
		_, _ = fmt.Fprintf(w, "%s %s\n",
			warnStyle.Render("!"),
			fmt.Sprintf("%d warning(s); re-run with --verbose to list them", len(warnings)))
		return
	}
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", warnStyle.Render("!"), dimStyle.Render(warning.String()))
	}
}

// printSummary renders the year summary as an aligned two-column table.
// Labels contain Swedish characters, so alignment uses display width
// rather than byte length.
func printSummary(w io.Writer, s match.Summary, currency string) {
	type row struct {
		label string
		value string
	}

	rows := []row{
		{"Ingående saldo", report.SwedishAmount(s.Opening) + " " + currency},
		{"Kredit (mottagna)", report.SwedishAmount(s.KreditSum) + " " + currency},
		{"Debet (betalda)", report.SwedishAmount(s.DebetSum) + " " + currency},
		{"Förändring", report.SwedishAmount(s.PeriodChange) + " " + currency},
		{"Utgående saldo", report.SwedishAmount(s.Closing) + " " + currency},
		{"", ""},
		{"Fakturahändelser", fmt.Sprintf("%d", s.TotalCases)},
	}
	for _, status := range []match.Status{
		match.StatusOK,
		match.StatusMissingClearing,
		match.StatusMissingReceipt,
		match.StatusNeedsReview,
		match.StatusAmbiguous,
	} {
		if n := s.ByStatus[status]; n > 0 {
			rows = append(rows, row{"  " + string(status), fmt.Sprintf("%d", n)})
		}
	}

	width := 0
	for _, r := range rows {
		if rw := runewidth.StringWidth(r.label); rw > width {
			width = rw
		}
	}

	_, _ = fmt.Fprintf(w, "%s\n", labelStyle.Render(fmt.Sprintf("Leverantörsskulder %d", s.Year)))
	for _, r := range rows {
		if r.label == "" {
			_, _ = fmt.Fprintln(w)
			continue
		}
		pad := width - runewidth.StringWidth(r.label)
		_, _ = fmt.Fprintf(w, "  %s%s  %s\n", r.label, spaces(pad), r.value)
	}
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// confirmOverwrite asks before clobbering an existing file. Non-terminal
// sessions refuse by default; --force skips the question.
func confirmOverwrite(path string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("%s exists; pass --force to overwrite", path)
	}

	var confirm bool
	form := huh.NewConfirm().
		Title(fmt.Sprintf("%s exists. Overwrite?", path)).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return confirm, nil
}
