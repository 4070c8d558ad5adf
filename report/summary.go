package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wallinder/levrec/match"
)

// summaryStatuses fixes the row order of the per-status counts.
var summaryStatuses = []match.Status{
	match.StatusOK,
	match.StatusMissingClearing,
	match.StatusMissingReceipt,
	match.StatusNeedsReview,
	match.StatusAmbiguous,
}

// WriteSummary writes the year-level summary: the accounts-payable
// balances followed by the case counts per status.
func (w *Writer) WriteSummary(out io.Writer, s match.Summary) error {
	if _, err := io.WriteString(out, "\uFEFF"); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	cw := csv.NewWriter(out)
	defer cw.Flush()

	amountHeader := fmt.Sprintf("Amount (%s)", w.Currency)
	rows := [][]string{
		{"Category", "Count", amountHeader},
		{fmt.Sprintf("Account %s - %d", w.cfg.APAccount, s.Year), "", ""},
		{"Opening balance (Ing. saldo)", "", SwedishAmount(s.Opening)},
		{"Total Kredit (Receipts)", "", SwedishAmount(s.KreditSum)},
		{"Total Debet (Clearings)", "", SwedishAmount(s.DebetSum)},
		{"Period change", "", SwedishAmount(s.PeriodChange)},
		{"Closing balance (Utg. saldo)", "", SwedishAmount(s.Closing)},
		{"", "", ""},
		{"Total invoice cases", strconv.Itoa(s.TotalCases), ""},
	}
	for _, status := range summaryStatuses {
		rows = append(rows, []string{
			"  - " + string(status),
			strconv.Itoa(s.ByStatus[status]),
			"",
		})
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummaryFile writes the summary report to a file.
func (w *Writer) WriteSummaryFile(path string, s match.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file %q: %w", path, err)
	}
	defer f.Close()
	return w.WriteSummary(f, s)
}
