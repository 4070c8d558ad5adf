// Package report renders matcher output as delimited text. This is a
// boundary concern: the core yields structured case records, the report
// package only shapes them for spreadsheet consumption (Swedish decimal
// commas, UTF-8 byte order mark for Excel).
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wallinder/levrec"
	"github.com/wallinder/levrec/match"
)

// Writer renders case rows and summaries as CSV.
type Writer struct {
	cfg levrec.Config

	// Currency fills the currency column, typically the file's #VALUTA.
	Currency string
}

// NewWriter returns a report writer. An empty currency defaults to SEK.
func NewWriter(cfg levrec.Config, currency string) *Writer {
	if currency == "" {
		currency = "SEK"
	}
	return &Writer{cfg: cfg, Currency: currency}
}

// WriteCases writes the combined report: one row per case, review flag
// first. Enrichment columns (PDF supplier, invoice date, total, filename)
// are left for external collaborators to populate.
func (w *Writer) WriteCases(out io.Writer, cases []match.Case) error {
	// Byte order mark so that Excel picks up UTF-8.
	if _, err := io.WriteString(out, "\uFEFF"); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	cw := csv.NewWriter(out)
	defer cw.Flush()

	header := []string{
		"Behöver granskas",
		"Receipt Voucher Id",
		"Receipt Voucher Date",
		fmt.Sprintf("Receipt %s Amount", w.cfg.APAccount),
		"SIE Supplier",
		"SIE Text",
		"Clearing Voucher Id",
		"Clearing Voucher Date",
		fmt.Sprintf("Clearing %s Amount", w.cfg.APAccount),
		fmt.Sprintf("Clearing %s Amount", w.cfg.BankAccount),
		"PDF Supplier",
		"Invoice No",
		"PDF Invoice Date",
		"PDF Total Amount",
		"Currency",
		"PDF Filename",
		"Status",
		"Match Confidence",
		"Comment",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for i := range cases {
		if err := cw.Write(w.caseRow(&cases[i])); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCasesFile writes the combined report to a file.
func (w *Writer) WriteCasesFile(path string, cases []match.Case) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %q: %w", path, err)
	}
	defer f.Close()
	return w.WriteCases(f, cases)
}

func (w *Writer) caseRow(c *match.Case) []string {
	review := "NEJ"
	if c.NeedsReview() {
		review = "JA"
	}

	var receiptID, receiptDate, receiptAmount, supplier, text string
	if r := c.Receipt; r != nil {
		receiptID = r.ID()
		receiptDate = r.Date().Format("2006-01-02")
		receiptAmount = SwedishAmount(r.Amount)
		supplier = r.Supplier
		text = r.Source.Description
	}

	var clearingID, clearingDate, clearingAP, clearingBank, invoiceNo string
	switch {
	case c.Clearing != nil:
		clearingID = c.Clearing.ID()
		clearingDate = c.Clearing.Date().Format("2006-01-02")
		clearingAP = SwedishAmount(c.Clearing.APAmount)
		clearingBank = SwedishAmount(c.Clearing.BankAmount)
	case c.Correction != nil:
		clearingID = c.Correction.Source.ID()
		clearingDate = c.Correction.Source.Date.Format("2006-01-02")
		clearingAP = SwedishAmount(c.Correction.Amount)
	}

	// Orphan rows carry supplier and invoice number from the clearing.
	if c.Receipt == nil && c.Clearing != nil {
		supplier = c.Clearing.Supplier
		invoiceNo = c.Clearing.InvoiceNo
	}

	return []string{
		review,
		receiptID,
		receiptDate,
		receiptAmount,
		supplier,
		text,
		clearingID,
		clearingDate,
		clearingAP,
		clearingBank,
		"", // PDF Supplier
		invoiceNo,
		"", // PDF Invoice Date
		"", // PDF Total Amount
		w.Currency,
		"", // PDF Filename
		string(c.Status),
		strconv.Itoa(c.Confidence),
		c.Comment,
	}
}

// SwedishAmount formats an amount with two decimals and a comma decimal
// separator.
func SwedishAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
