// Package match pairs receipt events with clearing events across one or
// more fiscal years and assembles the per-case report records.
//
// The matcher is the only stateful stage of the pipeline: it tracks which
// clearings have been consumed so that no clearing settles more than one
// receipt. No anomaly is an error here; everything the matcher cannot pair
// becomes a case row with a non-OK status and a human-readable comment.
package match

import (
	"github.com/shopspring/decimal"

	"github.com/wallinder/levrec/classify"
)

// Status classifies the outcome of one invoice case.
type Status string

const (
	// StatusOK means receipt and clearing were paired successfully.
	StatusOK Status = "OK"

	// StatusMissingClearing marks a receipt with no clearing within the
	// matching window.
	StatusMissingClearing Status = "Missing clearing"

	// StatusMissingReceipt marks an orphan clearing no receipt claimed.
	StatusMissingReceipt Status = "Missing receipt"

	// StatusNeedsReview marks a pairing that required a positional bank
	// line choice or other tolerated irregularity.
	StatusNeedsReview Status = "Needs review"

	// StatusAmbiguous marks a pairing decided purely by the voucher-id
	// tie-break with no confirming supplier or invoice signal.
	StatusAmbiguous Status = "Ambiguous"
)

// Case is one row of the output: a receipt, its settlement (clearing or
// cross-year correction), or either one alone. Exactly one of Receipt and
// Clearing is always present; both present means a successful match.
type Case struct {
	Receipt    *classify.Receipt
	Clearing   *classify.Clearing
	Correction *classify.Correction

	Status     Status
	Confidence int // 0-100
	Comment    string
}

// NeedsReview reports whether the row should be flagged for a human.
func (c *Case) NeedsReview() bool { return c.Status != StatusOK }

// DaysToClearing returns the whole-day gap between receipt and clearing,
// or -1 when either side is missing.
func (c *Case) DaysToClearing() int {
	if c.Receipt == nil || c.Clearing == nil {
		return -1
	}
	return daysBetween(c.Receipt.Date(), c.Clearing.Date())
}

// Summary reports the year-level balances and case counts of one run.
// Period change is kredit minus debet: positive means the liability grew.
type Summary struct {
	Year int

	Opening      decimal.Decimal
	KreditSum    decimal.Decimal
	DebetSum     decimal.Decimal
	PeriodChange decimal.Decimal
	Closing      decimal.Decimal

	TotalCases int
	ByStatus   map[Status]int
}

// Result is the complete output of one matcher run.
type Result struct {
	Cases   []Case
	Summary Summary

	// ExcludedIDs lists the correction-pair vouchers withheld from
	// matching, sorted.
	ExcludedIDs []string
}
