// Package classify derives liability events from decoded vouchers.
//
// Each transaction on the accounts-payable account becomes at most one
// event: a Receipt (liability created or negated without same-voucher
// settlement), a Clearing (settled through the bank account in the same
// voucher), or nothing when the voucher is excluded. Vouchers whose
// description declares a correction additionally yield a Correction event,
// and same-year correction pairs are collected into an exclude-set that the
// matcher honors.
//
// Events are derived once and never mutated. They hold a read-only
// back-reference to their voucher plus indices into its transaction list,
// so the whole event set stays trivially serializable.
package classify

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wallinder/levrec/sie"
)

// Event is the sum type over everything the classifier can emit. Downstream
// code switches on the concrete type.
type Event interface {
	// Voucher returns the voucher the event originates from.
	Voucher() *sie.Voucher
}

// Receipt is a liability-creation or liability-reduction line on the
// accounts-payable account that is not settled through the bank in the same
// voucher.
type Receipt struct {
	Source *sie.Voucher

	// APIndex is the index of the accounts-payable transaction within the
	// voucher.
	APIndex int

	// Amount is the signed accounts-payable amount. Negative (credit) for a
	// normal invoice, positive (debit) for a received credit note.
	Amount decimal.Decimal

	// CreditNote is true when the sign is debit rather than credit.
	CreditNote bool

	// Supplier and InvoiceNo are extracted from the voucher description.
	// Empty when the description is not in a canonical shape.
	Supplier  string
	InvoiceNo string
}

func (r *Receipt) Voucher() *sie.Voucher { return r.Source }

// Date returns the voucher transaction date.
func (r *Receipt) Date() time.Time { return r.Source.Date }

// ID returns the voucher identifier.
func (r *Receipt) ID() string { return r.Source.ID() }

// Clearing is an accounts-payable movement paired with a bank movement in
// the same voucher, representing settlement.
type Clearing struct {
	Source *sie.Voucher

	// APIndex and BankIndex are indices of the paired transactions within
	// the voucher.
	APIndex   int
	BankIndex int

	// APAmount and BankAmount are the signed amounts of the paired lines.
	APAmount   decimal.Decimal
	BankAmount decimal.Decimal

	Supplier  string
	InvoiceNo string

	// BankFallback is true when no bank line with equal absolute amount and
	// opposite sign existed and the first bank line was chosen by position.
	// Such cases are flagged for review.
	BankFallback bool
}

func (c *Clearing) Voucher() *sie.Voucher { return c.Source }

// Date returns the voucher transaction date.
func (c *Clearing) Date() time.Time { return c.Source.Date }

// ID returns the voucher identifier.
func (c *Clearing) ID() string { return c.Source.ID() }

// Correction is a voucher whose description declares it corrects another
// one. Within the target year correction pairs are excluded from matching
// entirely; across years a correction may settle a previous-year receipt.
type Correction struct {
	Source *sie.Voucher

	// Marker is the description token that declared the correction.
	Marker Marker

	// TargetID is the referenced voucher identifier, e.g. "A532". Empty
	// when the description carries the token but no reference.
	TargetID string

	// Amount is the signed accounts-payable total of the correction
	// voucher, used for amount-based cross-year settlement.
	Amount decimal.Decimal

	Supplier string
}

func (c *Correction) Voucher() *sie.Voucher { return c.Source }

// Excluded records a voucher withheld from matching, with the reason.
type Excluded struct {
	Source *sie.Voucher
	Reason string
}

func (e *Excluded) Voucher() *sie.Voucher { return e.Source }

// Marker identifies which correction token appeared in a description.
type Marker int

const (
	// MarkerNone means no correction token was found.
	MarkerNone Marker = iota

	// MarkerCorrected ("korrigerad") marks the erroneous voucher: it has
	// been corrected by another one.
	MarkerCorrected

	// MarkerCorrection ("Korrigering") marks the correcting voucher: it
	// cancels another one.
	MarkerCorrection
)
