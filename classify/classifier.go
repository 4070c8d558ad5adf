package classify

import (
	"github.com/shopspring/decimal"

	"github.com/wallinder/levrec"
	"github.com/wallinder/levrec/sie"
)

// Classifier turns vouchers into events. It is a pure function of its
// input; all state lives in the returned events.
type Classifier struct {
	cfg levrec.Config
}

// NewClassifier returns a classifier for the given configuration.
func NewClassifier(cfg levrec.Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// ClassifyAll classifies every voucher in order and returns the combined
// event stream.
func (c *Classifier) ClassifyAll(vouchers []sie.Voucher) []Event {
	var events []Event
	for i := range vouchers {
		events = append(events, c.Classify(&vouchers[i])...)
	}
	return events
}

// Classify derives the events of a single voucher.
//
// For each transaction on the accounts-payable account:
//
//	credit (negative), no opposite bank line  -> Receipt (normal invoice)
//	debit (positive), no bank line            -> Receipt (credit note received)
//	debit (positive), bank line present       -> Clearing (payment)
//	credit (negative), opposite bank line     -> Clearing (credit note refund)
//
// A voucher whose accounts-payable lines sum to zero and which carries no
// bank line is self-canceling: an invoice and its credit note booked
// together with no payment. It yields a single Excluded event.
func (c *Classifier) Classify(v *sie.Voucher) []Event {
	apIdx := v.TransactionsFor(c.cfg.APAccount)
	bankIdx := v.TransactionsFor(c.cfg.BankAccount)

	var events []Event

	marker, targetID := CorrectionMarker(v.Description)
	if marker != MarkerNone {
		supplier, _ := ParseDescription(v.Description)
		events = append(events, &Correction{
			Source:   v,
			Marker:   marker,
			TargetID: targetID,
			Amount:   v.TotalFor(c.cfg.APAccount),
			Supplier: supplier,
		})
	}

	if len(apIdx) == 0 {
		return events
	}

	if len(bankIdx) == 0 && c.cfg.Negligible(v.TotalFor(c.cfg.APAccount)) {
		return append(events, &Excluded{Source: v, Reason: "self-canceling voucher without payment"})
	}

	supplier, invoiceNo := ParseDescription(v.Description)

	for _, i := range apIdx {
		amount := v.Transactions[i].Amount
		if amount.IsZero() {
			// Zero-amount lines carry no liability information.
			continue
		}

		if bank, fallback, ok := c.pairBankLine(v, bankIdx, amount); ok {
			events = append(events, &Clearing{
				Source:       v,
				APIndex:      i,
				BankIndex:    bank,
				APAmount:     amount,
				BankAmount:   v.Transactions[bank].Amount,
				Supplier:     supplier,
				InvoiceNo:    invoiceNo,
				BankFallback: fallback,
			})
			continue
		}

		events = append(events, &Receipt{
			Source:     v,
			APIndex:    i,
			Amount:     amount,
			CreditNote: amount.IsPositive(),
			Supplier:   supplier,
			InvoiceNo:  invoiceNo,
		})
	}

	return events
}

// pairBankLine selects the bank partner for an accounts-payable line: the
// first bank line with equal absolute amount and opposite sign. For a debit
// line any bank line is acceptable as a fallback (flagged for review); a
// credit line without an opposite-sign partner is a receipt, not a refund,
// so the same-voucher payment shape keeps its receipt.
func (c *Classifier) pairBankLine(v *sie.Voucher, bankIdx []int, apAmount decimal.Decimal) (bank int, fallback, ok bool) {
	for _, b := range bankIdx {
		ba := v.Transactions[b].Amount
		if c.cfg.SameAmount(ba.Abs(), apAmount.Abs()) && ba.Sign() == -apAmount.Sign() {
			return b, false, true
		}
	}
	if apAmount.IsPositive() && len(bankIdx) > 0 {
		return bankIdx[0], true, true
	}
	return 0, false, false
}
