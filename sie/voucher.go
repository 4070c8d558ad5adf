package sie

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one posting within a voucher. Amounts are signed: positive
// is debit, negative is credit. Zero is legal.
type Transaction struct {
	// Account is the four-digit account code as written in the file.
	Account string

	Amount decimal.Decimal

	// Date is the per-transaction date. Zero when absent; the voucher date
	// applies then.
	Date time.Time

	// Description is the per-transaction text. Usually empty; the voucher
	// description applies then.
	Description string
}

// Voucher is a balanced group of transactions identified by series and
// sequence number. Identifiers are only unique within a fiscal year.
type Voucher struct {
	Series string
	Number int

	// Date is the transaction date, RegDate the optional registration date
	// (zero when absent).
	Date    time.Time
	RegDate time.Time

	Description  string
	Transactions []Transaction

	// Line is the source line of the #VER directive, for diagnostics.
	Line int
}

// ID returns the voucher identifier as presented to users, e.g. "A129".
func (v *Voucher) ID() string {
	return v.Series + strconv.Itoa(v.Number)
}

// Year returns the calendar year of the transaction date.
func (v *Voucher) Year() int {
	return v.Date.Year()
}

// HasAccount reports whether any transaction posts to the given account.
func (v *Voucher) HasAccount(account string) bool {
	for i := range v.Transactions {
		if v.Transactions[i].Account == account {
			return true
		}
	}
	return false
}

// TransactionsFor returns the indices of all transactions on the given
// account, in posting order. Indices rather than copies so that callers can
// hold stable back-references into the voucher.
func (v *Voucher) TransactionsFor(account string) []int {
	var idx []int
	for i := range v.Transactions {
		if v.Transactions[i].Account == account {
			idx = append(idx, i)
		}
	}
	return idx
}

// TotalFor returns the sum of all amounts posted to the given account.
func (v *Voucher) TotalFor(account string) decimal.Decimal {
	total := decimal.Zero
	for i := range v.Transactions {
		if v.Transactions[i].Account == account {
			total = total.Add(v.Transactions[i].Amount)
		}
	}
	return total
}

// Imbalance returns the sum of all transaction amounts. A balanced voucher
// returns zero within one minor unit.
func (v *Voucher) Imbalance() decimal.Decimal {
	total := decimal.Zero
	for i := range v.Transactions {
		total = total.Add(v.Transactions[i].Amount)
	}
	return total
}

// CompareID orders voucher identifiers lexicographically on series, then
// numerically on sequence number. Used for deterministic tie-breaking and
// report ordering.
func CompareID(a, b *Voucher) int {
	if a.Series != b.Series {
		if a.Series < b.Series {
			return -1
		}
		return 1
	}
	switch {
	case a.Number < b.Number:
		return -1
	case a.Number > b.Number:
		return 1
	}
	return 0
}
