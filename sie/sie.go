// Package sie decodes SIE type-4 accounting exports into typed vouchers.
//
// SIE is a line-oriented text format produced by Swedish bookkeeping
// software. Header directives (company, period, accounts) come first, then
// one block per voucher:
//
//	#VER A 129 20250308 "Leverantörsfaktura - Mottagen - Acme - 123"
//	{
//	#TRANS 2440 {} -163.00
//	#TRANS 4010 {} 163.00
//	}
//
// Files are historically written in an IBM PC code page; the decoder probes
// CP437, CP850, Latin-1 and UTF-8 in that order. Per-voucher problems are
// collected as warnings on the decoded File and never abort the run;
// structural problems (unreadable input, no usable encoding) do.
package sie

import (
	"fmt"
	"time"
)

// File is the result of decoding one SIE stream: the header metadata, every
// voucher in file order, and the warnings produced along the way.
type File struct {
	// Encoding is the name of the code page that decoded the stream.
	Encoding string

	// Header metadata. Recorded but not interpreted beyond this.
	Program  string
	Format   string
	Company  string
	OrgNr    string
	SIEType  string
	Currency string

	// Accounts maps account numbers to their #KONTO names.
	Accounts map[string]string

	// FiscalYears holds the #RAR ranges, most recent first as written.
	FiscalYears []FiscalYear

	Vouchers []Voucher
	Warnings []Warning
}

// FiscalYear is one #RAR range. Index 0 is the current year, -1 the
// previous one.
type FiscalYear struct {
	Index int
	Start time.Time
	End   time.Time
}

// Warning records a non-fatal problem found while decoding, with the line
// it originated from.
type Warning struct {
	Line    int
	Voucher string // voucher id when the warning concerns one, else empty
	Message string
}

func (w Warning) String() string {
	if w.Voucher != "" {
		return fmt.Sprintf("line %d: voucher %s: %s", w.Line, w.Voucher, w.Message)
	}
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// VouchersInYear returns the vouchers whose transaction date falls in the
// given calendar year, in file order.
func (f *File) VouchersInYear(year int) []Voucher {
	var out []Voucher
	for _, v := range f.Vouchers {
		if v.Date.Year() == year {
			out = append(out, v)
		}
	}
	return out
}
