package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/wallinder/levrec"
	"github.com/wallinder/levrec/classify"
	"github.com/wallinder/levrec/sie"
)

// Matcher pairs the receipts of one target year with clearings from that
// year and, optionally, the immediately following one.
type Matcher struct {
	cfg levrec.Config
}

// New returns a matcher for the given configuration. Config.TargetYear must
// be set.
func New(cfg levrec.Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Input is everything one matcher run consumes.
type Input struct {
	// Vouchers holds every target-year voucher, including ones that end up
	// excluded; balances are computed over all of them.
	Vouchers []sie.Voucher

	// Events is the classified event set of the target year.
	Events []classify.Event

	// CarryOver is the classified event set of the immediately following
	// year. Its clearings are match candidates and its corrections may
	// settle target-year receipts; its receipts belong to the next run.
	CarryOver []classify.Event

	// Opening is the opening balance of the accounts-payable account,
	// typically the prior year's closing balance.
	Opening decimal.Decimal
}

// candidate wraps a clearing with its origin: only target-year clearings
// can become orphan rows.
type candidate struct {
	clearing  *classify.Clearing
	carryOver bool
}

// Match runs the full matching pass and returns one case per target-year
// receipt plus one per orphan clearing, in ascending voucher-id order.
func (m *Matcher) Match(in Input) *Result {
	exclude := classify.ExcludeSet(in.Vouchers, m.cfg.TargetYear)

	receipts, pool := m.collect(in, exclude)
	used := make(map[*classify.Clearing]bool)

	var cases []Case
	for _, r := range receipts {
		c := m.matchReceipt(r, pool, used)
		if c.Clearing == nil && c.Correction == nil {
			if corr := m.crossYearCorrection(r, in.CarryOver); corr != nil {
				c = settledByCorrection(r, corr)
			}
		}
		cases = append(cases, c)
	}

	// Orphans: target-year clearings nothing consumed.
	for _, cand := range pool {
		if cand.carryOver || used[cand.clearing] {
			continue
		}
		cases = append(cases, Case{
			Clearing:   cand.clearing,
			Status:     StatusMissingReceipt,
			Confidence: 0,
			Comment:    "No receipt found for clearing",
		})
	}

	return &Result{
		Cases:       cases,
		Summary:     m.summarize(in, cases),
		ExcludedIDs: classify.ExcludedIDs(exclude),
	}
}

// collect filters and orders the receipts and the clearing pool. Receipts
// are processed in ascending voucher-id order and the pool is kept in the
// same order, which makes the ranking tie-break fall back to voucher id.
func (m *Matcher) collect(in Input, exclude map[string]bool) ([]*classify.Receipt, []candidate) {
	var receipts []*classify.Receipt
	var pool []candidate

	for _, ev := range in.Events {
		if exclude[ev.Voucher().ID()] {
			continue
		}
		switch e := ev.(type) {
		case *classify.Receipt:
			if e.Date().Year() == m.cfg.TargetYear {
				receipts = append(receipts, e)
			}
		case *classify.Clearing:
			pool = append(pool, candidate{clearing: e})
		}
	}
	for _, ev := range in.CarryOver {
		if e, ok := ev.(*classify.Clearing); ok {
			pool = append(pool, candidate{clearing: e, carryOver: true})
		}
	}

	slices.SortStableFunc(receipts, func(a, b *classify.Receipt) int {
		if c := sie.CompareID(a.Source, b.Source); c != 0 {
			return c
		}
		return a.APIndex - b.APIndex
	})
	slices.SortStableFunc(pool, func(a, b candidate) int {
		if c := sie.CompareID(a.clearing.Source, b.clearing.Source); c != 0 {
			return c
		}
		return a.clearing.APIndex - b.clearing.APIndex
	})

	return receipts, pool
}

// ranked is one scored candidate for a specific receipt.
type ranked struct {
	clearing      *classify.Clearing
	days          int
	supplierMatch bool
	invoiceMatch  bool
}

func (r ranked) bothMatch() bool { return r.supplierMatch && r.invoiceMatch }

// matchReceipt finds the best clearing for one receipt, consuming it on
// success.
func (m *Matcher) matchReceipt(r *classify.Receipt, pool []candidate, used map[*classify.Clearing]bool) Case {
	candidates := m.candidatesFor(r, pool, used)
	if len(candidates) == 0 {
		comment := "No clearing found within matching window"
		if r.CreditNote {
			comment += " (credit note)"
		}
		return Case{Receipt: r, Status: StatusMissingClearing, Confidence: 0, Comment: comment}
	}

	// Rank on (both-match, invoice-match, day gap); the pool order makes
	// equal tuples resolve to ascending voucher id.
	slices.SortStableFunc(candidates, func(a, b ranked) int {
		if a.bothMatch() != b.bothMatch() {
			if a.bothMatch() {
				return -1
			}
			return 1
		}
		if a.invoiceMatch != b.invoiceMatch {
			if a.invoiceMatch {
				return -1
			}
			return 1
		}
		return a.days - b.days
	})

	best := candidates[0]
	tied := len(candidates) > 1 && sameRank(best, candidates[1])

	consume(used, best.clearing)
	return m.assembleCase(r, best, tied)
}

// candidatesFor applies the hard constraints: amount equality on absolute
// value, clearing not before receipt, inside the day window, not already
// consumed.
func (m *Matcher) candidatesFor(r *classify.Receipt, pool []candidate, used map[*classify.Clearing]bool) []ranked {
	var out []ranked
	for _, cand := range pool {
		c := cand.clearing
		if used[c] {
			continue
		}
		if !m.cfg.SameAmount(c.APAmount.Abs(), r.Amount.Abs()) {
			continue
		}
		if c.Date().Before(r.Date()) {
			continue
		}
		days := daysBetween(r.Date(), c.Date())
		if days > m.cfg.MaxDays {
			continue
		}
		out = append(out, ranked{
			clearing:      c,
			days:          days,
			supplierMatch: equalFoldNonEmpty(r.Supplier, c.Supplier),
			invoiceMatch:  r.InvoiceNo != "" && r.InvoiceNo == c.InvoiceNo,
		})
	}
	return out
}

// assembleCase builds the matched case row: status, confidence and the
// explanatory comment.
func (m *Matcher) assembleCase(r *classify.Receipt, best ranked, tied bool) Case {
	c := Case{Receipt: r, Clearing: best.clearing, Status: StatusOK}

	sameVoucher := best.clearing.Source == r.Source
	switch {
	case sameVoucher:
		c.Confidence = 100
		c.Comment = "Receipt and clearing in same voucher"
	case best.bothMatch():
		c.Confidence = 100
		c.Comment = dayGapComment(best.days)
	case best.invoiceMatch:
		c.Confidence = 75
		c.Comment = dayGapComment(best.days) + " (supplier mismatch)"
	case best.supplierMatch:
		c.Confidence = 50
		c.Comment = dayGapComment(best.days) + " (invoice number mismatch)"
	default:
		c.Confidence = 25
		c.Comment = dayGapComment(best.days) + " (matched on amount and date only)"
	}

	if tied {
		if c.Confidence <= 25 {
			c.Status = StatusAmbiguous
		}
		c.Comment += "; tie broken by voucher id"
	}
	if best.clearing.BankFallback {
		c.Status = StatusNeedsReview
		c.Comment += "; bank line chosen by position"
	}

	return c
}

// crossYearCorrection looks for a carry-over correction that settles the
// receipt: one referencing the receipt's voucher id, or failing that one
// matching on amount and supplier.
func (m *Matcher) crossYearCorrection(r *classify.Receipt, carryOver []classify.Event) *classify.Correction {
	var byAmount *classify.Correction
	for _, ev := range carryOver {
		corr, ok := ev.(*classify.Correction)
		if !ok {
			continue
		}
		if corr.TargetID == r.ID() {
			return corr
		}
		if byAmount == nil &&
			m.cfg.SameAmount(corr.Amount.Abs(), r.Amount.Abs()) &&
			equalFoldNonEmpty(corr.Supplier, r.Supplier) {
			byAmount = corr
		}
	}
	return byAmount
}

func settledByCorrection(r *classify.Receipt, corr *classify.Correction) Case {
	confidence := 75
	if corr.TargetID == r.ID() {
		confidence = 100
	}
	return Case{
		Receipt:    r,
		Correction: corr,
		Status:     StatusOK,
		Confidence: confidence,
		Comment:    "Cleared by cross-year correction",
	}
}

// consume marks a clearing used. Consuming twice is a programming error.
func consume(used map[*classify.Clearing]bool, c *classify.Clearing) {
	if used[c] {
		panic(fmt.Sprintf("clearing %s consumed twice", c.ID()))
	}
	used[c] = true
}

func sameRank(a, b ranked) bool {
	return a.bothMatch() == b.bothMatch() && a.invoiceMatch == b.invoiceMatch && a.days == b.days
}

func dayGapComment(days int) string {
	if days == 1 {
		return "Clearing found 1 day after receipt"
	}
	return fmt.Sprintf("Clearing found %d days after receipt", days)
}

func equalFoldNonEmpty(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
