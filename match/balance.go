package match

import (
	"github.com/shopspring/decimal"

	"github.com/wallinder/levrec/sie"
)

// summarize computes the year-level balance report over every target-year
// accounts-payable transaction, correction pairs included: the balances
// must reconcile with the books, not with the filtered case set.
func (m *Matcher) summarize(in Input, cases []Case) Summary {
	kredit, debet := apTurnover(in.Vouchers, m.cfg.APAccount, m.cfg.TargetYear)
	change := kredit.Sub(debet)

	s := Summary{
		Year:         m.cfg.TargetYear,
		Opening:      in.Opening,
		KreditSum:    kredit,
		DebetSum:     debet,
		PeriodChange: change,
		Closing:      in.Opening.Add(change),
		TotalCases:   len(cases),
		ByStatus:     make(map[Status]int),
	}
	for i := range cases {
		s.ByStatus[cases[i].Status]++
	}
	return s
}

// apTurnover sums the absolute credit and debit turnover on the
// accounts-payable account for one calendar year.
func apTurnover(vouchers []sie.Voucher, account string, year int) (kredit, debet decimal.Decimal) {
	kredit, debet = decimal.Zero, decimal.Zero
	for i := range vouchers {
		v := &vouchers[i]
		if v.Year() != year {
			continue
		}
		for _, t := range v.Transactions {
			if t.Account != account {
				continue
			}
			if t.Amount.IsNegative() {
				kredit = kredit.Add(t.Amount.Abs())
			} else {
				debet = debet.Add(t.Amount)
			}
		}
	}
	return kredit, debet
}
