package match

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/wallinder/levrec/classify"
	"github.com/wallinder/levrec/sie"
)

func balanceVoucher(number int, date string, lines ...sie.Transaction) sie.Voucher {
	v := testVoucher(number, date)
	v.Transactions = lines
	return *v
}

func TestApTurnover(t *testing.T) {
	vouchers := []sie.Voucher{
		balanceVoucher(1, "2025-01-10",
			sie.Transaction{Account: "2440", Amount: amt("-163.00")},
			sie.Transaction{Account: "4010", Amount: amt("163.00")},
		),
		balanceVoucher(2, "2025-01-20",
			sie.Transaction{Account: "2440", Amount: amt("163.00")},
			sie.Transaction{Account: "1930", Amount: amt("-163.00")},
		),
		balanceVoucher(3, "2025-02-01",
			sie.Transaction{Account: "2440", Amount: amt("-37.50")},
			sie.Transaction{Account: "4010", Amount: amt("37.50")},
		),
		// Previous year, must not count.
		balanceVoucher(4, "2024-12-01",
			sie.Transaction{Account: "2440", Amount: amt("-500.00")},
			sie.Transaction{Account: "4010", Amount: amt("500.00")},
		),
	}

	kredit, debet := apTurnover(vouchers, "2440", 2025)
	assert.Equal(t, kredit.String(), "200.5")
	assert.Equal(t, debet.String(), "163")
}

func TestSummarize_BalanceClosure(t *testing.T) {
	vouchers := []sie.Voucher{
		balanceVoucher(1, "2025-01-10",
			sie.Transaction{Account: "2440", Amount: amt("-163.00")},
			sie.Transaction{Account: "4010", Amount: amt("163.00")},
		),
		balanceVoucher(2, "2025-01-20",
			sie.Transaction{Account: "2440", Amount: amt("163.00")},
			sie.Transaction{Account: "1930", Amount: amt("-163.00")},
		),
		balanceVoucher(3, "2025-02-01",
			sie.Transaction{Account: "2440", Amount: amt("-37.50")},
			sie.Transaction{Account: "4010", Amount: amt("37.50")},
		),
	}

	m := New(testConfig())
	res := m.Match(Input{
		Vouchers: vouchers,
		Events: []classify.Event{
			receipt(&vouchers[0], "-163.00", "Acme", "123"),
			clearing(&vouchers[1], "163.00", "Acme", "123"),
			receipt(&vouchers[2], "-37.50", "Beta", "456"),
		},
		Opening: amt("1000.00"),
	})

	s := res.Summary
	assert.Equal(t, s.Year, 2025)
	assert.Equal(t, s.Opening.String(), "1000")
	assert.Equal(t, s.KreditSum.String(), "200.5")
	assert.Equal(t, s.DebetSum.String(), "163")
	assert.Equal(t, s.PeriodChange.String(), "37.5")
	assert.Equal(t, s.Closing.String(), "1037.5")

	// Closing must always equal opening plus period change.
	assert.True(t, s.Closing.Equal(s.Opening.Add(s.PeriodChange)))

	assert.Equal(t, s.TotalCases, 2)
	assert.Equal(t, s.ByStatus[StatusOK], 1)
	assert.Equal(t, s.ByStatus[StatusMissingClearing], 1)
}

func TestSummarize_ExcludedVouchersStillCounted(t *testing.T) {
	wrong := balanceVoucher(49, "2025-03-01",
		sie.Transaction{Account: "2440", Amount: amt("-163.00")},
		sie.Transaction{Account: "4010", Amount: amt("163.00")},
	)
	wrong.Description = "korrigerad med verifikation A53"
	fix := balanceVoucher(53, "2025-03-02",
		sie.Transaction{Account: "2440", Amount: amt("163.00")},
		sie.Transaction{Account: "4010", Amount: amt("-163.00")},
	)
	fix.Description = "Korrigering av ver.nr. A49"

	m := New(testConfig())
	res := m.Match(Input{Vouchers: []sie.Voucher{wrong, fix}})

	// Excluded from matching, but the books still turn over.
	assert.Equal(t, len(res.Cases), 0)
	assert.Equal(t, res.Summary.KreditSum.String(), "163")
	assert.Equal(t, res.Summary.DebetSum.String(), "163")
	assert.True(t, res.Summary.PeriodChange.IsZero())
}
