package classify

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/wallinder/levrec/sie"
)

func TestCorrectionMarker(t *testing.T) {
	tests := []struct {
		name   string
		desc   string
		marker Marker
		target string
	}{
		{"corrected with reference", "Leverantörsfaktura - Mottagen - Acme - 123, korrigerad med verifikation A532", MarkerCorrected, "A532"},
		{"correction with reference", "Korrigering av ver.nr. A49", MarkerCorrection, "A49"},
		{"case insensitive token", "KORRIGERING av A7", MarkerCorrection, "A7"},
		{"token without reference", "Felaktig bokning, korrigerad manuellt", MarkerCorrected, ""},
		{"reference before token ignored", "A12 korrigerad", MarkerCorrected, ""},
		{"no token", "Leverantörsfaktura - Mottagen - Acme - 123", MarkerNone, ""},
		{"lowercase word is not a reference", "korrigering av faktura 123", MarkerCorrection, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marker, target := CorrectionMarker(tt.desc)
			assert.Equal(t, marker, tt.marker)
			assert.Equal(t, target, tt.target)
		})
	}
}

func correctionVoucher(series string, number int, year int, desc string) sie.Voucher {
	return sie.Voucher{
		Series:      series,
		Number:      number,
		Date:        time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
		Description: desc,
	}
}

func TestExcludeSet_SameYearPair(t *testing.T) {
	vouchers := []sie.Voucher{
		correctionVoucher("A", 49, 2024, "Leverantörsfaktura - Mottagen - Acme - 123, korrigerad med verifikation A53"),
		correctionVoucher("A", 53, 2024, "Korrigering av ver.nr. A49"),
		correctionVoucher("A", 60, 2024, "Leverantörsfaktura - Mottagen - Beta - 456"),
	}

	exclude := ExcludeSet(vouchers, 2024)
	assert.Equal(t, ExcludedIDs(exclude), []string{"A49", "A53"})
	assert.False(t, exclude["A60"])
}

func TestExcludeSet_CrossYearReferenceNotExcluded(t *testing.T) {
	// A53 exists only in 2025; the 2024 reference must not pair with it,
	// since voucher numbering restarts each fiscal year.
	vouchers := []sie.Voucher{
		correctionVoucher("A", 49, 2024, "korrigerad med verifikation A53"),
		correctionVoucher("A", 53, 2025, "Korrigering av ver.nr. A49"),
	}

	exclude := ExcludeSet(vouchers, 2024)
	assert.Equal(t, len(exclude), 0)
}

func TestExcludeSet_IdCollisionScopedToYear(t *testing.T) {
	// Two A53 vouchers exist; only the target-year one completes the pair.
	vouchers := []sie.Voucher{
		correctionVoucher("A", 49, 2024, "korrigerad med verifikation A53"),
		correctionVoucher("A", 53, 2024, "Korrigering av ver.nr. A49"),
		correctionVoucher("A", 53, 2025, "Leverantörsfaktura - Mottagen - Acme - 789"),
	}

	exclude := ExcludeSet(vouchers, 2024)
	assert.Equal(t, ExcludedIDs(exclude), []string{"A49", "A53"})

	exclude = ExcludeSet(vouchers, 2025)
	assert.Equal(t, len(exclude), 0)
}

func TestExcludeSet_MarkerWithoutReference(t *testing.T) {
	vouchers := []sie.Voucher{
		correctionVoucher("A", 10, 2024, "korrigerad manuellt"),
	}

	assert.Equal(t, len(ExcludeSet(vouchers, 2024)), 0)
}
