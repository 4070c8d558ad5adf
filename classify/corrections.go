package classify

import (
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/wallinder/levrec/sie"
)

// voucherRef matches a voucher reference after a correction token, e.g.
// "A532" in "korrigerad med verifikation A532". Series letters are upper
// case, which keeps ordinary words out.
var voucherRef = regexp.MustCompile(`[A-Z]+[0-9]+`)

// CorrectionMarker inspects a description for the correction tokens. It
// returns which token was found and the referenced voucher identifier, if
// any.
func CorrectionMarker(desc string) (Marker, string) {
	lower := strings.ToLower(desc)

	var marker Marker
	var token string
	switch {
	case strings.Contains(lower, "korrigering"):
		marker, token = MarkerCorrection, "korrigering"
	case strings.Contains(lower, "korrigerad"):
		marker, token = MarkerCorrected, "korrigerad"
	default:
		return MarkerNone, ""
	}

	// The reference follows the token.
	rest := desc[strings.Index(lower, token)+len(token):]
	return marker, voucherRef.FindString(rest)
}

// ExcludeSet returns the identifiers of all vouchers that form correction
// pairs within the target year. Both members of a pair are excluded only
// when both vouchers' transaction dates fall in the target year: voucher
// identifiers reset between fiscal years, so a cross-year reference on id
// alone would wrongly exclude unrelated vouchers.
func ExcludeSet(vouchers []sie.Voucher, targetYear int) map[string]bool {
	exclude := make(map[string]bool)

	for i := range vouchers {
		v := &vouchers[i]
		if v.Year() != targetYear {
			continue
		}

		marker, targetID := CorrectionMarker(v.Description)
		if marker == MarkerNone || targetID == "" {
			continue
		}

		// The reference only pairs with a voucher from the same year.
		if findVoucher(vouchers, targetID, targetYear) == nil {
			continue
		}

		exclude[v.ID()] = true
		exclude[targetID] = true
	}

	return exclude
}

// ExcludedIDs returns the exclude-set as a sorted slice, for logging and
// deterministic reporting.
func ExcludedIDs(exclude map[string]bool) []string {
	ids := maps.Keys(exclude)
	slices.Sort(ids)
	return ids
}

func findVoucher(vouchers []sie.Voucher, id string, year int) *sie.Voucher {
	for i := range vouchers {
		if vouchers[i].Year() == year && vouchers[i].ID() == id {
			return &vouchers[i]
		}
	}
	return nil
}
