package classify

import "strings"

// FieldDelimiter separates the structured sub-fields of a voucher
// description.
const FieldDelimiter = " - "

// Fields splits a description on the literal " - " delimiter. Fields are
// trimmed; the semantic mapping is positional.
func Fields(desc string) []string {
	parts := strings.Split(desc, FieldDelimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// The canonical description shapes are:
//
//	Leverantörsfaktura       - Mottagen        - <Supplier> - <Invoice#>[ (<note>)]
//	Leverantörsfaktura       - Betalat         - <Supplier> - <Invoice#>[ (<note>)]
//	Leverantörsfaktura       - MottagenBetalat - <Supplier> - <Invoice#>
//	Leverantörskreditfaktura - Mottagen        - <Supplier> - <Invoice#>
//	Leverantörskreditfaktura - Betalat         - <Supplier> - <Invoice#>
var (
	canonicalKinds = map[string]bool{
		"Leverantörsfaktura":       true,
		"Leverantörskreditfaktura": true,
	}
	canonicalStages = map[string]bool{
		"Mottagen":        true,
		"Betalat":         true,
		"MottagenBetalat": true,
	}
)

// ParseDescription extracts the supplier name and invoice number from a
// canonical description. Descriptions outside the canonical shapes yield
// empty strings; nothing is guessed.
func ParseDescription(desc string) (supplier, invoiceNo string) {
	parts := Fields(desc)
	if len(parts) < 4 {
		return "", ""
	}
	if !canonicalKinds[parts[0]] || !canonicalStages[parts[1]] {
		return "", ""
	}
	return parts[2], invoiceNumber(parts[3])
}

// invoiceNumber returns the digits-only prefix of an invoice field,
// stripped of any trailing parenthesized note.
func invoiceNumber(field string) string {
	if i := strings.Index(field, "("); i >= 0 {
		field = strings.TrimSpace(field[:i])
	}
	end := 0
	for end < len(field) && field[end] >= '0' && field[end] <= '9' {
		end++
	}
	return field[:end]
}
