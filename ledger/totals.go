// Package ledger implements the consultation line ledger: derived totals,
// ordered rows with swap reordering, and the filter/sort view over them.
package ledger

import "beautyconsult-backend/models"

type Totals struct {
	LineTotal  int64 `json:"lineTotal"`
	VATPreview int64 `json:"vatPreview"`
	GrandTotal int64 `json:"grandTotal"`
	Negative   bool  `json:"negative"`
}

// Compute derives line and grand totals. Quantity <= 0 or an unset price
// gives a zero line total; an unset VAT amount counts as zero.
func Compute(quantity int, price, vatAmount *int64) Totals {
	var line int64
	if price != nil && quantity > 0 {
		line = *price * int64(quantity)
	}
	var vat int64
	if vatAmount != nil {
		vat = *vatAmount
	}
	t := Totals{
		LineTotal:  line,
		VATPreview: VATPreview(line),
		GrandTotal: line + vat,
	}
	t.Negative = t.LineTotal < 0 || t.GrandTotal < 0 || (price != nil && *price < 0)
	return t
}

// VATPreview is 10% of amount rounded half up, so -25 gives -2.
func VATPreview(amount int64) int64 {
	return floorDiv(amount+5, 10)
}

// VATOptions are the one-click VAT choices offered for a line total.
func VATOptions(lineTotal int64) []int64 {
	return []int64{0, VATPreview(lineTotal)}
}

// Apply recomputes the derived fields of row in place.
func Apply(row *models.LedgerRow) {
	t := Compute(row.Quantity, row.Price, row.VATAmount)
	row.LineTotal = t.LineTotal
	row.GrandTotal = t.GrandTotal
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
