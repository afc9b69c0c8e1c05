package models

// VATMode says whether the line price already includes VAT.
type VATMode string

const (
	VATIncluded VATMode = "포함"
	VATSeparate VATMode = "별도"
)

func (m VATMode) Valid() bool {
	return m == VATIncluded || m == VATSeparate
}

// ConsultLine is the draft line edited in the form before it is added to the
// ledger. Category, Item and Product are independent strings; free text at
// any level may hold values absent from the catalog.
type ConsultLine struct {
	Category  string  `json:"category" firestore:"category"`
	Item      string  `json:"item" firestore:"item"`
	Product   string  `json:"product" firestore:"product"`
	Quantity  int     `json:"quantity" firestore:"quantity"`
	Price     *int64  `json:"price" firestore:"price"`
	VATType   VATMode `json:"vatType" firestore:"vatType"`
	VATAmount *int64  `json:"vatAmount" firestore:"vatAmount"`
	Note      string  `json:"note" firestore:"note"`
}

func NewConsultLine() ConsultLine {
	return ConsultLine{Quantity: 1, VATType: VATSeparate}
}

func (l ConsultLine) Clone() ConsultLine {
	out := l
	out.Price = cloneInt64(l.Price)
	out.VATAmount = cloneInt64(l.VATAmount)
	return out
}

// LedgerRow is one line of the consultation ledger. LineTotal and GrandTotal
// are derived from Price, Quantity and VATAmount and are never set directly
// by callers.
type LedgerRow struct {
	Key string `json:"key" firestore:"key"`
	CustomerSnapshot
	ConsultLine
	LineTotal  int64 `json:"total" firestore:"total"`
	GrandTotal int64 `json:"grandTotal" firestore:"grandTotal"`
}

func (r LedgerRow) Clone() LedgerRow {
	out := r
	out.CustomerSnapshot = r.CustomerSnapshot.Clone()
	out.ConsultLine = r.ConsultLine.Clone()
	return out
}

// Negative reports whether any monetary value of the row is below zero.
// Renderers flag such rows.
func (r LedgerRow) Negative() bool {
	if r.Price != nil && *r.Price < 0 {
		return true
	}
	return r.LineTotal < 0 || r.GrandTotal < 0
}

func Int64Ptr(v int64) *int64 {
	return &v
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
