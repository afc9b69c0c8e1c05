package ledger

import (
	"errors"

	"beautyconsult-backend/models"

	"github.com/google/uuid"
)

var ErrRowNotFound = errors.New("ledger row not found")

// RowPatch carries the editable fields of a row; nil fields are kept.
type RowPatch struct {
	Category  *string         `json:"category"`
	Item      *string         `json:"item"`
	Product   *string         `json:"product"`
	Quantity  *int            `json:"quantity"`
	Price     *int64          `json:"price"`
	VATType   *models.VATMode `json:"vatType"`
	VATAmount *int64          `json:"vatAmount"`
	Note      *string         `json:"note"`
}

type Summary struct {
	Rows          int   `json:"rows"`
	IncludedTotal int64 `json:"includedTotal"`
	SeparateTotal int64 `json:"separateTotal"`
	GrandTotal    int64 `json:"grandTotal"`
	NegativeRows  int   `json:"negativeRows"`
}

// Ledger is an ordered collection of rows. It is not safe for concurrent use;
// the owning form serialises access.
type Ledger struct {
	rows []models.LedgerRow
}

func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) prepare(row models.LedgerRow) models.LedgerRow {
	row = row.Clone()
	row.Key = uuid.NewString()
	Apply(&row)
	return row
}

// Append stores a copy of row under a fresh key and returns it.
func (l *Ledger) Append(row models.LedgerRow) models.LedgerRow {
	stored := l.prepare(row)
	l.rows = append(l.rows, stored)
	return stored.Clone()
}

// BulkAppend appends rows in order, each under its own key.
func (l *Ledger) BulkAppend(rows []models.LedgerRow) []models.LedgerRow {
	prepared := make([]models.LedgerRow, len(rows))
	for i, r := range rows {
		prepared[i] = l.prepare(r)
	}
	l.rows = append(l.rows, prepared...)

	out := make([]models.LedgerRow, len(prepared))
	for i, r := range prepared {
		out[i] = r.Clone()
	}
	return out
}

func (l *Ledger) indexOf(key string) int {
	for i, r := range l.rows {
		if r.Key == key {
			return i
		}
	}
	return -1
}

func (l *Ledger) Get(key string) (models.LedgerRow, bool) {
	i := l.indexOf(key)
	if i < 0 {
		return models.LedgerRow{}, false
	}
	return l.rows[i].Clone(), true
}

// Edit merges patch over the row and recomputes its totals.
func (l *Ledger) Edit(key string, patch RowPatch) (models.LedgerRow, error) {
	i := l.indexOf(key)
	if i < 0 {
		return models.LedgerRow{}, ErrRowNotFound
	}
	row := l.rows[i].Clone()
	if patch.Category != nil {
		row.Category = *patch.Category
	}
	if patch.Item != nil {
		row.Item = *patch.Item
	}
	if patch.Product != nil {
		row.Product = *patch.Product
	}
	if patch.Quantity != nil {
		row.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		row.Price = models.Int64Ptr(*patch.Price)
	}
	if patch.VATType != nil {
		row.VATType = *patch.VATType
	}
	if patch.VATAmount != nil {
		row.VATAmount = models.Int64Ptr(*patch.VATAmount)
	}
	if patch.Note != nil {
		row.Note = *patch.Note
	}
	Apply(&row)
	l.rows[i] = row
	return row.Clone(), nil
}

// Remove deletes the row with key. Removing an absent key is a no-op.
func (l *Ledger) Remove(key string) bool {
	i := l.indexOf(key)
	if i < 0 {
		return false
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	return true
}

// Reorder swaps the ledger positions of the rows shown at view positions
// from and to. Out of range or equal positions, and rows no longer in the
// ledger, leave the order unchanged.
func (l *Ledger) Reorder(view []models.LedgerRow, from, to int) bool {
	if from == to || from < 0 || to < 0 || from >= len(view) || to >= len(view) {
		return false
	}
	a, b := l.indexOf(view[from].Key), l.indexOf(view[to].Key)
	if a < 0 || b < 0 || a == b {
		return false
	}
	l.rows[a], l.rows[b] = l.rows[b], l.rows[a]
	return true
}

// Replace swaps in rows wholesale, keeping their keys when present.
func (l *Ledger) Replace(rows []models.LedgerRow) {
	l.rows = make([]models.LedgerRow, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		r = r.Clone()
		if r.Key == "" || seen[r.Key] {
			r.Key = uuid.NewString()
		}
		seen[r.Key] = true
		Apply(&r)
		l.rows = append(l.rows, r)
	}
}

func (l *Ledger) Reset() {
	l.rows = nil
}

func (l *Ledger) Len() int {
	return len(l.rows)
}

// Rows returns a deep copy in ledger order.
func (l *Ledger) Rows() []models.LedgerRow {
	out := make([]models.LedgerRow, len(l.rows))
	for i, r := range l.rows {
		out[i] = r.Clone()
	}
	return out
}

func (l *Ledger) Summary() Summary {
	return Summarize(l.rows)
}

func Summarize(rows []models.LedgerRow) Summary {
	s := Summary{Rows: len(rows)}
	for _, r := range rows {
		switch r.VATType {
		case models.VATIncluded:
			s.IncludedTotal += r.GrandTotal
		case models.VATSeparate:
			s.SeparateTotal += r.LineTotal
		}
		s.GrandTotal += r.GrandTotal
		if r.Negative() {
			s.NegativeRows++
		}
	}
	return s
}
