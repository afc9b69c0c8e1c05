package ledger

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"beautyconsult-backend/models"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrInvalidFilter = errors.New("invalid filter value")
)

const (
	Ascend  = "ascend"
	Descend = "descend"
)

// Filter matches one column. Categorical columns match any of Values exactly,
// text columns match any value as a case-insensitive substring and numeric
// columns match any value by equality. A filter with no values is inactive.
type Filter struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

type Sort struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

// Query is the filter and sort state of the ledger table.
type Query struct {
	Filters []Filter `json:"filters"`
	Sort    *Sort    `json:"sort,omitempty"`
}

type columnKind int

const (
	kindCategorical columnKind = iota
	kindText
	kindNumeric
)

type column struct {
	kind columnKind
	str  func(models.LedgerRow) string
	num  func(models.LedgerRow) (int64, bool)
}

func intCol(f func(models.LedgerRow) int64) column {
	return column{kind: kindNumeric, num: func(r models.LedgerRow) (int64, bool) { return f(r), true }}
}

func optCol(f func(models.LedgerRow) *int64) column {
	return column{kind: kindNumeric, num: func(r models.LedgerRow) (int64, bool) {
		v := f(r)
		if v == nil {
			return 0, false
		}
		return *v, true
	}}
}

var columns = map[string]column{
	"category":   {kind: kindCategorical, str: func(r models.LedgerRow) string { return r.Category }},
	"vatType":    {kind: kindCategorical, str: func(r models.LedgerRow) string { return string(r.VATType) }},
	"item":       {kind: kindText, str: func(r models.LedgerRow) string { return r.Item }},
	"product":    {kind: kindText, str: func(r models.LedgerRow) string { return r.Product }},
	"note":       {kind: kindText, str: func(r models.LedgerRow) string { return r.Note }},
	"customer":   {kind: kindText, str: func(r models.LedgerRow) string { return r.Customer }},
	"salon":      {kind: kindText, str: func(r models.LedgerRow) string { return r.Salon }},
	"phone":      {kind: kindText, str: func(r models.LedgerRow) string { return r.Phone }},
	"quantity":   intCol(func(r models.LedgerRow) int64 { return int64(r.Quantity) }),
	"total":      intCol(func(r models.LedgerRow) int64 { return r.LineTotal }),
	"grandTotal": intCol(func(r models.LedgerRow) int64 { return r.GrandTotal }),
	"price":      optCol(func(r models.LedgerRow) *int64 { return r.Price }),
	"vatAmount":  optCol(func(r models.LedgerRow) *int64 { return r.VATAmount }),
}

func (q Query) Validate() error {
	for _, f := range q.Filters {
		col, ok := columns[f.Column]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, f.Column)
		}
		if col.kind == kindNumeric {
			for _, v := range f.Values {
				if _, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
					return fmt.Errorf("%w: %s=%q", ErrInvalidFilter, f.Column, v)
				}
			}
		}
	}
	if q.Sort != nil {
		if _, ok := columns[q.Sort.Column]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, q.Sort.Column)
		}
		if q.Sort.Order != Ascend && q.Sort.Order != Descend {
			return fmt.Errorf("%w: sort order %q", ErrInvalidFilter, q.Sort.Order)
		}
	}
	return nil
}

// View projects rows through q without touching the input slice order.
func View(rows []models.LedgerRow, q Query) ([]models.LedgerRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	out := make([]models.LedgerRow, 0, len(rows))
	for _, r := range rows {
		if matchesAll(r, q.Filters) {
			out = append(out, r.Clone())
		}
	}
	if q.Sort != nil {
		col := columns[q.Sort.Column]
		desc := q.Sort.Order == Descend
		slices.SortStableFunc(out, func(a, b models.LedgerRow) int {
			c := compareColumn(col, a, b)
			if desc {
				return -c
			}
			return c
		})
	}
	return out, nil
}

func (l *Ledger) View(q Query) ([]models.LedgerRow, error) {
	return View(l.rows, q)
}

func matchesAll(r models.LedgerRow, filters []Filter) bool {
	for _, f := range filters {
		if len(f.Values) == 0 {
			continue
		}
		if !matches(columns[f.Column], r, f.Values) {
			return false
		}
	}
	return true
}

func matches(col column, r models.LedgerRow, values []string) bool {
	switch col.kind {
	case kindCategorical:
		return slices.Contains(values, col.str(r))
	case kindText:
		s := strings.ToLower(col.str(r))
		for _, v := range values {
			if strings.Contains(s, strings.ToLower(v)) {
				return true
			}
		}
		return false
	default:
		n, ok := col.num(r)
		if !ok {
			return false
		}
		for _, v := range values {
			want, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if n == want {
				return true
			}
		}
		return false
	}
}

// compareColumn orders unset numbers before set ones.
func compareColumn(col column, a, b models.LedgerRow) int {
	if col.kind != kindNumeric {
		return strings.Compare(col.str(a), col.str(b))
	}
	av, aok := col.num(a)
	bv, bok := col.num(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return cmp.Compare(av, bv)
}
