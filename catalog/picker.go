package catalog

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"beautyconsult-backend/models"

	"github.com/xuri/excelize/v2"
)

var ErrInvalidSheet = errors.New("invalid product sheet")

// Product is one row of an uploaded price sheet offered by the product picker.
type Product struct {
	Category string         `json:"category"`
	Item     string         `json:"item"`
	Price    int64          `json:"price"`
	VATType  models.VATMode `json:"vatType"`
}

type ProductMatch struct {
	Index int `json:"index"`
	Product
}

var sheetHeaders = map[string]string{
	"category": "category",
	"카테고리":     "category",
	"item":     "item",
	"상품/서비스":   "item",
	"price":    "price",
	"단가":       "price",
	"vattype":  "vatType",
	"부가세여부":    "vatType",
}

// ParseProductSheet reads the first worksheet of an xlsx workbook. The first
// row names the columns; category, item and price are required.
func ParseProductSheet(r io.Reader) ([]Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidSheet)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	if len(rows) == 0 {
		return []Product{}, nil
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if name, ok := sheetHeaders[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[name] = i
		}
	}
	for _, required := range []string{"category", "item", "price"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing %s column", ErrInvalidSheet, required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	products := make([]Product, 0, len(rows)-1)
	for n, row := range rows[1:] {
		category, item, rawPrice := cell(row, "category"), cell(row, "item"), cell(row, "price")
		if category == "" && item == "" && rawPrice == "" {
			continue
		}
		price, err := parsePrice(rawPrice)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidSheet, n+2, err)
		}
		vat := models.VATMode(cell(row, "vatType"))
		if !vat.Valid() {
			vat = models.VATSeparate
		}
		products = append(products, Product{Category: category, Item: item, Price: price, VATType: vat})
	}
	return products, nil
}

func parsePrice(raw string) (int64, error) {
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number", raw)
	}
	return int64(math.Round(f)), nil
}

// SearchProducts returns products whose category or item contains q,
// case-insensitively. An empty query matches everything.
func SearchProducts(products []Product, q string) []ProductMatch {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]ProductMatch, 0, len(products))
	for i, p := range products {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Item), q) {
			out = append(out, ProductMatch{Index: i, Product: p})
		}
	}
	return out
}
