// Package export flattens archived consultations into one table and encodes
// it as xlsx, csv or pdf. Every encoder reads the same Table.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"beautyconsult-backend/models"
)

const (
	DateTimeLayout = "2006-01-02 15:04"
	BaseName       = "상담이력"
)

var Headers = []string{
	"고객명", "상담일", "살롱명", "전화번호", "주소",
	"카테고리", "상품/서비스", "제품명", "수량", "단가", "부가세여부", "세액", "특이사항", "등록일",
}

// Cell is a text cell, or a number when Number is set.
type Cell struct {
	Text   string
	Number *int64
}

func (c Cell) String() string {
	if c.Number != nil {
		return strconv.FormatInt(*c.Number, 10)
	}
	return c.Text
}

func text(s string) Cell { return Cell{Text: s} }

func number(v int64) Cell { return Cell{Number: &v} }

func optNumber(v *int64) Cell {
	if v == nil {
		return Cell{}
	}
	return number(*v)
}

type Table struct {
	Header []string
	Rows   [][]Cell
}

// Build produces one row per record from its top level customer and consult
// fields. Embedded ledger rows are not expanded.
func Build(records []models.HistoryRecord, loc *time.Location) Table {
	if loc == nil {
		loc = time.Local
	}
	t := Table{Header: append([]string(nil), Headers...), Rows: make([][]Cell, 0, len(records))}
	for _, rec := range records {
		c := rec.Customer.Data()
		l := rec.Consult.Data()

		consultDate := Cell{}
		if c.Date != nil {
			consultDate = text(c.Date.In(loc).Format(DateTimeLayout))
		}
		quantity := Cell{}
		if l.Quantity != 0 {
			quantity = number(int64(l.Quantity))
		}
		savedAt := Cell{}
		if !rec.CreatedAt.IsZero() {
			savedAt = text(rec.CreatedAt.In(loc).Format(DateTimeLayout))
		}

		t.Rows = append(t.Rows, []Cell{
			text(c.Customer),
			consultDate,
			text(c.Salon),
			text(c.Phone),
			text(c.Address),
			text(l.Category),
			text(l.Item),
			text(l.Product),
			quantity,
			optNumber(l.Price),
			text(string(l.VATType)),
			optNumber(l.VATAmount),
			text(l.Note),
			savedAt,
		})
	}
	return t
}

// Strings renders the table including the header row.
func (t Table) Strings() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	for _, row := range t.Rows {
		line := make([]string, len(row))
		for i, c := range row {
			line[i] = c.String()
		}
		out = append(out, line)
	}
	return out
}

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

func (f Format) FileName() string {
	return BaseName + "." + string(f)
}

// Options tune the pdf encoder; the other encoders ignore them.
type Options struct {
	FontPath string
}

// Write encodes t in the given format.
func Write(w io.Writer, f Format, t Table, opts Options) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, t)
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatPDF:
		return WritePDF(w, t, opts)
	}
	return fmt.Errorf("unsupported export format %q", f)
}
