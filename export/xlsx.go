package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = BaseName

var columnWidths = []float64{12, 17, 16, 15, 30, 12, 14, 16, 7, 12, 10, 10, 30, 17}

func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for i, h := range t.Header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellValue(sheetName, col+"1", h); err != nil {
			return err
		}
		width := 15.0
		if i < len(columnWidths) {
			width = columnWidths[i]
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for i, c := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			var value interface{} = c.Text
			if c.Number != nil {
				value = *c.Number
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, style)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(t.Header))
	ref := fmt.Sprintf("A1:%s%d", lastCol, len(t.Rows)+1)
	if err := f.AutoFilter(sheetName, ref, []excelize.AutoFilterOptions{}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
