package export

import (
	"encoding/csv"
	"io"
)

// utf8BOM makes spreadsheet programs open the file as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func WriteCSV(w io.Writer, t Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Strings()); err != nil {
		return err
	}
	return cw.Error()
}
