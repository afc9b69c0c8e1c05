package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 40.0
	pdfHeaderStep = 20.0
	pdfRowStep    = 16.0
	pdfPageBottom = 550.0
	pdfFontSize   = 8.0
)

var pdfColumnShare = []float64{6, 9, 8, 8, 11, 6, 7, 8, 4, 6, 5, 5, 9, 8}

// WritePDF lays the table out on landscape A4 pages in points. Each row is one
// line of fixed-width columns; cells that do not fit are truncated. A page
// break repeats the header. Without opts.FontPath the core Helvetica font is
// used, which has no Hangul glyphs.
func WritePDF(w io.Writer, t Table, opts Options) error {
	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)

	family := "Helvetica"
	if opts.FontPath != "" {
		pdf.AddUTF8Font("body", "", opts.FontPath)
		family = "body"
	}
	pdf.SetFont(family, "", pdfFontSize)

	pageW, _ := pdf.GetPageSize()
	widths := columnWidthsFor(pageW-2*pdfMargin, len(t.Header))

	var y float64
	line := func(cells []string) {
		x := pdfMargin
		for i, c := range cells {
			if i >= len(widths) {
				break
			}
			pdf.SetXY(x, y)
			pdf.CellFormat(widths[i], pdfRowStep, fit(pdf, c, widths[i]-2), "", 0, "L", false, 0, "")
			x += widths[i]
		}
	}
	newPage := func() {
		pdf.AddPage()
		y = pdfMargin
		line(t.Header)
		y += pdfHeaderStep
	}

	newPage()
	for _, row := range t.Strings()[1:] {
		if y > pdfPageBottom {
			newPage()
		}
		line(row)
		y += pdfRowStep
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func columnWidthsFor(total float64, n int) []float64 {
	shares := pdfColumnShare
	if len(shares) != n {
		shares = make([]float64, n)
		for i := range shares {
			shares[i] = 1
		}
	}
	var sum float64
	for _, s := range shares {
		sum += s
	}
	out := make([]float64, n)
	for i, s := range shares {
		out[i] = total * s / sum
	}
	return out
}

func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
