package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"spesechart/internal/core"
)

const (
	ReportTitle = "Expense report"

	pdfRowHeight = 8
	pdfMaxTitle  = 30
)

var pdfColumns = []float64{75, 30, 45, 40}

// WritePDF writes records as a bordered table under a report title. The core
// fonts only cover cp1252, so other characters are replaced and amounts are
// printed without the currency sign.
func WritePDF(w io.Writer, records []core.Expense) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ReportTitle, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, ReportTitle, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 230, 240)
	for i, h := range Header {
		pdf.CellFormat(pdfColumns[i], pdfRowHeight, h, "1", 0, "", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	total := core.AggregateByCategory(records).Total()
	for _, e := range records {
		cells := []string{tr(truncate(e.Title, pdfMaxTitle)), e.Amount.StringFixed(2), tr(e.Category), e.Date}
		for i, c := range cells {
			align := ""
			if i == 1 {
				align = "R"
			}
			pdf.CellFormat(pdfColumns[i], pdfRowHeight, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(pdfColumns[0], pdfRowHeight, "Total", "1", 0, "", true, 0, "")
	pdf.CellFormat(pdfColumns[1], pdfRowHeight, total.StringFixed(2), "1", 1, "R", true, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
