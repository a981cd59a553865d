package render

import (
	"bytes"
	"fmt"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/go-pdf/fpdf"
)

// PDFRenderer writes a tabular PDF export. It is meant for operator review,
// not machine import, so layout favors readability over density.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(config *fiscalconfig.FiscalConfiguration, entries []Entry) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(config.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	title := config.Name
	if title == "" {
		title = "Fiscal export"
	}
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(config.RequiredColumns))

	pdf.SetFont("Helvetica", "B", 8)
	for _, column := range config.RequiredColumns {
		pdf.CellFormat(colWidth, 6, column, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, e := range entries {
		for _, value := range rowValues(config, e) {
			pdf.CellFormat(colWidth, 5, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(entries) == 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, "No entries in reporting window", "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 7)
	pdf.Ln(2)
	pdf.CellFormat(0, 5, fmt.Sprintf("%d entries", len(entries)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to generate PDF export").
			Mark(ierr.ErrRender)
	}
	return buf.Bytes(), nil
}
