package render

import (
	"fmt"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Export"

// XLSXRenderer writes spreadsheet exports with a header row and one row per
// entry.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) Render(config *fiscalconfig.FiscalConfiguration, entries []Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create spreadsheet sheet").
			Mark(ierr.ErrRender)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to prune default sheet").
			Mark(ierr.ErrRender)
	}

	header := make([]interface{}, len(config.RequiredColumns))
	for i, column := range config.RequiredColumns {
		header[i] = column
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to write spreadsheet header").
			Mark(ierr.ErrRender)
	}

	for i, e := range entries {
		values := rowValues(config, e)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to write spreadsheet row").
				Mark(ierr.ErrRender)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to serialize spreadsheet").
			Mark(ierr.ErrRender)
	}
	return buf.Bytes(), nil
}
