package types

import (
	"github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/samber/lo"
)

// ExportFormat is the on-disk format of a rendered fiscal report.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "CSV"
	ExportFormatJSON ExportFormat = "JSON"
	ExportFormatPDF  ExportFormat = "PDF"
	ExportFormatXML  ExportFormat = "XML"
	ExportFormatTXT  ExportFormat = "TXT"
	ExportFormatXLSX ExportFormat = "XLSX"
)

func (f ExportFormat) String() string {
	return string(f)
}

func (f ExportFormat) Validate() error {
	allowed := []ExportFormat{
		ExportFormatCSV,
		ExportFormatJSON,
		ExportFormatPDF,
		ExportFormatXML,
		ExportFormatTXT,
		ExportFormatXLSX,
	}
	if !lo.Contains(allowed, f) {
		return errors.New(errors.ErrCodeValidation, "invalid export format")
	}
	return nil
}

// Extension returns the file extension for the format, without the dot.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportFormatXLSX:
		return "xlsx"
	case ExportFormatJSON:
		return "json"
	case ExportFormatPDF:
		return "pdf"
	case ExportFormatXML:
		return "xml"
	case ExportFormatTXT:
		return "txt"
	default:
		return "csv"
	}
}
