package fiscalconfig

import (
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FiscalConfiguration defines the export semantics of one shop: which
// jurisdictions it reports for, how files are encoded, and which formats it
// may export. At most one exists per shop. The pipeline reads it, never
// writes it.
type FiscalConfiguration struct {
	ID                 string                 `json:"id"`
	Code               string                 `json:"code"`
	Name               string                 `json:"name"`
	Countries          []string               `json:"countries"`
	Currency           string                 `json:"currency"`
	FileFormat         string                 `json:"file_format"`
	Encoding           string                 `json:"encoding"`
	Separator          string                 `json:"separator"`
	RequiredColumns    []string               `json:"required_columns"`
	TaxRates           map[string]interface{} `json:"tax_rates"`
	CompatibleSoftware []string               `json:"compatible_software"`
	ExportFormats      []types.ExportFormat   `json:"export_formats"`
	VatRate            decimal.Decimal        `json:"vat_rate"`
	DefaultFormat      types.ExportFormat     `json:"default_format"`
	SalesAccount       string                 `json:"sales_account"`

	types.BaseModel
}

func (c *FiscalConfiguration) Validate() error {
	if err := c.DefaultFormat.Validate(); err != nil {
		return err
	}
	if len(c.RequiredColumns) == 0 {
		return ierr.NewError("fiscal configuration has no required columns").
			WithHint("At least one export column must be configured").
			Mark(ierr.ErrValidation)
	}
	for _, f := range c.ExportFormats {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SupportsFormat reports whether the shop may export in the given format.
// An empty ExportFormats list allows every format.
func (c *FiscalConfiguration) SupportsFormat(format types.ExportFormat) bool {
	if len(c.ExportFormats) == 0 {
		return true
	}
	return lo.Contains(c.ExportFormats, format)
}

// ColumnSeparator returns the configured delimiter for delimited formats,
// defaulting to a comma.
func (c *FiscalConfiguration) ColumnSeparator() rune {
	if c.Separator == "" {
		return ','
	}
	return []rune(c.Separator)[0]
}
