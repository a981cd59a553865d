package render

import (
	"context"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/shopspring/decimal"
)

// Window is the reporting period an export covers, [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Entry is one fiscal line selected for export. Amounts are carried as
// decimals so currency formatting stays exact.
type Entry struct {
	OrderID       string
	InvoiceNumber string
	Date          time.Time
	Country       string
	Currency      string
	Description   string
	Account       string
	NetAmount     decimal.Decimal
	TaxAmount     decimal.Decimal
	GrossAmount   decimal.Decimal
	TaxRate       decimal.Decimal
}

// DataSource selects the fiscal entries of a shop within a window. It is an
// external collaborator, typically backed by the shop platform's order data.
type DataSource interface {
	FetchEntries(ctx context.Context, shopID string, window Window) ([]Entry, error)
}

// Artifact is a rendered report file: bytes plus the metadata the executor
// persists on the report row.
type Artifact struct {
	Bytes    []byte
	RowCount int
}

// Renderer produces a file in one export format. A renderer given zero
// entries returns an empty but structurally valid file, not an error.
type Renderer interface {
	Render(config *fiscalconfig.FiscalConfiguration, entries []Entry) ([]byte, error)
}
