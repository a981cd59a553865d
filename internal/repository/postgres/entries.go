package postgres

import (
	"context"
	"time"

	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
	"github.com/fiscalflow/fiscalflow/internal/render"
	"github.com/shopspring/decimal"
)

type entryDataSource struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewEntryDataSource reads fiscal entries from the fiscal_entries table. The
// table is populated by the platform's order ingestion, outside this pipeline.
func NewEntryDataSource(db *postgres.DB, logger *logger.Logger) render.DataSource {
	return &entryDataSource{db: db, logger: logger}
}

type entryRow struct {
	OrderID       string          `db:"order_id"`
	InvoiceNumber string          `db:"invoice_number"`
	Date          time.Time       `db:"entry_date"`
	Country       string          `db:"country"`
	Currency      string          `db:"currency"`
	Description   string          `db:"description"`
	Account       string          `db:"account"`
	NetAmount     decimal.Decimal `db:"net_amount"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	GrossAmount   decimal.Decimal `db:"gross_amount"`
	TaxRate       decimal.Decimal `db:"tax_rate"`
}

const entryQuery = `
SELECT order_id, invoice_number, entry_date, country, currency, description,
       account, net_amount, tax_amount, gross_amount, tax_rate
FROM fiscal_entries
WHERE shop_id = :shop_id AND entry_date >= :start AND entry_date < :end
ORDER BY entry_date, order_id`

func (s *entryDataSource) FetchEntries(ctx context.Context, shopID string, window render.Window) ([]render.Entry, error) {
	params := map[string]interface{}{
		"shop_id": shopID,
		"start":   window.Start,
		"end":     window.End,
	}

	rows, err := s.db.NamedQueryContext(ctx, entryQuery, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to fetch fiscal entries").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var entries []render.Entry
	for rows.Next() {
		var row entryRow
		if err := rows.StructScan(&row); err != nil {
			return nil, ierr.WithError(err).
				WithHint("failed to scan fiscal entry").
				Mark(ierr.ErrDatabase)
		}
		entries = append(entries, render.Entry{
			OrderID:       row.OrderID,
			InvoiceNumber: row.InvoiceNumber,
			Date:          row.Date,
			Country:       row.Country,
			Currency:      row.Currency,
			Description:   row.Description,
			Account:       row.Account,
			NetAmount:     row.NetAmount,
			TaxAmount:     row.TaxAmount,
			GrossAmount:   row.GrossAmount,
			TaxRate:       row.TaxRate,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to iterate fiscal entries").
			Mark(ierr.ErrDatabase)
	}

	s.logger.Debugw("fetched fiscal entries",
		"shop_id", shopID,
		"start", window.Start,
		"end", window.End,
		"count", len(entries))
	return entries, nil
}
