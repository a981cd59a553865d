package postgres

import (
	"context"
	"encoding/json"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type fiscalConfigRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewFiscalConfigRepository(db *postgres.DB, logger *logger.Logger) fiscalconfig.Repository {
	return &fiscalConfigRepository{db: db, logger: logger}
}

// fiscalConfigRow mirrors the fiscal_configurations table. Array columns use
// text[], tax_rates is jsonb.
type fiscalConfigRow struct {
	ID                 string          `db:"id"`
	Code               string          `db:"code"`
	Name               string          `db:"name"`
	Countries          pq.StringArray  `db:"countries"`
	Currency           string          `db:"currency"`
	FileFormat         string          `db:"file_format"`
	Encoding           string          `db:"encoding"`
	Separator          string          `db:"separator"`
	RequiredColumns    pq.StringArray  `db:"required_columns"`
	TaxRates           []byte          `db:"tax_rates"`
	CompatibleSoftware pq.StringArray  `db:"compatible_software"`
	ExportFormats      pq.StringArray  `db:"export_formats"`
	VatRate            decimal.Decimal `db:"vat_rate"`
	DefaultFormat      string          `db:"default_format"`
	SalesAccount       string          `db:"sales_account"`

	types.BaseModel
}

func toFiscalConfigRow(c *fiscalconfig.FiscalConfiguration) (*fiscalConfigRow, error) {
	var taxRates []byte
	if c.TaxRates != nil {
		var err error
		taxRates, err = json.Marshal(c.TaxRates)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to encode tax rates").
				Mark(ierr.ErrValidation)
		}
	}
	formats := make(pq.StringArray, len(c.ExportFormats))
	for i, f := range c.ExportFormats {
		formats[i] = string(f)
	}
	return &fiscalConfigRow{
		ID:                 c.ID,
		Code:               c.Code,
		Name:               c.Name,
		Countries:          pq.StringArray(c.Countries),
		Currency:           c.Currency,
		FileFormat:         c.FileFormat,
		Encoding:           c.Encoding,
		Separator:          c.Separator,
		RequiredColumns:    pq.StringArray(c.RequiredColumns),
		TaxRates:           taxRates,
		CompatibleSoftware: pq.StringArray(c.CompatibleSoftware),
		ExportFormats:      formats,
		VatRate:            c.VatRate,
		DefaultFormat:      string(c.DefaultFormat),
		SalesAccount:       c.SalesAccount,
		BaseModel:          c.BaseModel,
	}, nil
}

func (row *fiscalConfigRow) toDomain() (*fiscalconfig.FiscalConfiguration, error) {
	var taxRates map[string]interface{}
	if len(row.TaxRates) > 0 {
		if err := json.Unmarshal(row.TaxRates, &taxRates); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to decode tax rates").
				Mark(ierr.ErrDatabase)
		}
	}
	formats := make([]types.ExportFormat, len(row.ExportFormats))
	for i, f := range row.ExportFormats {
		formats[i] = types.ExportFormat(f)
	}
	return &fiscalconfig.FiscalConfiguration{
		ID:                 row.ID,
		Code:               row.Code,
		Name:               row.Name,
		Countries:          []string(row.Countries),
		Currency:           row.Currency,
		FileFormat:         row.FileFormat,
		Encoding:           row.Encoding,
		Separator:          row.Separator,
		RequiredColumns:    []string(row.RequiredColumns),
		TaxRates:           taxRates,
		CompatibleSoftware: []string(row.CompatibleSoftware),
		ExportFormats:      formats,
		VatRate:            row.VatRate,
		DefaultFormat:      types.ExportFormat(row.DefaultFormat),
		SalesAccount:       row.SalesAccount,
		BaseModel:          row.BaseModel,
	}, nil
}

func (r *fiscalConfigRepository) Create(ctx context.Context, c *fiscalconfig.FiscalConfiguration) error {
	row, err := toFiscalConfigRow(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO fiscal_configurations (
			id, shop_id, code, name, countries, currency, file_format,
			encoding, separator, required_columns, tax_rates,
			compatible_software, export_formats, vat_rate, default_format,
			sales_account, status, created_at, updated_at
		) VALUES (
			:id, :shop_id, :code, :name, :countries, :currency, :file_format,
			:encoding, :separator, :required_columns, :tax_rates,
			:compatible_software, :export_formats, :vat_rate, :default_format,
			:sales_account, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating fiscal configuration",
		"fiscal_config_id", c.ID,
		"shop_id", c.ShopID,
		"code", c.Code,
	)

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create fiscal configuration").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *fiscalConfigRepository) GetByShop(ctx context.Context, shopID string) (*fiscalconfig.FiscalConfiguration, error) {
	rows, err := r.db.NamedQueryContext(ctx,
		"SELECT * FROM fiscal_configurations WHERE shop_id = :shop_id AND status = 'active'",
		map[string]interface{}{"shop_id": shopID})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get fiscal configuration").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("no fiscal configuration for shop %s", shopID).
			Mark(ierr.ErrNotFound)
	}
	var row fiscalConfigRow
	if err := rows.StructScan(&row); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan fiscal configuration").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain()
}

func (r *fiscalConfigRepository) Update(ctx context.Context, c *fiscalconfig.FiscalConfiguration) error {
	row, err := toFiscalConfigRow(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE fiscal_configurations SET
			code = :code,
			name = :name,
			countries = :countries,
			currency = :currency,
			file_format = :file_format,
			encoding = :encoding,
			separator = :separator,
			required_columns = :required_columns,
			tax_rates = :tax_rates,
			compatible_software = :compatible_software,
			export_formats = :export_formats,
			vat_rate = :vat_rate,
			default_format = :default_format,
			sales_account = :sales_account,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update fiscal configuration").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *fiscalConfigRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE fiscal_configurations SET
			status = 'deleted',
			updated_at = now()
		WHERE id = :id`

	r.logger.Debugw("deleting fiscal configuration", "fiscal_config_id", id)

	if _, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id": id,
	}); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete fiscal configuration").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
