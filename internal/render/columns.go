package render

import (
	"strings"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
)

const dateLayout = "2006-01-02"

// columnValue resolves one configured export column for an entry. Unknown
// columns render as empty strings so a misconfigured profile degrades to
// blank cells instead of failing the whole export.
func columnValue(config *fiscalconfig.FiscalConfiguration, e Entry, column string) string {
	switch strings.ToLower(column) {
	case "order_id":
		return e.OrderID
	case "invoice_number":
		return e.InvoiceNumber
	case "date":
		return e.Date.Format(dateLayout)
	case "country":
		return e.Country
	case "currency":
		if e.Currency != "" {
			return e.Currency
		}
		return config.Currency
	case "description":
		return e.Description
	case "sales_account":
		if e.Account != "" {
			return e.Account
		}
		return config.SalesAccount
	case "net_amount":
		return e.NetAmount.StringFixed(2)
	case "tax_amount":
		return e.TaxAmount.StringFixed(2)
	case "gross_amount":
		return e.GrossAmount.StringFixed(2)
	case "tax_rate":
		return e.TaxRate.StringFixed(2)
	case "vat_rate":
		// Falls back to the profile-wide VAT rate when the entry has none.
		if !e.TaxRate.IsZero() {
			return e.TaxRate.StringFixed(2)
		}
		return config.VatRate.StringFixed(2)
	default:
		return ""
	}
}

// rowValues resolves all configured columns for an entry, in column order.
func rowValues(config *fiscalconfig.FiscalConfiguration, e Entry) []string {
	values := make([]string, len(config.RequiredColumns))
	for i, column := range config.RequiredColumns {
		values[i] = columnValue(config, e, column)
	}
	return values
}
