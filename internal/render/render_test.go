package render

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

type stubDataSource struct {
	entries []Entry
	err     error
}

func (s *stubDataSource) FetchEntries(_ context.Context, _ string, _ Window) ([]Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func testConfig() *fiscalconfig.FiscalConfiguration {
	return &fiscalconfig.FiscalConfiguration{
		ID:              "fiscal_test",
		Code:            "FR-FEC",
		Name:            "FEC Export",
		Currency:        "EUR",
		Encoding:        "UTF-8",
		Separator:       ";",
		RequiredColumns: []string{"order_id", "date", "gross_amount", "vat_rate", "sales_account"},
		VatRate:         decimal.NewFromFloat(20),
		DefaultFormat:   types.ExportFormatCSV,
		SalesAccount:    "707000",
	}
}

func testEntry() Entry {
	return Entry{
		OrderID:     "1001",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Country:     "FR",
		Currency:    "EUR",
		NetAmount:   decimal.NewFromFloat(100),
		TaxAmount:   decimal.NewFromFloat(20),
		GrossAmount: decimal.NewFromFloat(120),
	}
}

func testWindow() Window {
	return Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCSVRenderer(t *testing.T) {
	config := testConfig()
	out, err := NewCSVRenderer().Render(config, []Entry{testEntry()})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "order_id;date;gross_amount;vat_rate;sales_account", lines[0])
	assert.Equal(t, "1001;2024-01-15;120.00;20.00;707000", lines[1])
}

func TestCSVRendererEmptyStillHasHeader(t *testing.T) {
	out, err := NewCSVRenderer().Render(testConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, "order_id;date;gross_amount;vat_rate;sales_account\n", string(out))
}

func TestCSVRendererLegacyEncoding(t *testing.T) {
	config := testConfig()
	config.Encoding = "ISO-8859-1"
	config.RequiredColumns = []string{"description"}

	entry := testEntry()
	entry.Description = "Commande réglée"

	out, err := NewCSVRenderer().Render(config, []Entry{entry})
	require.NoError(t, err)

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(out)
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "Commande réglée")
}

func TestJSONRenderer(t *testing.T) {
	out, err := NewJSONRenderer().Render(testConfig(), []Entry{testEntry()})
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(out, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "1001", rows[0]["order_id"])
	assert.Equal(t, "120.00", rows[0]["gross_amount"])

	// Zero entries must be an empty array, not null.
	out, err = NewJSONRenderer().Render(testConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(out)))
}

func TestTXTRenderer(t *testing.T) {
	out, err := NewTXTRenderer().Render(testConfig(), []Entry{testEntry()})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1001;2024-01-15;120.00;20.00;707000", lines[1])
}

func TestXMLRenderer(t *testing.T) {
	out, err := NewXMLRenderer().Render(testConfig(), []Entry{testEntry()})
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, `<fiscalExport code="FR-FEC">`)
	assert.Contains(t, content, `<field name="order_id">1001</field>`)
}

func TestPDFAndXLSXRenderersProduceFiles(t *testing.T) {
	out, err := NewPDFRenderer().Render(testConfig(), []Entry{testEntry()})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))

	out, err = NewXLSXRenderer().Render(testConfig(), []Entry{testEntry()})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestVatRateFallsBackToProfile(t *testing.T) {
	config := testConfig()
	entry := testEntry()
	entry.TaxRate = decimal.Zero

	value := columnValue(config, entry, "vat_rate")
	assert.Equal(t, "20.00", value)

	entry.TaxRate = decimal.NewFromFloat(5.5)
	value = columnValue(config, entry, "vat_rate")
	assert.Equal(t, "5.50", value)
}

func TestRegistryRender(t *testing.T) {
	source := &stubDataSource{entries: []Entry{testEntry()}}
	registry := NewRegistry(source, logger.NewNopLogger())

	artifact, err := registry.Render(context.Background(), types.ExportFormatCSV, testConfig(), "shop_1", testWindow())
	require.NoError(t, err)
	assert.Equal(t, 1, artifact.RowCount)
	assert.NotEmpty(t, artifact.Bytes)
}

func TestRegistryRenderEmptyWindow(t *testing.T) {
	registry := NewRegistry(&stubDataSource{}, logger.NewNopLogger())

	artifact, err := registry.Render(context.Background(), types.ExportFormatCSV, testConfig(), "shop_1", testWindow())
	require.NoError(t, err)
	assert.Equal(t, 0, artifact.RowCount)
	assert.NotEmpty(t, artifact.Bytes, "empty export must still be a valid file")
}

func TestRegistryRejectsDisabledFormat(t *testing.T) {
	config := testConfig()
	config.ExportFormats = []types.ExportFormat{types.ExportFormatCSV}

	registry := NewRegistry(&stubDataSource{}, logger.NewNopLogger())
	_, err := registry.Render(context.Background(), types.ExportFormatPDF, config, "shop_1", testWindow())
	assert.Error(t, err)
}

func TestRegistryRejectsUnknownFormat(t *testing.T) {
	registry := NewRegistry(&stubDataSource{}, logger.NewNopLogger())
	_, err := registry.Render(context.Background(), "DOCX", testConfig(), "shop_1", testWindow())
	assert.Error(t, err)
}
