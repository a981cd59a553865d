package internal

import (
	"context"
	"fmt"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	"github.com/fiscalflow/fiscalflow/internal/service"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/shopspring/decimal"
)

// SeedDemoShop creates a demo shop with a German fiscal profile and a daily
// CSV export schedule. Useful for exercising the pipeline locally.
func SeedDemoShop() error {
	params, db, err := newServiceParams()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	shops := service.NewShopService(params)

	sh, err := shops.Create(ctx, service.CreateShopRequest{
		ShopifyDomain: "demo.myshopify.com",
		AccessToken:   "demo-token",
	})
	if err != nil {
		return err
	}
	ctx = types.SetShopID(ctx, sh.ID)

	if _, err := shops.UpsertSettings(ctx, &settings.GeneralSettings{
		Timezone:     "Europe/Berlin",
		Language:     "de",
		SalesAccount: "8400",
	}); err != nil {
		return err
	}

	if _, err := shops.UpsertFiscalConfig(ctx, &fiscalconfig.FiscalConfiguration{
		Code:            "de-gobd",
		Name:            "GoBD",
		Countries:       []string{"DE"},
		Currency:        "EUR",
		Encoding:        "UTF-8",
		Separator:       ";",
		RequiredColumns: []string{"order_id", "invoice_number", "date", "net_amount", "tax_amount", "gross_amount"},
		ExportFormats:   []types.ExportFormat{types.ExportFormatCSV, types.ExportFormatXML},
		VatRate:         decimal.NewFromFloat(0.19),
		DefaultFormat:   types.ExportFormatCSV,
		SalesAccount:    "8400",
	}); err != nil {
		return err
	}

	schedules := service.NewScheduledTaskService(params)
	st, err := schedules.Create(ctx, service.CreateScheduledTaskRequest{
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "06:00",
		ReportType:    "tax-report",
		DataType:      "orders",
	})
	if err != nil {
		return err
	}

	fmt.Printf("Seeded demo shop %s\n", sh.ID)
	fmt.Printf("Daily schedule %s, first run at %s\n", st.ID, st.NextRun)
	return nil
}
