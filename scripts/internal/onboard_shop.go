package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/fiscalflow/fiscalflow/internal/service"
)

// OnboardShop creates a shop row for the domain given via SHOP_DOMAIN and
// SHOP_ACCESS_TOKEN and prints its ID.
func OnboardShop() error {
	domain := os.Getenv("SHOP_DOMAIN")
	token := os.Getenv("SHOP_ACCESS_TOKEN")
	if domain == "" || token == "" {
		return fmt.Errorf("SHOP_DOMAIN and SHOP_ACCESS_TOKEN are required")
	}

	params, db, err := newServiceParams()
	if err != nil {
		return err
	}
	defer db.Close()

	shops := service.NewShopService(params)
	sh, err := shops.Create(context.Background(), service.CreateShopRequest{
		ShopifyDomain: domain,
		AccessToken:   token,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Onboarded shop:\n")
	fmt.Printf("  ID:     %s\n", sh.ID)
	fmt.Printf("  Domain: %s\n", sh.ShopifyDomain)
	fmt.Printf("\nScope further API calls to this shop with shop_id=%s\n", sh.ID)
	return nil
}
