package shop

import (
	"fmt"
	"time"

	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// Shop is the tenant root. Every other entity in the system is owned by
// exactly one shop.
type Shop struct {
	ID            string       `db:"id" json:"id"`
	ShopifyDomain string       `db:"shopify_domain" json:"shopify_domain"`
	AccessToken   string       `db:"access_token" json:"-"`
	Status        types.Status `db:"status" json:"status"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// Redacted returns a loggable description of the shop. The access token
// never appears in logs.
func (s *Shop) Redacted() string {
	return fmt.Sprintf("shop %s (%s)", s.ID, s.ShopifyDomain)
}

func (s *Shop) Validate() error {
	if s.ShopifyDomain == "" {
		return ierr.NewError("shopify domain is required").
			WithHint("Shopify domain is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
