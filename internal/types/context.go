package types

import (
	"context"
	"fmt"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxShopID ContextKey = "ctx_shop_id"
)

func GetShopID(ctx context.Context) string {
	if shopID, ok := ctx.Value(CtxShopID).(string); ok {
		return shopID
	}
	return ""
}

// SetShopID sets the shop ID in the context
func SetShopID(ctx context.Context, shopID string) context.Context {
	return context.WithValue(ctx, CtxShopID, shopID)
}

// ValidateShopContext validates that the required shop context fields are present
func ValidateShopContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is nil")
	}

	if GetShopID(ctx) == "" {
		return fmt.Errorf("no shop context found in context")
	}

	return nil
}
