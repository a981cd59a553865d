package testutil

import (
	"context"
	"fmt"

	"github.com/fiscalflow/fiscalflow/internal/domain/shop"
	"github.com/fiscalflow/fiscalflow/internal/errors"
)

// InMemoryShopStore implements shop.Repository
type InMemoryShopStore struct {
	*InMemoryStore[*shop.Shop]
}

func NewInMemoryShopStore() *InMemoryShopStore {
	return &InMemoryShopStore{
		InMemoryStore: NewInMemoryStore[*shop.Shop](),
	}
}

func copyShop(s *shop.Shop) *shop.Shop {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *InMemoryShopStore) Create(ctx context.Context, sh *shop.Shop) error {
	if sh == nil {
		return fmt.Errorf("shop cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, sh.ID, copyShop(sh))
}

func (s *InMemoryShopStore) Get(ctx context.Context, id string) (*shop.Shop, error) {
	sh, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "shop not found")
	}
	return copyShop(sh), nil
}

func (s *InMemoryShopStore) GetByDomain(ctx context.Context, shopifyDomain string) (*shop.Shop, error) {
	shops, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, sh *shop.Shop, _ interface{}) bool {
		return sh.ShopifyDomain == shopifyDomain
	}, nil)
	if err != nil || len(shops) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "shop not found")
	}
	return copyShop(shops[0]), nil
}

func (s *InMemoryShopStore) Update(ctx context.Context, sh *shop.Shop) error {
	if sh == nil {
		return fmt.Errorf("shop cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, sh.ID, copyShop(sh))
}
