package service

import (
	"context"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
)

// shopConfigLoader reads per-shop configuration through the cache so the
// executor does not hit storage for every task of a busy shop.
type shopConfigLoader struct {
	ServiceParams
}

func (l *shopConfigLoader) fiscalConfig(ctx context.Context, shopID string) (*fiscalconfig.FiscalConfiguration, error) {
	key := cache.FiscalConfigKey(shopID)
	if cached, ok := l.Cache.Get(ctx, key); ok {
		if cfg, ok := cached.(*fiscalconfig.FiscalConfiguration); ok {
			return cfg, nil
		}
	}

	cfg, err := l.FiscalConfigRepo.GetByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	l.Cache.Set(ctx, key, cfg, cache.DefaultExpiration)
	return cfg, nil
}

// location resolves the shop's timezone. Shops without settings fall back
// to UTC so a missing row never blocks dispatch.
func (l *shopConfigLoader) location(ctx context.Context, shopID string) *time.Location {
	key := cache.SettingsKey(shopID)
	if cached, ok := l.Cache.Get(ctx, key); ok {
		if loc, ok := cached.(*time.Location); ok {
			return loc
		}
	}

	gs, err := l.SettingsRepo.GetByShop(ctx, shopID)
	if err != nil {
		return time.UTC
	}
	loc, err := gs.Location()
	if err != nil {
		l.Logger.Warnw("invalid shop timezone, falling back to UTC",
			"shop_id", shopID,
			"timezone", gs.Timezone)
		return time.UTC
	}
	l.Cache.Set(ctx, key, loc, cache.DefaultExpiration)
	return loc
}
