package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching operations. The executor uses it
// to avoid re-reading per-shop configuration on every task.
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	// If expiration is 0, the item never expires (but may be evicted)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

// Predefined cache key prefixes for different entity types
const (
	PrefixFiscalConfig    = "fiscalconfig:v1:"
	PrefixGeneralSettings = "settings:v1:"
	PrefixFtpConfig       = "ftpconfig:v1:"
)

// FiscalConfigKey builds the cache key for a shop's fiscal configuration.
func FiscalConfigKey(shopID string) string {
	return PrefixFiscalConfig + shopID
}

// SettingsKey builds the cache key for a shop's general settings.
func SettingsKey(shopID string) string {
	return PrefixGeneralSettings + shopID
}

// FtpConfigKey builds the cache key for a shop's delivery destination.
func FtpConfigKey(shopID string) string {
	return PrefixFtpConfig + shopID
}
