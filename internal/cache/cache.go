package cache

import (
	"context"
	"time"
)

// NameCache stores resolved related-entity names keyed by resource kind and
// ID batch, to avoid re-issuing lookups on every render of a rule list.
type NameCache interface {
	Get(ctx context.Context, key string) (map[string]string, bool, error)
	Set(ctx context.Context, key string, names map[string]string, ttl time.Duration) error
}

// NoopNameCache disables caching; every lookup goes to the database.
type NoopNameCache struct{}

// Get always misses.
func (NoopNameCache) Get(context.Context, string) (map[string]string, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (NoopNameCache) Set(context.Context, string, map[string]string, time.Duration) error {
	return nil
}
