package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/commercekit/service-promotions/internal/cache"
	"github.com/commercekit/service-promotions/internal/domain/promotion"
	"github.com/commercekit/service-promotions/internal/rules"
)

const nameCacheTTL = 5 * time.Minute

// CatalogLookup implements rules.RelatedLookup on top of the market and tag
// repositories, with a read-through name cache in front. Names change rarely
// and a stale entry only affects display, so a short TTL is enough.
type CatalogLookup struct {
	markets promotion.MarketRepository
	tags    promotion.TagRepository
	cache   cache.NameCache
	logger  *zap.Logger
}

// NewCatalogLookup creates a CatalogLookup.
func NewCatalogLookup(markets promotion.MarketRepository, tags promotion.TagRepository, nameCache cache.NameCache, logger *zap.Logger) *CatalogLookup {
	if nameCache == nil {
		nameCache = cache.NoopNameCache{}
	}
	return &CatalogLookup{markets: markets, tags: tags, cache: nameCache, logger: logger}
}

// FindNames resolves a batch of IDs to display names for one resource kind.
func (l *CatalogLookup) FindNames(ctx context.Context, resource rules.RelatedResource, ids []string) (map[string]string, error) {
	key := cacheKey(resource, ids)
	if names, ok, err := l.cache.Get(ctx, key); err != nil {
		l.logger.Warn("name cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return names, nil
	}

	var (
		names map[string]string
		err   error
	)
	switch resource {
	case rules.RelatedMarkets:
		names, err = l.markets.FindNamesByIDs(ctx, ids)
	case rules.RelatedTags:
		names, err = l.tags.FindNamesByIDs(ctx, ids)
	default:
		return nil, fmt.Errorf("unknown related resource %q", resource)
	}
	if err != nil {
		return nil, err
	}

	if err := l.cache.Set(ctx, key, names, nameCacheTTL); err != nil {
		l.logger.Warn("name cache write failed", zap.String("key", key), zap.Error(err))
	}
	return names, nil
}

// cacheKey is order-insensitive so the same ID set hits the same entry.
func cacheKey(resource rules.RelatedResource, ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return "names:" + string(resource) + ":" + strings.Join(sorted, ",")
}
