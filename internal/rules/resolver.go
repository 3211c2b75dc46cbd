package rules

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RelatedLookup resolves related-resource IDs to display names.
// Implementations return a map keyed by ID; missing IDs (deleted entities)
// are simply absent from the result.
type RelatedLookup interface {
	FindNames(ctx context.Context, resource RelatedResource, ids []string) (map[string]string, error)
}

// NameResolver decorates decoded rules with display names for rules whose
// values are foreign-key IDs. It is display-only: RawValues always keep the
// canonical filter values used on write-back.
type NameResolver struct {
	lookup RelatedLookup
	logger *zap.Logger
}

// NewNameResolver creates a NameResolver.
func NewNameResolver(lookup RelatedLookup, logger *zap.Logger) *NameResolver {
	return &NameResolver{lookup: lookup, logger: logger}
}

// ResolveNames returns a copy of rules where DisplayValues of related-
// resource rules are replaced with resolved names, preserving order. IDs
// that fail to resolve are dropped from the displayed list only. IDs are
// batched into one lookup per distinct resource kind, issued concurrently.
//
// A lookup failure degrades that resource's rules to showing raw IDs; it is
// logged, never propagated. Context cancellation aborts in-flight lookups
// so stale names are never applied to a newer rule set.
func (r *NameResolver) ResolveNames(ctx context.Context, rulesIn []Rule) []Rule {
	out := make([]Rule, len(rulesIn))
	copy(out, rulesIn)

	// Batch distinct IDs per resource kind.
	batches := make(map[RelatedResource][]string)
	seen := make(map[RelatedResource]map[string]struct{})
	for _, rule := range out {
		if !rule.Valid || rule.Related == "" {
			continue
		}
		if seen[rule.Related] == nil {
			seen[rule.Related] = make(map[string]struct{})
		}
		for _, id := range rule.RawValues {
			if _, dup := seen[rule.Related][id]; dup {
				continue
			}
			seen[rule.Related][id] = struct{}{}
			batches[rule.Related] = append(batches[rule.Related], id)
		}
	}
	if len(batches) == 0 {
		return out
	}

	var mu sync.Mutex
	names := make(map[RelatedResource]map[string]string, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	for resource, ids := range batches {
		g.Go(func() error {
			resolved, err := r.lookup.FindNames(gctx, resource, ids)
			if err != nil {
				r.logger.Warn("related name lookup failed, falling back to raw IDs",
					zap.String("resource", string(resource)),
					zap.Int("ids", len(ids)),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			names[resource] = resolved
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		// The caller moved on; discard whatever resolved.
		return out
	}

	for i := range out {
		rule := &out[i]
		if !rule.Valid || rule.Related == "" {
			continue
		}
		resolved, ok := names[rule.Related]
		if !ok {
			continue
		}
		display := make([]string, 0, len(rule.RawValues))
		for _, id := range rule.RawValues {
			if name, found := resolved[id]; found {
				display = append(display, name)
			}
		}
		rule.DisplayValues = display
	}
	return out
}
