package promotion

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for promotions.
type Repository interface {
	Save(ctx context.Context, p *Promotion) error
	Update(ctx context.Context, p *Promotion) error
	// FindByID loads a promotion with its rules, market (and price list)
	// and SKU list preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	List(ctx context.Context, filter ListFilter) ([]*Promotion, int64, error)
}

// ListFilter narrows and paginates promotion listings.
type ListFilter struct {
	Type   Type // empty means all variants
	Page   int
	Limit  int
	Search string // optional name substring
}

// RuleRepository persists promotion rules. The service only ever writes the
// custom variant; the others are read back as attached.
type RuleRepository interface {
	CreateCustom(ctx context.Context, rule *PromotionRule) error
	// UpdateFilters replaces the whole filters map of an existing custom
	// rule (read current filters, merge, write back whole map).
	UpdateFilters(ctx context.Context, id uuid.UUID, filters map[string]string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CouponRepository persists coupons attached to promotions.
type CouponRepository interface {
	Save(ctx context.Context, c *Coupon) error
	FindByPromotion(ctx context.Context, promotionID uuid.UUID) ([]*Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MarketRepository reads markets for pickers and name resolution.
type MarketRepository interface {
	List(ctx context.Context) ([]*Market, error)
	FindNamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// TagRepository reads tags for pickers and name resolution.
type TagRepository interface {
	List(ctx context.Context) ([]*Tag, error)
	FindNamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}
