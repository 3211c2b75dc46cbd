package promotion

import (
	"time"

	"github.com/google/uuid"
)

// RuleType discriminates the polymorphic promotion_rules collection.
type RuleType string

const (
	RuleTypeCustom      RuleType = "custom_promotion_rules"
	RuleTypeSkuList     RuleType = "sku_list_promotion_rules"
	RuleTypeCouponCodes RuleType = "coupon_codes_promotion_rules"
	RuleTypeOrderAmount RuleType = "order_amount_promotion_rules"
)

// PromotionRule is one activation rule attached to a promotion. Only the
// custom variant carries a filters map; the other variants are opaque
// pass-through data for this service.
type PromotionRule struct {
	ID          uuid.UUID
	PromotionID uuid.UUID
	Type        RuleType
	// Filters maps predicate strings (attribute + matcher suffix, e.g.
	// "market_id_in") to raw values, possibly comma-joined ID lists.
	// Populated only for RuleTypeCustom.
	Filters map[string]string
	// SkuListID is set for RuleTypeSkuList.
	SkuListID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Coupon is a redemption code attached to a promotion.
type Coupon struct {
	ID                uuid.UUID
	PromotionID       uuid.UUID
	Code              string
	UsageLimit        *int
	UsageCount        int
	CustomerSingleUse bool
	ExpiresAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
