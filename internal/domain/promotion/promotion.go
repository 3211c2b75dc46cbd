package promotion

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies one of the seven promotion variants exposed by the API.
type Type string

const (
	TypePercentageDiscount Type = "percentage_discount_promotions"
	TypeFixedAmount        Type = "fixed_amount_promotions"
	TypeFixedPrice         Type = "fixed_price_promotions"
	TypeBuyXPayY           Type = "buy_x_pay_y_promotions"
	TypeFreeGift           Type = "free_gift_promotions"
	TypeFreeShipping       Type = "free_shipping_promotions"
	TypeExternal           Type = "external_promotions"
)

// Types lists every promotion variant in presentation order.
func Types() []Type {
	return []Type{
		TypePercentageDiscount,
		TypeFixedAmount,
		TypeFixedPrice,
		TypeBuyXPayY,
		TypeFreeGift,
		TypeFreeShipping,
		TypeExternal,
	}
}

// IsValidType reports whether t is one of the seven known variants.
func IsValidType(t Type) bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

// PriceList carries the currency a market sells in.
type PriceList struct {
	ID           uuid.UUID
	Name         string
	CurrencyCode string
}

// Market is a sales channel; its price list pins the currency.
type Market struct {
	ID        uuid.UUID
	Name      string
	PriceList *PriceList
}

// Tag is a label attached to SKUs or customers, referenced by rules by ID.
type Tag struct {
	ID   uuid.UUID
	Name string
}

// SkuList references a list of SKUs a promotion can be restricted to.
type SkuList struct {
	ID   uuid.UUID
	Name string
}

// Promotion is the aggregate for a promotional campaign of any variant.
// Variant-specific attributes are optional and validated by the registry
// configuration of the corresponding Type.
type Promotion struct {
	ID              uuid.UUID
	Type            Type
	Name            string
	StartsAt        time.Time
	ExpiresAt       time.Time
	CurrencyCode    string
	Exclusive       bool
	Priority        *int
	TotalUsageLimit *int
	TotalUsageCount int
	DisabledAt      *time.Time

	// Variant attributes.
	Percentage       *int
	FixedAmountCents *int64
	BuyX             *int
	PayY             *int
	CheapestFree     bool
	MaxQuantity      *int
	PromotionURL     string

	MarketID  *uuid.UUID
	Market    *Market
	SkuListID *uuid.UUID
	SkuList   *SkuList

	Rules []PromotionRule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomRule returns the promotion's CustomPromotionRule, or nil when none
// is attached. At most one exists per promotion; the write path relies on
// this lookup to decide create-vs-update.
func (p *Promotion) CustomRule() *PromotionRule {
	for i := range p.Rules {
		if p.Rules[i].Type == RuleTypeCustom {
			return &p.Rules[i]
		}
	}
	return nil
}

// Enabled reports whether the promotion has not been disabled.
func (p *Promotion) Enabled() bool {
	return p.DisabledAt == nil
}

// Active reports whether the promotion is enabled, inside its validity
// window and below its usage limit.
func (p *Promotion) Active(now time.Time) bool {
	if !p.Enabled() {
		return false
	}
	if now.Before(p.StartsAt) || now.After(p.ExpiresAt) {
		return false
	}
	if p.TotalUsageLimit != nil && p.TotalUsageCount >= *p.TotalUsageLimit {
		return false
	}
	return true
}

// Disable marks the promotion as disabled at the given instant.
func (p *Promotion) Disable(now time.Time) {
	if p.DisabledAt == nil {
		t := now.UTC()
		p.DisabledAt = &t
	}
}

// Enable clears a previous disable.
func (p *Promotion) Enable() {
	p.DisabledAt = nil
}
