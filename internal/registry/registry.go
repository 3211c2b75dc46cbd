package registry

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

// Config is one entry of the closed promotion-type configuration map: the
// single source of truth for a variant's validation schema, extra form
// fields, detail rows and routing metadata. Adding a new promotion type
// means adding one entry here; no dispatch logic elsewhere changes.
type Config struct {
	Type      promotion.Type
	Slug      string
	Icon      string
	TitleList string
	TitleNew  string
	// FormFields lists the variant-specific fields the create/edit form
	// renders on top of the generic options.
	FormFields []string

	validate   func(*Form, promotion.FieldErrors)
	apply      func(*Form, *promotion.Promotion)
	detailRows func(*promotion.Promotion) []DetailRow
}

// DetailRow is one summary line on a promotion detail page.
type DetailRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Validate checks the form against the generic options plus the variant's
// schema and returns per-field errors, or nil when the form is valid.
func (c Config) Validate(f *Form) promotion.FieldErrors {
	errs := promotion.FieldErrors{}

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "name is required"
	}
	if f.StartsAt == nil {
		errs["starts_at"] = "start date is required"
	}
	if f.ExpiresAt == nil {
		errs["expires_at"] = "expiration date is required"
	}
	if f.StartsAt != nil && f.ExpiresAt != nil && !f.ExpiresAt.After(*f.StartsAt) {
		errs["expires_at"] = "expiration date must be after the start date"
	}
	if f.TotalUsageLimit != nil && f.TotalUsageLimit.Int() < 1 {
		errs["total_usage_limit"] = "usage limit must be at least 1"
	}
	if f.Priority != nil && f.Priority.Int() < 1 {
		errs["priority"] = "priority must be at least 1"
	}
	if f.MarketID != "" {
		if _, err := uuid.Parse(f.MarketID); err != nil {
			errs["market"] = "not a valid market"
		}
	}
	if f.SkuListID != "" {
		if _, err := uuid.Parse(f.SkuListID); err != nil {
			errs["sku_list"] = "not a valid SKU list"
		}
	}

	if c.validate != nil {
		c.validate(f, errs)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Apply copies a validated form onto the promotion aggregate.
func (c Config) Apply(f *Form, p *promotion.Promotion) {
	p.Type = c.Type
	p.Name = strings.TrimSpace(f.Name)
	p.StartsAt = f.StartsAt.UTC()
	p.ExpiresAt = f.ExpiresAt.UTC()
	p.Exclusive = f.Exclusive
	p.TotalUsageLimit = intPtr(f.TotalUsageLimit)
	p.Priority = intPtr(f.Priority)

	if f.MarketID != "" {
		id, _ := uuid.Parse(f.MarketID)
		p.MarketID = &id
	} else {
		p.MarketID = nil
	}
	if f.SkuListID != "" {
		id, _ := uuid.Parse(f.SkuListID)
		p.SkuListID = &id
	} else {
		p.SkuListID = nil
	}

	if c.apply != nil {
		c.apply(f, p)
	}
}

// DetailRows renders the variant-specific summary rows for p.
func (c Config) DetailRows(p *promotion.Promotion) []DetailRow {
	if c.detailRows == nil {
		return []DetailRow{}
	}
	return c.detailRows(p)
}

func intPtr(f *FlexInt) *int {
	if f == nil {
		return nil
	}
	n := f.Int()
	return &n
}

func int64Ptr(f *FlexInt) *int64 {
	if f == nil {
		return nil
	}
	n := f.Int64()
	return &n
}

// formatCents renders an amount in cents as a decimal with its currency.
func formatCents(cents int64, currencyCode string) string {
	if currencyCode == "" {
		currencyCode = "USD"
	}
	return fmt.Sprintf("%.2f %s", float64(cents)/100, currencyCode)
}

func requireAmount(f *Form, errs promotion.FieldErrors) {
	if f.FixedAmountCents == nil || f.FixedAmountCents.Int64() < 1 {
		errs["fixed_amount_cents"] = "enter an amount greater than zero"
	}
	if f.CurrencyCode == "" {
		errs["currency_code"] = "currency is required"
	}
}

// configTable is the closed map over the seven promotion variants. Every
// known type must have an entry; PromotionTypes-driven tests enforce that.
var configTable = map[promotion.Type]Config{
	promotion.TypePercentageDiscount: {
		Type:       promotion.TypePercentageDiscount,
		Slug:       "percentage-discount",
		Icon:       "percent",
		TitleList:  "Percentage discount",
		TitleNew:   "percentage discount",
		FormFields: []string{"percentage"},
		validate: func(f *Form, errs promotion.FieldErrors) {
			if f.Percentage == nil || f.Percentage.Int() < 1 || f.Percentage.Int() > 100 {
				errs["percentage"] = "enter a valid number between 1 and 100"
			}
		},
		apply: func(f *Form, p *promotion.Promotion) {
			p.Percentage = intPtr(f.Percentage)
		},
		detailRows: func(p *promotion.Promotion) []DetailRow {
			if p.Percentage == nil {
				return []DetailRow{}
			}
			return []DetailRow{{Label: "Discount", Value: fmt.Sprintf("%d%%", *p.Percentage)}}
		},
	},
	promotion.TypeFixedAmount: {
		Type:       promotion.TypeFixedAmount,
		Slug:       "fixed-amount",
		Icon:       "currencyEur",
		TitleList:  "Fixed amount discount",
		TitleNew:   "fixed amount discount",
		FormFields: []string{"fixed_amount_cents", "currency_code"},
		validate:   requireAmount,
		apply: func(f *Form, p *promotion.Promotion) {
			p.FixedAmountCents = int64Ptr(f.FixedAmountCents)
			p.CurrencyCode = f.CurrencyCode
		},
		detailRows: func(p *promotion.Promotion) []DetailRow {
			if p.FixedAmountCents == nil {
				return []DetailRow{}
			}
			return []DetailRow{{Label: "Discount", Value: formatCents(*p.FixedAmountCents, p.CurrencyCode)}}
		},
	},
	promotion.TypeFixedPrice: {
		Type:       promotion.TypeFixedPrice,
		Slug:       "fixed-price",
		Icon:       "pushPin",
		TitleList:  "Fixed price",
		TitleNew:   "fixed price",
		FormFields: []string{"sku_list", "fixed_amount_cents", "currency_code"},
		validate: func(f *Form, errs promotion.FieldErrors) {
			requireAmount(f, errs)
			if f.SkuListID == "" {
				errs["sku_list"] = "SKU list is required"
			}
		},
		apply: func(f *Form, p *promotion.Promotion) {
			p.FixedAmountCents = int64Ptr(f.FixedAmountCents)
			p.CurrencyCode = f.CurrencyCode
		},
		detailRows: func(p *promotion.Promotion) []DetailRow {
			rows := []DetailRow{}
			if p.FixedAmountCents != nil {
				rows = append(rows, DetailRow{Label: "Fixed price", Value: formatCents(*p.FixedAmountCents, p.CurrencyCode)})
			}
			if p.SkuList != nil {
				rows = append(rows, DetailRow{Label: "SKU list", Value: p.SkuList.Name})
			}
			return rows
		},
	},
	promotion.TypeBuyXPayY: {
		Type:       promotion.TypeBuyXPayY,
		Slug:       "buy-x-pay-y",
		Icon:       "stack",
		TitleList:  "Buy X pay Y",
		TitleNew:   "buy X pay Y",
		FormFields: []string{"sku_list", "x", "y", "cheapest_free"},
		validate: func(f *Form, errs promotion.FieldErrors) {
			if f.SkuListID == "" {
				errs["sku_list"] = "SKU list is required"
			}
			if f.BuyX == nil || f.BuyX.Int() < 1 {
				errs["x"] = "enter a quantity of at least 1"
			}
			if f.PayY == nil || f.PayY.Int() < 1 {
				errs["y"] = "enter a quantity of at least 1"
			}
			if f.BuyX != nil && f.PayY != nil && f.PayY.Int() > f.BuyX.Int() {
				errs["y"] = "must be lower than or equal to X"
			}
		},
		apply: func(f *Form, p *promotion.Promotion) {
			p.BuyX = intPtr(f.BuyX)
			p.PayY = intPtr(f.PayY)
			p.CheapestFree = f.CheapestFree
		},
		detailRows: func(p *promotion.Promotion) []DetailRow {
			if p.BuyX == nil || p.PayY == nil {
				return []DetailRow{}
			}
			rows := []DetailRow{{Label: "Deal", Value: fmt.Sprintf("Buy %d, pay %d", *p.BuyX, *p.PayY)}}
			if p.CheapestFree {
				rows = append(rows, DetailRow{Label: "Free item", Value: "Cheapest"})
			}
			return rows
		},
	},
	promotion.TypeFreeGift: {
		Type:       promotion.TypeFreeGift,
		Slug:       "free-gift",
		Icon:       "gift",
		TitleList:  "Free gift",
		TitleNew:   "free gift",
		FormFields: []string{"sku_list", "max_quantity"},
		validate: func(f *Form, errs promotion.FieldErrors) {
			if f.MaxQuantity != nil && f.MaxQuantity.Int() < 1 {
				errs["max_quantity"] = "enter a quantity of at least 1"
			}
		},
		apply: func(f *Form, p *promotion.Promotion) {
			p.MaxQuantity = intPtr(f.MaxQuantity)
		},
		detailRows: func(p *promotion.Promotion) []DetailRow {
			if p.MaxQuantity == nil {
				return []DetailRow{}
			}
			return []DetailRow{{Label: "Max quantity", Value: fmt.Sprintf("%d", *p.MaxQuantity)}}
		},
	},
	promotion.TypeFreeShipping: {
		Type:      promotion.TypeFreeShipping,
		Slug:      "free-shipping",
		Icon:      "truck",
		TitleList: "Free shipping",
		TitleNew:  "free shipping",
	},
	promotion.TypeExternal: {
		Type:       promotion.TypeExternal,
		Slug:       "external",
		Icon:       "linkSimple",
		TitleList:  "External promotion",
		TitleNew:   "external promotion",
		FormFields: []string{"promotion_url"},
		validate: func(f *Form, errs promotion.FieldErrors) {
			if strings.TrimSpace(f.PromotionURL) == "" {
				errs["promotion_url"] = "promotion URL is required"
			}
		},
		apply: func(f *Form, p *promotion.Promotion) {
			p.PromotionURL = strings.TrimSpace(f.PromotionURL)
		},
		detailRows: func(p *promotion.Promotion) []DetailRow {
			if p.PromotionURL == "" {
				return []DetailRow{}
			}
			return []DetailRow{{Label: "Endpoint", Value: p.PromotionURL}}
		},
	},
}

// ConfigOf returns the configuration for a known promotion type. The map is
// total over promotion.Types(); callers pass validated types.
func ConfigOf(t promotion.Type) Config {
	return configTable[t]
}

// ConfigBySlug resolves a URL slug to its configuration. Unknown slugs
// (arbitrary user-supplied URL segments) return nil, never panic; the
// caller renders a not-found state.
func ConfigBySlug(slug string) *Config {
	for _, c := range configTable {
		if c.Slug == slug {
			cfg := c
			return &cfg
		}
	}
	return nil
}

// All returns every configuration in presentation order.
func All() []Config {
	out := make([]Config, 0, len(configTable))
	for _, t := range promotion.Types() {
		out = append(out, configTable[t])
	}
	return out
}
