package registry

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// FlexInt is an integer that unmarshals from either a JSON number or a
// numeric string. Form layers submit numeric fields both ways; the API
// wants integers.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("empty numeric value")
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("not a valid integer: %q", data)
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the value as int.
func (f FlexInt) Int() int { return int(f) }

// Int64 returns the value as int64.
func (f FlexInt) Int64() int64 { return int64(f) }

// Form is the create/edit payload shared by every promotion variant. Which
// fields apply, and how they are validated, is decided by the registry
// entry of the promotion type.
type Form struct {
	Name            string     `json:"name"`
	StartsAt        *time.Time `json:"starts_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
	TotalUsageLimit *FlexInt   `json:"total_usage_limit,omitempty"`
	Priority        *FlexInt   `json:"priority,omitempty"`
	Exclusive       bool       `json:"exclusive"`
	CurrencyCode    string     `json:"currency_code,omitempty"`
	MarketID        string     `json:"market,omitempty"`
	SkuListID       string     `json:"sku_list,omitempty"`

	Percentage       *FlexInt `json:"percentage,omitempty"`
	FixedAmountCents *FlexInt `json:"fixed_amount_cents,omitempty"`
	BuyX             *FlexInt `json:"x,omitempty"`
	PayY             *FlexInt `json:"y,omitempty"`
	CheapestFree     bool     `json:"cheapest_free"`
	MaxQuantity      *FlexInt `json:"max_quantity,omitempty"`
	PromotionURL     string   `json:"promotion_url,omitempty"`
}
