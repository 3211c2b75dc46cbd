package rules

// Attribute is a filter attribute supported by the rule builder
// (the left-hand part of a predicate, e.g. "market_id").
type Attribute string

const (
	AttrMarketID            Attribute = "market_id"
	AttrCurrencyCode        Attribute = "currency_code"
	AttrTotalAmountCents    Attribute = "total_amount_cents"
	AttrSubtotalAmountCents Attribute = "subtotal_amount_cents"
	AttrLineItemsSkuTagsID  Attribute = "line_items_sku_tags_id"
	AttrCustomerTagsID      Attribute = "customer_tags_id"
)

// RelatedResource names a foreign-key resource whose IDs appear as rule
// values and can be resolved to display names.
type RelatedResource string

const (
	RelatedMarkets RelatedResource = "markets"
	RelatedTags    RelatedResource = "tags"
)

// InputKind tells the form layer which input component renders the value.
type InputKind string

const (
	InputSelectMarket   InputKind = "select_market"
	InputSelectCurrency InputKind = "select_currency"
	InputSelectTag      InputKind = "select_tag"
	InputCurrencyAmount InputKind = "currency_amount"
)

// AvailabilityContext is the input to a condition's availability predicate:
// the decoded rules already attached to the promotion and the currency codes
// resolved for it.
type AvailabilityContext struct {
	Rules         []Rule
	CurrencyCodes []string
}

// hasValidRule reports whether a valid rule for attr is already attached.
func (c AvailabilityContext) hasValidRule(attr Attribute) bool {
	for _, r := range c.Rules {
		if r.Valid && r.Attribute == attr {
			return true
		}
	}
	return false
}

// ConditionConfig describes one supported filter attribute: its label, the
// matchers it accepts, the input that edits it and the predicate deciding
// whether the condition is compatible with the promotion's current state.
// "Already attached" is tracked separately by the availability engine; the
// Available predicate only expresses cross-condition constraints.
type ConditionConfig struct {
	Attribute Attribute
	Label     string
	Related   RelatedResource // empty when values are not foreign keys
	Matchers  []Matcher
	Input     InputKind
	Available func(AvailabilityContext) bool
}

// AllowsMatcher reports whether m is in the condition's allowed matcher set.
func (c ConditionConfig) AllowsMatcher(m Matcher) bool {
	for _, allowed := range c.Matchers {
		if allowed == m {
			return true
		}
	}
	return false
}

// conditionOrder fixes the presentation order of the condition picker.
var conditionOrder = []Attribute{
	AttrMarketID,
	AttrCurrencyCode,
	AttrTotalAmountCents,
	AttrSubtotalAmountCents,
	AttrLineItemsSkuTagsID,
	AttrCustomerTagsID,
}

// conditionTable is the declarative registry of supported conditions.
//
// Availability semantics:
//   - amount conditions need exactly one resolved currency, since an amount
//     input cannot render without a fixed currency;
//   - a market pins the currency, so a bare currency condition is redundant
//     once a market rule exists (the reverse does not hold: a currency rule
//     never blocks adding a market rule).
var conditionTable = map[Attribute]ConditionConfig{
	AttrMarketID: {
		Attribute: AttrMarketID,
		Label:     "Market",
		Related:   RelatedMarkets,
		Matchers:  []Matcher{MatcherIn, MatcherNotIn},
		Input:     InputSelectMarket,
		Available: func(AvailabilityContext) bool { return true },
	},
	AttrCurrencyCode: {
		Attribute: AttrCurrencyCode,
		Label:     "Currency",
		Matchers:  []Matcher{MatcherIn, MatcherNotIn},
		Input:     InputSelectCurrency,
		Available: func(ctx AvailabilityContext) bool {
			return !ctx.hasValidRule(AttrMarketID) && len(ctx.CurrencyCodes) == 0
		},
	},
	AttrTotalAmountCents: {
		Attribute: AttrTotalAmountCents,
		Label:     "Cart total",
		Matchers:  []Matcher{MatcherEq, MatcherGteq, MatcherGt},
		Input:     InputCurrencyAmount,
		Available: func(ctx AvailabilityContext) bool {
			return len(ctx.CurrencyCodes) == 1
		},
	},
	AttrSubtotalAmountCents: {
		Attribute: AttrSubtotalAmountCents,
		Label:     "Cart subtotal",
		Matchers:  []Matcher{MatcherEq, MatcherGteq, MatcherGt},
		Input:     InputCurrencyAmount,
		Available: func(ctx AvailabilityContext) bool {
			return len(ctx.CurrencyCodes) == 1
		},
	},
	AttrLineItemsSkuTagsID: {
		Attribute: AttrLineItemsSkuTagsID,
		Label:     "SKU tag",
		Related:   RelatedTags,
		Matchers:  []Matcher{MatcherIn, MatcherNotIn},
		Input:     InputSelectTag,
		Available: func(AvailabilityContext) bool { return true },
	},
	AttrCustomerTagsID: {
		Attribute: AttrCustomerTagsID,
		Label:     "Customer tag",
		Related:   RelatedTags,
		Matchers:  []Matcher{MatcherIn, MatcherNotIn},
		Input:     InputSelectTag,
		Available: func(AvailabilityContext) bool { return true },
	},
}

// ConditionOf looks up the configuration for attr.
func ConditionOf(attr Attribute) (ConditionConfig, bool) {
	c, ok := conditionTable[attr]
	return c, ok
}

// Conditions returns all condition configurations in picker order.
func Conditions() []ConditionConfig {
	out := make([]ConditionConfig, 0, len(conditionOrder))
	for _, attr := range conditionOrder {
		out = append(out, conditionTable[attr])
	}
	return out
}
