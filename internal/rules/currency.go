package rules

import (
	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

// ResolveCurrencyCodes derives the currency codes a promotion can apply to.
// Sources are tried in priority order and the first match wins, without
// merging across tiers:
//
//  1. the promotion's own currency_code;
//  2. the currency of the linked market's price list;
//  3. a currency_code_in filter on the custom rule;
//  4. the complement of a currency_code_not_in filter over the known
//     currency table.
//
// When nothing matches the result is an empty, non-nil slice. Downstream
// amount inputs need exactly one unambiguous currency, which is why the
// direct sources short-circuit the rule-derived ones.
func ResolveCurrencyCodes(p *promotion.Promotion) []string {
	if p == nil {
		return []string{}
	}

	if p.CurrencyCode != "" {
		return []string{p.CurrencyCode}
	}

	if p.Market != nil && p.Market.PriceList != nil && p.Market.PriceList.CurrencyCode != "" {
		return []string{p.Market.PriceList.CurrencyCode}
	}

	custom := p.CustomRule()
	if custom == nil {
		return []string{}
	}

	if raw, ok := custom.Filters[EncodePredicate(AttrCurrencyCode, MatcherIn)]; ok && raw != "" {
		return SplitValues(raw)
	}

	if raw, ok := custom.Filters[EncodePredicate(AttrCurrencyCode, MatcherNotIn)]; ok && raw != "" {
		excluded := make(map[string]struct{})
		for _, code := range SplitValues(raw) {
			excluded[code] = struct{}{}
		}
		out := make([]string, 0, len(knownCurrencyCodes))
		for _, code := range knownCurrencyCodes {
			if _, skip := excluded[code]; !skip {
				out = append(out, code)
			}
		}
		return out
	}

	return []string{}
}
