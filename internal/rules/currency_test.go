package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

func promotionWithRule(filters map[string]string) *promotion.Promotion {
	return &promotion.Promotion{
		ID:   uuid.New(),
		Type: promotion.TypePercentageDiscount,
		Rules: []promotion.PromotionRule{
			{ID: uuid.New(), Type: promotion.RuleTypeCustom, Filters: filters},
		},
	}
}

func TestResolveCurrencyCodes_Empty(t *testing.T) {
	assert.Equal(t, []string{}, ResolveCurrencyCodes(nil))
	assert.Equal(t, []string{}, ResolveCurrencyCodes(&promotion.Promotion{}))
}

func TestResolveCurrencyCodes_FromPromotion(t *testing.T) {
	p := &promotion.Promotion{CurrencyCode: "USD"}
	assert.Equal(t, []string{"USD"}, ResolveCurrencyCodes(p))
}

func TestResolveCurrencyCodes_FromMarketPriceList(t *testing.T) {
	p := &promotion.Promotion{
		Market: &promotion.Market{
			PriceList: &promotion.PriceList{CurrencyCode: "EUR"},
		},
	}
	assert.Equal(t, []string{"EUR"}, ResolveCurrencyCodes(p))
}

func TestResolveCurrencyCodes_DirectFieldWinsOverMarket(t *testing.T) {
	p := &promotion.Promotion{
		CurrencyCode: "USD",
		Market: &promotion.Market{
			PriceList: &promotion.PriceList{CurrencyCode: "EUR"},
		},
	}
	assert.Equal(t, []string{"USD"}, ResolveCurrencyCodes(p))
}

func TestResolveCurrencyCodes_FromCurrencyCodeInFilter(t *testing.T) {
	p := promotionWithRule(map[string]string{"currency_code_in": "AED,EUR"})
	assert.Equal(t, []string{"AED", "EUR"}, ResolveCurrencyCodes(p))
}

func TestResolveCurrencyCodes_MarketWinsOverFilter(t *testing.T) {
	p := promotionWithRule(map[string]string{"currency_code_in": "AED,EUR"})
	p.Market = &promotion.Market{PriceList: &promotion.PriceList{CurrencyCode: "GBP"}}
	assert.Equal(t, []string{"GBP"}, ResolveCurrencyCodes(p))
}

func TestResolveCurrencyCodes_NotInComplement(t *testing.T) {
	p := promotionWithRule(map[string]string{"currency_code_not_in": "AED,EUR"})

	got := ResolveCurrencyCodes(p)
	assert.Len(t, got, len(KnownCurrencyCodes())-2)
	assert.NotContains(t, got, "AED")
	assert.NotContains(t, got, "EUR")
	assert.Contains(t, got, "USD")
}

func TestResolveCurrencyCodes_InWinsOverNotIn(t *testing.T) {
	p := promotionWithRule(map[string]string{
		"currency_code_in":     "USD",
		"currency_code_not_in": "USD,EUR",
	})
	assert.Equal(t, []string{"USD"}, ResolveCurrencyCodes(p))
}

func TestResolveCurrencyCodes_NoCurrencyFilters(t *testing.T) {
	p := promotionWithRule(map[string]string{"market_id_in": "m1"})
	assert.Equal(t, []string{}, ResolveCurrencyCodes(p))
}
