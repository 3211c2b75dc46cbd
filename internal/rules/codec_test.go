package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

func customRule(filters map[string]string) *promotion.PromotionRule {
	return &promotion.PromotionRule{
		ID:      uuid.New(),
		Type:    promotion.RuleTypeCustom,
		Filters: filters,
	}
}

func TestSplitPredicate(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
		wantAttr  Attribute
		wantMatch Matcher
		wantOK    bool
	}{
		{
			name:      "in suffix",
			predicate: "market_id_in",
			wantAttr:  "market_id",
			wantMatch: MatcherIn,
			wantOK:    true,
		},
		{
			name:      "not_in must win over in",
			predicate: "market_id_not_in",
			wantAttr:  "market_id",
			wantMatch: MatcherNotIn,
			wantOK:    true,
		},
		{
			name:      "gteq must win over eq",
			predicate: "total_amount_cents_gteq",
			wantAttr:  "total_amount_cents",
			wantMatch: MatcherGteq,
			wantOK:    true,
		},
		{
			name:      "gt suffix",
			predicate: "subtotal_amount_cents_gt",
			wantAttr:  "subtotal_amount_cents",
			wantMatch: MatcherGt,
			wantOK:    true,
		},
		{
			name:      "eq suffix",
			predicate: "currency_code_eq",
			wantAttr:  "currency_code",
			wantMatch: MatcherEq,
			wantOK:    true,
		},
		{
			name:      "no known suffix",
			predicate: "market_id_between",
			wantOK:    false,
		},
		{
			name:      "bare suffix has no attribute",
			predicate: "_in",
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, matcher, ok := splitPredicate(tt.predicate)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantAttr, attr)
				assert.Equal(t, tt.wantMatch, matcher)
			}
		})
	}
}

func TestDecode_ValidRule(t *testing.T) {
	rule := customRule(map[string]string{"market_id_in": "m1,m2"})

	decoded := Decode(rule)
	require.Len(t, decoded, 1)

	got := decoded[0]
	assert.True(t, got.Valid)
	assert.Equal(t, "market_id_in", got.Predicate)
	assert.Equal(t, AttrMarketID, got.Attribute)
	assert.Equal(t, "Market", got.Label)
	assert.Equal(t, "is", got.MatcherLabel)
	assert.Equal(t, []string{"m1", "m2"}, got.RawValues)
	assert.Equal(t, RelatedMarkets, got.Related)
	assert.Equal(t, rule.ID, got.RuleID)
}

func TestDecode_UnknownPredicateIsPreservedAsInvalid(t *testing.T) {
	rule := customRule(map[string]string{"totally_unknown_eq": "5"})

	// Repeated decodes must keep yielding the same preserved rule.
	for i := 0; i < 3; i++ {
		decoded := Decode(rule)
		require.Len(t, decoded, 1)
		got := decoded[0]
		assert.False(t, got.Valid)
		assert.Equal(t, "totally_unknown_eq", got.Predicate)
		assert.Equal(t, "totally_unknown_eq", got.Label, "label falls back to the raw predicate")
		assert.Equal(t, []string{"5"}, got.RawValues)
	}
}

func TestDecode_UnknownMatcherIsInvalid(t *testing.T) {
	decoded := Decode(customRule(map[string]string{"market_id_matches": "m1"}))
	require.Len(t, decoded, 1)
	assert.False(t, decoded[0].Valid)
	assert.Equal(t, []string{"m1"}, decoded[0].RawValues)
}

func TestDecode_EmptyAndNonCustomInputs(t *testing.T) {
	assert.Equal(t, []Rule{}, Decode(nil))
	assert.Equal(t, []Rule{}, Decode(customRule(nil)))
	assert.Equal(t, []Rule{}, Decode(customRule(map[string]string{})))
	assert.Equal(t, []Rule{}, Decode(&promotion.PromotionRule{Type: promotion.RuleTypeSkuList}))
}

func TestDecode_MixedValidAndInvalid(t *testing.T) {
	decoded := Decode(customRule(map[string]string{
		"market_id_in":       "m1",
		"totally_unknown_eq": "x",
		"currency_code_in":   "USD,EUR",
	}))
	require.Len(t, decoded, 3)

	byKey := map[string]Rule{}
	for _, r := range decoded {
		byKey[r.Key] = r
	}
	assert.True(t, byKey["market_id_in"].Valid)
	assert.True(t, byKey["currency_code_in"].Valid)
	assert.False(t, byKey["totally_unknown_eq"].Valid)
}

func TestEncodePredicate(t *testing.T) {
	assert.Equal(t, "market_id_in", EncodePredicate(AttrMarketID, MatcherIn))
	assert.Equal(t, "total_amount_cents_gteq", EncodePredicate(AttrTotalAmountCents, MatcherGteq))
}

// Round-trip law: for every configured attribute and allowed matcher,
// encoding then decoding reproduces the original value set exactly.
func TestRoundTrip_AllConfiguredAttributeMatcherPairs(t *testing.T) {
	for _, cfg := range Conditions() {
		for _, m := range cfg.Matchers {
			predicate := EncodePredicate(cfg.Attribute, m)
			decoded := Decode(customRule(map[string]string{predicate: "x,y"}))
			require.Len(t, decoded, 1, predicate)

			got := decoded[0]
			assert.True(t, got.Valid, predicate)
			assert.Equal(t, cfg.Attribute, got.Attribute, predicate)
			assert.Equal(t, m.Label(), got.MatcherLabel, predicate)
			assert.Equal(t, []string{"x", "y"}, got.RawValues, predicate)
		}
	}
}

func TestRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	attrs := Conditions()
	genValue := gen.RegexMatch(`[a-z0-9]{1,8}`)

	properties.Property("decode(encode(A,M,V)) reproduces V", prop.ForAll(
		func(attrIdx int, matcherIdx int, values []string) bool {
			cfg := attrs[attrIdx%len(attrs)]
			m := cfg.Matchers[matcherIdx%len(cfg.Matchers)]
			raw := JoinValues(values)

			decoded := Decode(customRule(map[string]string{
				EncodePredicate(cfg.Attribute, m): raw,
			}))
			if len(decoded) != 1 {
				return false
			}
			got := decoded[0]
			if !got.Valid || got.Attribute != cfg.Attribute || got.Matcher != m {
				return false
			}
			if len(got.RawValues) != len(values) {
				return false
			}
			for i, v := range values {
				if got.RawValues[i] != v {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
		gen.SliceOfN(3, genValue),
	))

	properties.TestingRun(t)
}

func TestMergeFilters(t *testing.T) {
	existing := map[string]string{
		"market_id_in":     "m1",
		"currency_code_in": "USD",
	}
	value := "m2,m3"

	merged := MergeFilters(existing, map[string]*string{"market_id_in": &value})
	assert.Equal(t, map[string]string{
		"market_id_in":     "m2,m3",
		"currency_code_in": "USD",
	}, merged)

	// Input map untouched.
	assert.Equal(t, "m1", existing["market_id_in"])
}

func TestMergeFilters_NilValueRemovesKeyIdempotently(t *testing.T) {
	existing := map[string]string{
		"market_id_in":     "m1",
		"currency_code_in": "USD",
	}
	patch := map[string]*string{"market_id_in": nil}

	once := MergeFilters(existing, patch)
	assert.Equal(t, map[string]string{"currency_code_in": "USD"}, once)

	twice := MergeFilters(once, patch)
	assert.Equal(t, once, twice)

	decoded := Decode(customRule(twice))
	require.Len(t, decoded, 1)
	assert.Equal(t, "currency_code_in", decoded[0].Predicate)
}

func TestMergeFilters_RemovingUnknownPredicateKeepsOthers(t *testing.T) {
	merged := MergeFilters(map[string]string{"market_id_in": "m1"}, map[string]*string{"ghost_eq": nil})
	assert.Equal(t, map[string]string{"market_id_in": "m1"}, merged)
}

func TestSplitValues(t *testing.T) {
	assert.Equal(t, []string{}, SplitValues(""))
	assert.Equal(t, []string{"a"}, SplitValues("a"))
	assert.Equal(t, []string{"a", "b"}, SplitValues("a,b"))
	assert.Equal(t, "a,b", JoinValues([]string{"a", "b"}))
}
