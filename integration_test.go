//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/service-promotions/internal/application"
	"github.com/commercekit/service-promotions/internal/domain/promotion"
	"github.com/commercekit/service-promotions/internal/events"
	"github.com/commercekit/service-promotions/internal/registry"
	"github.com/commercekit/service-promotions/internal/rules"
)

func newForm(name string) *registry.Form {
	starts := time.Now().UTC()
	expires := starts.Add(72 * time.Hour)
	return &registry.Form{
		Name:      name,
		StartsAt:  &starts,
		ExpiresAt: &expires,
	}
}

// TestCreatePromotion_PublishesCreatedEvent verifies the full create path:
// registry validation, persistence and the lifecycle event on the topic.
func TestCreatePromotion_PublishesCreatedEvent(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPromotionStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	form := newForm("Spring percentage")
	pct := registry.FlexInt(20)
	form.Percentage = &pct

	cfg := registry.ConfigOf(promotion.TypePercentageDiscount)
	created, err := stack.Promotions.Create(context.Background(), cfg, form)
	require.NoError(t, err)
	assert.Equal(t, "percentage-discount", created.Slug)

	fetched, err := stack.Promotions.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Percentage)
	assert.Equal(t, 20, *fetched.Percentage)
	require.Len(t, fetched.DetailRows, 1)
	assert.Equal(t, "20%", fetched.DetailRows[0].Value)

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicPromotionEvents,
		events.PromotionCreated, 15*time.Second)

	var evt events.PromotionEvent
	require.NoError(t, ce.ParseData(&evt))
	assert.Equal(t, created.ID, evt.PromotionID)
	assert.Equal(t, "percentage_discount_promotions", evt.PromotionType)
}

// TestAddCondition_ResolvesNamesAndBlocksCurrency verifies the rule write
// path end to end: the condition is persisted on a custom rule, market IDs
// render as market names, and a market rule makes the bare currency
// condition incompatible while unlocking the amount conditions.
func TestAddCondition_ResolvesNamesAndBlocksCurrency(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPromotionStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	marketID := seedMarket(t, infra.DB, "Europe", "EUR")

	form := newForm("Free shipping EU")
	cfg := registry.ConfigOf(promotion.TypeFreeShipping)
	created, err := stack.Promotions.Create(context.Background(), cfg, form)
	require.NoError(t, err)

	ruleDTOs, err := stack.Rules.AddCondition(context.Background(), created.ID, application.AddConditionRequest{
		Attribute: "market_id",
		Matcher:   "in",
		Values:    []string{marketID.String()},
	})
	require.NoError(t, err)

	require.Len(t, ruleDTOs, 1)
	assert.Equal(t, "market_id_in", ruleDTOs[0].Predicate)
	assert.Equal(t, []string{"Europe"}, ruleDTOs[0].Values)
	assert.Equal(t, []string{marketID.String()}, ruleDTOs[0].RawValues)

	opts, err := stack.Rules.ListAvailable(context.Background(), created.ID)
	require.NoError(t, err)

	byAttr := make(map[rules.Attribute]rules.ConditionOption)
	for _, o := range opts {
		byAttr[o.Attribute] = o
	}
	assert.True(t, byAttr[rules.AttrMarketID].AlreadySet)
	assert.False(t, byAttr[rules.AttrCurrencyCode].Compatible)
	assert.True(t, byAttr[rules.AttrTotalAmountCents].Actionable())
}

// TestAddRemoveCondition_MergesOnOneCustomRule verifies that repeated adds
// merge into a single custom rule row and removal is a nil-valued patch.
func TestAddRemoveCondition_MergesOnOneCustomRule(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPromotionStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	tagID := seedTag(t, infra.DB, "vip")

	form := newForm("Tag promo")
	cfg := registry.ConfigOf(promotion.TypeFreeShipping)
	created, err := stack.Promotions.Create(context.Background(), cfg, form)
	require.NoError(t, err)

	_, err = stack.Rules.AddCondition(context.Background(), created.ID, application.AddConditionRequest{
		Attribute: "customer_tags_id",
		Matcher:   "in",
		Values:    []string{tagID.String()},
	})
	require.NoError(t, err)

	ruleDTOs, err := stack.Rules.AddCondition(context.Background(), created.ID, application.AddConditionRequest{
		Attribute: "currency_code",
		Matcher:   "not_in",
		Values:    []string{"USD"},
	})
	require.NoError(t, err)
	assert.Len(t, ruleDTOs, 2)

	var count int64
	infra.DB.Table("promotion_rules").Where("promotion_id = ?", created.ID).Count(&count)
	assert.Equal(t, int64(1), count, "conditions should merge into one custom rule")

	ruleDTOs, err = stack.Rules.RemoveCondition(context.Background(), created.ID, "customer_tags_id_in")
	require.NoError(t, err)
	require.Len(t, ruleDTOs, 1)
	assert.Equal(t, "currency_code_not_in", ruleDTOs[0].Predicate)
}

// TestToggle_PublishesLifecycleEvents verifies disable and enable round trip
// through the database and the event topic.
func TestToggle_PublishesLifecycleEvents(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPromotionStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	form := newForm("Toggle target")
	cfg := registry.ConfigOf(promotion.TypeFreeShipping)
	created, err := stack.Promotions.Create(context.Background(), cfg, form)
	require.NoError(t, err)

	disabled, err := stack.Promotions.Toggle(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotNil(t, disabled.DisabledAt)

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicPromotionEvents,
		events.PromotionDisabled, 15*time.Second)
	var evt events.PromotionEvent
	require.NoError(t, ce.ParseData(&evt))
	assert.Equal(t, created.ID, evt.PromotionID)

	enabled, err := stack.Promotions.Toggle(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, enabled.DisabledAt)
}

// TestCoupons_UniquePerPromotion verifies the unique index maps duplicate
// codes to the conflict error while other promotions can reuse the code.
func TestCoupons_UniquePerPromotion(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPromotionStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	cfg := registry.ConfigOf(promotion.TypeFreeShipping)
	first, err := stack.Promotions.Create(context.Background(), cfg, newForm("Coupon promo A"))
	require.NoError(t, err)
	second, err := stack.Promotions.Create(context.Background(), cfg, newForm("Coupon promo B"))
	require.NoError(t, err)

	_, err = stack.Coupons.Create(context.Background(), first.ID, application.CreateCouponRequest{Code: "welcome2026"})
	require.NoError(t, err)

	_, err = stack.Coupons.Create(context.Background(), first.ID, application.CreateCouponRequest{Code: "WELCOME2026"})
	assert.ErrorIs(t, err, promotion.ErrCouponCodeTaken)

	_, err = stack.Coupons.Create(context.Background(), second.ID, application.CreateCouponRequest{Code: "welcome2026"})
	assert.NoError(t, err, "other promotions can reuse the code")

	coupons, err := stack.Coupons.List(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, "WELCOME2026", coupons[0].Code)
}
