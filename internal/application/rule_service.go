package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
	"github.com/commercekit/service-promotions/internal/rules"
)

// RuleDTO is the API representation of one decoded activation rule.
type RuleDTO struct {
	Key          string   `json:"key"`
	Predicate    string   `json:"predicate"`
	Label        string   `json:"label"`
	MatcherLabel string   `json:"matcher_label,omitempty"`
	Values       []string `json:"values"`
	RawValues    []string `json:"raw_values"`
	Valid        bool     `json:"valid"`
}

// AddConditionRequest is the payload for attaching one condition.
type AddConditionRequest struct {
	Attribute string   `json:"attribute" binding:"required"`
	Matcher   string   `json:"matcher" binding:"required"`
	Values    []string `json:"values" binding:"required"`
}

// RuleService manages the custom activation rules of promotions.
type RuleService struct {
	promos   promotion.Repository
	rules    promotion.RuleRepository
	resolver *rules.NameResolver
	logger   *zap.Logger
}

// NewRuleService creates a new RuleService.
func NewRuleService(promos promotion.Repository, ruleRepo promotion.RuleRepository, resolver *rules.NameResolver, logger *zap.Logger) *RuleService {
	return &RuleService{promos: promos, rules: ruleRepo, resolver: resolver, logger: logger}
}

// ListRules returns the decoded rules of a promotion with related-resource
// IDs resolved to display names.
func (s *RuleService) ListRules(ctx context.Context, promotionID uuid.UUID) ([]RuleDTO, error) {
	p, err := s.promos.FindByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	decoded := rules.DecodeAll(p)
	resolved := s.resolver.ResolveNames(ctx, decoded)
	return toRuleDTOs(resolved), nil
}

// ListAvailable returns the condition picker options for a promotion, the
// attributes grouped actionable-first.
func (s *RuleService) ListAvailable(ctx context.Context, promotionID uuid.UUID) ([]rules.ConditionOption, error) {
	p, err := s.promos.FindByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	decoded := rules.DecodeAll(p)
	currencies := rules.ResolveCurrencyCodes(p)
	return rules.ListAvailable(decoded, currencies), nil
}

// AddCondition attaches one condition to the promotion's custom rule,
// creating the rule when the promotion does not have one yet. The filters
// map is re-read and merged so concurrent edits to other predicates are
// preserved; edits to the same predicate are last-write-wins.
func (s *RuleService) AddCondition(ctx context.Context, promotionID uuid.UUID, req AddConditionRequest) ([]RuleDTO, error) {
	attr := rules.Attribute(req.Attribute)
	matcher := rules.Matcher(req.Matcher)

	fields := map[string]string{}
	cfg, known := rules.ConditionOf(attr)
	if !known {
		fields["attribute"] = "unknown attribute"
	} else if !cfg.AllowsMatcher(matcher) {
		fields["matcher"] = fmt.Sprintf("matcher %q not allowed for %s", req.Matcher, req.Attribute)
	}
	if len(req.Values) == 0 {
		fields["values"] = "at least one value is required"
	}
	if len(fields) > 0 {
		return nil, &promotion.ValidationError{Fields: fields}
	}

	p, err := s.promos.FindByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	predicate := rules.EncodePredicate(attr, matcher)
	value := rules.JoinValues(req.Values)
	patch := map[string]*string{predicate: &value}

	if err := s.applyFilterPatch(ctx, p, patch); err != nil {
		return nil, err
	}

	s.logger.Info("condition added",
		zap.String("promotion_id", promotionID.String()),
		zap.String("predicate", predicate),
	)
	return s.ListRules(ctx, promotionID)
}

// RemoveCondition detaches one predicate from the promotion's custom rule.
// Removing a predicate that is not present is a no-op, so retried deletes
// succeed.
func (s *RuleService) RemoveCondition(ctx context.Context, promotionID uuid.UUID, predicate string) ([]RuleDTO, error) {
	p, err := s.promos.FindByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	custom := p.CustomRule()
	if custom == nil {
		return s.ListRules(ctx, promotionID)
	}

	patch := map[string]*string{predicate: nil}
	merged := rules.MergeFilters(custom.Filters, patch)
	if err := s.rules.UpdateFilters(ctx, custom.ID, merged); err != nil {
		return nil, fmt.Errorf("failed to update rule filters: %w", err)
	}

	s.logger.Info("condition removed",
		zap.String("promotion_id", promotionID.String()),
		zap.String("predicate", predicate),
	)
	return s.ListRules(ctx, promotionID)
}

// applyFilterPatch routes a patch to the promotion's existing custom rule or
// creates the rule when none exists. A promotion has at most one custom rule.
func (s *RuleService) applyFilterPatch(ctx context.Context, p *promotion.Promotion, patch map[string]*string) error {
	if custom := p.CustomRule(); custom != nil {
		merged := rules.MergeFilters(custom.Filters, patch)
		if err := s.rules.UpdateFilters(ctx, custom.ID, merged); err != nil {
			return fmt.Errorf("failed to update rule filters: %w", err)
		}
		return nil
	}

	now := time.Now().UTC()
	rule := &promotion.PromotionRule{
		ID:          uuid.New(),
		PromotionID: p.ID,
		Type:        promotion.RuleTypeCustom,
		Filters:     rules.MergeFilters(nil, patch),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.rules.CreateCustom(ctx, rule); err != nil {
		return fmt.Errorf("failed to create custom rule: %w", err)
	}
	return nil
}

func toRuleDTOs(in []rules.Rule) []RuleDTO {
	out := make([]RuleDTO, len(in))
	for i, r := range in {
		out[i] = RuleDTO{
			Key:          r.Key,
			Predicate:    r.Predicate,
			Label:        r.Label,
			MatcherLabel: r.MatcherLabel,
			Values:       r.DisplayValues,
			RawValues:    r.RawValues,
			Valid:        r.Valid,
		}
	}
	return out
}
