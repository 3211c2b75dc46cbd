package rules

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

// Rule is the decoded, UI-consumable view of one predicate/value pair from a
// CustomPromotionRule filters map. Invalid rules preserve the raw predicate
// and value verbatim so unknown backend-introduced filters never vanish.
type Rule struct {
	// Key is the raw predicate string and uniquely identifies the rule
	// within its promotion.
	Key       string
	Predicate string
	Label     string
	// RawValues holds the canonical filter values (IDs for related
	// resources). Always an array, even for singletons.
	RawValues []string
	// DisplayValues are the values to render; the name resolver replaces
	// IDs with names here, leaving RawValues untouched for write-back.
	DisplayValues []string
	Valid         bool

	// Set only when Valid.
	Attribute    Attribute
	Matcher      Matcher
	MatcherLabel string
	Related      RelatedResource
	RuleID       uuid.UUID
}

// splitPredicate splits a raw predicate into attribute and matcher by
// trying known suffixes in precedence order. ok is false when no known
// suffix matches or the attribute part is empty.
func splitPredicate(predicate string) (Attribute, Matcher, bool) {
	for _, m := range matcherSuffixOrder {
		suffix := "_" + string(m)
		if strings.HasSuffix(predicate, suffix) {
			attr := strings.TrimSuffix(predicate, suffix)
			if attr == "" {
				return "", "", false
			}
			return Attribute(attr), m, true
		}
	}
	return "", "", false
}

// SplitValues splits a raw comma-joined filter value into its parts. An
// empty string yields an empty slice.
func SplitValues(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

// JoinValues is the inverse of SplitValues.
func JoinValues(values []string) string {
	return strings.Join(values, ",")
}

// Decode converts a CustomPromotionRule's filters map into structured rules.
// Non-custom rules and empty filter maps decode to an empty slice, never
// nil. Output is sorted by predicate for deterministic rendering.
func Decode(rule *promotion.PromotionRule) []Rule {
	out := []Rule{}
	if rule == nil || rule.Type != promotion.RuleTypeCustom {
		return out
	}

	predicates := make([]string, 0, len(rule.Filters))
	for p := range rule.Filters {
		predicates = append(predicates, p)
	}
	sort.Strings(predicates)

	for _, predicate := range predicates {
		raw := rule.Filters[predicate]
		values := SplitValues(raw)

		attr, matcher, ok := splitPredicate(predicate)
		if !ok {
			out = append(out, invalidRule(predicate, raw, values))
			continue
		}
		cfg, known := ConditionOf(attr)
		if !known {
			out = append(out, invalidRule(predicate, raw, values))
			continue
		}

		out = append(out, Rule{
			Key:           predicate,
			Predicate:     predicate,
			Label:         cfg.Label,
			RawValues:     values,
			DisplayValues: values,
			Valid:         true,
			Attribute:     attr,
			Matcher:       matcher,
			MatcherLabel:  matcher.Label(),
			Related:       cfg.Related,
			RuleID:        rule.ID,
		})
	}
	return out
}

// DecodeAll decodes the custom rule of a promotion, if any.
func DecodeAll(p *promotion.Promotion) []Rule {
	if p == nil {
		return []Rule{}
	}
	return Decode(p.CustomRule())
}

func invalidRule(predicate, raw string, values []string) Rule {
	// The raw predicate doubles as the label so the rule stays visible
	// and removable.
	return Rule{
		Key:           predicate,
		Predicate:     predicate,
		Label:         predicate,
		RawValues:     values,
		DisplayValues: values,
		Valid:         false,
	}
}

// EncodePredicate joins an attribute and matcher into a predicate string.
func EncodePredicate(attr Attribute, m Matcher) string {
	return string(attr) + "_" + string(m)
}

// MergeFilters applies a patch to an existing filters map and returns the
// map to write back whole. A nil value in the patch deletes the predicate;
// merging the same patch twice yields the same result. The input map is not
// mutated.
func MergeFilters(existing map[string]string, patch map[string]*string) map[string]string {
	merged := make(map[string]string, len(existing)+len(patch))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = *v
	}
	return merged
}
