package rules

// Matcher is a named comparison operator used in filter predicates.
type Matcher string

const (
	MatcherIn    Matcher = "in"
	MatcherNotIn Matcher = "not_in"
	MatcherEq    Matcher = "eq"
	MatcherGteq  Matcher = "gteq"
	MatcherGt    Matcher = "gt"
)

// matcherLabels maps each matcher to its display label.
var matcherLabels = map[Matcher]string{
	MatcherIn:    "is",
	MatcherNotIn: "is not",
	MatcherEq:    "is equal to",
	MatcherGteq:  "is equal or greater than",
	MatcherGt:    "is greater than",
}

// matcherSuffixOrder lists predicate suffixes in match order. "_not_in" must
// come before "_in": a naive substring search would match "_in" inside
// "market_id_not_in" and mis-split the attribute. Longest-first keeps the
// precedence explicit instead of leaning on regex alternation order.
var matcherSuffixOrder = []Matcher{
	MatcherNotIn,
	MatcherGteq,
	MatcherIn,
	MatcherEq,
	MatcherGt,
}

// Label returns the display label for m, or the empty string for an unknown
// matcher.
func (m Matcher) Label() string {
	return matcherLabels[m]
}

// IsKnownMatcher reports whether m is one of the supported comparison
// operators.
func IsKnownMatcher(m Matcher) bool {
	_, ok := matcherLabels[m]
	return ok
}
