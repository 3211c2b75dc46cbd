package rules

// ConditionOption is one entry of the "add condition" picker.
type ConditionOption struct {
	Attribute  Attribute `json:"attribute"`
	Label      string    `json:"label"`
	AlreadySet bool      `json:"already_set"`
	Compatible bool      `json:"compatible"`
}

// Actionable reports whether the option can currently be added.
func (o ConditionOption) Actionable() bool {
	return o.Compatible && !o.AlreadySet
}

// ListAvailable evaluates every configured condition against the rules
// already attached to a promotion and its resolved currency codes.
//
// The result is grouped, not interleaved: actionable options first, then
// the already-set or incompatible ones, each group keeping picker order, so
// the UI can separate actionable from disabled entries without re-deriving
// the grouping. Attributes without a configuration entry never appear; they
// cannot be added through the picker even if an invalid decoded rule exists
// for them.
func ListAvailable(existing []Rule, currencyCodes []string) []ConditionOption {
	ctx := AvailabilityContext{Rules: existing, CurrencyCodes: currencyCodes}

	actionable := make([]ConditionOption, 0, len(conditionOrder))
	rest := make([]ConditionOption, 0, len(conditionOrder))

	for _, cfg := range Conditions() {
		opt := ConditionOption{
			Attribute:  cfg.Attribute,
			Label:      cfg.Label,
			AlreadySet: ctx.hasValidRule(cfg.Attribute),
			Compatible: cfg.Available(ctx),
		}
		if opt.Actionable() {
			actionable = append(actionable, opt)
		} else {
			rest = append(rest, opt)
		}
	}
	return append(actionable, rest...)
}
