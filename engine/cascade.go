package engine

import (
	"sort"

	"ecss/css"
	"ecss/ecs"
)

// MatchedRule is one rule that applies to an entity, with its specificity
// completed by the rule's position in the entity's sheet concatenation.
type MatchedRule struct {
	Sheet  *css.Stylesheet
	Rule   *css.Rule
	Weight css.Specificity
}

// ResolvedValue is the winning declaration for one property after the
// cascade, still pointing at its declaration site for caching.
type ResolvedValue struct {
	Sheet  *css.Stylesheet
	Rule   *css.Rule
	Values css.Values
}

// appliedSheets collects the stylesheets that govern an entity: every sheet
// attached along the ancestor chain, ordered root first, attachment order
// within each entity.
func appliedSheets(w *ecs.World, e ecs.Entity) []*css.Stylesheet {
	var chain []ecs.Entity
	for cur := e; cur != ecs.None; cur = w.Parent(cur) {
		chain = append(chain, cur)
	}
	var sheets []*css.Stylesheet
	for i := len(chain) - 1; i >= 0; i-- {
		sheets = append(sheets, w.Sheets(chain[i])...)
	}
	return sheets
}

// matchEntity builds the entity's match set. Rules are numbered sequentially
// across the sheet concatenation so that a later position breaks specificity
// ties deterministically.
func matchEntity(w *ecs.World, reg *Registry, e ecs.Entity) []MatchedRule {
	var set []MatchedRule
	source := 0
	for _, sheet := range appliedSheets(w, e) {
		for i := range sheet.Rules {
			r := &sheet.Rules[i]
			if Matches(w, reg, r.Selector, e) {
				weight := r.Weight
				weight.Source = source
				set = append(set, MatchedRule{Sheet: sheet, Rule: r, Weight: weight})
			}
			source++
		}
	}
	return set
}

// resolve runs the cascade over a match set. Rules are folded in ascending
// weight order so the strongest rule writes last; within a rule, later
// declarations of the same property win.
func resolve(set []MatchedRule) map[string]ResolvedValue {
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Weight.Compare(set[j].Weight) < 0
	})
	out := make(map[string]ResolvedValue)
	for _, m := range set {
		for _, d := range m.Rule.Declarations {
			out[d.Property] = ResolvedValue{Sheet: m.Sheet, Rule: m.Rule, Values: d.Values}
		}
	}
	return out
}
