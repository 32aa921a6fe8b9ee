// Package classify maps tariff codes to professional categories.
//
// Classification is an ordered decision list evaluated top to bottom,
// first match wins. The order is a documented business rule: the "rem"
// exclusion is checked before everything else, and physiotherapy is
// checked before occupational therapy, so a code matching both (for
// example "76abo") is physiotherapy. Keeping the rules as data makes
// rule changes reviewable without touching the evaluation loop.
package classify

import (
	"strings"

	"praxiscli/pkg/contracts/domain"
)

// rule is one entry of the decision list. A rule matches when the code
// contains any of its substrings or starts with any of its prefixes.
type rule struct {
	category   domain.Category
	substrings []string
	prefixes   []string
}

// rules is the decision list, in business priority order.
var rules = []rule{
	{
		// Remuneration lines are never therapy revenue, whatever else
		// the code looks like.
		category:   domain.CategoryOther,
		substrings: []string{"rem"},
	},
	{
		category:   domain.CategoryPhysiotherapy,
		substrings: []string{"privé", "abo", "thais"},
		prefixes:   []string{"73", "25", "15.30"},
	},
	{
		category:   domain.CategoryOccupationalTherapy,
		substrings: []string{"foyer"},
		prefixes:   []string{"76", "31", "32"},
	},
	{
		category: domain.CategoryMassage,
		prefixes: []string{"1062"},
	},
}

func (r rule) matches(code string) bool {
	for _, s := range r.substrings {
		if strings.Contains(code, s) {
			return true
		}
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// Classify maps a tariff code to its category. It is total: every code
// gets exactly one category, unmatched codes fall through to Other.
// Matching is done on the lower-cased, whitespace-trimmed code.
func Classify(code string) domain.Category {
	c := strings.ToLower(strings.TrimSpace(code))
	for _, r := range rules {
		if r.matches(c) {
			return r.category
		}
	}
	return domain.CategoryOther
}

// Overrides is a user-edited code to category mapping. It is built once
// per session and consulted before the rule engine.
type Overrides map[string]domain.Category

// Resolve returns the category for a code, letting a user override take
// precedence over the rule engine entirely for that code.
func Resolve(code string, overrides Overrides) domain.Category {
	if overrides != nil {
		if cat, ok := overrides[code]; ok {
			return cat
		}
	}
	return Classify(code)
}
