// Package dedup unifies near-duplicate provider name spellings before
// aggregation, so "Dr. Jean Dupont" and "Jean DUPONT" count as one
// provider.
package dedup

import (
	"sort"
	"strings"
	"unicode"
)

// minCommonTokens is how many significant tokens two names must share
// before the shorter one is merged into the longer.
const minCommonTokens = 2

// regionWords are cantonal adjectives that distinguish otherwise similar
// provider names (two branches of the same practice, for example). A pair
// whose token difference contains one of these is never merged.
var regionWords = map[string]bool{
	"VAUDOIS":       true,
	"VAUDOISE":      true,
	"GENEVOIS":      true,
	"GENEVOISE":     true,
	"VALAISAN":      true,
	"VALAISANNE":    true,
	"FRIBOURGEOIS":  true,
	"FRIBOURGEOISE": true,
	"NEUCHÂTELOIS":  true,
	"NEUCHÂTELOISE": true,
	"BERNOIS":       true,
	"BERNOISE":      true,
	"JURASSIEN":     true,
	"JURASSIENNE":   true,
	"TESSINOIS":     true,
	"TESSINOISE":    true,
}

// Tokenize splits a name on non-alphanumeric runes, uppercases the parts
// and keeps only tokens longer than two characters. Initials and titles
// like "Dr" therefore never count towards a merge.
func Tokenize(name string) map[string]bool {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make(map[string]bool, len(parts))
	for _, p := range parts {
		if len([]rune(p)) > 2 {
			tokens[strings.ToUpper(p)] = true
		}
	}
	return tokens
}

// BuildNameMap maps each merged name to its canonical counterpart. Names
// absent from the map are their own canonical form.
//
// Candidates are visited longest first (lexicographic on ties) in a
// single pass, on the assumption that the longest spelling is the most
// complete one. A name merged away is never revisited as a candidate, so
// the output is identical across runs for identical input regardless of
// the input iteration order.
func BuildNameMap(names []string) map[string]string {
	distinct := distinctNames(names)

	sort.Slice(distinct, func(i, j int) bool {
		if len(distinct[i]) != len(distinct[j]) {
			return len(distinct[i]) > len(distinct[j])
		}
		return distinct[i] < distinct[j]
	})

	tokens := make([]map[string]bool, len(distinct))
	for i, name := range distinct {
		tokens[i] = Tokenize(name)
	}

	mapping := make(map[string]string)
	merged := make([]bool, len(distinct))

	for i, canonical := range distinct {
		if merged[i] {
			continue
		}
		for j := i + 1; j < len(distinct); j++ {
			if merged[j] {
				continue
			}
			if regionConflict(tokens[i], tokens[j]) {
				continue
			}
			if commonTokens(tokens[i], tokens[j]) >= minCommonTokens {
				mapping[distinct[j]] = canonical
				merged[j] = true
			}
		}
	}

	return mapping
}

// Canonical resolves a raw name through the mapping, defaulting to the
// name itself.
func Canonical(name string, mapping map[string]string) string {
	if canonical, ok := mapping[name]; ok {
		return canonical
	}
	return name
}

func distinctNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func commonTokens(a, b map[string]bool) int {
	n := 0
	for t := range a {
		if b[t] {
			n++
		}
	}
	return n
}

// regionConflict reports whether a region word appears in the symmetric
// difference of the two token sets. A region word shared by both names
// deliberately does not block the merge; only a word present in exactly
// one of them does.
func regionConflict(a, b map[string]bool) bool {
	for t := range a {
		if !b[t] && regionWords[t] {
			return true
		}
	}
	for t := range b {
		if !a[t] && regionWords[t] {
			return true
		}
	}
	return false
}
