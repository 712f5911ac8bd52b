package prefilter

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/praetorian-inc/sift/pkg/types"
)

// Prefilter uses Aho-Corasick to decide which recognizers can possibly
// match a line. Keywords are matched case-insensitively.
//
// Prefilter is safe for concurrent use.
type Prefilter struct {
	matcher      *ahocorasick.Matcher
	rules        []*types.Rule   // canonical type order
	keywords     []string        // keyword at each index
	keywordRules [][]*types.Rule // keyword index -> rules needing it
	always       []*types.Rule   // rules without keywords (always checked)
}

// New creates a prefilter from rules.
func New(rules []*types.Rule) *Prefilter {
	sorted := append([]*types.Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Type < sorted[j].Type })

	pf := &Prefilter{rules: sorted}

	index := make(map[string]int)
	for _, rule := range sorted {
		if len(rule.Keywords) == 0 {
			pf.always = append(pf.always, rule)
			continue
		}
		for _, keyword := range rule.Keywords {
			keyword = strings.ToLower(keyword)
			i, ok := index[keyword]
			if !ok {
				i = len(pf.keywords)
				index[keyword] = i
				pf.keywords = append(pf.keywords, keyword)
				pf.keywordRules = append(pf.keywordRules, nil)
			}
			pf.keywordRules[i] = append(pf.keywordRules[i], rule)
		}
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Filter returns, in canonical type order, the rules that might match line:
// those with a keyword present and those with no keywords at all.
func (pf *Prefilter) Filter(line string) []*types.Rule {
	if pf.matcher == nil {
		return pf.always
	}

	hits := pf.matcher.MatchThreadSafe([]byte(strings.ToLower(line)))
	if len(hits) == 0 {
		return pf.always
	}

	candidate := make(map[*types.Rule]bool, len(pf.always)+len(hits))
	for _, rule := range pf.always {
		candidate[rule] = true
	}
	for _, hit := range hits {
		for _, rule := range pf.keywordRules[hit] {
			candidate[rule] = true
		}
	}

	result := make([]*types.Rule, 0, len(candidate))
	for _, rule := range pf.rules {
		if candidate[rule] {
			result = append(result, rule)
		}
	}
	return result
}

// Keywords returns the distinct keywords the prefilter searches for.
func (pf *Prefilter) Keywords() []string {
	return append([]string(nil), pf.keywords...)
}
