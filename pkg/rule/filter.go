package rule

import (
	"strings"

	"github.com/praetorian-inc/sift/pkg/types"
)

// ParseNames flattens repeated and comma-separated selection values into
// individual names. Names are trimmed of whitespace; empty entries are dropped.
func ParseNames(values ...string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}

// Filter keeps the rules whose type is active in sel, preserving order.
func Filter(rules []*types.Rule, sel types.Selection) []*types.Rule {
	result := make([]*types.Rule, 0, sel.Len())
	for _, r := range rules {
		if sel.Contains(r.Type) {
			result = append(result, r)
		}
	}
	return result
}

// Override returns base with each rule replaced by the custom rule of the
// same type, preserving base order. Custom rules for types absent from base
// are appended.
func Override(base, custom []*types.Rule) []*types.Rule {
	byType := make(map[types.Type]*types.Rule, len(custom))
	for _, r := range custom {
		byType[r.Type] = r
	}

	result := make([]*types.Rule, 0, len(base)+len(custom))
	for _, r := range base {
		if c, ok := byType[r.Type]; ok {
			result = append(result, c)
			delete(byType, r.Type)
			continue
		}
		result = append(result, r)
	}
	for _, r := range custom {
		if _, ok := byType[r.Type]; ok {
			result = append(result, r)
			delete(byType, r.Type)
		}
	}
	return result
}
