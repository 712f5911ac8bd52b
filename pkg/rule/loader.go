package rule

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/praetorian-inc/sift/pkg/types"
	"gopkg.in/yaml.v3"
)

// Loader handles loading rules from YAML files.
type Loader struct {
	fs fs.FS // embedded filesystem for built-in rules
}

// NewLoader creates a loader with built-in rules from embedded filesystem.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinRulesFS,
	}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// LoadRule loads a single rule from YAML bytes.
// Returns error if YAML is invalid, multiple rules are present, or the
// rule id does not name a known type.
func (l *Loader) LoadRule(data []byte) (*types.Rule, error) {
	var yamlFile yamlRulesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(yamlFile.Rules) == 0 {
		return nil, fmt.Errorf("no rules found in YAML")
	}
	if len(yamlFile.Rules) > 1 {
		return nil, fmt.Errorf("expected single rule, found %d", len(yamlFile.Rules))
	}

	return convertYAMLRule(yamlFile.Rules[0])
}

// LoadRuleFile loads a rule from a YAML file path.
func (l *Loader) LoadRuleFile(path string) (*types.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return l.LoadRule(data)
}

// LoadBuiltinRules loads every rule under rules/ in the loader's filesystem.
// Each rule is validated, the set must cover every type exactly once, and
// the result is returned in canonical type order.
func (l *Loader) LoadBuiltinRules() ([]*types.Rule, error) {
	var rules []*types.Rule

	err := fs.WalkDir(l.fs, "rules", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var yamlFile yamlRulesFile
		if err := yaml.Unmarshal(data, &yamlFile); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		for _, yr := range yamlFile.Rules {
			r, err := convertYAMLRule(yr)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := ValidateRule(r); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rules = append(rules, r)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := ValidateCoverage(rules); err != nil {
		return nil, err
	}

	sort.Slice(rules, func(i, j int) bool { return rules[i].Type < rules[j].Type })
	return rules, nil
}

// convertYAMLRule converts yamlRule to types.Rule and resolves its type.
func convertYAMLRule(yr yamlRule) (*types.Rule, error) {
	t, ok := types.ParseType(yr.ID)
	if !ok {
		return nil, fmt.Errorf("rule %q does not name a known type", yr.ID)
	}

	keywords := make([]string, 0, len(yr.Keywords))
	for _, k := range yr.Keywords {
		if k = strings.ToLower(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	return &types.Rule{
		Type:             t,
		ID:               yr.ID,
		Name:             yr.Name,
		Pattern:          strings.TrimSpace(yr.Pattern),
		Keywords:         keywords,
		WholeLine:        yr.WholeLine,
		Trim:             yr.Trim,
		Group:            yr.Group,
		Description:      yr.Description,
		Examples:         yr.Examples,
		NegativeExamples: yr.NegativeExamples,
		References:       yr.References,
	}, nil
}
