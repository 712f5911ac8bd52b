package rule

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/sift/pkg/types"
)

// MatchTimeout bounds a single regexp2 evaluation to guard against
// catastrophic backtracking.
const MatchTimeout = 5 * time.Second

// CompilePattern compiles a rule pattern the way the matcher runs it.
// RE2 mode is tried first; patterns using features it rejects fall back to
// the default Perl-compatible mode.
func CompilePattern(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.RE2|regexp2.Multiline)
	if err != nil {
		re, err = regexp2.Compile(pattern, regexp2.None)
		if err != nil {
			return nil, err
		}
	}
	re.MatchTimeout = MatchTimeout
	return re, nil
}

// ValidateRule checks rule consistency and required fields.
// Returns error if rule is invalid.
func ValidateRule(r *types.Rule) error {
	if r == nil {
		return fmt.Errorf("rule is nil")
	}

	if r.ID == "" {
		return fmt.Errorf("rule ID is required")
	}
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule pattern is required")
	}
	if t, ok := types.ParseType(r.ID); !ok || t != r.Type {
		return fmt.Errorf("rule %s does not match its type %s", r.ID, r.Type)
	}

	re, err := CompilePattern(r.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern regex for rule %s: %w", r.ID, err)
	}

	if r.Group != "" && !slices.Contains(re.GetGroupNames(), r.Group) {
		return fmt.Errorf("rule %s references missing capture group %q", r.ID, r.Group)
	}
	if r.WholeLine && r.Trim != "" {
		return fmt.Errorf("rule %s: whole_line and trim are mutually exclusive", r.ID)
	}

	// Negative examples need the type's verifier; matcher.ValidateExamples
	// checks both sides.
	for _, ex := range r.Examples {
		ok, err := re.MatchString(ex)
		if err != nil {
			return fmt.Errorf("rule %s: example %q: %w", r.ID, ex, err)
		}
		if !ok {
			return fmt.Errorf("rule %s: example %q does not match pattern", r.ID, ex)
		}
	}

	return nil
}

// ValidateCoverage checks that rules define exactly one recognizer for
// every type. All problems are reported together.
func ValidateCoverage(rules []*types.Rule) error {
	seen := make([]int, types.NumTypes())
	var errs []error
	for _, r := range rules {
		if !r.Type.Valid() {
			errs = append(errs, fmt.Errorf("rule %s has invalid type", r.ID))
			continue
		}
		seen[r.Type]++
	}
	for _, t := range types.AllTypes() {
		switch seen[t] {
		case 1:
		case 0:
			errs = append(errs, fmt.Errorf("no rule for type %s", t))
		default:
			errs = append(errs, fmt.Errorf("type %s defined by %d rules", t, seen[t]))
		}
	}
	return errors.Join(errs...)
}
