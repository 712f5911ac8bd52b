// Package selection turns include, exclude and no-defaults directives into
// the set of types a run classifies.
package selection

import (
	"errors"

	"github.com/praetorian-inc/sift/pkg/types"
)

// Options are the user-facing selection directives.
type Options struct {
	With       []string // exact allow-list of type or group names
	Without    []string // names subtracted last
	NoDefaults bool     // start from every type instead of the visible ones
}

// Resolve computes the active type set.
//
// The base set is every type except the default-hidden ones, or every type
// when NoDefaults is set. A non-empty With replaces the base set with the
// union of its expansions. Without is always subtracted last. Every name is
// resolved before any set arithmetic, and all unknown names are reported in
// one joined error of *types.ConfigError values. An empty result is valid.
func Resolve(opts Options) (types.Selection, error) {
	var errs []error
	with := expand("with", opts.With, &errs)
	without := expand("without", opts.Without, &errs)
	if err := errors.Join(errs...); err != nil {
		return types.Selection{}, err
	}

	var active []types.Type
	switch {
	case len(opts.With) > 0:
		active = with
	case opts.NoDefaults:
		active = types.AllTypes()
	default:
		for _, t := range types.AllTypes() {
			if !types.IsDefaultHidden(t) {
				active = append(active, t)
			}
		}
	}

	removed := types.NewSelection(without...)
	var kept []types.Type
	for _, t := range active {
		if !removed.Contains(t) {
			kept = append(kept, t)
		}
	}
	return types.NewSelection(kept...), nil
}

// Default returns the selection of a run without directives.
func Default() types.Selection {
	sel, _ := Resolve(Options{})
	return sel
}

// expand resolves each name, appending an error for every unknown one.
func expand(directive string, names []string, errs *[]error) []types.Type {
	var out []types.Type
	for _, name := range names {
		ts, err := types.ResolveName(name)
		if err != nil {
			var cfgErr *types.ConfigError
			if errors.As(err, &cfgErr) {
				cfgErr.Directive = directive
			}
			*errs = append(*errs, err)
			continue
		}
		out = append(out, ts...)
	}
	return out
}
