package types

import "strings"

// Selection is the resolved, immutable set of active types for a run.
type Selection struct {
	active [numTypes]bool
	n      int
}

// NewSelection builds a selection from the given types. Duplicates collapse.
func NewSelection(ts ...Type) Selection {
	var s Selection
	for _, t := range ts {
		if !t.Valid() || s.active[t] {
			continue
		}
		s.active[t] = true
		s.n++
	}
	return s
}

// Contains reports whether t is active.
func (s Selection) Contains(t Type) bool {
	return t.Valid() && s.active[t]
}

// Len returns the number of active types.
func (s Selection) Len() int {
	return s.n
}

// Empty reports whether no type is active.
func (s Selection) Empty() bool {
	return s.n == 0
}

// Types returns the active types in canonical order.
func (s Selection) Types() []Type {
	out := make([]Type, 0, s.n)
	for t := Type(0); t < numTypes; t++ {
		if s.active[t] {
			out = append(out, t)
		}
	}
	return out
}

// String joins the active type names with commas.
func (s Selection) String() string {
	names := make([]string, 0, s.n)
	for _, t := range s.Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, ",")
}
