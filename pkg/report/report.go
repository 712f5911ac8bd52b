// Package report aggregates classifier matches into a bounded per-type
// report and renders it.
package report

import "github.com/praetorian-inc/sift/pkg/types"

// Mode selects the report shape.
type Mode int

const (
	// Listing keeps the first max-items extractions of every type.
	Listing Mode = iota
	// Analyze keeps only the total match count of every type.
	Analyze
)

func (m Mode) String() string {
	if m == Analyze {
		return "analyze"
	}
	return "listing"
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Item is one reported extraction.
type Item struct {
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Offset int    `json:"offset"`
}

// before orders items by source position.
func (it Item) before(o Item) bool {
	if it.Line != o.Line {
		return it.Line < o.Line
	}
	return it.Offset < o.Offset
}

// Section is the report block of one type.
type Section struct {
	Type  types.Type `json:"type"`
	Count int        `json:"count"` // total matches seen
	// Items holds at most MaxItems extractions in line order. Empty in
	// analyze mode.
	Items []Item `json:"items,omitempty"`
	// Dropped counts matches past the item cap.
	Dropped int `json:"dropped,omitempty"`
}

// Report is the final result of a run. Sections appear in canonical type
// order, and types without matches are omitted.
type Report struct {
	Mode     Mode      `json:"mode"`
	MaxItems int       `json:"max_items,omitempty"` // 0 means unbounded
	Sections []Section `json:"sections"`
}

// Section returns the section of t, if any.
func (r *Report) Section(t types.Type) (Section, bool) {
	for _, s := range r.Sections {
		if s.Type == t {
			return s, true
		}
	}
	return Section{}, false
}

// Empty reports whether no type matched.
func (r *Report) Empty() bool {
	return len(r.Sections) == 0
}

// Total returns the number of matches across all types.
func (r *Report) Total() int {
	n := 0
	for _, s := range r.Sections {
		n += s.Count
	}
	return n
}
