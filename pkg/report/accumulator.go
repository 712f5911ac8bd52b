package report

import (
	"fmt"

	"github.com/praetorian-inc/sift/pkg/types"
)

// Accumulator consumes matches and produces the final report.
//
// Accumulators are single-writer: callers must not invoke Add from more than
// one goroutine. The scanner's sharded mode feeds one accumulator from a
// single reducer; Merge combines accumulators built independently.
type Accumulator interface {
	Add(m types.Match)
	Report() *Report
}

// ListingAccumulator keeps the first maxItems extractions of every type.
// Memory is bounded by the number of types times maxItems.
type ListingAccumulator struct {
	maxItems int
	items    [][]Item
	counts   []int
}

// NewListing creates a listing accumulator. maxItems <= 0 keeps every item.
func NewListing(maxItems int) *ListingAccumulator {
	if maxItems < 0 {
		maxItems = 0
	}
	return &ListingAccumulator{
		maxItems: maxItems,
		items:    make([][]Item, types.NumTypes()),
		counts:   make([]int, types.NumTypes()),
	}
}

// Add records m. Matches must arrive in line order for the kept items to be
// the first ones; Merge restores order across accumulators.
func (a *ListingAccumulator) Add(m types.Match) {
	if !m.Type.Valid() {
		return
	}
	a.counts[m.Type]++
	if a.maxItems > 0 && len(a.items[m.Type]) >= a.maxItems {
		return
	}
	a.items[m.Type] = append(a.items[m.Type], Item{Text: m.Text, Line: m.Line, Offset: m.Span.Start})
}

// Report builds the listing report.
func (a *ListingAccumulator) Report() *Report {
	r := &Report{Mode: Listing, MaxItems: a.maxItems, Sections: []Section{}}
	for _, t := range types.AllTypes() {
		n := a.counts[t]
		if n == 0 {
			continue
		}
		r.Sections = append(r.Sections, Section{
			Type:    t,
			Count:   n,
			Items:   append([]Item(nil), a.items[t]...),
			Dropped: n - len(a.items[t]),
		})
	}
	return r
}

// AnalyzeAccumulator keeps an uncapped match count per type.
type AnalyzeAccumulator struct {
	counts []int
}

// NewAnalyze creates an analyze accumulator.
func NewAnalyze() *AnalyzeAccumulator {
	return &AnalyzeAccumulator{counts: make([]int, types.NumTypes())}
}

// Add counts m.
func (a *AnalyzeAccumulator) Add(m types.Match) {
	if m.Type.Valid() {
		a.counts[m.Type]++
	}
}

// Report builds the analyze report.
func (a *AnalyzeAccumulator) Report() *Report {
	r := &Report{Mode: Analyze, Sections: []Section{}}
	for _, t := range types.AllTypes() {
		if n := a.counts[t]; n > 0 {
			r.Sections = append(r.Sections, Section{Type: t, Count: n})
		}
	}
	return r
}

// New returns the accumulator for mode.
func New(mode Mode, maxItems int) Accumulator {
	if mode == Analyze {
		return NewAnalyze()
	}
	return NewListing(maxItems)
}

// Merge folds src into dst. Counts add; listing items are merged by line
// and offset and then re-capped to dst's limit. Both accumulators must be of
// the same kind.
//
// Merge is library API for callers that classify inputs separately and
// want one report; the sift commands never need it.
func Merge(dst, src Accumulator) error {
	switch d := dst.(type) {
	case *AnalyzeAccumulator:
		s, ok := src.(*AnalyzeAccumulator)
		if !ok {
			return fmt.Errorf("cannot merge %T into analyze accumulator", src)
		}
		for t, n := range s.counts {
			d.counts[t] += n
		}
		return nil

	case *ListingAccumulator:
		s, ok := src.(*ListingAccumulator)
		if !ok {
			return fmt.Errorf("cannot merge %T into listing accumulator", src)
		}
		for t := range d.items {
			d.counts[t] += s.counts[t]
			d.items[t] = mergeItems(d.items[t], s.items[t], d.maxItems)
		}
		return nil

	default:
		return fmt.Errorf("unsupported accumulator %T", dst)
	}
}

// mergeItems merges two position-ordered item lists, keeping at most limit
// items when limit > 0.
func mergeItems(a, b []Item, limit int) []Item {
	if len(b) == 0 {
		return a
	}
	n := len(a) + len(b)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]Item, 0, n)
	i, j := 0, 0
	for len(out) < n {
		switch {
		case j >= len(b) || (i < len(a) && !b[j].before(a[i])):
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	return out
}
