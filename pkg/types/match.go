package types

// Extraction is one substring a recognizer found in a line.
type Extraction struct {
	Text string
	Span OffsetSpan // byte range within the line
}

// Match is a single classification result: one extraction attributed to one
// type on one input line.
type Match struct {
	Type Type       `json:"type"`
	Text string     `json:"text"`
	Line int        `json:"line"` // 0-based index of the source line
	Span OffsetSpan `json:"span"`
}

// Before orders matches by source position: line first, then byte offset.
// Matches of different types at the same position keep their relative order.
func (m Match) Before(o Match) bool {
	if m.Line != o.Line {
		return m.Line < o.Line
	}
	return m.Span.Start < o.Span.Start
}
