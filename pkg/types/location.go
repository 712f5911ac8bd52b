package types

// OffsetSpan is byte range [Start, End) - half-open interval.
type OffsetSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s OffsetSpan) Len() int {
	return s.End - s.Start
}

// SourcePoint is line:column position (1-based).
type SourcePoint struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Locate converts a match position into a 1-based line and rune column.
func Locate(line string, m Match) SourcePoint {
	return SourcePoint{
		Line:   m.Line + 1,
		Column: ComputeColumn(line, m.Span.Start),
	}
}
