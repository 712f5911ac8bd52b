package scanner

// DefaultBatchSize is the number of lines classified per sharded task.
const DefaultBatchSize = 1024

// Stats summarizes a run.
type Stats struct {
	Lines          int   `json:"lines"`
	LossyLines     int   `json:"lossy_lines"`     // lines with invalid UTF-8 replaced
	TruncatedLines int   `json:"truncated_lines"` // lines cut at the length limit
	Matches        int   `json:"matches"`
	RegexFailures  int64 `json:"regex_failures"` // recognizer runs abandoned on timeout
}

// batch is a run of consecutive lines starting at index first.
type batch struct {
	first int
	lines []string
}
