package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/sift/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "classify" | "classify_batch" | "close"
	Payload json.RawMessage `json:"payload"`
}

// ClassifyPayload is the payload for "classify" requests
type ClassifyPayload struct {
	Line string `json:"line"`
}

// ClassifyBatchPayload is the payload for "classify_batch" requests
type ClassifyBatchPayload struct {
	Lines []string `json:"lines"`
}

// ClassifyResult holds the matches of one request. Line indexes continue
// across requests of the same session.
type ClassifyResult struct {
	Matches []types.Match `json:"matches"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "classify" | "classify_batch" | "decode" | "unknown"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string   `json:"version"`
	Types   []string `json:"types"` // active selection in canonical order
}
