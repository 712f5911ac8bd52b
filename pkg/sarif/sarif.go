// Package sarif encodes classification reports as SARIF 2.1.0 logs so code
// scanning dashboards can ingest them.
package sarif

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// SARIF 2.1.0 constants
const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "sift"
)

// StdinURI names the artifact when lines come from stdin.
const StdinURI = "stdin"

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one classification type.
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
	Properties       RuleProperties   `json:"properties"`
}

// RuleProperties carries the per-type totals, which survive item capping.
type RuleProperties struct {
	Category   string `json:"category"`
	MatchCount int    `json:"matchCount"`
	Dropped    int    `json:"dropped,omitempty"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single extraction
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region locates an extraction by 1-based line and by byte range within
// that line.
type Region struct {
	StartLine  int     `json:"startLine"`
	ByteOffset int     `json:"byteOffset"`
	ByteLength int     `json:"byteLength"`
	Snippet    Snippet `json:"snippet"`
}

// Snippet contains the matched text
type Snippet struct {
	Text string `json:"text"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport(toolVersion string) *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: toolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddRule adds a classification type to the report.
func (r *Report) AddRule(id, category string, count, dropped int) {
	r.Runs[0].Tool.Driver.Rules = append(r.Runs[0].Tool.Driver.Rules, Rule{
		ID:   id,
		Name: id,
		ShortDescription: ShortDescription{
			Text: "Lines containing " + category + " data of type " + id,
		},
		Properties: RuleProperties{
			Category:   category,
			MatchCount: count,
			Dropped:    dropped,
		},
	})
}

// AddResult adds one extraction found on the 0-based line at byte offset.
func (r *Report) AddResult(ruleID, text string, line, offset int, source string) {
	r.Runs[0].Results = append(r.Runs[0].Results, Result{
		RuleID: ruleID,
		Level:  "note",
		Message: Message{
			Text: ruleID + ": " + text,
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{
						URI: formatFileURI(source),
					},
					Region: Region{
						StartLine:  line + 1,
						ByteOffset: offset,
						ByteLength: len(text),
						Snippet:    Snippet{Text: text},
					},
				},
			},
		},
	})
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if path == "" || path == "-" {
		return StdinURI
	}
	if filepath.IsAbs(path) {
		path = filepath.ToSlash(path)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	return filepath.ToSlash(path)
}
