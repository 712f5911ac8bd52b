package sarif

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	report := NewReport("1.2.3")

	assert.Equal(t, SchemaURI, report.Schema)
	assert.Equal(t, Version, report.Version)
	require.Len(t, report.Runs, 1)
	assert.Equal(t, ToolName, report.Runs[0].Tool.Driver.Name)
	assert.Equal(t, "1.2.3", report.Runs[0].Tool.Driver.Version)
	assert.NotNil(t, report.Runs[0].Results)
}

func TestAddRule(t *testing.T) {
	report := NewReport("dev")
	report.AddRule("ipv4", "network", 7, 2)

	require.Len(t, report.Runs[0].Tool.Driver.Rules, 1)
	rule := report.Runs[0].Tool.Driver.Rules[0]
	assert.Equal(t, "ipv4", rule.ID)
	assert.Equal(t, "ipv4", rule.Name)
	assert.Contains(t, rule.ShortDescription.Text, "network")
	assert.Equal(t, RuleProperties{Category: "network", MatchCount: 7, Dropped: 2}, rule.Properties)
}

func TestAddResult(t *testing.T) {
	report := NewReport("dev")
	report.AddRule("ipv4", "network", 1, 0)
	report.AddResult("ipv4", "10.0.0.1", 9, 5, "/var/log/app.log")

	require.Len(t, report.Runs[0].Results, 1)
	result := report.Runs[0].Results[0]
	assert.Equal(t, "ipv4", result.RuleID)
	assert.Equal(t, "note", result.Level)
	assert.Equal(t, "ipv4: 10.0.0.1", result.Message.Text)

	require.Len(t, result.Locations, 1)
	loc := result.Locations[0].PhysicalLocation
	assert.Equal(t, "file:///var/log/app.log", loc.ArtifactLocation.URI)
	assert.Equal(t, Region{
		StartLine:  10,
		ByteOffset: 5,
		ByteLength: 8,
		Snippet:    Snippet{Text: "10.0.0.1"},
	}, loc.Region)
}

func TestToJSON(t *testing.T) {
	report := NewReport("dev")
	report.AddRule("url", "network", 1, 0)
	report.AddResult("url", "https://example.com", 0, 0, "")

	jsonBytes, err := report.ToJSON()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &parsed))
	assert.Equal(t, SchemaURI, parsed["$schema"])
	assert.Equal(t, Version, parsed["version"])
	assert.Contains(t, string(jsonBytes), `"byteLength": 19`)
	assert.Contains(t, string(jsonBytes), `"matchCount": 1`)
}

func TestFormatFileURI(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/absolute/path/file.txt", "file:///absolute/path/file.txt"},
		{"relative/path/file.txt", "relative/path/file.txt"},
		{"", StdinURI},
		{"-", StdinURI},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFileURI(tt.path))
		})
	}
}
