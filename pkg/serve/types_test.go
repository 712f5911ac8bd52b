package serve

import (
	"encoding/json"
	"testing"

	"github.com/praetorian-inc/sift/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_ClassifyUnmarshal(t *testing.T) {
	input := `{"type":"classify","payload":{"line":"visit https://example.com"}}`

	var req Request
	err := json.Unmarshal([]byte(input), &req)
	require.NoError(t, err)

	assert.Equal(t, "classify", req.Type)

	var payload ClassifyPayload
	err = json.Unmarshal(req.Payload, &payload)
	require.NoError(t, err)

	assert.Equal(t, "visit https://example.com", payload.Line)
}

func TestRequest_ClassifyBatchUnmarshal(t *testing.T) {
	input := `{"type":"classify_batch","payload":{"lines":["1.2.3.4","","admin@example.com"]}}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(input), &req))
	assert.Equal(t, "classify_batch", req.Type)

	var payload ClassifyBatchPayload
	require.NoError(t, json.Unmarshal(req.Payload, &payload))
	assert.Equal(t, []string{"1.2.3.4", "", "admin@example.com"}, payload.Lines)
}

func TestRequest_CloseWithoutPayload(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"type":"close"}`), &req))

	assert.Equal(t, "close", req.Type)
	assert.Empty(t, req.Payload)
}

func TestResponse_Marshal(t *testing.T) {
	resp := Response{
		Success: true,
		Type:    "ready",
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"success":true`)
	assert.Contains(t, string(data), `"type":"ready"`)
	assert.NotContains(t, string(data), `"data"`)
	assert.NotContains(t, string(data), `"error"`)
}

func TestResponse_MarshalError(t *testing.T) {
	resp := Response{Type: "unknown", Error: "unknown request type: scan"}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"type":"unknown","error":"unknown request type: scan"}`, string(data))
}

func TestReadyData_Marshal(t *testing.T) {
	data, err := json.Marshal(ReadyData{Version: Version, Types: []string{"ipv4", "url"}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"version":"`+Version+`","types":["ipv4","url"]}`, string(data))
}

func TestClassifyResult_Marshal(t *testing.T) {
	result := ClassifyResult{Matches: []types.Match{
		{Type: types.TypeIPv4, Text: "1.2.3.4", Line: 2, Span: types.OffsetSpan{Start: 5, End: 12}},
	}}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"matches":[{"type":"ipv4","text":"1.2.3.4","line":2,"span":{"start":5,"end":12}}]}`,
		string(data))
}
