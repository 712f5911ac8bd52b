package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/sift/pkg/types"
)

func TestRunRulesList(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	// Reset flags for test
	rulesPath = ""
	outputFormat = "table"

	err := runRulesList(cmd, []string{})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "python-traceback")
	assert.Contains(t, output, "whole line")
}

func TestRunRulesListJSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	rulesPath = ""
	outputFormat = "json"

	err := runRulesList(cmd, []string{})
	require.NoError(t, err)

	var rules []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rules))
	assert.Len(t, rules, types.NumTypes())
	assert.Equal(t, "url", rules[0]["type"])
}

func TestRunRulesListCustomFile(t *testing.T) {
	tmpDir := t.TempDir()
	rulesFile := filepath.Join(tmpDir, "md5.yml")
	ruleYAML := `rules:
  - id: md5
    name: Strict MD5
    pattern: '\bmd5:[0-9a-f]{32}\b'
    keywords:
      - "md5:"
`
	require.NoError(t, os.WriteFile(rulesFile, []byte(ruleYAML), 0644))

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	rulesPath = rulesFile
	outputFormat = "table"
	t.Cleanup(func() { rulesPath = "" })

	require.NoError(t, runRulesList(cmd, []string{}))
	assert.Contains(t, buf.String(), "Strict MD5")
}

func TestRunRulesListErrors(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	t.Cleanup(func() { rulesPath = ""; outputFormat = "table" })

	rulesPath = ""
	outputFormat = "xml"
	assert.ErrorContains(t, runRulesList(cmd, []string{}), "unknown output format")

	rulesPath = filepath.Join(t.TempDir(), "missing.yml")
	outputFormat = "table"
	assert.Error(t, runRulesList(cmd, []string{}))
}

func TestRunTypes(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	t.Cleanup(func() { typesFormat = "table" })

	typesFormat = "table"
	require.NoError(t, runTypes(cmd, nil))
	assert.Contains(t, buf.String(), "cpp-template")
	assert.Contains(t, buf.String(), "data-formats")

	buf.Reset()
	typesFormat = "json"
	require.NoError(t, runTypes(cmd, nil))
	var catalog struct {
		Types  []map[string]any `json:"types"`
		Groups []map[string]any `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &catalog))
	assert.Len(t, catalog.Types, types.NumTypes())
	assert.NotEmpty(t, catalog.Groups)
}
