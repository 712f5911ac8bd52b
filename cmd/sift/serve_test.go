package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/sift/pkg/serve"
	"github.com/praetorian-inc/sift/pkg/types"
)

func execServe(t *testing.T, stdin string, args ...string) ([]serve.Response, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var stdout bytes.Buffer
	cmd := &cobra.Command{Use: "serve", Args: cobra.NoArgs, RunE: runServe}
	addSelectionFlags(cmd.Flags())
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(append([]string{}, args...))

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}

	var resps []serve.Response
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		var resp serve.Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		resps = append(resps, resp)
	}
	return resps, nil
}

func TestRunServe(t *testing.T) {
	resps, err := execServe(t,
		`{"type":"classify","payload":{"line":"from 10.0.0.1 to https://example.com"}}`+"\n",
		"--with", "ipv4")
	require.NoError(t, err)
	require.Len(t, resps, 2)

	var ready serve.ReadyData
	require.NoError(t, json.Unmarshal(resps[0].Data, &ready))
	assert.Equal(t, []string{"ipv4"}, ready.Types)

	var res struct {
		Matches []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(resps[1].Data, &res))
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "ipv4", res.Matches[0].Type)
	assert.Equal(t, "10.0.0.1", res.Matches[0].Text)
}

func TestRunServe_UnknownType(t *testing.T) {
	_, err := execServe(t, "", "--with", "nonsense")
	assert.ErrorIs(t, err, types.ErrUnknownName)
}
