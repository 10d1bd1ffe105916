package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeData unmarshals the data field of a JSON CLIResponse into v and
// returns the response status.
func decodeData(t *testing.T, raw string, v any) string {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &resp), raw)
	if v != nil {
		require.NoError(t, json.Unmarshal(resp.Data, v), raw)
	}
	return resp.Status
}

// recordRun sorts input with alg into a database under dir and returns the
// database path and run ID.
func recordRun(t *testing.T, dir, alg, input string) (string, string) {
	t.Helper()
	dbPath := filepath.Join(dir, "sortlab.db")
	out, err := execute(t, "run", "--algorithm", alg, "--input", input, "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var summary RunSummary
	require.Equal(t, "ok", decodeData(t, out, &summary))
	require.NotEmpty(t, summary.RunID)
	return dbPath, summary.RunID
}
