package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	scenariosDir = "../harness/testdata/scenarios"
	goldenDir    = "../harness/testdata/golden"
)

func TestTest_HarnessScenariosPass(t *testing.T) {
	out, err := execute(t, "test", scenariosDir, "--golden", goldenDir, "--format", "json")
	require.NoError(t, err, out)

	var result TestResult
	require.Equal(t, "ok", decodeData(t, out, &result))
	assert.Equal(t, 13, result.Total)
	assert.Equal(t, result.Total, result.Passed)
	for _, s := range result.Scenarios {
		assert.True(t, s.Pass, s.Name)
		assert.Equal(t, "match", s.Golden, s.Name)
	}
}

func TestTest_Filter(t *testing.T) {
	out, err := execute(t, "test", scenariosDir, "--golden", goldenDir, "--filter", "*_start")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ cancel_before_start")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_InvalidFilter(t *testing.T) {
	_, err := execute(t, "test", scenariosDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

const failingScenario = `name: wrong_output
description: Expects the input back unchanged.
algorithm: bubble
input: [2, 1]
expect:
  status: completed
  output: [2, 1]
`

const passingScenario = `name: two_values
description: Two values swap through the holding register.
algorithm: selection
input: [2, 1]
expect:
  status: completed
  output: [1, 2]
assertions:
  - type: sorted
`

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(failingScenario), 0644))

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_output")
	assert.Contains(t, out, "output: expected [2 1], got [1 2]")
	assert.Contains(t, out, "Error [E_TEST_FAILED]")
}

func TestTest_UpdateWritesGolden(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.yml"), []byte(passingScenario), 0644))

	out, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "two_values (golden updated)")

	goldenPath := filepath.Join(dir, "golden", "two_values.golden")
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario":"two_values"`)

	out, err = execute(t, "test", dir, "--format", "json")
	require.NoError(t, err)
	var result TestResult
	decodeData(t, out, &result)
	require.Len(t, result.Scenarios, 1)
	assert.Equal(t, "match", result.Scenarios[0].Golden)

	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"stale":true}`), 0644))
	out, err = execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTest_MissingGoldenStillPasses(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.yaml"), []byte(passingScenario), 0644))

	out, err := execute(t, "test", dir, "--format", "json")
	require.NoError(t, err)
	var result TestResult
	decodeData(t, out, &result)
	require.Len(t, result.Scenarios, 1)
	assert.Equal(t, "missing", result.Scenarios[0].Golden)
}

func TestTest_InvalidScenarioFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: [unclosed"), 0644))

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed to load scenario")
}

func TestTest_EmptyDirectory(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTest_MissingDirectory(t *testing.T) {
	_, err := execute(t, "test", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}
