package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sortlab/internal/store"
)

func TestParseInts(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "", want: []int{}},
		{in: "  ", want: []int{}},
		{in: "5,3,5,1", want: []int{5, 3, 5, 1}},
		{in: " 2 , -7 ,0", want: []int{2, -7, 0}},
		{in: "1,,2", wantErr: true},
		{in: "1,x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseInts(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_TextWithEvents(t *testing.T) {
	out, err := execute(t, "run", "--algorithm", "bubble", "--input", "5,3,5,1", "--events")
	require.NoError(t, err)

	assert.Contains(t, out, "     1 (HOLD,5)")
	assert.Contains(t, out, "     2 (0,3)")
	assert.Contains(t, out, "(bubble): completed, 12 mutations")
	assert.Contains(t, out, "input:  [5 3 5 1]")
	assert.Contains(t, out, "output: [1 3 5 5]")
}

func TestRun_JSONCollectsEvents(t *testing.T) {
	out, err := execute(t, "run", "-a", "gnome", "--input", "3,1,2", "--events", "--format", "json")
	require.NoError(t, err)

	var summary RunSummary
	require.Equal(t, "ok", decodeData(t, out, &summary))
	assert.Equal(t, "gnome", summary.Algorithm)
	assert.Equal(t, "completed", summary.Status)
	assert.Equal(t, []int{3, 1, 2}, summary.Input)
	assert.Equal(t, []int{1, 2, 3}, summary.Output)
	assert.EqualValues(t, 6, summary.Mutations)
	require.Len(t, summary.Events, 6)
	for i, ev := range summary.Events {
		assert.EqualValues(t, i+1, ev.Seq)
	}
	assert.Equal(t, RunEvent{Seq: 1, Slot: -1, Value: 1}, summary.Events[0])
}

func TestRun_RandomIsDeterministic(t *testing.T) {
	args := []string{"run", "-a", "heap", "--random", "40", "--seed", "9", "--format", "json"}

	out1, err := execute(t, args...)
	require.NoError(t, err)
	out2, err := execute(t, args...)
	require.NoError(t, err)

	var s1, s2 RunSummary
	decodeData(t, out1, &s1)
	decodeData(t, out2, &s2)
	assert.Len(t, s1.Input, 40)
	assert.Equal(t, s1.Input, s2.Input)
	assert.Equal(t, s1.Mutations, s2.Mutations)
	assert.IsNonDecreasing(t, s1.Output)
	assert.NotEqual(t, s1.RunID, s2.RunID)
}

func TestRun_EmptyInput(t *testing.T) {
	out, err := execute(t, "run", "-a", "merge", "--input", "", "--format", "json")
	require.NoError(t, err)

	var summary RunSummary
	decodeData(t, out, &summary)
	assert.Equal(t, "completed", summary.Status)
	assert.Empty(t, summary.Output)
	assert.Zero(t, summary.Mutations)
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	_, err := execute(t, "run", "-a", "bogo", "--input", "1,2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `unknown algorithm "bogo"`)
}

func TestRun_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "missing", args: []string{"run", "-a", "quick"}, msg: "required"},
		{name: "both", args: []string{"run", "-a", "quick", "--input", "1", "--random", "3"}, msg: "mutually exclusive"},
		{name: "negative", args: []string{"run", "-a", "quick", "--random", "-1"}, msg: "must not be negative"},
		{name: "bad max", args: []string{"run", "-a", "quick", "--random", "3", "--max", "0"}, msg: "--max must be positive"},
		{name: "not a number", args: []string{"run", "-a", "quick", "--input", "1,two"}, msg: "invalid input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRun_TimeoutCancels(t *testing.T) {
	out, err := execute(t, "run", "-a", "bubble", "--random", "50", "--pace", "5ms", "--timeout", "30ms", "--format", "json")
	require.NoError(t, err)

	var summary RunSummary
	decodeData(t, out, &summary)
	assert.Equal(t, "cancelled", summary.Status)
	assert.ElementsMatch(t, summary.Input, summary.Output)
	assert.Less(t, summary.Mutations, int64(1000))
}

func TestRun_RecordsIntoDatabase(t *testing.T) {
	dbPath, runID := recordRun(t, t.TempDir(), "insertion", "3,1,2")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(t.Context(), runID)
	require.NoError(t, err)
	assert.Equal(t, "insertion", run.Algorithm)
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, []int{3, 1, 2}, run.Input)
	assert.Equal(t, []int{1, 2, 3}, run.Output)
	assert.NotEmpty(t, run.TraceHash)

	events, err := st.ReadMutations(t.Context(), runID)
	require.NoError(t, err)
	assert.Len(t, events, int(run.Mutations))
}

func TestRun_DatabaseInMissingDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")
	_, err := execute(t, "run", "-a", "quick", "--input", "2,1", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
