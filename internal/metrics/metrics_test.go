package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sortlab/internal/algo"
	"github.com/roach88/sortlab/internal/engine"
	"github.com/roach88/sortlab/internal/mutation"
)

func waitRun(t *testing.T, run *engine.Run) engine.Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := run.Wait(ctx)
	require.NoError(t, err)
	return res
}

func TestCollector_CountsRunsAndMutations(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := MustNew(reg)
	e := engine.New(engine.WithObserver(c))

	bubble, _ := algo.Lookup(algo.Bubble)
	heap, _ := algo.Lookup(algo.Heap)

	r1, err := e.Start(context.Background(), []int{3, 2, 1}, bubble)
	require.NoError(t, err)
	res1 := waitRun(t, r1)

	r2, err := e.Start(context.Background(), []int{5, 4, 3, 2, 1}, heap)
	require.NoError(t, err)
	res2 := waitRun(t, r2)

	_, err = e.Start(context.Background(), nil, bubble)
	require.Error(t, err)
	e.Wait()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("bubble", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("heap", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("bubble", "failed")))

	assert.Equal(t, float64(res1.Mutations), testutil.ToFloat64(c.mutations.WithLabelValues("bubble")))
	assert.Equal(t, float64(res2.Mutations), testutil.ToFloat64(c.mutations.WithLabelValues("heap")))

	assert.Equal(t, 0.0, testutil.ToFloat64(c.active))
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestCollector_ExpositionNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := MustNew(reg)

	c.RunStarted(engine.RunInfo{ID: "r", Algorithm: "quick", Input: []int{1}})
	c.RunFinished("r", engine.Result{Status: engine.StatusCancelled, Elapsed: time.Millisecond})

	expected := `
# HELP sortlab_runs_total Finished sorting runs by algorithm and terminal status.
# TYPE sortlab_runs_total counter
sortlab_runs_total{algorithm="quick",status="cancelled"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "sortlab_runs_total")
	assert.NoError(t, err)
}

func TestCollector_UnlabelledRuns(t *testing.T) {
	c := MustNew(prometheus.NewRegistry())

	c.RunStarted(engine.RunInfo{ID: "r"})
	c.RunFinished("r", engine.Result{Status: engine.StatusFailed})
	c.Mutated("stray", 1, mutation.Event{})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("none", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mutations.WithLabelValues("unknown")))
	assert.Equal(t, 0, testutil.CollectAndCount(c.duration), "rejected runs have no duration")
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNew(reg)

	_, err := New(reg)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew(reg) })
}
