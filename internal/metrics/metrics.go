// Package metrics exports engine activity as Prometheus metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/sortlab/internal/engine"
	"github.com/roach88/sortlab/internal/mutation"
)

const namespace = "sortlab"

// Collector is an engine.Observer that counts runs and mutations per
// algorithm.
type Collector struct {
	runs      *prometheus.CounterVec
	mutations *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	active    prometheus.Gauge

	mu         sync.Mutex
	algorithms map[string]string // run ID -> algorithm label
}

var _ engine.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Finished sorting runs by algorithm and terminal status.",
			},
			[]string{"algorithm", "status"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Mutation events delivered to observers.",
			},
			[]string{"algorithm"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Time sorting routines ran for, in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"algorithm"},
		),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_in_flight",
			Help:      "Runs started whose result has not been delivered yet.",
		}),
		algorithms: make(map[string]string),
	}

	for _, col := range []prometheus.Collector{c.runs, c.mutations, c.duration, c.active} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics if registration fails.
func MustNew(reg prometheus.Registerer) *Collector {
	c, err := New(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Collector) RunStarted(info engine.RunInfo) {
	label := info.Algorithm
	if label == "" {
		label = "none"
	}
	c.mu.Lock()
	c.algorithms[info.ID] = label
	c.mu.Unlock()
	c.active.Inc()
}

func (c *Collector) Mutated(runID string, _ int64, _ mutation.Event) {
	c.mutations.WithLabelValues(c.algorithm(runID)).Inc()
}

func (c *Collector) RunFinished(runID string, res engine.Result) {
	label := c.algorithm(runID)
	c.mu.Lock()
	delete(c.algorithms, runID)
	c.mu.Unlock()

	c.active.Dec()
	c.runs.WithLabelValues(label, res.Status.String()).Inc()
	if res.Status != engine.StatusFailed || res.Elapsed > 0 {
		c.duration.WithLabelValues(label).Observe(res.Elapsed.Seconds())
	}
}

func (c *Collector) algorithm(runID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if label, ok := c.algorithms[runID]; ok {
		return label
	}
	return "unknown"
}
