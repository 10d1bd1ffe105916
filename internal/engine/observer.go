package engine

import (
	"log/slog"

	"github.com/roach88/sortlab/internal/mutation"
)

// RunInfo describes a run as it starts.
type RunInfo struct {
	ID        string
	Algorithm string
	// Input is a copy of the sequence before sorting; nil when the run was
	// rejected for an absent sequence.
	Input []int
}

// Observer receives a run's notifications on the run's delivery goroutine:
// RunStarted first, then every mutation in emission order, then RunFinished
// exactly once.
//
// Observers must not block for long; a slow observer delays later
// notifications for the same run but never the sorting routine.
type Observer interface {
	RunStarted(info RunInfo)
	Mutated(runID string, seq int64, ev mutation.Event)
	RunFinished(runID string, res Result)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnStart    func(info RunInfo)
	OnMutation func(runID string, seq int64, ev mutation.Event)
	OnFinish   func(runID string, res Result)
}

func (f ObserverFuncs) RunStarted(info RunInfo) {
	if f.OnStart != nil {
		f.OnStart(info)
	}
}

func (f ObserverFuncs) Mutated(runID string, seq int64, ev mutation.Event) {
	if f.OnMutation != nil {
		f.OnMutation(runID, seq, ev)
	}
}

func (f ObserverFuncs) RunFinished(runID string, res Result) {
	if f.OnFinish != nil {
		f.OnFinish(runID, res)
	}
}

// LogObserver writes run lifecycle records to a slog.Logger. Mutations are
// logged at debug level.
type LogObserver struct {
	Logger *slog.Logger
}

// NewLogObserver returns a LogObserver for l, or for slog.Default() when l is nil.
func NewLogObserver(l *slog.Logger) *LogObserver {
	if l == nil {
		l = slog.Default()
	}
	return &LogObserver{Logger: l}
}

func (o *LogObserver) RunStarted(info RunInfo) {
	o.Logger.Info("run started",
		"run", info.ID,
		"algorithm", info.Algorithm,
		"len", len(info.Input),
	)
}

func (o *LogObserver) Mutated(runID string, seq int64, ev mutation.Event) {
	o.Logger.Debug("mutation",
		"run", runID,
		"seq", seq,
		"event", ev.String(),
	)
}

func (o *LogObserver) RunFinished(runID string, res Result) {
	if res.Err != nil {
		o.Logger.Warn("run finished",
			"run", runID,
			"status", res.Status.String(),
			"mutations", res.Mutations,
			"error", res.Err,
		)
		return
	}
	o.Logger.Info("run finished",
		"run", runID,
		"status", res.Status.String(),
		"mutations", res.Mutations,
		"elapsed", res.Elapsed,
	)
}

// notify hands d to o. A panicking observer is logged and skipped so the
// remaining observers still see every notification.
func notify(o Observer, runID string, d delivery) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("observer panicked",
				"run", runID,
				"panic", r,
			)
		}
	}()

	switch d.kind {
	case deliverStart:
		o.RunStarted(d.info)
	case deliverMutation:
		o.Mutated(runID, d.seq, d.event)
	case deliverResult:
		o.RunFinished(runID, d.result)
	}
}
