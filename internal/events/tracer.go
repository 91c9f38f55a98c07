package events

import (
	"github.com/google/uuid"

	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
)

// Tracer adapts the dispatcher to the scoring engine's trace hook. Each
// tracer carries a run ID so observers can correlate the events of one build
// or recommendation run.
type Tracer struct {
	dispatcher *Dispatcher
	runID      string
}

// NewTracer creates a tracer with a fresh run ID. A nil dispatcher yields a
// tracer that drops everything.
func NewTracer(dispatcher *Dispatcher) *Tracer {
	return &Tracer{
		dispatcher: dispatcher,
		runID:      uuid.NewString(),
	}
}

// RunID returns the identifier shared by all events from this tracer.
func (t *Tracer) RunID() string {
	return t.runID
}

// CardScored publishes a per-card scoring breakdown.
func (t *Tracer) CardScored(event recommendations.CardScoreEvent) {
	if t.dispatcher == nil {
		return
	}
	t.dispatcher.Dispatch(Event{Type: TypeCardScored, RunID: t.runID, Data: event})
}

// TrialCompleted publishes a deck build trial summary.
func (t *Tracer) TrialCompleted(event recommendations.TrialSummaryEvent) {
	if t.dispatcher == nil {
		return
	}
	t.dispatcher.Dispatch(Event{Type: TypeTrialCompleted, RunID: t.runID, Data: event})
}

// BuildStarted publishes the start of a deck build run.
func (t *Tracer) BuildStarted(trials int) {
	if t.dispatcher == nil {
		return
	}
	t.dispatcher.Dispatch(Event{Type: TypeBuildStarted, RunID: t.runID, Data: trials})
}

// BuildCompleted publishes the final synergy of a deck build run.
func (t *Tracer) BuildCompleted(synergy float64) {
	if t.dispatcher == nil {
		return
	}
	t.dispatcher.Dispatch(Event{Type: TypeBuildCompleted, RunID: t.runID, Data: synergy})
}
