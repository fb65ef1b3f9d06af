package emit

import (
	"time"

	"go.uber.org/zap"

	"github.com/teranos/hourgen/logger"
	"github.com/teranos/hourgen/record"
)

// State is a run's position in the generation state machine:
//
//	INIT → RESOLVING_TARGET → WRITER_OPEN → EMITTING → CLOSING → DONE
//
// ABORTED is reachable from every non-terminal state after INIT.
type State int

const (
	StateInit State = iota
	StateResolvingTarget
	StateWriterOpen
	StateEmitting
	StateClosing
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateResolvingTarget:
		return "RESOLVING_TARGET"
	case StateWriterOpen:
		return "WRITER_OPEN"
	case StateEmitting:
		return "EMITTING"
	case StateClosing:
		return "CLOSING"
	case StateDone:
		return "DONE"
	case StateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}

// Observer is notified as a run progresses. Implementations must not block.
type Observer interface {
	StateChanged(from, to State)
	RecordWritten(r record.Record, waited time.Duration)
}

// Observers fans notifications out to several observers.
type Observers []Observer

func (obs Observers) StateChanged(from, to State) {
	for _, o := range obs {
		o.StateChanged(from, to)
	}
}

func (obs Observers) RecordWritten(r record.Record, waited time.Duration) {
	for _, o := range obs {
		o.RecordWritten(r, waited)
	}
}

// Tracker holds the current state of one run.
type Tracker struct {
	state    State
	observer Observer
	log      *zap.SugaredLogger
}

// NewTracker starts a run in StateInit. observer may be nil.
func NewTracker(observer Observer) *Tracker {
	return &Tracker{
		state:    StateInit,
		observer: observer,
		log:      logger.ComponentLogger("emit"),
	}
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Enter moves the run to s. Transitions out of a terminal state are ignored.
func (t *Tracker) Enter(s State) {
	if t.state.Terminal() || t.state == s {
		return
	}
	from := t.state
	t.state = s
	t.log.Debugw("State changed", "from", from.String(), logger.FieldState, s.String())
	if t.observer != nil {
		t.observer.StateChanged(from, s)
	}
}

func (t *Tracker) recordWritten(r record.Record, waited time.Duration) {
	if t.observer != nil {
		t.observer.RecordWritten(r, waited)
	}
}
