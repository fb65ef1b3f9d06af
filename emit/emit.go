// Package emit writes one hour's quota of synthetic records to a writer,
// pacing them across the hour unless running in quick mode.
package emit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/logger"
	"github.com/teranos/hourgen/pace"
	"github.com/teranos/hourgen/record"
	"github.com/teranos/hourgen/target"
)

const (
	// Quota is the number of records written per run in every mode.
	Quota = 100
	// Window is the span the quota is spread over when pacing.
	Window = time.Hour
)

// RecordWriter is the open output file. Close finalizes it.
type RecordWriter interface {
	Write(r record.Record) error
	Close() error
}

// AcquireFunc opens the writer for a run.
type AcquireFunc func(ctx context.Context) (RecordWriter, error)

// PacerFor returns the pacer for a mode: none in quick mode, otherwise one
// record every Window/Quota.
func PacerFor(quick bool) pace.Pacer {
	if quick {
		return pace.Immediate{}
	}
	return pace.Every(pace.Interval(Quota, Window))
}

// Summary describes a finished or aborted emission.
type Summary struct {
	Records  int
	Interval time.Duration
	Elapsed  time.Duration
}

// Emitter produces the records of a run.
type Emitter struct {
	Pacer    pace.Pacer
	Names    target.NameSource
	Now      func() time.Time
	Observer Observer

	// Tracker, when set, continues a run whose earlier states were entered
	// by the caller. Otherwise Emit starts its own.
	Tracker *Tracker

	logger *zap.SugaredLogger
}

// NewEmitter creates an emitter with the wall clock and random names.
func NewEmitter(pacer pace.Pacer) *Emitter {
	return &Emitter{
		Pacer:  pacer,
		Names:  target.NewRandomNames(),
		Now:    time.Now,
		logger: logger.ComponentLogger("emit"),
	}
}

// Emit acquires a writer, appends Quota records for hour, and releases the
// writer exactly once on every exit path. Each record is preceded by a
// pacing wait, the first one included.
//
// Errors are marked with their kind: ErrAcquire when the writer cannot be
// opened, ErrWrite on append failure, ErrInterrupted when ctx ends during a
// wait, ErrRelease when finalizing fails. A release failure after an earlier
// error is attached as a secondary error.
func (e *Emitter) Emit(ctx context.Context, acquire AcquireFunc, hour target.Hour) (sum Summary, err error) {
	tr := e.Tracker
	if tr == nil {
		tr = NewTracker(e.Observer)
	}
	if tr.State() == StateInit {
		tr.Enter(StateResolvingTarget)
	}

	pacer := e.Pacer
	if pacer == nil {
		pacer = pace.Immediate{}
	}
	start := time.Now()
	sum.Interval = pacer.Interval()

	w, err := acquire(ctx)
	if err != nil {
		tr.Enter(StateAborted)
		return sum, errors.Mark(errors.Wrap(err, "failed to open writer"), errors.ErrAcquire)
	}
	tr.Enter(StateWriterOpen)

	defer func() {
		if err == nil {
			tr.Enter(StateClosing)
		}
		if cerr := w.Close(); cerr != nil {
			cerr = errors.Mark(errors.Wrap(cerr, "failed to finalize output"), errors.ErrRelease)
			if err == nil {
				err = cerr
			} else {
				err = errors.CombineErrors(err, cerr)
			}
		}
		sum.Elapsed = time.Since(start)

		if err != nil {
			tr.Enter(StateAborted)
			e.log().Debugw("Emission aborted",
				logger.FieldCount, sum.Records,
				logger.FieldErrorKind, errors.KindOf(err).String(),
			)
			return
		}
		tr.Enter(StateDone)
	}()

	tr.Enter(StateEmitting)
	names := e.names()
	for i := 0; i < Quota; i++ {
		waitStart := time.Now()
		if err = pacer.Wait(ctx); err != nil {
			return sum, err
		}
		waited := time.Since(waitStart)

		r := record.New(i, hour, e.now(), names.Alphabetic(target.NameLength))
		if err = w.Write(r); err != nil {
			return sum, errors.Mark(errors.Wrapf(err, "failed to write record %d", i), errors.ErrWrite)
		}
		sum.Records++
		tr.recordWritten(r, waited)
	}

	return sum, nil
}

func (e *Emitter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Emitter) names() target.NameSource {
	if e.Names == nil {
		e.Names = target.NewRandomNames()
	}
	return e.Names
}

func (e *Emitter) log() *zap.SugaredLogger {
	if e.logger == nil {
		e.logger = logger.ComponentLogger("emit")
	}
	return e.logger
}
