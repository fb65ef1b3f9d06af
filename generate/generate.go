// Package generate runs one hourly generation: it resolves the target hour,
// loads the schema, derives the output location, opens the Parquet writer
// and hands it to the emitter.
package generate

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/hourgen/emit"
	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/logger"
	"github.com/teranos/hourgen/pace"
	"github.com/teranos/hourgen/parquetio"
	"github.com/teranos/hourgen/schema"
	"github.com/teranos/hourgen/target"
)

// Opener creates the sink for an output URI.
type Opener interface {
	Create(ctx context.Context, uri string) (io.WriteCloser, error)
}

// Options are the per-run inputs.
type Options struct {
	Datetime   *string // YYYYMMDDHH override, nil = current UTC hour
	Prefix     string  // Output prefix, empty = target.DefaultPrefix
	Quick      bool    // Disable pacing
	SchemaPath string  // Avro schema file, empty = embedded default
}

// Result describes a completed or aborted run.
type Result struct {
	RunID    string
	Hour     target.Hour
	Location target.Location
	Schema   string
	Summary  emit.Summary
}

// Generator wires the run's collaborators. Zero-value fields fall back to
// production defaults.
type Generator struct {
	Opener   Opener
	Resolver *target.Resolver
	SchemaFS afero.Fs
	Names    target.NameSource
	Now      func() time.Time
	Observer emit.Observer

	// PacerFor picks the pacer for a mode; defaults to emit.PacerFor.
	PacerFor func(quick bool) pace.Pacer
	NewRunID func() string

	logger *zap.SugaredLogger
}

// New creates a generator writing through opener.
func New(opener Opener) *Generator {
	return &Generator{
		Opener:   opener,
		Resolver: target.NewResolver(),
		SchemaFS: afero.NewOsFs(),
		Names:    target.NewRandomNames(),
		Now:      time.Now,
		PacerFor: emit.PacerFor,
		NewRunID: uuid.NewString,
		logger:   logger.ComponentLogger("generate"),
	}
}

// Run performs one generation. A malformed datetime override fails before
// the schema is read or any sink is opened.
func (g *Generator) Run(ctx context.Context, opts Options) (Result, error) {
	g.defaults()

	res := Result{RunID: g.NewRunID()}
	log := logger.ChildLogger(g.logger, logger.FieldRunID, res.RunID)

	tr := emit.NewTracker(g.Observer)
	tr.Enter(emit.StateResolvingTarget)

	hour, err := g.Resolver.Resolve(opts.Datetime)
	if err != nil {
		tr.Enter(emit.StateAborted)
		return res, err
	}
	res.Hour = hour
	if !hour.InCalendarRange() {
		log.Warnw("Target hour is outside the calendar range; using it as given",
			logger.FieldTargetHour, hour.Compact())
	}

	sch, err := schema.Load(g.SchemaFS, opts.SchemaPath)
	if err != nil {
		tr.Enter(emit.StateAborted)
		return res, err
	}
	res.Schema = sch.FullName()
	log.Debugw("Loaded schema", "schema", sch.FullName(), "source", sch.Source)

	pacer := g.PacerFor(opts.Quick)
	if interval := pacer.Interval(); interval > 0 {
		log.Infow("Will sleep before writing each record",
			logger.FieldIntervalMS, interval.Milliseconds(),
			logger.FieldQuota, emit.Quota,
		)
	}

	loc := target.NewLocation(opts.Prefix, hour, g.Names)
	res.Location = loc
	log.Infow("Writing to "+loc.String(), logger.FieldTargetHour, hour.String())

	metadata := map[string]string{
		parquetio.MetaTargetHour: hour.Compact(),
		parquetio.MetaRunID:      res.RunID,
	}
	acquire := func(ctx context.Context) (emit.RecordWriter, error) {
		sink, err := g.Opener.Create(ctx, loc.String())
		if err != nil {
			return nil, err
		}
		return parquetio.NewWriter(sink, sch, metadata), nil
	}

	emitter := &emit.Emitter{
		Pacer:    pacer,
		Names:    g.Names,
		Now:      g.Now,
		Observer: g.Observer,
		Tracker:  tr,
	}
	res.Summary, err = emitter.Emit(ctx, acquire, hour)
	if err != nil {
		log.Debugw("Run failed",
			logger.FieldCount, res.Summary.Records,
			logger.FieldErrorKind, errors.KindOf(err).String(),
		)
		return res, errors.Wrapf(err, "failed to generate %s", loc.String())
	}

	log.Infow("Wrote records",
		logger.FieldPath, loc.String(),
		logger.FieldCount, res.Summary.Records,
		logger.FieldDurationMS, res.Summary.Elapsed.Milliseconds(),
	)
	return res, nil
}

func (g *Generator) defaults() {
	if g.Resolver == nil {
		g.Resolver = target.NewResolver()
	}
	if g.SchemaFS == nil {
		g.SchemaFS = afero.NewOsFs()
	}
	if g.Names == nil {
		g.Names = target.NewRandomNames()
	}
	if g.Now == nil {
		g.Now = time.Now
	}
	if g.PacerFor == nil {
		g.PacerFor = emit.PacerFor
	}
	if g.NewRunID == nil {
		g.NewRunID = uuid.NewString
	}
	if g.logger == nil {
		g.logger = logger.ComponentLogger("generate")
	}
}
