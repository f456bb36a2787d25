package uninstall

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danieljhkim/modlog/internal/clock"
	"github.com/danieljhkim/modlog/internal/installlog"
	"github.com/danieljhkim/modlog/internal/task"
)

const (
	overallMessage = "Uninstalling mod..."
	filesMessage   = "Uninstalling files..."
	configMessage  = "Undoing config edits..."
	valuesMessage  = "Undoing value edits..."
)

// Orchestrator reverses the recorded changes of one owner. The store and
// mutators are borrowed; the caller manages their lifetimes.
type Orchestrator struct {
	owner   string
	store   installlog.Reader
	files   FileMutator
	configs ConfigMutator
	values  ValueMutator

	strict bool
	logger zerolog.Logger
	task   *task.Task
	clock  clock.Clock

	started atomic.Bool
	phase   atomic.Int32
	report  Report
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStrict stops the run at the first failed reversal.
func WithStrict(strict bool) Option {
	return func(o *Orchestrator) { o.strict = strict }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithTask supplies the status object, letting the caller subscribe to
// progress and cancel before Execute is called.
func WithTask(t *task.Task) Option {
	return func(o *Orchestrator) { o.task = t }
}

// WithClock sets the clock used for report timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// New creates an Orchestrator for owner.
func New(owner string, store installlog.Reader, files FileMutator, configs ConfigMutator, values ValueMutator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		owner:   owner,
		store:   store,
		files:   files,
		configs: configs,
		values:  values,
		logger:  zerolog.Nop(),
		clock:   clock.RealClock{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.task == nil {
		o.task = task.New()
	}
	o.logger = o.logger.With().Str("component", "uninstall").Str("owner", owner).Logger()
	return o
}

// Task returns the status object of this run.
func (o *Orchestrator) Task() *task.Task {
	return o.task
}

// Cancel requests cancellation. Safe from any goroutine.
func (o *Orchestrator) Cancel() bool {
	return o.task.Cancel()
}

// Phase returns the current state machine position.
func (o *Orchestrator) Phase() Phase {
	return Phase(o.phase.Load())
}

// Report returns what the run did. Call it after Execute returns.
func (o *Orchestrator) Report() Report {
	return o.report.clone()
}

func (o *Orchestrator) setPhase(p Phase) {
	o.phase.Store(int32(p))
}

// Execute reverses every recorded change of the owner. It returns true when
// all three phases ran to the end; false when cancelled, or when a reversal
// failed in strict mode. Cancelling ctx requests cancellation.
//
// Execute runs at most once per Orchestrator.
func (o *Orchestrator) Execute(ctx context.Context) bool {
	if !o.started.CompareAndSwap(false, true) {
		o.logger.Error().Err(ErrAlreadyExecuted).Msg("execute called twice")
		return false
	}

	if ctx.Err() != nil {
		o.task.Cancel()
	}
	stop := context.AfterFunc(ctx, func() { o.task.Cancel() })
	defer stop()

	snap := installlog.TakeSnapshot(o.store, o.owner)
	o.report = Report{
		RunID:   uuid.NewString(),
		Owner:   o.owner,
		Started: o.clock.Now(),
	}
	log := o.logger.With().Str("run_id", o.report.RunID).Logger()
	log.Info().
		Int("files", len(snap.Files)).
		Int("config_edits", len(snap.ConfigEdits)).
		Int("value_edits", len(snap.ValueEdits)).
		Bool("strict", o.strict).
		Msg("uninstall started")

	ok := o.run(log, snap)

	o.report.Status = o.task.Status()
	o.report.Finished = o.clock.Now()
	log.Info().
		Stringer("status", o.report.Status).
		Int("reversed", o.report.Reversed()).
		Int("failed", len(o.report.Failures)).
		Dur("took", o.report.Finished.Sub(o.report.Started)).
		Msg("uninstall ended")
	return ok
}

func (o *Orchestrator) run(log zerolog.Logger, snap installlog.Snapshot) bool {
	o.task.StartOverall(PhaseCount, overallMessage)

	// A request made before the first phase stops the run even when every
	// phase is empty.
	if o.task.CancelRequested() {
		o.task.AcknowledgeCancel()
		o.setPhase(Cancelled)
		log.Warn().Msg("cancelled before start")
		return false
	}

	if !runPhase(o, log, RunningFiles, filesMessage, snap.Files,
		func(p string) string { return p },
		func(p string) error { return o.files.Uninstall(p) },
		func(p string) { o.report.Files = append(o.report.Files, p) },
	) {
		return false
	}

	if !runPhase(o, log, RunningConfigEdits, configMessage, snap.ConfigEdits,
		installlog.ConfigEdit.String,
		func(e installlog.ConfigEdit) error { return o.configs.Unedit(e.File, e.Section, e.Key) },
		func(e installlog.ConfigEdit) { o.report.ConfigEdits = append(o.report.ConfigEdits, e) },
	) {
		return false
	}

	if !runPhase(o, log, RunningValueEdits, valuesMessage, snap.ValueEdits,
		func(k string) string { return k },
		func(k string) error { return o.values.UnEdit(k) },
		func(k string) { o.report.ValueEdits = append(o.report.ValueEdits, k) },
	) {
		return false
	}

	o.task.Complete()
	o.setPhase(Complete)
	return true
}

// runPhase drives one phase over items. It returns false when the run must
// stop: cancellation observed at a checkpoint, or a failure in strict mode.
func runPhase[T any](
	o *Orchestrator,
	log zerolog.Logger,
	phase Phase,
	message string,
	items []T,
	name func(T) string,
	reverse func(T) error,
	reversed func(T),
) bool {
	o.setPhase(phase)
	o.task.StartItems(len(items), message)

	for _, item := range items {
		if o.task.CancelRequested() {
			o.task.AcknowledgeCancel()
			o.setPhase(Cancelled)
			log.Warn().Stringer("phase", phase).Msg("cancelled")
			return false
		}

		id := name(item)
		if err := safeCall(func() error { return reverse(item) }); err != nil {
			o.report.Failures = append(o.report.Failures, Failure{Phase: phase, Item: id, Err: err})
			log.Warn().Err(err).Stringer("phase", phase).Str("item", id).Msg("reversal failed")
			if o.strict {
				o.task.Fail()
				o.setPhase(Failed)
				return false
			}
		} else {
			reversed(item)
			log.Debug().Stringer("phase", phase).Str("item", id).Msg("reversed")
		}
		o.task.StepItem()
	}

	o.task.StepOverall()
	return true
}

// safeCall keeps a panicking mutator from aborting the run.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMutatorPanic, r)
		}
	}()
	return fn()
}
