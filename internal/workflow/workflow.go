package workflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/history"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/metrics"
)

// TestEnvironment is the execution mode in which publishing requires --dry-run.
const TestEnvironment = "test"

// DefaultOutputDir is the directory generation writes to and publish pushes.
const DefaultOutputDir = "docs"

// DryRunNotice is written to Options.Stdout when publishing is skipped.
const DryRunNotice = "Dry-run: would publish docs to GitHub Pages"

// Options are forwarded unchanged to the generation and publish actions.
// The workflow itself only reads Environment.
type Options struct {
	// Dir is the working directory of the project being documented.
	Dir string
	// Environment is the execution mode ("test", "production", ...).
	Environment string
	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) withDefaults() Options {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}

// Generator produces documentation for the project in opts.Dir.
// It receives the complete original invocation.
type Generator interface {
	Generate(ctx context.Context, args []string, opts Options) error
}

// Publisher pushes a generated output directory to the hosting branch.
type Publisher interface {
	// Prepare resolves everything publishing needs (for example the
	// publishing executable) before any work starts.
	Prepare(ctx context.Context, opts Options) error
	// Publish pushes outputDir, relative to opts.Dir.
	Publish(ctx context.Context, outputDir string, opts Options) error
}

// RunLog receives a record of every finished run.
type RunLog interface {
	Append(ctx context.Context, run history.Run) error
}

// Workflow runs generation followed by an optional publish.
type Workflow struct {
	generator Generator
	publisher Publisher
	outputDir string
	recorder  metrics.Recorder
	runLog    RunLog
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithOutputDir overrides the output directory handed to the publisher.
func WithOutputDir(dir string) Option {
	return func(w *Workflow) {
		if dir != "" {
			w.outputDir = dir
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(w *Workflow) {
		if r != nil {
			w.recorder = r
		}
	}
}

// WithRunLog attaches a run history sink.
func WithRunLog(l RunLog) Option {
	return func(w *Workflow) { w.runLog = l }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Workflow from its two collaborators.
func New(generator Generator, publisher Publisher, opts ...Option) *Workflow {
	w := &Workflow{
		generator: generator,
		publisher: publisher,
		outputDir: DefaultOutputDir,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes the workflow for one invocation and returns the first error.
func (w *Workflow) Run(ctx context.Context, args []string, opts Options) (err error) {
	opts = opts.withDefaults()
	runID := uuid.NewString()
	started := w.now()
	logger := w.logger.With(logfields.RunID(runID))

	// Decided from the raw tokens before any parsing.
	dryRun := HasDryRunToken(args)
	outcome := metrics.OutcomeFailed

	defer func() {
		w.finish(ctx, logger, history.Run{
			ID:          runID,
			Environment: opts.Environment,
			DryRun:      dryRun,
			Args:        args,
			StartedAt:   started,
		}, outcome, err)
	}()

	if opts.Environment == TestEnvironment && !dryRun {
		outcome = metrics.OutcomeBlocked
		logger.Warn("Refusing to publish in test environment", logfields.Environment(opts.Environment))
		return safeguardError(opts.Environment)
	}

	flags, err := ParseFlags(args)
	if err != nil {
		return err
	}

	// A raw dry-run token always wins, also when pflag read it as a positional.
	publishing := !dryRun && !flags.DryRun
	logger.Info("Starting documentation workflow",
		logfields.Dir(opts.Dir),
		logfields.Environment(opts.Environment),
		logfields.DryRun(!publishing),
		logfields.Output(w.outputDir))

	if publishing {
		if err := w.publisher.Prepare(ctx, opts); err != nil {
			return err
		}
	}

	queue := NewQueue(w.recorder, logger)
	queue.Defer(NewStep(StepGenerate, func(ctx context.Context) error {
		return w.generator.Generate(ctx, args, opts)
	}))
	if publishing {
		queue.Defer(NewStep(StepPublish, func(ctx context.Context) error {
			return w.publisher.Publish(ctx, w.outputDir, opts)
		}))
	} else {
		queue.Skip(StepPublish)
		_, _ = fmt.Fprintln(opts.Stdout, DryRunNotice)
	}

	if err := queue.Await(ctx); err != nil {
		return err
	}

	if publishing {
		outcome = metrics.OutcomePublished
	} else {
		outcome = metrics.OutcomeDryRun
	}
	return nil
}

func (w *Workflow) finish(ctx context.Context, logger *slog.Logger, run history.Run, outcome metrics.Outcome, err error) {
	run.FinishedAt = w.now()
	run.Outcome = string(outcome)
	if err != nil {
		run.Error = err.Error()
	}

	w.recorder.ObserveRunDuration(run.Duration())
	w.recorder.IncRunOutcome(outcome)

	if w.runLog != nil {
		// The run has already finished; a cancelled caller context must not
		// lose its record.
		if logErr := w.runLog.Append(context.WithoutCancel(ctx), run); logErr != nil {
			logger.Warn("Failed to record run history", logfields.Error(logErr))
		}
	}

	if err != nil {
		logger.Debug("Documentation workflow failed", slog.String("outcome", run.Outcome), logfields.Error(err))
		return
	}
	logger.Info("Documentation workflow finished", slog.String("outcome", run.Outcome),
		logfields.DurationMS(float64(run.Duration().Milliseconds())))
}

// Command runs w and reports completion through callback, which is invoked
// exactly once, also when a collaborator panics.
func Command(ctx context.Context, w *Workflow, args []string, opts Options, callback func(error)) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = ferrors.NewError(ferrors.CategoryInternal, fmt.Sprintf("workflow panicked: %v", r)).Fatal().Build()
			}
		}()
		err = w.Run(ctx, args, opts)
	}()
	callback(err)
}
