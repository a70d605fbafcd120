package workflow

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/metrics"
)

// StepName identifies a workflow step.
type StepName string

const (
	StepGenerate StepName = "generate"
	StepPublish  StepName = "publish"
)

// Step is a single unit of work executed by a Queue.
type Step interface {
	Name() StepName
	Execute(ctx context.Context) error
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	name StepName
	fn   func(ctx context.Context) error
}

// NewStep creates a Step from a function.
func NewStep(name StepName, fn func(ctx context.Context) error) StepFunc {
	return StepFunc{name: name, fn: fn}
}

// Name returns the step name.
func (s StepFunc) Name() StepName { return s.name }

// Execute runs the step function.
func (s StepFunc) Execute(ctx context.Context) error { return s.fn(ctx) }

// Queue runs deferred steps one at a time, in the order they were deferred.
// The first error stops the queue and is returned exactly as the step
// produced it.
type Queue struct {
	steps    []Step
	skipped  []StepName
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewQueue creates an empty queue.
func NewQueue(recorder metrics.Recorder, logger *slog.Logger) *Queue {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{recorder: recorder, logger: logger}
}

// Defer appends a step.
func (q *Queue) Defer(step Step) {
	q.steps = append(q.steps, step)
}

// Skip records a step that will not run. Skips are reported once all
// deferred steps before them have succeeded.
func (q *Queue) Skip(name StepName) {
	q.skipped = append(q.skipped, name)
}

// Len returns the number of deferred steps.
func (q *Queue) Len() int { return len(q.steps) }

// Await executes the deferred steps sequentially.
func (q *Queue) Await(ctx context.Context) error {
	for _, step := range q.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := q.run(ctx, step); err != nil {
			return err
		}
	}
	for _, name := range q.skipped {
		q.logger.Info("Step skipped", logfields.Step(string(name)))
		q.recorder.IncStepResult(string(name), metrics.ResultSkipped)
	}
	return nil
}

func (q *Queue) run(ctx context.Context, step Step) error {
	name := string(step.Name())
	q.logger.Info("Starting step", logfields.Step(name))

	start := time.Now()
	err := step.Execute(ctx)
	elapsed := time.Since(start)
	q.recorder.ObserveStepDuration(name, elapsed)

	if err != nil {
		q.recorder.IncStepResult(name, metrics.ResultFailed)
		q.logger.Error("Step failed", logfields.Step(name), logfields.DurationMS(float64(elapsed.Milliseconds())), logfields.Error(err))
		return err
	}

	q.recorder.IncStepResult(name, metrics.ResultSuccess)
	q.logger.Info("Step completed successfully", logfields.Step(name), logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}
