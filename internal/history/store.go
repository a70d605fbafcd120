package history

import (
	"context"
	"time"
)

// Run is one recorded workflow execution.
type Run struct {
	ID          string
	Environment string
	DryRun      bool
	Outcome     string
	Error       string
	Args        []string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists and lists workflow runs.
type Store interface {
	// Append records a finished run.
	Append(ctx context.Context, run Run) error

	// Get returns a single run by id.
	Get(ctx context.Context, id string) (Run, error)

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// Close closes the store and releases resources.
	Close() error
}
