package publish

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/process"
	"git.home.luguber.info/inful/docpublish/internal/workflow"
)

// ExecPublisher runs "<binary> -d <outputDir>" in the working directory.
type ExecPublisher struct {
	binary   string
	resolver Resolver
	runner   process.Runner

	mu       sync.Mutex
	resolved string
}

// NewExecPublisher creates a publisher for binary. A nil runner uses
// process.ExecRunner.
func NewExecPublisher(binary string, resolver Resolver, runner process.Runner) *ExecPublisher {
	if runner == nil {
		runner = process.ExecRunner{}
	}
	return &ExecPublisher{binary: binary, resolver: resolver, runner: runner}
}

// Prepare resolves the publishing executable. The error of the resolver is
// returned unchanged.
func (p *ExecPublisher) Prepare(_ context.Context, _ workflow.Options) error {
	_, err := p.resolve()
	return err
}

func (p *ExecPublisher) resolve() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolved != "" {
		return p.resolved, nil
	}
	path, err := p.resolver.ResolveExecutable(p.binary)
	if err != nil {
		return "", err
	}
	p.resolved = path
	slog.Debug("Resolved publishing executable", logfields.Binary(path))
	return path, nil
}

// Publish implements workflow.Publisher.
func (p *ExecPublisher) Publish(ctx context.Context, outputDir string, opts workflow.Options) error {
	path, err := p.resolve()
	if err != nil {
		return err
	}

	return p.runner.Run(ctx, process.Spec{
		Path:   path,
		Args:   []string{"-d", outputDir},
		Dir:    opts.Dir,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	})
}
