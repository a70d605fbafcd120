package docgen

import (
	"context"
	"slices"

	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/process"
	"git.home.luguber.info/inful/docpublish/internal/workflow"
)

// ExecGenerator delegates generation to an external documentation tool,
// for example gomarkdoc. Workflow-only tokens (-d, --dry-run) are removed
// before the remaining invocation is appended to the command.
type ExecGenerator struct {
	command []string
	runner  process.Runner
}

// NewExecGenerator creates a generator running command (program followed by
// fixed arguments). A nil runner uses process.ExecRunner.
func NewExecGenerator(command []string, runner process.Runner) *ExecGenerator {
	if runner == nil {
		runner = process.ExecRunner{}
	}
	return &ExecGenerator{command: slices.Clone(command), runner: runner}
}

// Generate implements workflow.Generator.
func (g *ExecGenerator) Generate(ctx context.Context, args []string, opts workflow.Options) error {
	if len(g.command) == 0 {
		return ferrors.ConfigError("generate.command is empty").Build()
	}

	forwarded := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == workflow.DryRunLong || arg == workflow.DryRunShort {
			continue
		}
		forwarded = append(forwarded, arg)
	}

	return g.runner.Run(ctx, process.Spec{
		Path:   g.command[0],
		Args:   append(slices.Clone(g.command[1:]), forwarded...),
		Dir:    opts.Dir,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	})
}
