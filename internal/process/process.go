// Package process spawns external tools with the caller's working directory
// and standard streams.
package process

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

// Spec describes one process invocation.
type Spec struct {
	Path   string
	Args   []string
	Dir    string
	Env    []string // appended to the current environment
	Stdout io.Writer
	Stderr io.Writer
}

// Runner starts a process and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, spec Spec) error
}

// ExecRunner runs processes with os/exec. A non-zero exit is reported as
// *exec.ExitError; a spawn failure as the underlying os error.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, spec Spec) error {
	// #nosec G204 -- the path comes from executable resolution, not user input
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	slog.Debug("Spawning process",
		logfields.Binary(spec.Path),
		slog.String("args", strings.Join(spec.Args, " ")),
		logfields.Dir(spec.Dir))

	return cmd.Run()
}
