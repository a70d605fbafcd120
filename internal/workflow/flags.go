package workflow

import (
	"io"
	"slices"

	"github.com/spf13/pflag"
)

// Raw tokens that request a dry run.
const (
	DryRunLong  = "--dry-run"
	DryRunShort = "-d"
)

// HasDryRunToken reports whether args contains --dry-run or -d verbatim.
// It never parses, so it cannot fail.
func HasDryRunToken(args []string) bool {
	return slices.Contains(args, DryRunLong) || slices.Contains(args, DryRunShort)
}

// ParsedFlags is the result of parsing an invocation.
type ParsedFlags struct {
	DryRun bool
	// Rest holds the positional arguments left after flag parsing.
	Rest []string
}

// ParseFlags parses args, recognizing only -d/--dry-run. Unknown flags are
// tolerated because they belong to the generation action.
func ParseFlags(args []string) (ParsedFlags, error) {
	fs := pflag.NewFlagSet("docpublish", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	dryRun := fs.BoolP("dry-run", "d", false, "skip publishing and report what would happen")

	if err := fs.Parse(args); err != nil {
		return ParsedFlags{}, err
	}
	return ParsedFlags{DryRun: *dryRun, Rest: fs.Args()}, nil
}
