package docgen

import (
	"io"

	"github.com/spf13/pflag"
)

// Flags are the generator options that can be given on the invocation.
type Flags struct {
	Title      string
	Unexported bool
	// Patterns select packages ("./...", "./internal/...", "./cmd/tool").
	Patterns []string
}

// ParseFlags reads generator flags from the forwarded invocation. Flags that
// belong to other parts of the workflow are ignored.
func ParseFlags(args []string, defaults Flags) (Flags, error) {
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	out := defaults
	fs.StringVar(&out.Title, "title", defaults.Title, "documentation title")
	fs.BoolVar(&out.Unexported, "unexported", defaults.Unexported, "include unexported declarations")
	// Declared so the value following it is never mistaken for a flag value.
	fs.BoolP("dry-run", "d", false, "")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	out.Patterns = fs.Args()
	return out, nil
}
