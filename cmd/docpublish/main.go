package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpublish/cmd/docpublish/commands"
	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli := &commands.CLI{}
	parser, err := kong.New(cli,
		kong.Name("docpublish"),
		kong.Description("Generate Go API documentation and publish it to GitHub Pages."),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		slog.Error("Failed to build command line parser", "error", err)
		return 10
	}

	code := 0
	setCode := func(c int) { code = c }

	kctx, err := parser.Parse(args)
	if err != nil {
		ferrors.NewCLIErrorAdapter(false, nil).WithExit(setCode).
			HandleError(ferrors.ValidationError(err.Error()).Build())
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global := commands.NewGlobal(ctx, os.Stdout, os.Stderr)
	err = kctx.Run(global)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).WithExit(setCode).HandleError(err)
	return code
}
