package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/workflow"
)

// PublishCmd implements the 'publish' command. Every token after the command
// name reaches the workflow untouched.
type PublishCmd struct {
	Args []string `arg:"" optional:"" help:"Workflow flags (--dry-run, -d) followed by generator arguments"`
}

func (p *PublishCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	return runPublish(g, cfg, p.Args, newGenerator(cfg), newPublisher(cfg))
}

func runPublish(g *Global, cfg *config.Config, args []string, gen workflow.Generator, pub workflow.Publisher) error {
	inst := newInstruments(cfg)
	defer inst.flush()

	opts := []workflow.Option{
		workflow.WithOutputDir(cfg.Generate.OutputDir),
		workflow.WithRecorder(inst.recorder),
		workflow.WithLogger(slog.Default()),
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if cerr := store.Close(); cerr != nil {
				slog.Warn("Failed to close run history", logfields.Error(cerr))
			}
		}()
		opts = append(opts, workflow.WithRunLog(store))
	}

	wf := workflow.New(gen, pub, opts...)

	var result error
	workflow.Command(g.ctx(), wf, args, g.options(cfg), func(err error) {
		result = err
	})
	return result
}
