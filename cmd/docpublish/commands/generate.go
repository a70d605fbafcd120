package commands

import (
	"time"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/metrics"
	"git.home.luguber.info/inful/docpublish/internal/workflow"
)

// GenerateCmd implements the 'generate' command: the generation action
// alone, never followed by publishing.
type GenerateCmd struct {
	Args []string `arg:"" optional:"" help:"Generator arguments (--title, --unexported, package patterns)"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	return runGenerate(g, cfg, c.Args, newGenerator(cfg))
}

func runGenerate(g *Global, cfg *config.Config, args []string, gen workflow.Generator) error {
	inst := newInstruments(cfg)
	defer inst.flush()

	started := time.Now()
	err := gen.Generate(g.ctx(), args, g.options(cfg))
	inst.recorder.ObserveStepDuration(string(workflow.StepGenerate), time.Since(started))
	if err != nil {
		inst.recorder.IncStepResult(string(workflow.StepGenerate), metrics.ResultFailed)
		return err
	}
	inst.recorder.IncStepResult(string(workflow.StepGenerate), metrics.ResultSuccess)
	return nil
}
