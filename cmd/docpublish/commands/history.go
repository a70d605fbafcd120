package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docpublish/internal/config"
	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if h.Limit <= 0 {
		return ferrors.ValidationError("--limit must be positive").Build()
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return ferrors.ConfigError("run history is disabled (set history.path)").Build()
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(g.ctx(), h.Limit)
	if err != nil {
		return err
	}
	return printRuns(g, runs)
}

func printRuns(g *Global, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(g.Stdout, "No runs recorded")
		return err
	}

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tRUN\tENVIRONMENT\tDRY-RUN\tOUTCOME\tDURATION\tERROR")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			shortID(r.ID),
			r.Environment,
			r.DryRun,
			r.Outcome,
			r.Duration().Round(time.Millisecond),
			r.Error,
		)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
