package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/docgen"
	"git.home.luguber.info/inful/docpublish/internal/history"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/metrics"
	"git.home.luguber.info/inful/docpublish/internal/publish"
	"git.home.luguber.info/inful/docpublish/internal/workflow"
)

// Global carries process-wide state into every command.
type Global struct {
	Context context.Context
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewGlobal creates the state shared by all commands.
func NewGlobal(ctx context.Context, stdout, stderr io.Writer) *Global {
	return &Global{Context: ctx, Stdout: stdout, Stderr: stderr}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docpublish.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	EnvFile string           `name:"env-file" help:"Additional .env file to load before the configuration"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Publish  PublishCmd  `cmd:"" passthrough:"" help:"Generate documentation and publish it (use --dry-run to skip publishing)"`
	Generate GenerateCmd `cmd:"" passthrough:"" help:"Generate documentation without publishing"`
	History  HistoryCmd  `cmd:"" help:"List recorded workflow runs"`
	Init     InitCmd     `cmd:"" help:"Write a default configuration file"`
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if c.EnvFile != "" {
		if err := config.LoadEnvFile(c.EnvFile); err != nil {
			return err
		}
	}
	return nil
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) options(cfg *config.Config) workflow.Options {
	return workflow.Options{
		Dir:         cfg.WorkDir,
		Environment: cfg.Environment,
		Stdout:      g.Stdout,
		Stderr:      g.Stderr,
	}
}

// newGenerator selects the generation action from configuration.
func newGenerator(cfg *config.Config) workflow.Generator {
	if len(cfg.Generate.Command) > 0 {
		return docgen.NewExecGenerator(cfg.Generate.Command, nil)
	}
	return docgen.NewGoDocGenerator(cfg.OutputPath(),
		docgen.WithTitle(cfg.Generate.Title),
		docgen.WithUnexported(cfg.Generate.Unexported),
		docgen.WithExclude(cfg.Generate.Exclude...),
		docgen.WithLogger(slog.Default()),
	)
}

// newPublisher selects the publish action from configuration.
func newPublisher(cfg *config.Config) workflow.Publisher {
	p := cfg.Publish
	if p.Mode == config.PublishModeGit {
		return publish.NewGitPublisher(publish.GitSettings{
			Branch:      p.Branch,
			Remote:      p.Remote,
			Message:     p.Message,
			AuthorName:  p.AuthorName,
			AuthorEmail: p.AuthorEmail,
			TokenEnv:    p.TokenEnv,
		})
	}
	resolver := publish.PathResolver{WorkDir: cfg.WorkDir, SearchPaths: p.SearchPaths}
	return publish.NewExecPublisher(p.Binary, resolver, nil)
}

// resolvePath interprets a configured path relative to the working directory.
func resolvePath(cfg *config.Config, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cfg.WorkDir, p)
}

func openHistory(cfg *config.Config) (*history.SQLiteStore, error) {
	if cfg.History.Path == "" {
		return nil, nil
	}
	return history.NewSQLiteStore(resolvePath(cfg, cfg.History.Path))
}

// instruments holds the metrics registry of one command invocation.
type instruments struct {
	registry *prom.Registry
	recorder metrics.Recorder
	textfile string
}

func newInstruments(cfg *config.Config) *instruments {
	reg := prom.NewRegistry()
	return &instruments{
		registry: reg,
		recorder: metrics.NewPrometheusRecorder(reg),
		textfile: resolvePath(cfg, cfg.Metrics.Textfile),
	}
}

// flush exports the collected metrics when a textfile is configured. Export
// failures never change the outcome of the command.
func (i *instruments) flush() {
	if i.textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(i.textfile, i.registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(i.textfile), logfields.Error(err))
	}
}
