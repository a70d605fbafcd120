package commands

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpublish/internal/config"
	"git.home.luguber.info/inful/docpublish/internal/docgen"
	"git.home.luguber.info/inful/docpublish/internal/history"
	"git.home.luguber.info/inful/docpublish/internal/publish"
	"git.home.luguber.info/inful/docpublish/internal/workflow"
)

type fakeGenerator struct {
	calls int
	args  []string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, args []string, _ workflow.Options) error {
	f.calls++
	f.args = args
	return f.err
}

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) Prepare(context.Context, workflow.Options) error { return nil }

func (f *fakePublisher) Publish(_ context.Context, outputDir string, _ workflow.Options) error {
	f.published = append(f.published, outputDir)
	return nil
}

func testConfig(t *testing.T, env string) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.WorkDir = t.TempDir()
	cfg.Environment = env
	return cfg
}

func testGlobal() (*Global, *bytes.Buffer) {
	var out bytes.Buffer
	return NewGlobal(context.Background(), &out, &bytes.Buffer{}), &out
}

func TestRunPublish_PublishesConfiguredOutputDir(t *testing.T) {
	cfg := testConfig(t, config.EnvProduction)
	cfg.Generate.OutputDir = "site"
	gen, pub := &fakeGenerator{}, &fakePublisher{}
	g, _ := testGlobal()

	require.NoError(t, runPublish(g, cfg, []string{"./..."}, gen, pub))
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, []string{"./..."}, gen.args)
	assert.Equal(t, []string{"site"}, pub.published)
}

func TestRunPublish_DryRunRecordsHistory(t *testing.T) {
	cfg := testConfig(t, config.EnvTest)
	cfg.History.Path = "history.db"
	cfg.Metrics.Textfile = "metrics/docpublish.prom"
	gen, pub := &fakeGenerator{}, &fakePublisher{}
	g, out := testGlobal()

	require.NoError(t, runPublish(g, cfg, []string{"--dry-run"}, gen, pub))
	assert.Empty(t, pub.published)
	assert.Contains(t, out.String(), workflow.DryRunNotice)
	assert.FileExists(t, filepath.Join(cfg.WorkDir, "metrics", "docpublish.prom"))

	store, err := history.NewSQLiteStore(filepath.Join(cfg.WorkDir, "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, config.EnvTest, runs[0].Environment)
}

func TestRunPublish_GeneratorErrorUnchanged(t *testing.T) {
	boom := errors.New("generation failed")
	cfg := testConfig(t, config.EnvProduction)
	g, _ := testGlobal()

	err := runPublish(g, cfg, nil, &fakeGenerator{err: boom}, &fakePublisher{})
	assert.Same(t, boom, err)
}

func TestRunGenerate(t *testing.T) {
	cfg := testConfig(t, config.EnvTest)
	gen := &fakeGenerator{}
	g, _ := testGlobal()

	require.NoError(t, runGenerate(g, cfg, []string{"--unexported"}, gen))
	assert.Equal(t, []string{"--unexported"}, gen.args)
}

func TestNewPublisherSelectsMode(t *testing.T) {
	cfg := testConfig(t, config.EnvProduction)
	assert.IsType(t, &publish.ExecPublisher{}, newPublisher(cfg))

	cfg.Publish.Mode = config.PublishModeGit
	assert.IsType(t, &publish.GitPublisher{}, newPublisher(cfg))
}

func TestNewGeneratorSelectsImplementation(t *testing.T) {
	cfg := testConfig(t, config.EnvProduction)
	assert.IsType(t, &docgen.GoDocGenerator{}, newGenerator(cfg))

	cfg.Generate.Command = []string{"gomarkdoc", "./..."}
	assert.IsType(t, &docgen.ExecGenerator{}, newGenerator(cfg))
}

func TestPrintRuns(t *testing.T) {
	g, out := testGlobal()
	require.NoError(t, printRuns(g, nil))
	assert.Equal(t, "No runs recorded\n", out.String())

	out.Reset()
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, printRuns(g, []history.Run{{
		ID:          "0123456789abcdef",
		Environment: "production",
		Outcome:     "published",
		StartedAt:   start,
		FinishedAt:  start.Add(1500 * time.Millisecond),
	}}))
	assert.Contains(t, out.String(), "01234567")
	assert.Contains(t, out.String(), "published")
	assert.Contains(t, out.String(), "1.5s")
}
