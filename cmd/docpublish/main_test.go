package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpublish/internal/history"
)

// projectFixture writes a small Go module and a configuration pointing at it.
func projectFixture(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	files := map[string]string{
		"go.mod":          "module example.com/app\n\ngo 1.24\n",
		"app.go":          "// Package app is an application.\npackage app\n\n// Run runs.\nfunc Run() {}\n",
		"docpublish.yaml": fmt.Sprintf("work_dir: %s\nhistory:\n  path: state/history.db\nmetrics:\n  textfile: state/metrics.prom\n", dir),
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir, filepath.Join(dir, "docpublish.yaml")
}

func TestRun_DryRunInTestEnvironment(t *testing.T) {
	t.Setenv("DOCPUBLISH_ENV", "test")
	dir, cfgPath := projectFixture(t)

	code := run([]string{"-c", cfgPath, "publish", "--dry-run", "--title", "App"})
	require.Equal(t, 0, code)

	assert.FileExists(t, filepath.Join(dir, "docs", "index.html"))
	assert.FileExists(t, filepath.Join(dir, "docs", "pkg", "index.md"))
	assert.FileExists(t, filepath.Join(dir, "state", "metrics.prom"))

	store, err := history.NewSQLiteStore(filepath.Join(dir, "state", "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "dry_run", runs[0].Outcome)
	assert.True(t, runs[0].DryRun)
}

func TestRun_SafeguardBlocksPublishInTestEnvironment(t *testing.T) {
	t.Setenv("DOCPUBLISH_ENV", "test")
	dir, cfgPath := projectFixture(t)

	code := run([]string{"-c", cfgPath, "publish"})
	assert.Equal(t, 3, code)
	assert.NoDirExists(t, filepath.Join(dir, "docs"))
}

func TestRun_MissingPublishBinary(t *testing.T) {
	t.Setenv("DOCPUBLISH_ENV", "production")
	t.Setenv("PATH", "")
	t.Setenv("GOBIN", "")
	t.Setenv("GOPATH", "")
	dir, cfgPath := projectFixture(t)

	code := run([]string{"-c", cfgPath, "publish"})
	assert.Equal(t, 4, code)
	assert.NoDirExists(t, filepath.Join(dir, "docs"))
}

func TestRun_GenerateOnly(t *testing.T) {
	t.Setenv("DOCPUBLISH_ENV", "test")
	dir, cfgPath := projectFixture(t)

	require.Equal(t, 0, run([]string{"-c", cfgPath, "generate"}))
	assert.FileExists(t, filepath.Join(dir, "docs", "index.html"))
}

func TestRun_GenerateIntoAbsoluteOutputDir(t *testing.T) {
	t.Setenv("DOCPUBLISH_ENV", "test")
	dir, cfgPath := projectFixture(t)
	out := filepath.Join(t.TempDir(), "site")
	f, err := os.OpenFile(cfgPath, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = fmt.Fprintf(f, "generate:\n  output_dir: %s\n", out)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Equal(t, 0, run([]string{"-c", cfgPath, "publish", "--dry-run"}))
	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.NoDirExists(t, filepath.Join(dir, "docs"))
}

func TestRun_Init(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "docpublish.yaml")

	require.Equal(t, 0, run([]string{"-c", cfgPath, "init"}))
	assert.FileExists(t, cfgPath)
	assert.Equal(t, 2, run([]string{"-c", cfgPath, "init"}))
	assert.Equal(t, 0, run([]string{"-c", cfgPath, "init", "--force"}))
}

func TestRun_UnknownCommand(t *testing.T) {
	assert.Equal(t, 2, run([]string{"deploy"}))
}
