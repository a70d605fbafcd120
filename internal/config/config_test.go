package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
)

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range environmentVars {
		// t.Setenv restores the original value; unsetting afterwards lets
		// godotenv treat the key as absent.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestParse_AppliesDefaults(t *testing.T) {
	clearEnvironment(t)

	cfg, err := Parse([]byte("work_dir: /tmp/project\n"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/project", cfg.WorkDir)
	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.Equal(t, DefaultOutputDir, cfg.Generate.OutputDir)
	assert.Equal(t, PublishModeExec, cfg.Publish.Mode)
	assert.Equal(t, DefaultPublishBinary, cfg.Publish.Binary)
	assert.Equal(t, DefaultBranch, cfg.Publish.Branch)
	assert.Equal(t, DefaultRemote, cfg.Publish.Remote)
	assert.Equal(t, filepath.Join("/tmp/project", "docs"), cfg.OutputPath())
}

func TestParse_EnvironmentVariableWins(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("DOCPUBLISH_ENV", "Test")

	cfg, err := Parse([]byte("environment: production\nwork_dir: /tmp/p\n"))
	require.NoError(t, err)
	assert.Equal(t, EnvTest, cfg.Environment)
	assert.Equal(t, EnvTest, cfg.Environment)
}

func TestParse_GoEnvFallback(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("GO_ENV", "test")

	cfg, err := Parse([]byte("work_dir: /tmp/p\n"))
	require.NoError(t, err)
	assert.Equal(t, EnvTest, cfg.Environment)
}

func TestParse_ExpandsVariables(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("DOCS_TITLE", "Widget API")

	cfg, err := Parse([]byte("work_dir: /tmp/p\ngenerate:\n  title: ${DOCS_TITLE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "Widget API", cfg.Generate.Title)
}

func TestParse_InvalidPublishMode(t *testing.T) {
	clearEnvironment(t)

	_, err := Parse([]byte("work_dir: /tmp/p\npublish:\n  mode: ftp\n"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestParse_RejectsBinaryPath(t *testing.T) {
	clearEnvironment(t)

	_, err := Parse([]byte("work_dir: /tmp/p\npublish:\n  binary: ./bin/gh-pages\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bare executable name")
}

func TestParse_RejectsEscapingOutputDir(t *testing.T) {
	clearEnvironment(t)

	for _, dir := range []string{".", "../site", "/"} {
		_, err := Parse([]byte("work_dir: /tmp/p\ngenerate:\n  output_dir: " + dir + "\n"))
		require.Error(t, err, dir)
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("generate: [unterminated"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_MissingDefaultFileReturnsDefaults(t *testing.T) {
	clearEnvironment(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.Generate.OutputDir)
}

func TestDefault_ReportsUnresolvableWorkDir(t *testing.T) {
	clearEnvironment(t)
	gone := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.Mkdir(gone, 0o750))
	t.Chdir(gone)
	require.NoError(t, os.Remove(gone))

	_, err := Default()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnvironment(t)
	t.Chdir(t.TempDir())

	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestLoad_ReadsEnvFileForEnvironment(t *testing.T) {
	clearEnvironment(t)
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(".env", []byte("DOCPUBLISH_ENV=test\n"), 0o600))
	require.NoError(t, os.WriteFile(".env.test", []byte("DOCPUBLISH_TEST_TITLE=From env.test\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DOCPUBLISH_TEST_TITLE") })
	require.NoError(t, os.WriteFile(DefaultConfigFile, []byte("generate:\n  title: ${DOCPUBLISH_TEST_TITLE}\n"), 0o600))

	cfg, err := Load(DefaultConfigFile)
	require.NoError(t, err)
	assert.Equal(t, EnvTest, cfg.Environment)
	assert.Equal(t, "From env.test", cfg.Generate.Title)
	assert.Equal(t, dir, cfg.WorkDir)
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	clearEnvironment(t)
	path := filepath.Join(t.TempDir(), "docpublish.yaml")

	require.NoError(t, Init(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, PublishModeExec, cfg.Publish.Mode)
	assert.Equal(t, ".docpublish/history.db", cfg.History.Path)
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docpublish.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x: 1\n"), 0o600))

	err := Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))
}
