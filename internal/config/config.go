package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
)

// DefaultConfigFile is the configuration file looked up when --config is not given.
const DefaultConfigFile = "docpublish.yaml"

// Execution modes understood by the publish safeguard.
const (
	EnvTest        = "test"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// PublishMode selects how generated docs reach the hosting branch.
type PublishMode string

const (
	// PublishModeExec spawns an installed publishing binary (gh-pages by default).
	PublishModeExec PublishMode = "exec"
	// PublishModeGit commits and pushes the hosting branch with go-git.
	PublishModeGit PublishMode = "git"
)

// Config represents the docpublish configuration.
type Config struct {
	// Environment is the execution mode. DOCPUBLISH_ENV / GO_ENV override it.
	Environment string         `yaml:"environment,omitempty"`
	WorkDir     string         `yaml:"work_dir,omitempty"`
	Generate    GenerateConfig `yaml:"generate"`
	Publish     PublishConfig  `yaml:"publish"`
	Metrics     MetricsConfig  `yaml:"metrics,omitempty"`
	History     HistoryConfig  `yaml:"history,omitempty"`
}

// GenerateConfig configures the documentation generation action.
type GenerateConfig struct {
	OutputDir  string   `yaml:"output_dir"`
	Title      string   `yaml:"title,omitempty"`
	Unexported bool     `yaml:"unexported,omitempty"`
	Exclude    []string `yaml:"exclude,omitempty"`
	// Command, when set, replaces the built-in generator with an external tool
	// (for example ["gomarkdoc", "--output", "docs/{{.Dir}}.md", "./..."]).
	Command []string `yaml:"command,omitempty"`
}

// PublishConfig configures the publish action.
type PublishConfig struct {
	Mode        PublishMode `yaml:"mode"`
	Binary      string      `yaml:"binary,omitempty"`
	SearchPaths []string    `yaml:"search_paths,omitempty"`

	// Git mode settings.
	Branch      string `yaml:"branch,omitempty"`
	Remote      string `yaml:"remote,omitempty"`
	Message     string `yaml:"message,omitempty"`
	AuthorName  string `yaml:"author_name,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty"`
	TokenEnv    string `yaml:"token_env,omitempty"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// HistoryConfig configures the SQLite run ledger. An empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// OutputPath returns the generation output directory resolved against WorkDir.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Generate.OutputDir) {
		return c.Generate.OutputDir
	}
	return filepath.Join(c.WorkDir, c.Generate.OutputDir)
}

// Default returns a configuration with all defaults applied and the
// execution mode resolved from the process environment.
func Default() (*Config, error) {
	cfg := &Config{}
	cfg.Environment = ResolveEnvironment(cfg.Environment)
	if err := applyDefaults(cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to apply defaults").Fatal().Build()
	}
	return cfg, nil
}

// Load loads configuration from the specified file.
//
// .env files are loaded first so ${VAR} references in the YAML can use them.
// A missing DefaultConfigFile is not an error: defaults are returned instead.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if configPath == "" {
		configPath = DefaultConfigFile
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if configPath == DefaultConfigFile {
			return Default()
		}
		return nil, ferrors.NewError(ferrors.CategoryNotFound, "configuration file not found").
			WithContext("path", configPath).
			Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration, expanding ${VAR} references, then
// resolves the execution mode, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	cfg.Environment = ResolveEnvironment(cfg.Environment)
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			Build()
	}

	example := Config{
		Generate: GenerateConfig{
			OutputDir: DefaultOutputDir,
			Title:     "API Reference",
		},
		Publish: PublishConfig{
			Mode:        PublishModeExec,
			Binary:      DefaultPublishBinary,
			SearchPaths: []string{"node_modules/.bin", "bin"},
			Branch:      DefaultBranch,
			Remote:      DefaultRemote,
			TokenEnv:    "GH_TOKEN",
		},
		History: HistoryConfig{Path: ".docpublish/history.db"},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
