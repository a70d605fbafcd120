package config

import (
	"fmt"
	"os"
)

// Defaults shared with the CLI and the workflow.
const (
	DefaultOutputDir     = "docs"
	DefaultPublishBinary = "gh-pages"
	DefaultBranch        = "gh-pages"
	DefaultRemote        = "origin"
	DefaultMessage       = "Update documentation"
	DefaultAuthorName    = "docpublish"
	DefaultAuthorEmail   = "docpublish@localhost"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// WorkDirDefaultApplier resolves the working directory.
type WorkDirDefaultApplier struct{}

func (WorkDirDefaultApplier) Domain() string { return "work_dir" }

func (WorkDirDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.WorkDir != "" {
		return nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	cfg.WorkDir = wd
	return nil
}

// GenerateDefaultApplier handles generation defaults.
type GenerateDefaultApplier struct{}

func (GenerateDefaultApplier) Domain() string { return "generate" }

func (GenerateDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Generate.OutputDir == "" {
		cfg.Generate.OutputDir = DefaultOutputDir
	}
	if cfg.Generate.Title == "" {
		cfg.Generate.Title = "API Reference"
	}
	return nil
}

// PublishDefaultApplier handles publish defaults.
type PublishDefaultApplier struct{}

func (PublishDefaultApplier) Domain() string { return "publish" }

func (PublishDefaultApplier) ApplyDefaults(cfg *Config) error {
	p := &cfg.Publish
	if p.Mode == "" {
		p.Mode = PublishModeExec
	}
	if p.Binary == "" {
		p.Binary = DefaultPublishBinary
	}
	if p.Branch == "" {
		p.Branch = DefaultBranch
	}
	if p.Remote == "" {
		p.Remote = DefaultRemote
	}
	if p.Message == "" {
		p.Message = DefaultMessage
	}
	if p.AuthorName == "" {
		p.AuthorName = DefaultAuthorName
	}
	if p.AuthorEmail == "" {
		p.AuthorEmail = DefaultAuthorEmail
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		WorkDirDefaultApplier{},
		GenerateDefaultApplier{},
		PublishDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers() {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", applier.Domain(), err)
		}
	}
	return nil
}
