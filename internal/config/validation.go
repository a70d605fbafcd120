package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
)

// ValidateConfig validates a configuration after defaults have been applied.
func ValidateConfig(cfg *Config) error {
	if err := validatePublish(&cfg.Publish); err != nil {
		return err
	}
	return validateGenerate(&cfg.Generate)
}

func validatePublish(p *PublishConfig) error {
	switch p.Mode {
	case PublishModeExec, PublishModeGit:
	default:
		return ferrors.ValidationError(fmt.Sprintf("invalid publish.mode %q (expected exec or git)", p.Mode)).
			WithContext("field", "publish.mode").
			Build()
	}
	if p.Mode == PublishModeExec && strings.ContainsAny(p.Binary, `/\`) {
		return ferrors.ValidationError("publish.binary must be a bare executable name").
			WithContext("field", "publish.binary").
			Build()
	}
	if strings.TrimSpace(p.Branch) == "" {
		return ferrors.ValidationError("publish.branch must not be empty").Build()
	}
	return nil
}

func validateGenerate(g *GenerateConfig) error {
	out := filepath.Clean(g.OutputDir)
	if out == "." || out == string(filepath.Separator) {
		return ferrors.ValidationError("generate.output_dir must not be the working directory or filesystem root").
			WithContext("field", "generate.output_dir").
			Build()
	}
	if !filepath.IsAbs(out) && strings.HasPrefix(out, "..") {
		return ferrors.ValidationError("generate.output_dir must stay inside the working directory").
			WithContext("field", "generate.output_dir").
			Build()
	}
	return nil
}
