// Package errors provides the classified error primitives used across docpublish.
//
// Key features:
//   - ErrorCategory: broad classification (safeguard, config, resolution, publish, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: whether retrying can help (docpublish never retries on its own)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryConfig, "missing work_dir").
//		WithContext("file", path).
//		Fatal().
//		Build()
package errors
