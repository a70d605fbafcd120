package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docpublish.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "docpublish.yaml" {
			t.Errorf("expected context file=docpublish.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := SafeguardError("blocked").Build()
		wrapped := fmt.Errorf("run: %w", inner)

		if !HasCategory(wrapped, CategorySafeguard) {
			t.Error("expected wrapped error to keep safeguard category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain error to report internal category")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("remote hung up")
	err := WrapError(originalErr, CategoryGit, "push failed").
		WithSeverity(SeverityWarning).
		WithRetry(RetryBackoff).
		WithContext("branch", "gh-pages").
		Build()

	if !errors.Is(err, originalErr) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if !err.CanRetry() {
		t.Error("expected backoff error to be retryable")
	}
	if want := "[git:warning] push failed: remote hung up"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestClassifiedErrorWithContextDoesNotMutate(t *testing.T) {
	base := NewError(CategoryPublish, "publish failed").Build()
	derived := base.WithContext("binary", "gh-pages")

	if _, ok := base.Context().Get("binary"); ok {
		t.Error("expected original context to stay untouched")
	}
	if v, ok := derived.Context().GetString("binary"); !ok || v != "gh-pages" {
		t.Errorf("expected derived context binary=gh-pages, got %q", v)
	}
}

func TestClassifiedErrorIs(t *testing.T) {
	a := SafeguardError("blocked").Build()
	b := SafeguardError("blocked").Build()
	c := ConfigError("blocked").Build()

	if !errors.Is(a, b) {
		t.Error("expected equal category and message to match")
	}
	if errors.Is(a, c) {
		t.Error("expected different categories not to match")
	}
}

func TestSafeguardErrorRequiresUserAction(t *testing.T) {
	err := SafeguardError("blocked").Build()
	if err.RetryStrategy() != RetryUserAction {
		t.Errorf("expected user action retry strategy, got %s", err.RetryStrategy())
	}
	if err.CanRetry() {
		t.Error("expected safeguard error not to be retryable")
	}
}
