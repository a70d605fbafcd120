package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation error", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "safeguard error", err: SafeguardError("blocked").Build(), expected: 3},
		{name: "resolution error", err: NewError(CategoryResolution, "not found").Build(), expected: 4},
		{name: "config error", err: ConfigError("bad config").Build(), expected: 7},
		{name: "publish error", err: NewError(CategoryPublish, "push failed").Build(), expected: 11},
		{name: "internal error", err: NewError(CategoryInternal, "boom").Build(), expected: 10},
		{name: "unclassified error", err: errors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		err      error
		contains string
	}{
		{name: "safeguard keeps message", err: SafeguardError("Cannot publish").Build(), contains: "Cannot publish"},
		{name: "internal hidden", err: NewError(CategoryInternal, "secret").Build(), contains: "use -v for details"},
		{name: "internal verbose", verbose: true, err: NewError(CategoryInternal, "secret").Build(), contains: "secret"},
		{name: "plain error", err: errors.New("plain"), contains: "Error: plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewCLIErrorAdapter(tt.verbose, slog.Default())
			if got := adapter.FormatError(tt.err); !strings.Contains(got, tt.contains) {
				t.Errorf("FormatError() = %q, want substring %q", got, tt.contains)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logBuf, errBuf bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logBuf, nil)))
	adapter.stderr = &errBuf

	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(SafeguardError("blocked").Build())

	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
	if !strings.Contains(errBuf.String(), "blocked") {
		t.Errorf("expected stderr to contain message, got %q", errBuf.String())
	}
	if !strings.Contains(logBuf.String(), "category=safeguard") {
		t.Errorf("expected log to carry category, got %q", logBuf.String())
	}
}

func TestCLIErrorAdapter_HandleErrorNil(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)
	called := false
	adapter.exit = func(int) { called = true }

	adapter.HandleError(nil)

	if called {
		t.Error("expected no exit for nil error")
	}
}
