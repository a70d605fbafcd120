package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyStep        = "step"
	KeyDurationMS  = "duration_ms"
	KeyDir         = "dir"
	KeyOutput      = "output"
	KeyBinary      = "binary"
	KeyEnvironment = "environment"
	KeyDryRun      = "dry_run"
	KeyPackage     = "package"
	KeyBranch      = "branch"
	KeyRemote      = "remote"
	KeyPath        = "path"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Output(d string) slog.Attr       { return slog.String(KeyOutput, d) }
func Binary(b string) slog.Attr       { return slog.String(KeyBinary, b) }
func Environment(e string) slog.Attr  { return slog.String(KeyEnvironment, e) }
func DryRun(v bool) slog.Attr         { return slog.Bool(KeyDryRun, v) }
func Package(p string) slog.Attr      { return slog.String(KeyPackage, p) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Remote(r string) slog.Attr       { return slog.String(KeyRemote, r) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
