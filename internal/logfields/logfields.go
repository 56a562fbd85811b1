package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyJob        = "job"
	KeyTarget     = "target"
	KeyTargets    = "targets"
	KeyLang       = "lang"
	KeyPost       = "post"
	KeyRunID      = "run_id"
	KeyReason     = "reason"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyBackend    = "backend"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Job(name string) slog.Attr       { return slog.String(KeyJob, name) }
func Target(path string) slog.Attr    { return slog.String(KeyTarget, path) }
func Targets(n int) slog.Attr         { return slog.Int(KeyTargets, n) }
func Lang(lang string) slog.Attr      { return slog.String(KeyLang, lang) }
func Post(source string) slog.Attr    { return slog.String(KeyPost, source) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Backend(b string) slog.Attr      { return slog.String(KeyBackend, b) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
