// Package logfields names the structured log keys garden emits.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeySlug       = "slug"
	KeyPageKind   = "page_kind"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyMethod     = "method"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func PageKind(k string) slog.Attr     { return slog.String(KeyPageKind, k) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
