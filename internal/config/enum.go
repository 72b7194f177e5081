package config

import (
	"fmt"
	"sort"
	"strings"
)

// enum maps case-insensitive, trimmed strings onto typed values.
type enum[T comparable] struct {
	name   string
	values map[string]T
	keys   []string
}

func newEnum[T comparable](name string, values map[string]T) *enum[T] {
	e := &enum[T]{name: name, values: make(map[string]T, len(values))}
	for k, v := range values {
		key := strings.ToLower(strings.TrimSpace(k))
		e.values[key] = v
		e.keys = append(e.keys, key)
	}
	sort.Strings(e.keys)
	return e
}

func (e *enum[T]) parse(raw string) (T, error) {
	if v, ok := e.values[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %v", e.name, raw, e.keys)
}

// DateSource names one step of the document date resolution chain.
type DateSource string

const (
	DateSourceFrontmatter DateSource = "frontmatter"
	DateSourceGit         DateSource = "git"
	DateSourceState       DateSource = "state"
	DateSourceFilesystem  DateSource = "filesystem"
)

var dateSources = newEnum("date source", map[string]DateSource{
	"frontmatter": DateSourceFrontmatter,
	"git":         DateSourceGit,
	"state":       DateSourceState,
	"filesystem":  DateSourceFilesystem,
})

// ParseDateSource parses a date source name.
func ParseDateSource(raw string) (DateSource, error) { return dateSources.parse(raw) }

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = newEnum("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
})

// ParseLogLevel parses a log level name.
func ParseLogLevel(raw string) (LogLevel, error) { return logLevels.parse(raw) }

var giscusMappings = newEnum("giscus mapping", map[string]string{
	"pathname": "pathname",
	"url":      "url",
	"title":    "title",
	"og:title": "og:title",
	"specific": "specific",
	"number":   "number",
})

var giscusInputPositions = newEnum("giscus input position", map[string]string{
	"top":    "top",
	"bottom": "bottom",
})

var giscusLoading = newEnum("giscus loading", map[string]string{
	"lazy":  "lazy",
	"eager": "eager",
})
