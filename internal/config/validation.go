package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
)

// Validate checks a defaulted configuration and returns the first problem
// found as a classified validation error.
func Validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateSite,
		validatePaths,
		validateBuild,
		validateComments,
		validateFooter,
		validateRecentNotes,
		validatePreview,
		validateNotify,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, message string) error {
	return ferrors.ValidationError(message).WithContext("field", field).Build()
}

func validateSite(cfg *Config) error {
	if cfg.Site.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("site.base_url", "base_url must be an absolute URL")
	}
	return nil
}

func validatePaths(cfg *Config) error {
	contentAbs, err := filepath.Abs(cfg.Content.Directory)
	if err != nil {
		return invalid("content.directory", "content directory cannot be resolved")
	}
	outputAbs, err := filepath.Abs(cfg.Output.Directory)
	if err != nil {
		return invalid("output.directory", "output directory cannot be resolved")
	}
	if contentAbs == outputAbs {
		return invalid("output.directory", "output directory must differ from the content directory")
	}
	if rel, err := filepath.Rel(outputAbs, contentAbs); err == nil && !strings.HasPrefix(rel, "..") {
		return invalid("output.directory", "output directory must not contain the content directory")
	}
	for _, pattern := range cfg.Content.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return invalid("content.ignore", "malformed ignore pattern "+pattern)
		}
	}
	return nil
}

func validateBuild(cfg *Config) error {
	if cfg.Build.Concurrency < 0 {
		return invalid("build.concurrency", "concurrency must not be negative")
	}
	for _, ds := range cfg.Build.DateSources {
		if _, err := ParseDateSource(string(ds)); err != nil {
			return invalid("build.date_sources", err.Error())
		}
	}
	return nil
}

func validateComments(cfg *Config) error {
	c := cfg.Comments
	if c.Provider != DefaultGiscusProvider {
		return invalid("comments.provider", "unsupported comments provider "+c.Provider)
	}
	if owner, name, ok := strings.Cut(c.Repo, "/"); !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return invalid("comments.repo", "repo must be in owner/name form")
	}
	if c.RepoID == "" || c.CategoryID == "" || c.Category == "" {
		return invalid("comments", "repo_id, category and category_id are required")
	}
	if _, err := giscusMappings.parse(c.Mapping); err != nil {
		return invalid("comments.mapping", err.Error())
	}
	if _, err := giscusMappings.parse(c.EmbedMapping); err != nil {
		return invalid("comments.embed_mapping", err.Error())
	}
	if _, err := giscusInputPositions.parse(c.InputPosition); err != nil {
		return invalid("comments.input_position", err.Error())
	}
	if _, err := giscusLoading.parse(c.Loading); err != nil {
		return invalid("comments.loading", err.Error())
	}
	return nil
}

func validateFooter(cfg *Config) error {
	seen := make(map[string]struct{}, len(cfg.Footer.Links))
	for _, l := range cfg.Footer.Links {
		if l.Label == "" {
			return invalid("footer.links", "footer link label is required")
		}
		if _, dup := seen[l.Label]; dup {
			return invalid("footer.links", "duplicate footer link "+l.Label)
		}
		seen[l.Label] = struct{}{}
		u, err := url.Parse(l.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return invalid("footer.links", "footer link "+l.Label+" must be an http(s) URL")
		}
	}
	return nil
}

func validateRecentNotes(cfg *Config) error {
	if cfg.RecentNotes.Limit < 0 {
		return invalid("recent_notes.limit", "limit must be positive")
	}
	return nil
}

func validatePreview(cfg *Config) error {
	if cfg.Preview.Port < 1 || cfg.Preview.Port > 65535 {
		return invalid("preview.port", "port must be between 1 and 65535")
	}
	if cfg.Preview.RebuildInterval != "" {
		d, err := time.ParseDuration(cfg.Preview.RebuildInterval)
		if err != nil {
			return invalid("preview.rebuild_interval", "rebuild_interval must be a duration such as 10m")
		}
		if d < time.Second {
			return invalid("preview.rebuild_interval", "rebuild_interval must be at least 1s")
		}
	}
	return nil
}

func validateNotify(cfg *Config) error {
	if cfg.Notify.NATSURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.Notify.NATSURL)
	if err != nil || u.Scheme == "" {
		return invalid("notify.nats_url", "nats_url must be a URL such as nats://localhost:4222")
	}
	return nil
}

// RebuildEvery returns the parsed preview rebuild interval, or 0 when disabled.
func (p PreviewConfig) RebuildEvery() time.Duration {
	if p.RebuildInterval == "" {
		return 0
	}
	d, _ := time.ParseDuration(p.RebuildInterval)
	return d
}
