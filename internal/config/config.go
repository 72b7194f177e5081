// Package config loads and validates garden.yaml.
//
// Loading order: .env files (godotenv) → read file → ${VAR} expansion →
// YAML decode → defaults → validation. Everything downstream receives a
// fully defaulted *Config and never mutates it.
package config

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/logfields"
)

// Config is the complete site configuration.
type Config struct {
	Site        SiteConfig        `yaml:"site"`
	Content     ContentConfig     `yaml:"content"`
	Output      OutputConfig      `yaml:"output"`
	Build       BuildConfig       `yaml:"build"`
	Comments    Comments          `yaml:"comments"`
	Footer      FooterConfig      `yaml:"footer"`
	RecentNotes RecentNotesConfig `yaml:"recent_notes"`
	State       StateConfig       `yaml:"state"`
	Preview     PreviewConfig     `yaml:"preview"`
	Notify      NotifyConfig      `yaml:"notify"`
}

// SiteConfig holds site-wide metadata rendered into every page.
type SiteConfig struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Locale      string `yaml:"locale,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ContentConfig locates the markdown sources.
type ContentConfig struct {
	Directory string   `yaml:"directory"`
	Ignore    []string `yaml:"ignore,omitempty"` // glob patterns relative to Directory
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     *bool  `yaml:"clean,omitempty"` // Clean output directory before build (default true)
}

// ShouldClean reports whether the output directory is wiped before a build.
func (o OutputConfig) ShouldClean() bool { return o.Clean == nil || *o.Clean }

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	Concurrency int          `yaml:"concurrency,omitempty"` // 0 = runtime.NumCPU()
	Strict      bool         `yaml:"strict,omitempty"`      // fail on document errors instead of skipping
	Drafts      bool         `yaml:"drafts,omitempty"`      // include draft: true documents
	Sanitize    bool         `yaml:"sanitize,omitempty"`    // sanitize rendered document HTML
	DateSources []DateSource `yaml:"date_sources,omitempty"`
}

// FooterConfig lists outbound links rendered in the footer.
type FooterConfig struct {
	Links []Link `yaml:"links"`
}

// Link is an immutable label → URL pair.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// RecentNotesConfig configures the "recent notes" listing.
type RecentNotesConfig struct {
	Title string `yaml:"title"`
	Limit int    `yaml:"limit"`
}

// StateConfig locates the sqlite state database.
type StateConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Enabled reports whether the state store should be opened.
func (s StateConfig) Enabled() bool { return !s.Disabled && s.Path != "" }

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Port            int    `yaml:"port"`
	RebuildInterval string `yaml:"rebuild_interval,omitempty"` // Go duration; empty disables periodic rebuilds
	Metrics         bool   `yaml:"metrics"`
}

// NotifyConfig configures build-completed notifications. An empty URL disables them.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration file").
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse decodes, defaults and validates configuration bytes. ${VAR}
// references are expanded from the environment before decoding.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode configuration").Fatal().Build()
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// loadEnvFiles loads .env and .env.local when present. Variables already set
// in the environment win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load env file", logfields.Path(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(name))
	}
}
