// Package commands implements the garden CLI subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/logfields"
	"github.com/sys27/garden/internal/notify"
	"github.com/sys27/garden/internal/site"
	"github.com/sys27/garden/internal/state"
)

// LogLevelEnv overrides the level chosen by --verbose.
const LogLevelEnv = "GARDEN_LOG_LEVEL"

// Global is shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing command output; nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"garden.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site into the output directory"`
	Preview  PreviewCmd  `cmd:"" help:"Build, serve and live-reload the site while editing"`
	Discover DiscoverCmd `cmd:"" help:"List the documents a build would see"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level, err := c.logLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func (c *CLI) logLevel() (slog.Level, error) {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	raw := strings.TrimSpace(os.Getenv(LogLevelEnv))
	if raw == "" {
		return level, nil
	}
	parsed, err := config.ParseLogLevel(raw)
	if err != nil {
		return level, err
	}
	switch parsed {
	case config.LogLevelDebug:
		return slog.LevelDebug, nil
	case config.LogLevelWarn:
		return slog.LevelWarn, nil
	case config.LogLevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, nil
	}
}

// newBuilder wires the optional state store and notifier around a site
// builder. The returned cleanup closes whatever was opened.
func newBuilder(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*site.Builder, func(), error) {
	b := site.NewBuilder(cfg).SetLogger(logger)
	var closers []func() error

	if cfg.State.Enabled() {
		store, err := state.OpenSQLite(cfg.State.Path)
		if err != nil {
			return nil, func() {}, err
		}
		b.SetStore(store)
		closers = append(closers, store.Close)
	}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.Connect(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			logger.WarnContext(ctx, "Build notifications disabled", logfields.Error(err))
		} else {
			b.SetNotifier(pub)
			closers = append(closers, pub.Close)
		}
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Cleanup failed", logfields.Error(err))
			}
		}
	}
	return b, cleanup, nil
}
