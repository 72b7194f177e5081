package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/content"
	"github.com/sys27/garden/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides output.directory)"`
	Clean  bool   `help:"Clean the output directory before building even when output.clean is false"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	b.apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunBuild(ctx, cfg, g)
}

func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Clean {
		on := true
		cfg.Output.Clean = &on
	}
}

// RunBuild builds the site described by cfg and prints a summary.
func RunBuild(ctx context.Context, cfg *config.Config, g *Global) error {
	logger := g.logger()
	builder, cleanup, err := newBuilder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Starting site build", "content", cfg.Content.Directory, "output", builder.OutputDir())
	report, err := builder.Build(ctx)
	if report != nil {
		printReport(g.out(), report)
	}
	return err
}

func printReport(w io.Writer, r *site.Report) {
	_, _ = fmt.Fprintf(w, "Build %s: %s\n", r.BuildID, r.Outcome)
	_, _ = fmt.Fprintf(w, "  documents: %d, assets: %d, pages: %d, redirects: %d, changed: %d\n",
		r.Documents, r.Assets, r.Pages, r.Redirects, r.Changed)

	kinds := make([]string, 0, len(r.PagesByKind))
	for k := range r.PagesByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		_, _ = fmt.Fprintf(w, "  %s pages: %d\n", k, r.PagesByKind[content.Kind(k)])
	}

	if len(r.BrokenLinks) > 0 {
		_, _ = fmt.Fprintf(w, "  broken links: %d\n", len(r.BrokenLinks))
		for _, bl := range r.BrokenLinks {
			_, _ = fmt.Fprintf(w, "    %s -> %s\n", bl.Source, bl.Target)
		}
	}
	_, _ = fmt.Fprintf(w, "  took %s\n", r.Duration.Round(time.Millisecond))
}
