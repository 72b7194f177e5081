package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/metrics"
	"github.com/sys27/garden/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Port    int  `short:"p" help:"Port to listen on (overrides preview.port)"`
	NoWatch bool `name:"no-watch" help:"Serve without rebuilding on content changes"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return p.run(ctx, cfg, g)
}

func (p *PreviewCmd) run(ctx context.Context, cfg *config.Config, g *Global) error {
	logger := g.logger()
	builder, cleanup, err := newBuilder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	builder.SetLiveReload(true)

	var reg *prom.Registry
	if cfg.Preview.Metrics {
		reg = prom.NewRegistry()
		builder.SetRecorder(metrics.NewPrometheusRecorder(reg))
	}

	port := cfg.Preview.Port
	if p.Port > 0 {
		port = p.Port
	}

	session := preview.New(builder, preview.Options{
		Addr:         fmt.Sprintf(":%d", port),
		ContentDir:   cfg.Content.Directory,
		OutputDir:    builder.OutputDir(),
		Watch:        !p.NoWatch,
		RebuildEvery: cfg.Preview.RebuildEvery(),
		Registry:     reg,
		Logger:       logger,
	})
	return session.Run(ctx)
}
