// Package preview serves the built garden locally, rebuilding it when the
// content changes and telling open pages to reload.
package preview

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/logfields"
	"github.com/sys27/garden/internal/site"
)

// Builder rebuilds the site.
type Builder interface {
	Build(ctx context.Context) (*site.Report, error)
}

// Options configures a preview session.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr       string
	ContentDir string
	OutputDir  string
	// Watch enables rebuilds on content changes.
	Watch bool
	// RebuildEvery schedules periodic rebuilds when positive.
	RebuildEvery time.Duration
	// Registry, when set, is served on /metrics.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// buildStatus tracks the outcome of the latest build.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *site.Report
	hasGoodBuild bool
}

func (bs *buildStatus) set(report *site.Report, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastReport = report
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) get() (report *site.Report, err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastReport, bs.lastError, bs.hasGoodBuild
}

// Preview is one running preview session.
type Preview struct {
	builder Builder
	opts    Options
	hub     *ReloadHub
	status  *buildStatus
	logger  *slog.Logger
}

// New creates a preview session for builder.
func New(builder Builder, opts Options) *Preview {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if abs, err := filepath.Abs(opts.OutputDir); err == nil {
		opts.OutputDir = abs
	}
	if abs, err := filepath.Abs(opts.ContentDir); err == nil {
		opts.ContentDir = abs
	}
	return &Preview{
		builder: builder,
		opts:    opts,
		hub:     NewReloadHub(logger),
		status:  &buildStatus{},
		logger:  logger,
	}
}

// Rebuild runs one build and notifies connected pages when it succeeds.
func (p *Preview) Rebuild(ctx context.Context) error {
	report, err := p.builder.Build(ctx)
	p.status.set(report, err)
	if err != nil {
		p.logger.Warn("Rebuild failed", logfields.Error(err))
		return err
	}
	p.hub.Broadcast(ReloadMessage)
	return nil
}

// Run builds the site, serves it and keeps it fresh until ctx is done.
func (p *Preview) Run(ctx context.Context) error {
	if st, err := os.Stat(p.opts.ContentDir); err != nil || !st.IsDir() {
		return ferrors.ConfigError("content directory not found or not a directory").
			WithContext("path", p.opts.ContentDir).Build()
	}

	if err := p.Rebuild(ctx); err != nil {
		p.logger.Error("Initial build failed; serving the last good output", logfields.Error(err))
	}

	ln, err := net.Listen("tcp", p.opts.Addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "listen").
			WithContext("addr", p.opts.Addr).Build()
	}
	srv := &http.Server{Handler: p.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			p.logger.Error("Preview server stopped", logfields.Error(serveErr))
		}
	}()
	p.logger.Info("Preview server listening", slog.String("url", "http://"+ln.Addr().String()))

	rebuildReq, trigger := newDebouncer(DebounceDelay)
	p.startRebuildWorker(ctx, rebuildReq)

	if p.opts.RebuildEvery > 0 {
		scheduler, schedErr := p.schedule(rebuildReq)
		if schedErr != nil {
			p.shutdown(srv)
			return schedErr
		}
		defer func() { _ = scheduler.Shutdown() }()
	}

	if !p.opts.Watch {
		<-ctx.Done()
		p.shutdown(srv)
		return nil
	}

	watcher, err := newWatcher(p.opts.ContentDir, p.skipDir, p.logger)
	if err != nil {
		p.shutdown(srv)
		return err
	}
	defer func() { _ = watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			p.shutdown(srv)
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				p.shutdown(srv)
				return nil
			}
			p.handleFileEvent(watcher, ev, trigger)
		case werr, ok := <-watcher.Errors:
			if !ok {
				p.shutdown(srv)
				return nil
			}
			p.logger.Warn("Watcher error", logfields.Error(werr))
		}
	}
}

// schedule registers the periodic rebuild job.
func (p *Preview) schedule(rebuildReq chan struct{}) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(p.opts.RebuildEvery),
		gocron.NewTask(func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "schedule periodic rebuild").
			WithContext("interval", p.opts.RebuildEvery.String()).Build()
	}
	s.Start()
	p.logger.Info("Scheduled periodic rebuilds", slog.Duration("interval", p.opts.RebuildEvery))
	return s, nil
}

// startRebuildWorker runs one rebuild at a time. rebuildReq holds at most
// one queued request, so changes made during a rebuild collapse into a
// single follow-up rebuild.
func (p *Preview) startRebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				p.logger.Info("Change detected; rebuilding site")
				_ = p.Rebuild(ctx)
			}
		}
	}()
}

func (p *Preview) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || p.skipDir(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name, p.skipDir, p.logger)
		}
	}
	p.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// skipDir keeps the watcher out of the output directory when it lives
// inside the content directory.
func (p *Preview) skipDir(path string) bool {
	return within(path, p.opts.OutputDir)
}

func (p *Preview) shutdown(srv *http.Server) {
	p.logger.Info("Shutting down preview server")
	p.hub.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		p.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
}
