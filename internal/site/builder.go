// Package site builds the garden: it discovers notes, resolves their dates
// and links, assembles every page from the layout set and writes the result
// to the output directory.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sys27/garden/internal/component"
	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/content"
	"github.com/sys27/garden/internal/emit"
	"github.com/sys27/garden/internal/gitdates"
	"github.com/sys27/garden/internal/layout"
	"github.com/sys27/garden/internal/logfields"
	"github.com/sys27/garden/internal/markdown"
	"github.com/sys27/garden/internal/metrics"
	"github.com/sys27/garden/internal/notify"
	"github.com/sys27/garden/internal/parallel"
	"github.com/sys27/garden/internal/paths"
	"github.com/sys27/garden/internal/state"
	"github.com/sys27/garden/internal/util/sets"
)

// Builder runs full site builds. One Builder serves many builds; concurrent
// calls to Build are serialized.
type Builder struct {
	cfg        *config.Config
	renderer   *Renderer
	converter  *markdown.Converter
	writer     *emit.Writer
	recorder   metrics.Recorder
	notifier   notify.Notifier
	store      state.Store
	logger     *slog.Logger
	liveReload bool
	now        func() time.Time

	mu sync.Mutex
}

// NewBuilder creates a builder for cfg using the default layout set.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:       cfg,
		renderer:  &Renderer{Layouts: layout.Defaults(cfg)},
		converter: markdown.NewConverter(markdown.Options{Sanitize: cfg.Build.Sanitize, Wikilinks: true}),
		writer:    emit.NewWriter(cfg.Output.Directory),
		recorder:  metrics.NoopRecorder{},
		notifier:  notify.Noop{},
		logger:    slog.Default(),
		now:       time.Now,
	}
}

// SetRecorder injects a metrics recorder. Returns the builder for chaining.
func (b *Builder) SetRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	return b
}

// SetNotifier injects the build-completed notifier.
func (b *Builder) SetNotifier(n notify.Notifier) *Builder {
	if n == nil {
		n = notify.Noop{}
	}
	b.notifier = n
	return b
}

// SetStore injects the state store. A nil store disables state tracking.
func (b *Builder) SetStore(s state.Store) *Builder {
	b.store = s
	return b
}

// SetLogger replaces the logger.
func (b *Builder) SetLogger(l *slog.Logger) *Builder {
	if l != nil {
		b.logger = l
	}
	return b
}

// SetLayouts replaces the layout set.
func (b *Builder) SetLayouts(s layout.Set) *Builder {
	b.renderer = &Renderer{Layouts: s}
	return b
}

// SetLiveReload makes every page load the preview reload script.
func (b *Builder) SetLiveReload(on bool) *Builder {
	b.liveReload = on
	return b
}

// OutputDir is the directory the site is written to.
func (b *Builder) OutputDir() string { return b.writer.Dir() }

// Stage names a step of the build.
type Stage string

const (
	StageDiscover Stage = "discover"
	StageParse    Stage = "parse"
	StageDates    Stage = "dates"
	StageLinks    Stage = "links"
	StageRender   Stage = "render"
	StageEmit     Stage = "emit"
)

// Report summarizes one build.
type Report struct {
	BuildID        string
	StartedAt      time.Time
	Duration       time.Duration
	Documents      int
	Assets         int
	Pages          int
	PagesByKind    map[content.Kind]int
	Changed        int
	Redirects      int
	BrokenLinks    []notify.BrokenLink
	StageDurations map[Stage]time.Duration
	Outcome        metrics.BuildOutcomeLabel
}

// buildState carries intermediate results between stages.
type buildState struct {
	report   *Report
	logger   *slog.Logger
	notes    []content.Source
	assets   []content.Source
	docs     []*content.Document
	pages    []*content.Page
	outgoing map[paths.Slug][]paths.Slug
}

type stageDef struct {
	name Stage
	fn   func(ctx context.Context, bs *buildState) error
}

// Build runs a full build and writes the site. The report is returned
// even when the build fails.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	report := &Report{
		BuildID:        uuid.NewString(),
		StartedAt:      b.now(),
		PagesByKind:    make(map[content.Kind]int),
		StageDurations: make(map[Stage]time.Duration),
	}
	bs := &buildState{
		report:   report,
		logger:   b.logger.With(logfields.BuildID(report.BuildID)),
		outgoing: make(map[paths.Slug][]paths.Slug),
	}
	bs.logger.Info("Starting build",
		slog.String("content", b.cfg.Content.Directory),
		slog.String("output", b.cfg.Output.Directory))

	err := b.runStages(ctx, bs, []stageDef{
		{StageDiscover, b.stageDiscover},
		{StageParse, b.stageParse},
		{StageDates, b.stageDates},
		{StageLinks, b.stageLinks},
		{StageRender, b.stageRender},
		{StageEmit, b.stageEmit},
	})
	b.finish(ctx, bs, err)
	return report, err
}

func (b *Builder) runStages(ctx context.Context, bs *buildState, stages []stageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			b.recorder.IncStageResult(string(st.name), metrics.ResultCanceled)
			return err
		}
		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)
		bs.report.StageDurations[st.name] = dur
		b.recorder.ObserveStageDuration(string(st.name), dur)

		switch {
		case err == nil:
			b.recorder.IncStageResult(string(st.name), metrics.ResultSuccess)
			bs.logger.Debug("Stage complete", logfields.Stage(string(st.name)), logfields.DurationMS(float64(dur.Microseconds())/1000))
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			b.recorder.IncStageResult(string(st.name), metrics.ResultCanceled)
			return err
		default:
			b.recorder.IncStageResult(string(st.name), metrics.ResultFatal)
			return fmt.Errorf("%s stage: %w", st.name, err)
		}
	}
	return nil
}

func (b *Builder) finish(ctx context.Context, bs *buildState, err error) {
	report := bs.report
	report.Duration = b.now().Sub(report.StartedAt)

	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		report.Outcome = metrics.BuildOutcomeCanceled
	case err != nil:
		report.Outcome = metrics.BuildOutcomeFailed
	case len(report.BrokenLinks) > 0:
		report.Outcome = metrics.BuildOutcomeWarning
	default:
		report.Outcome = metrics.BuildOutcomeSuccess
	}

	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(report.Outcome)
	b.recorder.SetBrokenLinks(len(report.BrokenLinks))

	// Bookkeeping outlives a canceled build.
	bg := context.WithoutCancel(ctx)
	if b.store != nil {
		if recErr := b.store.RecordBuild(bg, state.Build{
			ID:        report.BuildID,
			StartedAt: report.StartedAt,
			Duration:  report.Duration,
			Pages:     report.Pages,
			Changed:   report.Changed,
			Status:    string(report.Outcome),
		}); recErr != nil {
			bs.logger.Warn("Failed to record build", logfields.Error(recErr))
		}
	}

	ev := notify.BuildEvent{
		BuildID:     report.BuildID,
		StartedAt:   report.StartedAt,
		DurationMS:  report.Duration.Milliseconds(),
		Pages:       report.Pages,
		Changed:     report.Changed,
		Status:      string(report.Outcome),
		BrokenLinks: report.BrokenLinks,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if nErr := b.notifier.BuildCompleted(bg, ev); nErr != nil {
		bs.logger.Warn("Failed to publish build event", logfields.Error(nErr))
	}

	attrs := []any{
		slog.String("outcome", string(report.Outcome)),
		slog.Int("documents", report.Documents),
		slog.Int("pages", report.Pages),
		slog.Int("changed", report.Changed),
		slog.Int("broken_links", len(report.BrokenLinks)),
		logfields.DurationMS(float64(report.Duration.Microseconds()) / 1000),
	}
	if err != nil {
		bs.logger.Error("Build failed", append(attrs, logfields.Error(err))...)
		return
	}
	bs.logger.Info("Build complete", attrs...)
}

func (b *Builder) discoverOptions() content.DiscoverOptions {
	return content.DiscoverOptions{
		Dir:     b.cfg.Content.Directory,
		Ignore:  b.cfg.Content.Ignore,
		Exclude: []string{b.cfg.Output.Directory},
	}
}

func (b *Builder) loader(drafts bool, logger *slog.Logger) *content.Loader {
	return &content.Loader{
		Converter:   b.converter,
		Concurrency: b.cfg.Build.Concurrency,
		Drafts:      drafts,
		Strict:      b.cfg.Build.Strict,
		Logger:      logger,
	}
}

func (b *Builder) stageDiscover(ctx context.Context, bs *buildState) error {
	notes, assets, err := content.Discover(ctx, b.discoverOptions())
	if err != nil {
		return err
	}
	bs.notes, bs.assets = notes, assets
	bs.report.Assets = len(assets)
	b.recorder.SetDocumentsDiscovered(len(notes))
	bs.logger.Info("Discovered content", logfields.Count(len(notes)), slog.Int("assets", len(assets)))
	return nil
}

func (b *Builder) stageParse(ctx context.Context, bs *buildState) error {
	docs, err := b.loader(b.cfg.Build.Drafts, bs.logger).Load(ctx, bs.notes)
	if err != nil {
		return err
	}
	bs.docs = dedupe(docs, bs.logger)
	bs.report.Documents = len(bs.docs)
	return nil
}

// dedupe sorts docs by slug and drops all but the first document of a slug.
func dedupe(docs []*content.Document, logger *slog.Logger) []*content.Document {
	content.SortBySlug(docs)
	out := docs[:0]
	for i, d := range docs {
		if i > 0 && d.Slug == docs[i-1].Slug {
			logger.Warn("Duplicate slug, keeping the first document",
				logfields.Slug(d.Slug.String()), logfields.Path(d.RelPath))
			continue
		}
		out = append(out, d)
	}
	return out
}

func (b *Builder) stageDates(ctx context.Context, bs *buildState) error {
	resolver := &content.DateResolver{
		Sources: b.cfg.Build.DateSources,
		Store:   b.store,
		Now:     b.now,
		Logger:  bs.logger,
	}
	for _, src := range b.cfg.Build.DateSources {
		if src != config.DateSourceGit {
			continue
		}
		idx, err := gitdates.Load(ctx, b.cfg.Content.Directory)
		switch {
		case errors.Is(err, gitdates.ErrNotRepository):
			bs.logger.Debug("Content is not under git; skipping git dates")
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			bs.logger.Warn("Failed to read git history; skipping git dates", logfields.Error(err))
		default:
			resolver.Git = idx
		}
	}

	// The state store holds a single connection, so documents are resolved in order.
	for _, doc := range bs.docs {
		changed, err := resolver.Resolve(ctx, doc)
		if err != nil {
			return err
		}
		if changed {
			bs.report.Changed++
		}
	}
	return nil
}

func (b *Builder) stageLinks(_ context.Context, bs *buildState) error {
	bs.pages = BuildPages(bs.docs, b.cfg.Site.Locale)
	resolver := newLinkResolver(bs.pages, bs.assets)
	for _, doc := range bs.docs {
		outgoing, broken, err := resolver.rewrite(doc)
		if err != nil {
			return err
		}
		bs.outgoing[doc.Slug] = outgoing
		for _, bl := range broken {
			bs.logger.Warn("Broken internal link", logfields.Slug(bl.Source), slog.String("target", bl.Target))
		}
		bs.report.BrokenLinks = append(bs.report.BrokenLinks, broken...)
	}
	return nil
}

func (b *Builder) stageRender(ctx context.Context, bs *buildState) error {
	if b.cfg.Output.ShouldClean() {
		if err := b.writer.Clean(); err != nil {
			return err
		}
	}

	buildTime := bs.report.StartedAt
	results := parallel.Map(ctx, bs.pages, parallel.Concurrency(b.cfg.Build.Concurrency), func(_ context.Context, page *content.Page) (content.Kind, error) {
		rc := component.NewRenderContext(page, bs.docs, b.cfg.Site, buildTime)
		rc.LiveReload = b.liveReload
		out, err := b.renderer.Render(rc)
		if err != nil {
			return page.Kind, err
		}
		return page.Kind, b.writer.WritePage(page.Slug, out)
	})

	for i, r := range results {
		if r.Err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			bs.logger.Error("Page failed to render",
				logfields.Slug(bs.pages[i].Slug.String()),
				logfields.PageKind(string(bs.pages[i].Kind)),
				logfields.Error(r.Err))
			return r.Err
		}
		bs.report.PagesByKind[r.Value]++
		bs.report.Pages++
	}
	for kind, n := range bs.report.PagesByKind {
		b.recorder.IncPagesRendered(string(kind), n)
	}
	return nil
}

func (b *Builder) stageEmit(ctx context.Context, bs *buildState) error {
	if err := b.writer.WriteStatic(); err != nil {
		return err
	}

	for _, a := range bs.assets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.writer.CopyFile(a.Path, assetOutputPath(a)); err != nil {
			return err
		}
	}

	if err := b.writer.WriteContentIndex(b.contentIndex(bs)); err != nil {
		return err
	}

	taken := make(sets.Set[paths.Slug], len(bs.pages))
	for _, p := range bs.pages {
		taken.Add(p.Slug)
	}
	for _, doc := range bs.docs {
		for _, alias := range doc.Frontmatter.Aliases {
			from, ok := paths.Resolve(doc.Slug, alias)
			if !ok || from == doc.Slug {
				continue
			}
			if !taken.Insert(from) {
				bs.logger.Warn("Alias collides with an existing page",
					logfields.Slug(doc.Slug.String()), slog.String("alias", from.String()))
				continue
			}
			if err := b.writer.WriteRedirect(from, doc.Slug, doc.Title()); err != nil {
				return err
			}
			bs.report.Redirects++
		}
	}
	return nil
}

// assetOutputPath is the output location of a copied asset. HTML files keep
// their page-style location so extensionless links to them work.
func assetOutputPath(a content.Source) string {
	slug := assetSlug(a)
	if strings.EqualFold(path.Ext(a.RelPath), ".html") {
		return slug.OutputFile()
	}
	return slug.String()
}

func (b *Builder) contentIndex(bs *buildState) []emit.IndexEntry {
	entries := make([]emit.IndexEntry, 0, len(bs.pages))
	for _, p := range bs.pages {
		if p.Doc == nil {
			continue
		}
		links := make([]string, 0, len(bs.outgoing[p.Slug]))
		for _, l := range bs.outgoing[p.Slug] {
			links = append(links, l.String())
		}
		entry := emit.IndexEntry{
			Slug:    p.Slug.String(),
			Title:   p.Title,
			Links:   links,
			Tags:    p.Doc.Frontmatter.Tags,
			Content: p.Doc.Text,
		}
		if d := p.Doc.Date(); !d.IsZero() {
			entry.Date = d.UTC().Format(time.RFC3339)
		}
		entries = append(entries, entry)
	}
	return entries
}

// Discover lists every document the build would see, drafts included,
// sorted by slug.
func (b *Builder) Discover(ctx context.Context) ([]*content.Document, error) {
	notes, _, err := content.Discover(ctx, b.discoverOptions())
	if err != nil {
		return nil, err
	}
	docs, err := b.loader(true, b.logger).Load(ctx, notes)
	if err != nil {
		return nil, err
	}
	return dedupe(docs, b.logger), nil
}
