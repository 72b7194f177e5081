package site

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sys27/garden/internal/component"
	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/content"
	"github.com/sys27/garden/internal/layout"
)

var renderTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testRenderer() (*Renderer, *config.Config) {
	cfg := config.Default()
	cfg.Site.Title = "Garden"
	return &Renderer{Layouts: layout.Defaults(cfg)}, cfg
}

func TestRenderContentPage(t *testing.T) {
	r, cfg := testRenderer()
	d := note("notes/go.md", day(2), "lang")
	d.Frontmatter.Title = "Go"
	d.Frontmatter.CSSClasses = []string{"wide", "draft"}
	d.HTML = []byte("<p>hello</p>")
	all := []*content.Document{d}
	page := &content.Page{Slug: d.Slug, Kind: content.KindContent, Title: "Go", Doc: d}

	out, err := r.Render(component.NewRenderContext(page, all, cfg.Site, renderTime))
	require.NoError(t, err)
	html := string(out)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html><html lang=\"en-US\"><head>"))
	assert.Contains(t, html, `<div id="quartz-root" class="page"><div id="quartz-body"><div class="left sidebar">`)
	assert.Contains(t, html, `<article class="popover-hint wide draft"><p>hello</p></article>`)
	assert.Contains(t, html, `<div class="right sidebar">`)
	assert.Equal(t, 1, strings.Count(html, `class="giscus"`), "embed renders, after-body comments skip")

	left := strings.Index(html, `class="left sidebar"`)
	center := strings.Index(html, `class="center"`)
	article := strings.Index(html, "<article")
	footer := strings.Index(html, "<footer")
	right := strings.Index(html, `class="right sidebar"`)
	assert.True(t, left < center && center < article && article < footer && footer < right, "slot order")
}

func TestRenderListPageHasEmptyRightSidebar(t *testing.T) {
	r, cfg := testRenderer()
	child := note("notes/go.md", day(2))
	page := &content.Page{Slug: "notes/", Kind: content.KindFolder, Title: "Notes", Children: []*content.Document{child}}

	out, err := r.Render(component.NewRenderContext(page, []*content.Document{child}, cfg.Site, renderTime))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<div class="right sidebar"></div>`)
	assert.Contains(t, string(out), "1 item under this folder.")
}

func TestRenderMissingFilePath(t *testing.T) {
	r, cfg := testRenderer()
	d := note("notes/go.md", day(2))
	page := &content.Page{Slug: d.Slug, Kind: content.KindContent, Doc: d}
	ctx := component.NewRenderContext(page, nil, cfg.Site, renderTime)
	ctx.FilePath = ""

	out, err := r.Render(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, component.ErrMissingFilePath))
	assert.Nil(t, out)
}

func TestRenderUnknownKind(t *testing.T) {
	r, cfg := testRenderer()
	page := &content.Page{Slug: "x", Kind: content.Kind("bogus")}
	_, err := r.Render(component.NewRenderContext(page, nil, cfg.Site, renderTime))
	require.Error(t, err)
}
