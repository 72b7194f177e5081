package component

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/content"
	"github.com/sys27/garden/internal/frontmatter"
	"github.com/sys27/garden/internal/markdown"
	"github.com/sys27/garden/internal/markup"
	"github.com/sys27/garden/internal/paths"
)

var buildTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func render(t *testing.T, c Component, ctx *RenderContext) string {
	t.Helper()
	out, err := c.Render(ctx)
	require.NoError(t, err)
	return renderNodes(t, out)
}

func renderNodes(t *testing.T, ns []*html.Node) string {
	t.Helper()
	s, err := markup.Render(ns...)
	require.NoError(t, err)
	return s
}

func doc(slug string, created time.Time, tags ...string) *content.Document {
	s := paths.Slug(slug)
	rel := slug + ".md"
	if s.IsFolder() {
		rel = slug + "index.md"
	}
	return &content.Document{
		Path:        "/content/" + rel,
		RelPath:     rel,
		Slug:        s,
		Frontmatter: frontmatter.Frontmatter{Tags: tags},
		Dates:       content.Dates{Created: created},
	}
}

func contentCtx(d *content.Document, all ...*content.Document) *RenderContext {
	content.SortBySlug(all)
	page := &content.Page{Slug: d.Slug, Kind: content.KindContent, Title: d.Title(), Doc: d}
	return NewRenderContext(page, all, config.SiteConfig{Title: "Garden", Locale: "en-US"}, buildTime)
}

func withHeadings(d *content.Document, hs ...markdown.Heading) *content.Document {
	d.Headings = hs
	return d
}
