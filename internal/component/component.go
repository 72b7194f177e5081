// Package component holds the page components a layout is assembled from.
//
// A component turns a RenderContext into HTML nodes. Components are plain
// values configured once and never mutated, so one instance serves every
// page of a build, concurrently.
package component

import (
	"time"

	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/content"
	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/frontmatter"
	"github.com/sys27/garden/internal/paths"
)

// Component renders one piece of a page.
type Component interface {
	Name() string
	Render(ctx *RenderContext) ([]*html.Node, error)
}

// ErrMissingFilePath is returned when a document is rendered without the
// path of its source file.
var ErrMissingFilePath = ferrors.RenderError("render context has no file path").Build()

// RenderContext carries everything known about the page being rendered.
// It is built fresh for every page and discarded afterwards.
type RenderContext struct {
	// FilePath is the source file of the document. Required by Content.
	FilePath string
	// HTML is the document body rendered from markdown.
	HTML        []byte
	Frontmatter frontmatter.Frontmatter
	Page        *content.Page
	// All holds every published document, sorted by slug.
	All       []*content.Document
	Site      config.SiteConfig
	BuildTime time.Time
	// LiveReload adds the preview reload script to the head.
	LiveReload bool

	embedMounted bool
}

// NewRenderContext builds the context for page.
func NewRenderContext(page *content.Page, all []*content.Document, site config.SiteConfig, buildTime time.Time) *RenderContext {
	ctx := &RenderContext{
		FilePath:  page.FilePath(),
		Page:      page,
		All:       all,
		Site:      site,
		BuildTime: buildTime,
	}
	if page.Doc != nil {
		ctx.HTML = page.Doc.HTML
		ctx.Frontmatter = page.Doc.Frontmatter
	}
	return ctx
}

// Slug is the slug of the page being rendered.
func (c *RenderContext) Slug() paths.Slug {
	if c.Page == nil {
		return ""
	}
	return c.Page.Slug
}

// Doc is the document backing the page, if any.
func (c *RenderContext) Doc() *content.Document {
	if c.Page == nil {
		return nil
	}
	return c.Page.Doc
}

// Kind is the kind of the page being rendered.
func (c *RenderContext) Kind() content.Kind {
	if c.Page == nil {
		return content.KindContent
	}
	return c.Page.Kind
}

// Title is the display title of the page.
func (c *RenderContext) Title() string {
	if c.Page != nil && c.Page.Title != "" {
		return c.Page.Title
	}
	return c.Site.Title
}

// Href links from the current page to another page.
func (c *RenderContext) Href(to paths.Slug) string { return paths.Href(c.Slug(), to) }

// StaticHref links from the current page to a static asset.
func (c *RenderContext) StaticHref(name string) string { return paths.StaticHref(c.Slug(), name) }

// EmbedMounted reports whether a comment embed is already on the page.
func (c *RenderContext) EmbedMounted() bool { return c.embedMounted }

func (c *RenderContext) markEmbedMounted() { c.embedMounted = true }

// FormatDate is the date format used across pages.
func FormatDate(t time.Time) string { return t.Format("Jan 02, 2006") }

func nodes(n ...*html.Node) []*html.Node { return n }
