package component

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/content"
	"github.com/sys27/garden/internal/markup"
)

// PageTitle links back to the site root.
type PageTitle struct{}

func (PageTitle) Name() string { return "PageTitle" }

func (PageTitle) Render(ctx *RenderContext) ([]*html.Node, error) {
	return nodes(markup.El("h2", markup.Attr("class", "page-title"),
		markup.El("a", markup.Attr("href", ctx.Href("")), markup.Text(ctx.Site.Title)),
	)), nil
}

// Spacer fills the remaining space of a flex column.
type Spacer struct{}

func (Spacer) Name() string { return "Spacer" }

func (Spacer) Render(*RenderContext) ([]*html.Node, error) {
	return nodes(markup.El("div", markup.Attr("class", "spacer"))), nil
}

// Search renders the search button and the dialog search.js drives.
type Search struct {
	Placeholder string
}

func (Search) Name() string { return "Search" }

func (s Search) Render(ctx *RenderContext) ([]*html.Node, error) {
	placeholder := s.Placeholder
	if placeholder == "" {
		placeholder = "Search for something"
	}
	return nodes(markup.El("div", markup.Attr("class", "search"),
		markup.El("button", markup.Attr("class", "search-button", "id", "search-button", "type", "button"),
			markup.El("p", nil, markup.Text("Search")),
		),
		markup.El("div", markup.Attr(
			"id", "search-container",
			"data-index", ctx.StaticHref("contentIndex.json"),
			"data-root", ctx.Href(""),
		),
			markup.El("div", markup.Attr("id", "search-space"),
				markup.El("input", markup.Attr(
					"autocomplete", "off",
					"id", "search-bar",
					"name", "search",
					"type", "text",
					"aria-label", placeholder,
					"placeholder", placeholder,
				)),
				markup.El("div", markup.Attr("id", "search-layout")),
			),
		),
	)), nil
}

// Darkmode renders the theme toggle driven by darkmode.js.
type Darkmode struct{}

func (Darkmode) Name() string { return "Darkmode" }

func (Darkmode) Render(*RenderContext) ([]*html.Node, error) {
	return nodes(markup.El("button", markup.Attr("class", "darkmode", "id", "darkmode", "type", "button", "aria-label", "Toggle dark mode"),
		markup.El("span", markup.Attr("class", "dayIcon"), markup.Text("☀")),
		markup.El("span", markup.Attr("class", "nightIcon"), markup.Text("☾")),
	)), nil
}

// ArticleTitle renders the page title as the article heading.
type ArticleTitle struct{}

func (ArticleTitle) Name() string { return "ArticleTitle" }

func (ArticleTitle) Render(ctx *RenderContext) ([]*html.Node, error) {
	if ctx.Page == nil || ctx.Page.Title == "" {
		return nil, nil
	}
	return nodes(markup.El("h1", markup.Attr("class", "article-title"), markup.Text(ctx.Page.Title))), nil
}

// ContentMeta shows the date and reading time of a note, or the item count
// of a list page.
type ContentMeta struct{}

func (ContentMeta) Name() string { return "ContentMeta" }

func (ContentMeta) Render(ctx *RenderContext) ([]*html.Node, error) {
	var parts []string
	switch kind := ctx.Kind(); {
	case kind == content.KindContent:
		doc := ctx.Doc()
		if doc == nil {
			return nil, nil
		}
		if d := doc.Date(); !d.IsZero() {
			parts = append(parts, FormatDate(d))
		}
		parts = append(parts, fmt.Sprintf("%d min read", doc.ReadingMinutes()))
	case kind == content.KindTagIndex:
		parts = append(parts, plural(len(ctx.Page.Tags), "tag"))
	case kind.IsList():
		parts = append(parts, plural(len(ctx.Page.Children)+len(ctx.Page.Subfolders), "item"))
	default:
		return nil, nil
	}

	p := markup.El("p", markup.Attr("class", "content-meta"))
	for _, part := range parts {
		markup.Append(p, markup.El("span", nil, markup.Text(part)))
	}
	return nodes(p), nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// Footer renders the attribution line and the configured links in order.
type Footer struct {
	Links []config.Link
}

func (Footer) Name() string { return "Footer" }

func (f Footer) Render(ctx *RenderContext) ([]*html.Node, error) {
	year := ctx.BuildTime.Year()
	list := markup.El("ul", nil)
	for _, l := range f.Links {
		markup.Append(list, markup.El("li", nil, markup.El("a", markup.Attr("href", l.URL), markup.Text(l.Label))))
	}
	return nodes(markup.El("footer", nil,
		markup.El("p", nil, markup.Text(fmt.Sprintf("Created with garden © %d", year))),
		list,
	)), nil
}
