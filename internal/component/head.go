package component

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/markup"
)

const descriptionRunes = 160

// Head renders the document <head>.
type Head struct{}

func (Head) Name() string { return "Head" }

func (Head) Render(ctx *RenderContext) ([]*html.Node, error) {
	title := ctx.Title()
	description := ctx.Site.Description
	if doc := ctx.Doc(); doc != nil {
		if d := doc.Description(descriptionRunes); d != "" {
			description = d
		}
	}

	head := markup.El("head", nil,
		markup.El("title", nil, markup.Text(title)),
		markup.El("meta", markup.Attr("charset", "utf-8")),
		markup.El("meta", markup.Attr("name", "viewport", "content", "width=device-width, initial-scale=1.0")),
		markup.El("meta", markup.Attr("name", "description", "content", description)),
		markup.El("meta", markup.Attr("property", "og:title", "content", title)),
		markup.El("meta", markup.Attr("property", "og:description", "content", description)),
	)
	if base := strings.TrimRight(ctx.Site.BaseURL, "/"); base != "" {
		url := base + "/" + ctx.Slug().String()
		markup.Append(head,
			markup.El("meta", markup.Attr("property", "og:url", "content", url)),
			markup.El("link", markup.Attr("rel", "canonical", "href", url)),
		)
	}
	markup.Append(head,
		markup.El("link", markup.Attr("rel", "stylesheet", "href", ctx.StaticHref("index.css"))),
		// Loaded synchronously so the saved theme applies before first paint.
		markup.El("script", markup.Attr("src", ctx.StaticHref("darkmode.js"))),
		markup.El("script", markup.Attr("src", ctx.StaticHref("search.js"), "defer")),
	)
	if ctx.LiveReload {
		markup.Append(head, markup.El("script", markup.Attr("src", ctx.StaticHref("reload.js"), "defer")))
	}
	return nodes(head), nil
}
