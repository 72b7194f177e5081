package site

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/component"
	"github.com/sys27/garden/internal/layout"
	"github.com/sys27/garden/internal/markup"
)

// Renderer assembles full HTML documents from the layout set.
type Renderer struct {
	Layouts layout.Set
}

// Render renders the page described by ctx into a complete HTML document.
// Slots render in page order, so the body always renders before the
// after-body widgets and can claim the comment embed first.
func (r *Renderer) Render(ctx *component.RenderContext) ([]byte, error) {
	full, err := r.Layouts.ForKind(ctx.Kind())
	if err != nil {
		return nil, err
	}

	rendered := make(map[string][]*html.Node, 8)
	for _, slot := range full.Slots() {
		for _, c := range slot.Components {
			out, err := c.Render(ctx)
			if err != nil {
				return nil, fmt.Errorf("render %s in %s of %q: %w", c.Name(), slot.Name, ctx.Slug(), err)
			}
			rendered[slot.Name] = append(rendered[slot.Name], out...)
		}
	}

	lang := ctx.Site.Locale
	if lang == "" {
		lang = "en-US"
	}

	center := markup.El("div", markup.Attr("class", "center"),
		markup.El("div", markup.Attr("class", "page-header"),
			markup.Append(markup.El("header", nil), rendered[layout.SlotHeader]...),
			markup.Append(markup.El("div", markup.Attr("class", "popover-hint")), rendered[layout.SlotBeforeBody]...),
		),
	)
	markup.Append(center, rendered[layout.SlotBody]...)
	markup.Append(center,
		markup.El("hr", nil),
		markup.Append(markup.El("div", markup.Attr("class", "page-footer")), rendered[layout.SlotAfterBody]...),
	)
	markup.Append(center, rendered[layout.SlotFooter]...)

	body := markup.El("body", markup.Attr("data-slug", ctx.Slug().String()),
		markup.El("div", markup.Attr("id", "quartz-root", "class", "page"),
			markup.El("div", markup.Attr("id", "quartz-body"),
				markup.Append(markup.El("div", markup.Attr("class", "left sidebar")), rendered[layout.SlotLeft]...),
				center,
				markup.Append(markup.El("div", markup.Attr("class", "right sidebar")), rendered[layout.SlotRight]...),
			),
		),
	)

	doc := markup.El("html", markup.Attr("lang", lang))
	markup.Append(doc, rendered[layout.SlotHead]...)
	markup.Append(doc, body)

	out, err := markup.Render(markup.Doctype(), doc)
	if err != nil {
		return nil, fmt.Errorf("serialize %q: %w", ctx.Slug(), err)
	}
	return []byte(out), nil
}
