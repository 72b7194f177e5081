package component

import (
	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/content"
	"github.com/sys27/garden/internal/markup"
	"github.com/sys27/garden/internal/paths"
)

// RecentNotes lists the newest documents accepted by Filter.
type RecentNotes struct {
	Title  string
	Limit  int
	Filter func(*content.Document) bool
}

// NotFolderPage is the filter that keeps folder index notes out of listings.
func NotFolderPage(d *content.Document) bool { return !paths.IsFolderPath(d.Slug.String()) }

func (RecentNotes) Name() string { return "RecentNotes" }

// Select returns the documents the component would list.
func (r RecentNotes) Select(all []*content.Document) []*content.Document {
	picked := make([]*content.Document, 0, len(all))
	for _, d := range all {
		if r.Filter == nil || r.Filter(d) {
			picked = append(picked, d)
		}
	}
	content.SortByDate(picked)
	if r.Limit > 0 && len(picked) > r.Limit {
		picked = picked[:r.Limit]
	}
	return picked
}

func (r RecentNotes) Render(ctx *RenderContext) ([]*html.Node, error) {
	picked := r.Select(ctx.All)
	if len(picked) == 0 {
		return nil, nil
	}
	list := markup.El("ul", markup.Attr("class", "recent-ul"))
	for _, d := range picked {
		markup.Append(list, markup.El("li", markup.Attr("class", "recent-li"), section(ctx, d)))
	}
	return nodes(markup.El("div", markup.Attr("class", "recent-notes"),
		markup.El("h3", nil, markup.Text(r.Title)),
		list,
	)), nil
}

// section renders the summary of one document used by listings.
func section(ctx *RenderContext, d *content.Document) *html.Node {
	s := markup.El("div", markup.Attr("class", "section"))
	if date := d.Date(); !date.IsZero() {
		markup.Append(s, markup.El("p", markup.Attr("class", "meta"), markup.Text(FormatDate(date))))
	}
	markup.Append(s, markup.El("div", markup.Attr("class", "desc"),
		markup.El("h3", nil,
			markup.El("a", markup.Attr("href", ctx.Href(d.Slug), "class", "internal"), markup.Text(d.Title())))))
	if len(d.Frontmatter.Tags) > 0 {
		tags := markup.El("ul", markup.Attr("class", "tags"))
		for _, t := range d.Frontmatter.Tags {
			markup.Append(tags, markup.El("li", nil,
				markup.El("a", markup.Attr("href", ctx.Href(paths.TagSlug(t)), "class", "internal tag-link"), markup.Text(t))))
		}
		markup.Append(s, tags)
	}
	return s
}
