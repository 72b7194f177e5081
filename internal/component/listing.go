package component

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/content"
	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/markup"
	"github.com/sys27/garden/internal/paths"
)

// FolderContent is the body of a folder page: the folder's index note, if
// any, followed by its subfolders and documents.
type FolderContent struct{}

func (FolderContent) Name() string { return "FolderContent" }

func (FolderContent) Render(ctx *RenderContext) ([]*html.Node, error) {
	page := ctx.Page
	if page == nil {
		return nil, ferrors.LayoutError("folder listing rendered without a page").Build()
	}

	article := markup.El("article", markup.Attr("class", "popover-hint"))
	if len(ctx.HTML) > 0 {
		prose, err := markup.ParseFragment(ctx.HTML)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRender, "parse folder index html").
				WithContext("path", ctx.FilePath).Build()
		}
		markup.Append(article, prose...)
	}
	n := len(page.Children) + len(page.Subfolders)
	markup.Append(article, markup.El("p", nil, markup.Text(fmt.Sprintf("%s under this folder.", plural(n, "item")))))

	list := markup.El("ul", markup.Attr("class", "section-ul"))
	for _, folder := range page.Subfolders {
		markup.Append(list, markup.El("li", markup.Attr("class", "section-li"),
			markup.El("div", markup.Attr("class", "section folder"),
				markup.El("div", markup.Attr("class", "desc"),
					markup.El("h3", nil,
						markup.El("a", markup.Attr("href", ctx.Href(folder), "class", "internal"), markup.Text(folderTitle(ctx, folder))))))))
	}
	for _, d := range page.Children {
		markup.Append(list, markup.El("li", markup.Attr("class", "section-li"), section(ctx, d)))
	}

	return nodes(markup.El("div", markup.Attr("class", "popover-hint"),
		article,
		markup.El("div", markup.Attr("class", "page-listing"), list),
	)), nil
}

// TagContent is the body of a tag page, or of the tag index when the page
// lists tags instead of documents.
type TagContent struct{}

func (TagContent) Name() string { return "TagContent" }

func (TagContent) Render(ctx *RenderContext) ([]*html.Node, error) {
	page := ctx.Page
	if page == nil {
		return nil, ferrors.LayoutError("tag listing rendered without a page").Build()
	}

	wrapper := markup.El("div", markup.Attr("class", "popover-hint"))
	if page.Kind == content.KindTagIndex {
		markup.Append(wrapper, markup.El("article", nil,
			markup.El("p", nil, markup.Text(fmt.Sprintf("Found %s in total.", plural(len(page.Tags), "tag"))))))
		for _, tc := range page.Tags {
			markup.Append(wrapper, markup.El("div", markup.Attr("class", "tag-summary"),
				markup.El("h2", nil,
					markup.El("a", markup.Attr("href", ctx.Href(paths.TagSlug(tc.Tag)), "class", "internal tag-link"), markup.Text(tc.Tag))),
				markup.El("p", nil, markup.Text(fmt.Sprintf("%s with this tag.", plural(tc.Count, "item")))),
			))
		}
		return nodes(wrapper), nil
	}

	markup.Append(wrapper, markup.El("article", nil,
		markup.El("p", nil, markup.Text(fmt.Sprintf("%s with this tag.", plural(len(page.Children), "item"))))))
	list := markup.El("ul", markup.Attr("class", "section-ul"))
	for _, d := range page.Children {
		markup.Append(list, markup.El("li", markup.Attr("class", "section-li"), section(ctx, d)))
	}
	markup.Append(wrapper, markup.El("div", markup.Attr("class", "page-listing"), list))
	return nodes(wrapper), nil
}

// NotFound is the body of the 404 page.
type NotFound struct{}

func (NotFound) Name() string { return "NotFound" }

func (NotFound) Render(ctx *RenderContext) ([]*html.Node, error) {
	return nodes(markup.El("article", markup.Attr("class", "popover-hint"),
		markup.El("h1", nil, markup.Text("404")),
		markup.El("p", nil, markup.Text("Either this page is private or doesn't exist.")),
		markup.El("a", markup.Attr("href", ctx.Href("")), markup.Text("Return to Homepage →")),
	)), nil
}
