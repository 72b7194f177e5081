package component

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/content"
	"github.com/sys27/garden/internal/markup"
	"github.com/sys27/garden/internal/paths"
)

// findDoc looks slug up in docs, which must be sorted by slug.
func findDoc(docs []*content.Document, slug paths.Slug) *content.Document {
	i := sort.Search(len(docs), func(i int) bool { return docs[i].Slug >= slug })
	if i < len(docs) && docs[i].Slug == slug {
		return docs[i]
	}
	return nil
}

// folderTitle prefers the title of the folder's index note.
func folderTitle(ctx *RenderContext, folder paths.Slug) string {
	if doc := findDoc(ctx.All, folder); doc != nil && doc.Frontmatter.Title != "" {
		return doc.Frontmatter.Title
	}
	if folder == paths.TagIndexSlug {
		return "Tags"
	}
	return content.TitleCase(folder.Name(), ctx.Site.Locale)
}

// Breadcrumbs renders the trail from the site root to the current page.
type Breadcrumbs struct {
	Separator string
	RootName  string
}

func (Breadcrumbs) Name() string { return "Breadcrumbs" }

func (b Breadcrumbs) Render(ctx *RenderContext) ([]*html.Node, error) {
	slug := ctx.Slug()
	if slug == "" || ctx.Kind() == content.KindNotFound {
		return nil, nil
	}
	sep, root := b.Separator, b.RootName
	if sep == "" {
		sep = "❯"
	}
	if root == "" {
		root = "Home"
	}

	nav := markup.El("nav", markup.Attr("class", "breadcrumb-container", "aria-label", "breadcrumbs"))
	crumb := func(label, href string, last bool) {
		el := markup.El("div", markup.Attr("class", "breadcrumb-element"),
			markup.El("a", markup.Attr("href", href), markup.Text(label)))
		if !last {
			markup.Append(el, markup.El("p", nil, markup.Text(" "+sep+" ")))
		}
		markup.Append(nav, el)
	}

	crumb(root, ctx.Href(""), false)
	segments := slug.Segments()
	for i := range segments[:len(segments)-1] {
		folder := paths.Slug(strings.Join(segments[:i+1], "/") + "/")
		crumb(folderTitle(ctx, folder), ctx.Href(folder), false)
	}
	crumb(ctx.Title(), ctx.Href(slug), true)
	return nodes(nav), nil
}

// Explorer renders the folder tree of every published document.
type Explorer struct {
	Title string
}

func (Explorer) Name() string { return "Explorer" }

type explorerNode struct {
	slug     paths.Slug
	title    string
	doc      *content.Document
	children map[string]*explorerNode
}

func (e Explorer) Render(ctx *RenderContext) ([]*html.Node, error) {
	title := e.Title
	if title == "" {
		title = "Explorer"
	}

	root := &explorerNode{children: map[string]*explorerNode{}}
	for _, doc := range ctx.All {
		if doc.Slug.IsFolder() {
			continue
		}
		segs := doc.Slug.Segments()
		cur := root
		for i, seg := range segs[:len(segs)-1] {
			next, ok := cur.children[seg+"/"]
			if !ok {
				folder := paths.Slug(strings.Join(segs[:i+1], "/") + "/")
				next = &explorerNode{slug: folder, title: folderTitle(ctx, folder), children: map[string]*explorerNode{}}
				cur.children[seg+"/"] = next
			}
			cur = next
		}
		cur.children[segs[len(segs)-1]] = &explorerNode{slug: doc.Slug, title: doc.Title(), doc: doc}
	}

	return nodes(markup.El("div", markup.Attr("class", "explorer"),
		markup.El("button", markup.Attr("type", "button", "class", "explorer-toggle", "aria-expanded", "true"),
			markup.El("h2", nil, markup.Text(title))),
		e.list(ctx, root, "explorer-ul"),
	)), nil
}

func (e Explorer) list(ctx *RenderContext, n *explorerNode, class string) *html.Node {
	children := make([]*explorerNode, 0, len(n.children))
	for _, c := range n.children {
		children = append(children, c)
	}
	// Folders first, then alphabetical.
	sort.Slice(children, func(i, j int) bool {
		fi, fj := children[i].doc == nil, children[j].doc == nil
		if fi != fj {
			return fi
		}
		ti, tj := strings.ToLower(children[i].title), strings.ToLower(children[j].title)
		if ti != tj {
			return ti < tj
		}
		return children[i].slug < children[j].slug
	})

	ul := markup.El("ul", markup.Attr("class", class))
	for _, c := range children {
		if c.doc != nil {
			link := markup.El("a", markup.Attr("href", ctx.Href(c.slug), "data-for", c.slug.String()), markup.Text(c.title))
			if c.slug == ctx.Slug() {
				markup.AddClass(link, "active")
			}
			markup.Append(ul, markup.El("li", nil, link))
			continue
		}
		markup.Append(ul, markup.El("li", markup.Attr("class", "folder-outer"),
			markup.El("details", markup.Attr("open"),
				markup.El("summary", nil,
					markup.El("a", markup.Attr("href", ctx.Href(c.slug), "class", "folder-title"), markup.Text(c.title))),
				e.list(ctx, c, "content"),
			),
		))
	}
	return ul
}

// TableOfContents lists the document's headings down to MaxDepth.
type TableOfContents struct {
	MaxDepth int
}

func (TableOfContents) Name() string { return "TableOfContents" }

func (t TableOfContents) Render(ctx *RenderContext) ([]*html.Node, error) {
	doc := ctx.Doc()
	if doc == nil || !ctx.Frontmatter.TOCEnabled() {
		return nil, nil
	}
	maxDepth := t.MaxDepth
	if maxDepth == 0 {
		maxDepth = 3
	}

	minLevel := 7
	for _, h := range doc.Headings {
		if h.Level <= maxDepth && h.Level < minLevel {
			minLevel = h.Level
		}
	}
	if minLevel == 7 {
		return nil, nil
	}

	ul := markup.El("ul", markup.Attr("class", "toc-content overflow"))
	for _, h := range doc.Headings {
		if h.Level > maxDepth {
			continue
		}
		markup.Append(ul, markup.El("li", markup.Attr("class", "depth-"+strconv.Itoa(h.Level-minLevel)),
			markup.El("a", markup.Attr("href", "#"+h.ID, "data-for", h.ID), markup.Text(h.Text))))
	}
	return nodes(markup.El("div", markup.Attr("class", "toc"),
		markup.El("button", markup.Attr("type", "button", "class", "toc-header", "aria-expanded", "true"),
			markup.El("h3", nil, markup.Text("Table of Contents"))),
		ul,
	)), nil
}
