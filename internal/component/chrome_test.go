package component

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/content"
	"github.com/sys27/garden/internal/paths"
)

func TestFooter_LinksInOrder(t *testing.T) {
	out := render(t, Footer{Links: config.DefaultFooterLinks()}, contentCtx(doc("a", buildTime)))
	require.Contains(t, out, "Created with garden © 2026")
	gh := strings.Index(out, `href="https://github.com/sys27">GitHub`)
	li := strings.Index(out, `href="https://www.linkedin.com/in/dmytrokyshchenko/">LinkedIn`)
	so := strings.Index(out, `href="https://stackoverflow.com/users/743754/exploding-kitten">StackOverflow`)
	require.True(t, gh >= 0 && gh < li && li < so, out)
}

func TestPageTitle_LinksToRoot(t *testing.T) {
	out := render(t, PageTitle{}, contentCtx(doc("notes/deep/x", buildTime)))
	require.Equal(t, `<h2 class="page-title"><a href="../../">Garden</a></h2>`, out)
}

func TestArticleTitle(t *testing.T) {
	d := doc("a", buildTime)
	d.Frontmatter.Title = "Hello"
	require.Equal(t, `<h1 class="article-title">Hello</h1>`, render(t, ArticleTitle{}, contentCtx(d)))

	ctx := contentCtx(d)
	ctx.Page.Title = ""
	require.Empty(t, render(t, ArticleTitle{}, ctx))
}

func TestContentMeta(t *testing.T) {
	d := doc("a", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	d.Text = strings.Repeat("w ", 450)
	require.Equal(t, `<p class="content-meta"><span>Mar 05, 2024</span><span>3 min read</span></p>`,
		render(t, ContentMeta{}, contentCtx(d)))

	undated := doc("b", time.Time{})
	require.Equal(t, `<p class="content-meta"><span>1 min read</span></p>`, render(t, ContentMeta{}, contentCtx(undated)))

	list := &content.Page{Slug: "notes/", Kind: content.KindFolder, Children: []*content.Document{d}, Subfolders: []paths.Slug{"notes/x/"}}
	ctx := NewRenderContext(list, nil, config.SiteConfig{}, buildTime)
	require.Equal(t, `<p class="content-meta"><span>2 items</span></p>`, render(t, ContentMeta{}, ctx))
}

func TestHead(t *testing.T) {
	d := doc("notes/go", buildTime)
	d.Frontmatter.Title = "Go"
	d.Text = "Notes about Go."
	ctx := contentCtx(d)
	ctx.Site.BaseURL = "https://example.com/"

	out := render(t, Head{}, ctx)
	require.Contains(t, out, "<title>Go</title>")
	require.Contains(t, out, `<meta name="description" content="Notes about Go."/>`)
	require.Contains(t, out, `<meta property="og:url" content="https://example.com/notes/go"/>`)
	require.Contains(t, out, `<link rel="stylesheet" href="../static/index.css"/>`)
	require.NotContains(t, out, "reload.js")

	ctx.LiveReload = true
	require.Contains(t, render(t, Head{}, ctx), "reload.js")
}

func TestSearchAndDarkmode(t *testing.T) {
	ctx := contentCtx(doc("a", buildTime))
	search := render(t, Search{}, ctx)
	require.Contains(t, search, `data-index="./static/contentIndex.json"`)
	require.Contains(t, search, `placeholder="Search for something"`)
	require.Contains(t, render(t, Darkmode{}, ctx), `id="darkmode"`)
}
