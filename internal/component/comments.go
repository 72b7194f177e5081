package component

import (
	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/markup"
)

// CommentEmbed is the giscus widget mounted directly below an article.
type CommentEmbed struct {
	Comments config.Comments
}

// DefaultCommentEmbed returns the embed configured with the built-in widget record.
func DefaultCommentEmbed() CommentEmbed {
	return CommentEmbed{Comments: config.DefaultComments()}
}

func (CommentEmbed) Name() string { return "CommentEmbed" }

func (e CommentEmbed) Render(ctx *RenderContext) ([]*html.Node, error) {
	if ctx != nil {
		ctx.markEmbedMounted()
	}
	return giscus(e.Comments, e.Comments.EmbedMapping), nil
}

// Comments is the after-body discussion widget. It stays out of pages that
// already mounted a CommentEmbed, and out of pages whose frontmatter sets
// comments: false.
type Comments struct {
	Comments config.Comments
}

func (Comments) Name() string { return "Comments" }

func (c Comments) Render(ctx *RenderContext) ([]*html.Node, error) {
	if ctx.EmbedMounted() {
		return nil, nil
	}
	if v, ok := ctx.Frontmatter.Raw["comments"].(bool); ok && !v {
		return nil, nil
	}
	ctx.markEmbedMounted()
	return giscus(c.Comments, c.Comments.Mapping), nil
}

func giscus(c config.Comments, mapping string) []*html.Node {
	return nodes(
		markup.El("div", markup.Attr("class", "giscus")),
		markup.El("script", markup.Attr(
			"src", config.GiscusScriptURL,
			"data-repo", c.Repo,
			"data-repo-id", c.RepoID,
			"data-category", c.Category,
			"data-category-id", c.CategoryID,
			"data-mapping", mapping,
			"data-strict", flag(c.IsStrict()),
			"data-reactions-enabled", flag(c.HasReactions()),
			"data-emit-metadata", flag(c.EmitMetadata),
			"data-input-position", c.InputPosition,
			"data-theme", c.Theme,
			"data-lang", c.Lang,
			"data-loading", c.Loading,
			"crossorigin", "anonymous",
			"async",
		)),
	)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
