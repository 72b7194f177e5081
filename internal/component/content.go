package component

import (
	"golang.org/x/net/html"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/markup"
)

// Content renders the document body as an article followed by its comment embed.
type Content struct {
	Embed CommentEmbed
}

func (Content) Name() string { return "Content" }

func (c Content) Render(ctx *RenderContext) ([]*html.Node, error) {
	if ctx.FilePath == "" {
		return nil, ErrMissingFilePath.WithContext("slug", ctx.Slug().String())
	}

	body, err := markup.ParseFragment(ctx.HTML)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "parse document html").
			WithContext("path", ctx.FilePath).Build()
	}

	classes := append([]string{"popover-hint"}, ctx.Frontmatter.CSSClasses...)
	article := markup.El("article", markup.Attr("class", markup.Class(classes...)), body...)

	embed, err := c.Embed.Render(ctx)
	if err != nil {
		return nil, err
	}
	return append(nodes(article), embed...), nil
}
