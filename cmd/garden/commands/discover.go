package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/content"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Drafts bool `help:"Only list drafts"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	return d.run(context.Background(), cfg, g)
}

func (d *DiscoverCmd) run(ctx context.Context, cfg *config.Config, g *Global) error {
	builder, cleanup, err := newBuilder(ctx, cfg, g.logger())
	if err != nil {
		return err
	}
	defer cleanup()

	docs, err := builder.Discover(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SLUG\tKIND\tTITLE\tDRAFT\tLINKS")
	shown := 0
	for _, doc := range docs {
		if d.Drafts && !doc.Frontmatter.Draft {
			continue
		}
		kind := content.KindContent
		if doc.Slug.IsFolder() {
			kind = content.KindFolder
		}
		slug := doc.Slug.String()
		if slug == "" {
			slug = "/"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\n", slug, kind, doc.Title(), doc.Frontmatter.Draft, len(doc.Links))
		shown++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	g.logger().Info("Discovery completed", "documents", shown)
	return nil
}
