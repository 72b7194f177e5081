// Package markdown converts note bodies to HTML and extracts the structure
// other parts of the build need: headings for the table of contents and
// link destinations for link resolution.
package markdown

import (
	"bytes"
	"sort"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Options controls how Markdown is converted.
type Options struct {
	// Sanitize filters the rendered HTML through a UGC policy.
	Sanitize bool
	// Wikilinks rewrites [[target]] syntax into regular links before parsing.
	Wikilinks bool
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// Heading is a section heading with the anchor id goldmark assigned to it.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Result is the output of converting one document body.
type Result struct {
	HTML     []byte
	Headings []Heading
	Links    []Link
}

// Converter renders Markdown with GitHub flavored extensions. It is safe
// for concurrent use.
type Converter struct {
	opts   Options
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewConverter(opts Options) *Converter {
	c := &Converter{
		opts: opts,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
	if opts.Sanitize {
		c.policy = sanitizePolicy()
	}
	return c
}

// Convert parses body (frontmatter already removed) once and returns its
// HTML, headings and links.
func (c *Converter) Convert(body []byte) (Result, error) {
	if c.opts.Wikilinks {
		body = RewriteWikilinks(body)
	}
	ctx := parser.NewContext()
	root := c.md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	res := Result{
		Headings: collectHeadings(root, body),
		Links:    collectLinks(root, ctx, body),
	}

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, body, root); err != nil {
		return Result{}, err
	}
	res.HTML = buf.Bytes()
	if c.policy != nil {
		res.HTML = c.policy.SanitizeBytes(res.HTML)
	}
	return res, nil
}

func collectLinks(root gmast.Node, ctx parser.Context, source []byte) []Link {
	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(source))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// Reference-style links arrive here already resolved.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return links
}

func collectHeadings(root gmast.Node, source []byte) []Heading {
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		out = append(out, Heading{Level: h.Level, Text: plainText(h, source), ID: id})
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// plainText concatenates the text segments below n.
func plainText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}

func sanitizePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	return p
}
