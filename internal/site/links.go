package site

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sys27/garden/internal/content"
	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/markup"
	"github.com/sys27/garden/internal/notify"
	"github.com/sys27/garden/internal/paths"
	"github.com/sys27/garden/internal/util/sets"
)

// linkResolver maps link destinations written in notes to output slugs.
type linkResolver struct {
	pages  sets.Set[paths.Slug]
	assets sets.Set[paths.Slug]
	// byName indexes note slugs by lowercased final segment so that
	// [[Note]] resolves wherever the note lives, as long as the name is unique.
	byName map[string][]paths.Slug
}

func newLinkResolver(pages []*content.Page, assets []content.Source) *linkResolver {
	r := &linkResolver{
		pages:  make(sets.Set[paths.Slug], len(pages)),
		assets: make(sets.Set[paths.Slug], len(assets)),
		byName: make(map[string][]paths.Slug),
	}
	for _, p := range pages {
		r.pages.Add(p.Slug)
		if p.Kind == content.KindContent && p.Slug != "" {
			name := strings.ToLower(p.Slug.Name())
			r.byName[name] = append(r.byName[name], p.Slug)
		}
	}
	for _, a := range assets {
		r.assets.Add(assetSlug(a))
	}
	return r
}

// assetSlug is where a non-markdown file lands in the output.
func assetSlug(src content.Source) paths.Slug {
	return paths.FromFilePath(src.RelPath)
}

type linkState int

const (
	linkSkip linkState = iota
	linkResolved
	linkBroken
)

// resolve returns the output slug dest points at, relative to from.
func (r *linkResolver) resolve(from paths.Slug, dest string) (paths.Slug, linkState) {
	target, internal := paths.Resolve(from, dest)
	if !internal {
		return "", linkSkip
	}
	if r.known(target) {
		return target, linkResolved
	}
	if !target.IsFolder() && r.known(target+"/") {
		return target + "/", linkResolved
	}
	if !target.IsFolder() {
		if matches := r.byName[strings.ToLower(target.Name())]; len(matches) == 1 {
			return matches[0], linkResolved
		}
	}
	return target, linkBroken
}

func (r *linkResolver) known(s paths.Slug) bool {
	if _, ok := r.pages[s]; ok {
		return true
	}
	_, ok := r.assets[s]
	return ok
}

// linkAttrs are the URL-carrying attributes rewritten per element.
var linkAttrs = map[atom.Atom]string{
	atom.A:      "href",
	atom.Img:    "src",
	atom.Video:  "src",
	atom.Audio:  "src",
	atom.Source: "src",
	atom.Iframe: "src",
}

// rewrite points every internal link in doc.HTML at its output page,
// marks external and broken links, and records the pages the document
// links to. doc.HTML is replaced with the rewritten markup.
func (r *linkResolver) rewrite(doc *content.Document) (outgoing []paths.Slug, broken []notify.BrokenLink, err error) {
	if len(doc.HTML) == 0 {
		return nil, nil, nil
	}
	nodes, err := markup.ParseFragment(doc.HTML)
	if err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryRender, "parse document html").
			WithContext("slug", doc.Slug.String()).Build()
	}

	seen := sets.New[paths.Slug]()
	visit := func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		key, ok := linkAttrs[n.DataAtom]
		if !ok {
			return
		}
		dest := markup.GetAttr(n, key)
		if dest == "" {
			return
		}
		isAnchor := n.DataAtom == atom.A

		target, state := r.resolve(doc.Slug, dest)
		switch state {
		case linkSkip:
			if isAnchor && !strings.HasPrefix(dest, "#") {
				markup.AddClass(n, "external")
			}
		case linkResolved:
			markup.SetAttr(n, key, paths.Href(doc.Slug, target)+fragment(dest))
			if isAnchor {
				markup.AddClass(n, "internal")
				markup.SetAttr(n, "data-slug", target.String())
			}
			if r.pages.Has(target) && target != doc.Slug && seen.Insert(target) {
				outgoing = append(outgoing, target)
			}
		case linkBroken:
			if isAnchor {
				markup.AddClass(n, "internal")
				markup.AddClass(n, "broken")
			}
			broken = append(broken, notify.BrokenLink{Source: doc.Slug.String(), Target: dest})
		}
	}
	for _, n := range nodes {
		markup.Walk(n, visit)
	}

	out, err := markup.Render(nodes...)
	if err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryRender, "render document html").
			WithContext("slug", doc.Slug.String()).Build()
	}
	doc.HTML = []byte(out)
	sort.Slice(outgoing, func(i, j int) bool { return outgoing[i] < outgoing[j] })
	return outgoing, broken, nil
}

// fragment returns the #anchor suffix of dest, if any.
func fragment(dest string) string {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		return dest[i:]
	}
	return ""
}
