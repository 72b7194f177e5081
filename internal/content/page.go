package content

import (
	"sort"
	"strings"

	"github.com/sys27/garden/internal/paths"
)

// Kind classifies a page.
type Kind string

const (
	KindContent  Kind = "content"
	KindFolder   Kind = "folder"
	KindTag      Kind = "tag"
	KindTagIndex Kind = "tag-index"
	KindNotFound Kind = "404"
)

// IsList reports whether pages of this kind list other pages.
func (k Kind) IsList() bool {
	return k == KindFolder || k == KindTag || k == KindTagIndex
}

// TagCount is a tag with the number of documents carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// Page is one output HTML page.
type Page struct {
	Slug  paths.Slug
	Kind  Kind
	Title string
	// Doc backs content pages and folder pages with an index file.
	Doc *Document
	// Children are the documents listed on folder and tag pages.
	Children []*Document
	// Subfolders are the direct child folders of a folder page.
	Subfolders []paths.Slug
	// Tags lists every tag on the tag index page.
	Tags []TagCount
}

// FilePath is the source path of the page, or a synthetic path for
// generated pages.
func (p *Page) FilePath() string {
	if p.Doc != nil {
		return p.Doc.Path
	}
	return string(p.Kind) + ":" + p.Slug.String()
}

// SortByDate orders documents newest first, ties broken by title then slug.
func SortByDate(docs []*Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		di, dj := docs[i].Date(), docs[j].Date()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		ti, tj := strings.ToLower(docs[i].Title()), strings.ToLower(docs[j].Title())
		if ti != tj {
			return ti < tj
		}
		return docs[i].Slug < docs[j].Slug
	})
}

// SortBySlug orders documents by slug.
func SortBySlug(docs []*Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Slug < docs[j].Slug })
}

// CountTags returns every tag used by docs with its count, sorted by tag.
func CountTags(docs []*Document) []TagCount {
	counts := make(map[string]int)
	for _, d := range docs {
		for _, t := range d.Frontmatter.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TagCount{Tag: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
