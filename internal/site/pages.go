package site

import (
	"sort"

	"github.com/sys27/garden/internal/content"
	"github.com/sys27/garden/internal/paths"
	"github.com/sys27/garden/internal/util/sets"
)

// NotFoundSlug is the slug of the 404 page.
const NotFoundSlug paths.Slug = "404"

// BuildPages derives every output page from the published documents:
// one content page per note, a folder page per folder, a page per tag,
// the tag index and the 404 page. Pages come back sorted by slug.
//
// Folder index files (notes/index.md) back their folder page instead of
// producing a content page. The root index.md is an ordinary content page.
func BuildPages(docs []*content.Document, locale string) []*content.Page {
	bySlug := make(map[paths.Slug]*content.Page)
	add := func(p *content.Page) {
		if _, taken := bySlug[p.Slug]; !taken {
			bySlug[p.Slug] = p
		}
	}

	folderDocs := make(map[paths.Slug]*content.Document)
	children := make(map[paths.Slug][]*content.Document)
	subfolders := make(map[paths.Slug]sets.Set[paths.Slug])
	folders := sets.New[paths.Slug]()

	addFolder := func(f paths.Slug) {
		for f != "" && folders.Insert(f) {
			parent := f.Parent()
			if subfolders[parent] == nil {
				subfolders[parent] = sets.New[paths.Slug]()
			}
			subfolders[parent].Add(f)
			f = parent
		}
	}

	for _, d := range docs {
		if d.Slug.IsFolder() && d.Slug != "" {
			folderDocs[d.Slug] = d
			addFolder(d.Slug)
			continue
		}
		add(&content.Page{Slug: d.Slug, Kind: content.KindContent, Title: d.Title(), Doc: d})
		if d.Slug == "" {
			continue
		}
		parent := d.Slug.Parent()
		addFolder(parent)
		children[parent] = append(children[parent], d)
	}

	for f := range folders {
		page := &content.Page{
			Slug:     f,
			Kind:     content.KindFolder,
			Title:    content.TitleCase(f.Name(), locale),
			Doc:      folderDocs[f],
			Children: append([]*content.Document(nil), children[f]...),
		}
		if page.Doc != nil && page.Doc.Frontmatter.Title != "" {
			page.Title = page.Doc.Frontmatter.Title
		}
		content.SortByDate(page.Children)
		page.Subfolders = sets.Sorted(subfolders[f])
		add(page)
	}

	tags := content.CountTags(docs)
	for _, tc := range tags {
		var tagged []*content.Document
		for _, d := range docs {
			if hasTag(d, tc.Tag) {
				tagged = append(tagged, d)
			}
		}
		content.SortByDate(tagged)
		add(&content.Page{Slug: paths.TagSlug(tc.Tag), Kind: content.KindTag, Title: "Tag: " + tc.Tag, Children: tagged})
	}
	if len(tags) > 0 {
		add(&content.Page{Slug: paths.TagIndexSlug, Kind: content.KindTagIndex, Title: "Tag Index", Tags: tags})
	}

	add(&content.Page{Slug: NotFoundSlug, Kind: content.KindNotFound, Title: "Not Found"})

	pages := make([]*content.Page, 0, len(bySlug))
	for _, p := range bySlug {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })
	return pages
}

func hasTag(d *content.Document, tag string) bool {
	for _, t := range d.Frontmatter.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
