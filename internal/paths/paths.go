// Package paths derives page slugs from content file paths and computes the
// relative links between pages.
package paths

import (
	"net/url"
	"path"
	"strings"
)

// Slug identifies a page: site-relative, forward-slash separated, without a
// file extension. Folder pages end in "/" and the site root is "".
type Slug string

// IsFolderPath reports whether s names a grouping page rather than a leaf
// document: it is empty or ends with a path separator.
func IsFolderPath(s string) bool {
	return s == "" || strings.HasSuffix(s, "/")
}

// IsFolder reports whether the slug is a folder path.
func (s Slug) IsFolder() bool { return IsFolderPath(string(s)) }

func (s Slug) String() string { return string(s) }

var segmentReplacer = strings.NewReplacer(
	" ", "-",
	"\t", "-",
	"&", "-and-",
	"%", "-percent",
	"?", "",
	"#", "",
)

// SlugifySegment normalizes a single path segment.
func SlugifySegment(segment string) string {
	return segmentReplacer.Replace(strings.TrimSpace(segment))
}

// FromFilePath derives the slug of a content file from its path relative to
// the content root. Markdown extensions are dropped and index files become
// their folder's slug:
//
//	notes/go.md     -> notes/go
//	notes/index.md  -> notes/
//	index.md        -> ""
func FromFilePath(rel string) Slug {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.Trim(rel, "/")
	ext := path.Ext(rel)
	if strings.EqualFold(ext, ".md") || strings.EqualFold(ext, ".html") {
		rel = strings.TrimSuffix(rel, ext)
	}
	if rel == "" {
		return ""
	}
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		parts[i] = SlugifySegment(p)
	}
	last := parts[len(parts)-1]
	if last == "index" || last == "_index" {
		if len(parts) == 1 {
			return ""
		}
		return Slug(strings.Join(parts[:len(parts)-1], "/") + "/")
	}
	return Slug(strings.Join(parts, "/"))
}

// FolderSlug returns the folder slug for a directory relative to the content root.
func FolderSlug(dir string) Slug {
	dir = strings.Trim(strings.ReplaceAll(dir, "\\", "/"), "/")
	if dir == "" || dir == "." {
		return ""
	}
	parts := strings.Split(dir, "/")
	for i, p := range parts {
		parts[i] = SlugifySegment(p)
	}
	return Slug(strings.Join(parts, "/") + "/")
}

// TagSlug returns the slug of a tag's list page.
func TagSlug(tag string) Slug {
	tag = strings.Trim(strings.TrimSpace(tag), "/")
	parts := strings.Split(tag, "/")
	for i, p := range parts {
		parts[i] = SlugifySegment(p)
	}
	return Slug("tags/" + strings.Join(parts, "/"))
}

// TagIndexSlug is the slug of the page listing every tag.
const TagIndexSlug Slug = "tags/"

// Segments returns the non-empty path segments of the slug.
func (s Slug) Segments() []string {
	trimmed := strings.Trim(string(s), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Name returns the last segment, or "" for the root.
func (s Slug) Name() string {
	segs := s.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Parent returns the folder containing s. The root is its own parent.
func (s Slug) Parent() Slug {
	segs := s.Segments()
	if len(segs) <= 1 {
		return ""
	}
	return Slug(strings.Join(segs[:len(segs)-1], "/") + "/")
}

// Dir returns the folder a page's source lives in: folder pages are their
// own directory, leaf pages live in their parent.
func (s Slug) Dir() Slug {
	if s.IsFolder() {
		return s
	}
	return s.Parent()
}

// OutputFile returns the slash-separated output path of the page's HTML file.
func (s Slug) OutputFile() string {
	if s == "" {
		return "index.html"
	}
	if s.IsFolder() {
		return string(s) + "index.html"
	}
	return string(s) + ".html"
}

// PathToRoot returns the relative prefix leading from the page back to the site root.
func (s Slug) PathToRoot() string {
	depth := strings.Count(s.OutputFile(), "/")
	if depth == 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", depth), "/")
}

// Href returns the relative link from page `from` to page `to`.
func Href(from, to Slug) string {
	return from.PathToRoot() + "/" + string(to)
}

// StaticHref returns the relative link from a page to a file under the output's static/ dir.
func StaticHref(from Slug, name string) string {
	return from.PathToRoot() + "/static/" + name
}

// Resolve resolves a link destination found in the document at `from` to a
// site slug. It returns false for external links, pure anchors and empty
// destinations.
func Resolve(from Slug, dest string) (Slug, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") {
		return "", false
	}
	if u, err := url.Parse(dest); err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	trailing := strings.HasSuffix(dest, "/")

	var joined string
	if strings.HasPrefix(dest, "/") {
		joined = path.Clean(dest)
	} else {
		joined = path.Join("/"+strings.Trim(string(from.Dir()), "/"), dest)
	}
	joined = strings.TrimPrefix(joined, "/")
	if trailing && joined != "" {
		joined += "/index"
	}
	if joined == "" {
		return "", true
	}
	return FromFilePath(joined), true
}
