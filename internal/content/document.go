// Package content is the garden's data model: discovered source files,
// parsed documents and the pages built from them.
package content

import (
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sys27/garden/internal/frontmatter"
	"github.com/sys27/garden/internal/markdown"
	"github.com/sys27/garden/internal/paths"
)

// WordsPerMinute is the reading speed used for reading-time estimates.
const WordsPerMinute = 200

// Dates are the resolved dates of a document. Zero values mean unknown.
type Dates struct {
	Created   time.Time
	Modified  time.Time
	Published time.Time
}

// Document is one parsed markdown note.
type Document struct {
	Path        string // source file path
	RelPath     string // slash-separated, relative to the content directory
	Slug        paths.Slug
	Frontmatter frontmatter.Frontmatter
	Body        []byte
	HTML        []byte
	Headings    []markdown.Heading
	Links       []markdown.Link
	Text        string
	Dates       Dates
	Fingerprint string
}

// Title returns the frontmatter title, falling back to the file or folder name.
func (d *Document) Title() string {
	if d.Frontmatter.Title != "" {
		return d.Frontmatter.Title
	}
	base := strings.TrimSuffix(path.Base(d.RelPath), path.Ext(d.RelPath))
	if base == "index" || base == "_index" {
		dir := path.Dir(d.RelPath)
		if dir == "." {
			return ""
		}
		return path.Base(dir)
	}
	return base
}

// Date is the date shown for the document: created, then modified, then published.
func (d *Document) Date() time.Time {
	switch {
	case !d.Dates.Created.IsZero():
		return d.Dates.Created
	case !d.Dates.Modified.IsZero():
		return d.Dates.Modified
	default:
		return d.Dates.Published
	}
}

// Description returns the frontmatter description or an excerpt of the text.
func (d *Document) Description(maxRunes int) string {
	if d.Frontmatter.Description != "" {
		return d.Frontmatter.Description
	}
	return Excerpt(d.Text, maxRunes)
}

// WordCount counts whitespace separated words in the document text.
func (d *Document) WordCount() int { return len(strings.Fields(d.Text)) }

// ReadingMinutes estimates reading time, never less than one minute.
func (d *Document) ReadingMinutes() int {
	m := (d.WordCount() + WordsPerMinute - 1) / WordsPerMinute
	if m < 1 {
		return 1
	}
	return m
}

// Excerpt truncates s at a word boundary to at most maxRunes runes, adding an ellipsis.
func Excerpt(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	cut := []rune(s)[:maxRunes]
	out := string(cut)
	if i := strings.LastIndexAny(out, " \t\n"); i > 0 {
		out = out[:i]
	}
	return strings.TrimRight(out, " ,.;:") + "…"
}

// TitleCase turns a slug segment like "data-structures" into "Data Structures".
func TitleCase(segment, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(segment))
	return cases.Title(tag).String(strings.Join(words, " "))
}
