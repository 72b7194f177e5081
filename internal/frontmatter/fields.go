package frontmatter

import (
	"fmt"
	"strings"
	"time"
)

// Frontmatter holds the decoded fields garden uses. Unknown fields stay in Raw.
type Frontmatter struct {
	Title       string
	Description string
	Tags        []string
	Aliases     []string
	CSSClasses  []string
	Draft       bool
	EnableTOC   *bool
	Created     time.Time
	Modified    time.Time
	Published   time.Time
	Raw         map[string]any
}

// TOCEnabled reports whether the table of contents should render (default true).
func (f Frontmatter) TOCEnabled() bool { return f.EnableTOC == nil || *f.EnableTOC }

// Decode maps parsed YAML fields onto Frontmatter. Decoding is lenient:
// single strings are accepted where lists are expected and malformed values
// are ignored.
func Decode(fields map[string]any) Frontmatter {
	if fields == nil {
		fields = map[string]any{}
	}
	fm := Frontmatter{Raw: fields}
	fm.Title = stringField(fields, "title")
	fm.Description = stringField(fields, "description")
	fm.Tags = normalizeTags(listField(fields, "tags", "tag"))
	fm.Aliases = listField(fields, "aliases", "alias")
	fm.CSSClasses = listField(fields, "cssclasses", "cssclass")
	fm.Draft = boolField(fields, "draft")
	if _, ok := fields["enableToc"]; ok {
		v := boolField(fields, "enableToc")
		fm.EnableTOC = &v
	}
	fm.Created = dateField(fields, "date", "created")
	fm.Modified = dateField(fields, "modified", "lastmod", "updated", "last-modified")
	fm.Published = dateField(fields, "published", "publishDate", "date")
	return fm
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func listField(fields map[string]any, keys ...string) []string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			var out []string
			for _, part := range strings.Split(v, ",") {
				if p := strings.TrimSpace(part); p != "" {
					out = append(out, p)
				}
			}
			if len(out) > 0 {
				return out
			}
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if item == nil {
					continue
				}
				if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// normalizeTags strips a leading '#', turns spaces into dashes and drops duplicates.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		t = strings.Join(strings.Fields(t), "-")
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func boolField(fields map[string]any, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
}

// ParseDate parses the date formats accepted in frontmatter.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateField(fields map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case time.Time:
			return v
		case string:
			if t, ok := ParseDate(v); ok {
				return t
			}
		}
	}
	return time.Time{}
}
