// Package layout arranges components into page slots.
//
// A layout is a flat slot → component list mapping. The shared layout is
// common to every page; a page layout adds the per-kind slots. Neither
// inherits from anything; Merge combines them into the Full layout a page
// is rendered from.
package layout

import (
	"github.com/sys27/garden/internal/component"
	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/content"
	ferrors "github.com/sys27/garden/internal/foundation/errors"
)

// Slot names, in page order.
const (
	SlotHead       = "head"
	SlotHeader     = "header"
	SlotBeforeBody = "beforeBody"
	SlotBody       = "body"
	SlotAfterBody  = "afterBody"
	SlotLeft       = "left"
	SlotRight      = "right"
	SlotFooter     = "footer"
)

// SharedLayout holds the components present on every page.
type SharedLayout struct {
	Head      component.Component
	Header    []component.Component
	AfterBody []component.Component
	Footer    component.Component
}

// PageLayout holds the components of one family of pages. Any slot may be empty.
type PageLayout struct {
	BeforeBody []component.Component
	Left       []component.Component
	Right      []component.Component
}

// Full is a shared layout merged with a page layout and a body.
type Full struct {
	Head       component.Component
	Header     []component.Component
	BeforeBody []component.Component
	Body       component.Component
	AfterBody  []component.Component
	Left       []component.Component
	Right      []component.Component
	Footer     component.Component
}

// Slot is a named, ordered list of components.
type Slot struct {
	Name       string
	Components []component.Component
}

// Slots returns every slot in page order.
func (f Full) Slots() []Slot {
	return []Slot{
		{SlotHead, single(f.Head)},
		{SlotHeader, f.Header},
		{SlotBeforeBody, f.BeforeBody},
		{SlotBody, single(f.Body)},
		{SlotAfterBody, f.AfterBody},
		{SlotLeft, f.Left},
		{SlotRight, f.Right},
		{SlotFooter, single(f.Footer)},
	}
}

func single(c component.Component) []component.Component {
	if c == nil {
		return nil
	}
	return []component.Component{c}
}

// Merge combines the shared and page layouts around body. Slot order is kept.
func Merge(shared SharedLayout, page PageLayout, body component.Component) Full {
	return Full{
		Head:       shared.Head,
		Header:     clone(shared.Header),
		BeforeBody: clone(page.BeforeBody),
		Body:       body,
		AfterBody:  clone(shared.AfterBody),
		Left:       clone(page.Left),
		Right:      clone(page.Right),
		Footer:     shared.Footer,
	}
}

func clone(cs []component.Component) []component.Component {
	return append([]component.Component(nil), cs...)
}

// Shared is the layout common to every page: head, the after-body comments
// widget and the footer links.
func Shared(cfg *config.Config) SharedLayout {
	return SharedLayout{
		Head:      component.Head{},
		Header:    []component.Component{},
		AfterBody: []component.Component{component.Comments{Comments: cfg.Comments}},
		Footer:    component.Footer{Links: append([]config.Link(nil), cfg.Footer.Links...)},
	}
}

func beforeBody() []component.Component {
	return []component.Component{
		component.Breadcrumbs{},
		component.ArticleTitle{},
		component.ContentMeta{},
	}
}

func left() []component.Component {
	return []component.Component{
		component.PageTitle{},
		component.MobileOnly(component.Spacer{}),
		component.Search{},
		component.Darkmode{},
		component.DesktopOnly(component.Explorer{}),
	}
}

// DefaultContentPage is the layout of pages showing a single note.
func DefaultContentPage(cfg *config.Config) PageLayout {
	return PageLayout{
		BeforeBody: beforeBody(),
		Left:       left(),
		Right: []component.Component{
			component.DesktopOnly(component.TableOfContents{}),
			component.RecentNotes{
				Title:  cfg.RecentNotes.Title,
				Limit:  cfg.RecentNotes.Limit,
				Filter: component.NotFolderPage,
			},
		},
	}
}

// DefaultListPage is the layout of pages listing other pages.
func DefaultListPage(*config.Config) PageLayout {
	return PageLayout{
		BeforeBody: beforeBody(),
		Left:       left(),
		Right:      []component.Component{},
	}
}

// Set is the layout configuration of a site.
type Set struct {
	Shared  SharedLayout
	Content PageLayout
	List    PageLayout
	// Embed is mounted after every note's article.
	Embed component.CommentEmbed
}

// Defaults builds the layout set from configuration.
func Defaults(cfg *config.Config) Set {
	return Set{
		Shared:  Shared(cfg),
		Content: DefaultContentPage(cfg),
		List:    DefaultListPage(cfg),
		Embed:   component.CommentEmbed{Comments: cfg.Comments},
	}
}

// ForKind returns the full layout used for pages of kind.
func (s Set) ForKind(kind content.Kind) (Full, error) {
	switch kind {
	case content.KindContent:
		return Merge(s.Shared, s.Content, component.Content{Embed: s.Embed}), nil
	case content.KindFolder:
		return Merge(s.Shared, s.List, component.FolderContent{}), nil
	case content.KindTag, content.KindTagIndex:
		return Merge(s.Shared, s.List, component.TagContent{}), nil
	case content.KindNotFound:
		return Merge(s.Shared, s.Content, component.NotFound{}), nil
	default:
		return Full{}, ferrors.LayoutError("no layout for page kind").WithContext("kind", string(kind)).Build()
	}
}
