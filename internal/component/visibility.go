package component

import (
	"golang.org/x/net/html"

	"github.com/sys27/garden/internal/markup"
)

// Viewport is the class of screen a page is viewed on.
type Viewport int

const (
	Mobile Viewport = iota
	Desktop
)

// Visibility is a predicate over viewports. The stylesheet evaluates it at
// view time through the wrapper class.
type Visibility struct {
	class string
	match func(Viewport) bool
}

var (
	VisibleAlways    = Visibility{match: func(Viewport) bool { return true }}
	VisibleOnMobile  = Visibility{class: "mobile-only", match: func(v Viewport) bool { return v == Mobile }}
	VisibleOnDesktop = Visibility{class: "desktop-only", match: func(v Viewport) bool { return v == Desktop }}
)

// Visible reports whether content shows on viewport v.
func (v Visibility) Visible(vp Viewport) bool { return v.match == nil || v.match(vp) }

// Class is the wrapper class applied to decorated output.
func (v Visibility) Class() string { return v.class }

// Conditional decorates a component with a visibility predicate.
type Conditional struct {
	Inner      Component
	visibility Visibility
}

// MobileOnly shows c only on narrow viewports.
func MobileOnly(c Component) *Conditional { return &Conditional{Inner: c, visibility: VisibleOnMobile} }

// DesktopOnly shows c only on wide viewports.
func DesktopOnly(c Component) *Conditional {
	return &Conditional{Inner: c, visibility: VisibleOnDesktop}
}

// Visibility returns the decorator's predicate.
func (c *Conditional) Visibility() Visibility { return c.visibility }

func (c *Conditional) Name() string {
	prefix := "MobileOnly"
	if c.visibility.class == VisibleOnDesktop.class {
		prefix = "DesktopOnly"
	}
	return prefix + "(" + c.Inner.Name() + ")"
}

func (c *Conditional) Render(ctx *RenderContext) ([]*html.Node, error) {
	inner, err := c.Inner.Render(ctx)
	if err != nil || len(inner) == 0 {
		return nil, err
	}
	return nodes(markup.El("div", markup.Attr("class", c.visibility.class), inner...)), nil
}

// VisibilityOf returns the predicate of a component: decorated components
// report their own, everything else is always visible.
func VisibilityOf(c Component) Visibility {
	if d, ok := c.(interface{ Visibility() Visibility }); ok {
		return d.Visibility()
	}
	return VisibleAlways
}
