// Package markup builds and renders HTML node trees with golang.org/x/net/html.
//
// Every helper allocates fresh nodes, so a tree can be assembled from the
// output of several components without sharing nodes between pages.
package markup

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr builds an attribute list from key/value pairs. A trailing key
// without a value becomes an empty (boolean) attribute.
func Attr(kv ...string) []html.Attribute {
	attrs := make([]html.Attribute, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		a := html.Attribute{Key: kv[i]}
		if i+1 < len(kv) {
			a.Val = kv[i+1]
		}
		attrs = append(attrs, a)
	}
	return attrs
}

// Class joins the non-empty class names into a class attribute value.
func Class(names ...string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

// El creates an element node with attrs and children. Nil children are skipped.
func El(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag)), Attr: attrs}
	Append(n, children...)
	return n
}

// Text creates an escaped text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Raw creates a node rendered verbatim.
func Raw(s string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: s}
}

// Doctype creates the HTML5 doctype node.
func Doctype() *html.Node {
	return &html.Node{Type: html.DoctypeNode, Data: "html"}
}

// Append attaches children to parent, skipping nil nodes.
func Append(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		parent.AppendChild(c)
	}
	return parent
}

// ParseFragment parses an HTML fragment in the context of a <div>.
func ParseFragment(src []byte) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	return html.ParseFragment(bytes.NewReader(src), ctx)
}

// Render serializes nodes in order.
func Render(nodes ...*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// GetAttr returns the value of the attribute key, or "".
func GetAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces the attribute key.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// AddClass appends a class name to the node's class attribute.
func AddClass(n *html.Node, name string) {
	SetAttr(n, "class", Class(GetAttr(n, "class"), name))
}

// Walk visits n and its descendants depth first.
func Walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// TextContent returns the text below the nodes with whitespace runs
// collapsed and block elements separated by a space. Script and style
// contents are skipped.
func TextContent(nodes ...*html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			if blockElements[n.DataAtom] {
				b.WriteByte(' ')
				defer b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for _, n := range nodes {
		visit(n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

var blockElements = map[atom.Atom]bool{
	atom.Article: true, atom.Blockquote: true, atom.Br: true, atom.Dd: true,
	atom.Div: true, atom.Dt: true, atom.Figcaption: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Hr: true, atom.Li: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Td: true, atom.Th: true,
	atom.Tr: true, atom.Ul: true,
}
