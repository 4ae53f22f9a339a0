package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment is a rendered piece of markup: zero or more sibling nodes.
// An empty Fragment renders nothing.
type Fragment []*html.Node

// Render serializes every node of the fragment in order.
func (f Fragment) Render(w io.Writer) error {
	for _, n := range f {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// String returns the serialized markup.
func (f Fragment) String() string {
	var b strings.Builder
	_ = f.Render(&b)
	return b.String()
}

func el(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute { return html.Attribute{Key: key, Val: val} }

func class(v string) html.Attribute { return attr("class", v) }

func text(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }

// add appends the non-nil children to parent and returns parent.
func add(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
	return parent
}

func one(n *html.Node) Fragment {
	if n == nil {
		return nil
	}
	return Fragment{n}
}
