// Package render builds widget markup as html.Node trees. Builders take a view
// computed by the widget runtime plus theme tokens and never perform I/O.
package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// El creates an element node
func El(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// Text creates a text node; the serializer escapes it
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// A is shorthand for an attribute
func A(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Append adds children to parent, skipping nil ones, and returns parent
func Append(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
	return parent
}

// Wrap creates an element holding children
func Wrap(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	return Append(El(tag, attrs...), children...)
}

// Attrs collects attributes for Wrap
func Attrs(kv ...string) []html.Attribute {
	out := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, A(kv[i], kv[i+1]))
	}
	return out
}

// HTML serializes n
func HTML(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Document wraps a widget root into a minimal standalone page for iframe embedding
func Document(title, lang string, body *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	return Append(doc,
		Wrap("html", Attrs("lang", lang),
			Wrap("head", nil,
				El("meta", A("charset", "utf-8")),
				El("meta", A("name", "viewport"), A("content", "width=device-width, initial-scale=1")),
				Wrap("title", nil, Text(title)),
			),
			Wrap("body", Attrs("style", "margin:0;background:transparent;"), body),
		),
	)
}
