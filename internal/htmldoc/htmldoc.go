// Package htmldoc wraps golang.org/x/net/html with the small set of
// parse/render/query helpers the enrichment passes need. Annotation passes
// never mutate a caller's tree directly; they operate on a Clone.
package htmldoc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	return doc, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Render serializes a node back to markup.
func Render(n *html.Node) (string, error) {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderBody serializes the children of the document's <body>, so a
// round-trip of a fragment does not accumulate html/head/body wrappers.
// Falls back to rendering the whole node when there is no body.
func RenderBody(doc *html.Node) (string, error) {
	body := Body(doc)
	if body == nil {
		return Render(doc)
	}
	var buf strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Clone returns a deep copy of n. Parent/sibling links of the copy's root
// are nil; attributes and children are copied recursively.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	cp := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		cp.Attr = make([]html.Attribute, len(n.Attr))
		copy(cp.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cp.AppendChild(Clone(c))
	}
	return cp
}

// Text returns the whitespace-collapsed text content of a subtree.
func Text(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// FindAll returns every node in the subtree (document order, n included)
// for which pred returns true.
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindFirst returns the first node in document order matching pred, or nil.
func FindFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := FindFirst(c, pred); m != nil {
			return m
		}
	}
	return nil
}

// Body returns the <body> element of a document, or nil.
func Body(doc *html.Node) *html.Node {
	return FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether the node's class attribute contains name.
func HasClass(n *html.Node, name string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element with the given tag.
func IsElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// Elem builds an element node. Attributes are given as key/value pairs.
func Elem(tag string, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

// TextNode builds a text node.
func TextNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// ParseError reports markup the parser could not handle.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "invalid html content: " + e.Reason
}
