package enrich

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/htmlgeo/internal/htmldoc"
)

// TermClass is the class tag carried by annotation wrappers, used by
// downstream styling and by the annotator itself to keep wrapped text inert.
const TermClass = "technical-term"

// TermEntry maps a glossary term to its definition. Matching is
// case-sensitive substring containment against raw text-node content.
type TermEntry struct {
	Term       string
	Definition string
}

// AnnotateTerms wraps glossary-term occurrences in the tree with annotation
// spans and returns the annotated copy. The input tree is never mutated.
//
// Each text node is scanned once per pass: terms apply in glossary order,
// each at its first occurrence, and after a match scanning continues only
// in the remainder of the node, so matches land left to right without
// overlap. Text inside script/style containers or inside an existing
// annotation span is skipped. An empty glossary returns an untouched copy.
func AnnotateTerms(root *html.Node, glossary []TermEntry) *html.Node {
	out := htmldoc.Clone(root)
	if len(glossary) == 0 {
		return out
	}

	// Snapshot the text nodes first: annotation splices new siblings in,
	// and the walk must not revisit them.
	texts := htmldoc.FindAll(out, func(n *html.Node) bool {
		return n.Type == html.TextNode && annotatable(n)
	})

	for _, txt := range texts {
		annotateTextNode(txt, glossary)
	}
	return out
}

// annotatable reports whether a text node may be rewritten: nothing inside
// script/style, nothing already inside an annotation wrapper.
func annotatable(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		switch {
		case p.Data == "script" || p.Data == "style":
			return false
		case p.Data == "span" && htmldoc.HasClass(p, TermClass):
			return false
		}
	}
	return true
}

// annotateTextNode splits txt around each matched term, inserting
// [before, wrapper] before the node and keeping the remainder in place.
func annotateTextNode(txt *html.Node, glossary []TermEntry) {
	for _, entry := range glossary {
		if entry.Term == "" {
			continue
		}
		idx := strings.Index(txt.Data, entry.Term)
		if idx < 0 {
			continue
		}

		parent := txt.Parent
		if parent == nil {
			return
		}
		before := txt.Data[:idx]
		after := txt.Data[idx+len(entry.Term):]

		if before != "" {
			parent.InsertBefore(htmldoc.TextNode(before), txt)
		}
		parent.InsertBefore(wrapTerm(entry), txt)

		if after == "" {
			parent.RemoveChild(txt)
			return
		}
		// Keep scanning for further terms in the remainder only.
		txt.Data = after
	}
}

// wrapTerm builds the annotation span: visible term text plus the
// definition as sidecar data.
func wrapTerm(entry TermEntry) *html.Node {
	span := htmldoc.Elem("span",
		"class", TermClass,
		"data-definition", entry.Definition,
	)
	span.AppendChild(htmldoc.TextNode(entry.Term))
	return span
}
