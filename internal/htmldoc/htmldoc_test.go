package htmldoc

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestParseRenderBodyRoundTrip(t *testing.T) {
	in := `<p>hello <em>there</em></p><ul><li>one</li></ul>`
	doc, err := ParseString(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := RenderBody(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != in {
		t.Errorf("round trip changed markup:\n in: %q\nout: %q", in, out)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	doc, err := ParseString("<p>original</p>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cp := Clone(doc)

	// Mutate the clone's text node.
	txt := FindFirst(cp, func(n *html.Node) bool { return n.Type == html.TextNode })
	if txt == nil {
		t.Fatal("no text node in clone")
	}
	txt.Data = "changed"

	orig, _ := RenderBody(doc)
	if !strings.Contains(orig, "original") {
		t.Errorf("mutating the clone changed the source tree: %q", orig)
	}
	cloned, _ := RenderBody(cp)
	if !strings.Contains(cloned, "changed") {
		t.Errorf("clone mutation lost: %q", cloned)
	}
}

func TestClone_CopiesAttributes(t *testing.T) {
	doc, err := ParseString(`<p class="x" data-k="v">t</p>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cp := Clone(doc)
	p := FindFirst(cp, func(n *html.Node) bool { return IsElement(n, "p") })
	if p == nil {
		t.Fatal("no p in clone")
	}
	if Attr(p, "data-k") != "v" || !HasClass(p, "x") {
		t.Errorf("attributes not copied: %v", p.Attr)
	}
}

func TestText_CollapsesWhitespace(t *testing.T) {
	doc, err := ParseString("<p>  a \n b <em> c </em> d  </p>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := Text(doc); got != "a b c d" {
		t.Errorf("expected %q, got %q", "a b c d", got)
	}
}

func TestFindAll_DocumentOrder(t *testing.T) {
	doc, err := ParseString("<p>1</p><div><p>2</p></div><p>3</p>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ps := FindAll(doc, func(n *html.Node) bool { return IsElement(n, "p") })
	if len(ps) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(ps))
	}
	for i, p := range ps {
		if got := Text(p); got != string(rune('1'+i)) {
			t.Errorf("paragraph %d: expected %q, got %q", i, string(rune('1'+i)), got)
		}
	}
}

func TestElemAndTextNode(t *testing.T) {
	span := Elem("span", "class", "tip", "data-definition", "a hint")
	span.AppendChild(TextNode("term"))

	out, err := Render(span)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<span class="tip" data-definition="a hint">term</span>`
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestBody_MissingForFragmentlessNode(t *testing.T) {
	if Body(Elem("div")) != nil {
		t.Error("expected nil body for a bare element")
	}
}
