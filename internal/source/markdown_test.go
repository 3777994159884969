package source

import (
	"strings"
	"testing"
)

func TestMarkdownConverter_RendersBlocks(t *testing.T) {
	input := "# Title\n\nSome text here.\n\n- item one\n- item two\n\n> quoted\n"
	c := &MarkdownConverter{}
	out, err := c.Convert(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"<h1>Title</h1>",
		"<p>Some text here.</p>",
		"<li>item one</li>",
		"<li>item two</li>",
		"<blockquote>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestMarkdownConverter_EmptyInput(t *testing.T) {
	c := &MarkdownConverter{}
	out, err := c.Convert(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestHTMLConverter_NormalizesFragment(t *testing.T) {
	c := &HTMLConverter{}
	out, err := c.Convert(strings.NewReader("<p>keep me</p>"), "frag.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "<p>keep me</p>" {
		t.Errorf("expected fragment preserved without document wrappers, got %q", out)
	}
}

func TestHTMLConverter_StripsDocumentWrapper(t *testing.T) {
	c := &HTMLConverter{}
	out, err := c.Convert(strings.NewReader("<html><head><title>t</title></head><body><p>body only</p></body></html>"), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "<p>body only</p>" {
		t.Errorf("expected body content only, got %q", out)
	}
}

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		filename  string
		supported bool
	}{
		{"a.txt", true},
		{"a.md", true},
		{"a.csv", true},
		{"a.html", true},
		{"a.pdf", true},
		{"a.docx", true},
		{"a.xlsx", false},
		{"a", false},
	}
	for _, tc := range cases {
		_, err := ForFile(tc.filename)
		if tc.supported && err != nil {
			t.Errorf("%s: expected converter, got error %v", tc.filename, err)
		}
		if !tc.supported && err == nil {
			t.Errorf("%s: expected error for unsupported extension", tc.filename)
		}
		if got := IsSupportedExtension(tc.filename); got != tc.supported {
			t.Errorf("IsSupportedExtension(%s) = %v, want %v", tc.filename, got, tc.supported)
		}
	}
}
