package source

import (
	"strings"
	"testing"
)

func TestTextConverter_ParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	c := &TextConverter{}
	out, err := c.Convert(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Count(out, "<p>"); got != 3 {
		t.Fatalf("expected 3 paragraphs, got %d in %q", got, out)
	}
	if !strings.Contains(out, "<p>First paragraph line one.\nFirst paragraph line two.</p>") {
		t.Errorf("multi-line paragraph not preserved: %q", out)
	}
	if !strings.Contains(out, "<p>Second paragraph.</p>") {
		t.Errorf("second paragraph missing: %q", out)
	}
}

func TestTextConverter_EmptyInput(t *testing.T) {
	c := &TextConverter{}
	out, err := c.Convert(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestTextConverter_EscapesMarkup(t *testing.T) {
	c := &TextConverter{}
	out, err := c.Convert(strings.NewReader("a < b & c"), "cmp.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "a &lt; b &amp; c") {
		t.Errorf("expected escaped text, got %q", out)
	}
}

func TestTextConverter_MultipleBlankLines(t *testing.T) {
	// Consecutive blank lines should not produce empty paragraphs.
	c := &TextConverter{}
	out, err := c.Convert(strings.NewReader("Para one.\n\n\n\nPara two."), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(out, "<p>"); got != 2 {
		t.Errorf("expected 2 paragraphs, got %d in %q", got, out)
	}
}
