package source

import (
	"fmt"
	"html"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFConverter handles PDF files. It tries the Go library first, then
// falls back to pdftotext if enabled. Each page becomes a heading plus
// paragraph blocks.
type PDFConverter struct {
	FallbackPdftotext bool
}

// pdfPage carries extracted text together with its 1-based page number,
// so headings stay aligned with the document even when unreadable pages
// are skipped.
type pdfPage struct {
	num  int
	text string
}

func (c *PDFConverter) Convert(r io.Reader, filename string) (string, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "htmlgeo-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFText(tmpPath)
	if err != nil && c.FallbackPdftotext {
		pages, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return renderPDFPages(pages), nil
}

func renderPDFPages(pages []pdfPage) string {
	var out strings.Builder
	for _, page := range pages {
		text := strings.TrimSpace(page.text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&out, "<h2>Page %d</h2>\n", page.num)
		for _, para := range strings.Split(text, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			out.WriteString("<p>")
			out.WriteString(html.EscapeString(para))
			out.WriteString("</p>\n")
		}
	}
	return out.String()
}

func extractPDFText(path string) ([]pdfPage, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []pdfPage
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, pdfPage{num: i, text: text})
	}
	return pages, nil
}

func extractPdftotext(path string) ([]pdfPage, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	var pages []pdfPage
	for i, text := range strings.Split(string(out), "\f") {
		pages = append(pages, pdfPage{num: i + 1, text: text})
	}
	return pages, nil
}
