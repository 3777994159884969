package api

import (
	"fmt"
	"html"
	"strings"

	"github.com/dgallion1/htmlgeo/internal/enrich"
	"github.com/dgallion1/htmlgeo/internal/schema"
)

// Visible-HTML assembly for the enrichment responses. The engine returns
// trees, chunks, and bibliography entries; these helpers compose the page
// fragments a caller would embed. Section and chunk content is markup and
// passes through untouched; titles, headings, and answers are escaped.

func renderChunkWrapper(chunks []enrich.Chunk) string {
	var buf strings.Builder
	buf.WriteString(`<div class="optimized-content chunked-view">`)
	for _, c := range chunks {
		fmt.Fprintf(&buf, `<div class="content-chunk" data-chunk-id="%d">`, c.Index)
		for _, frag := range c.Fragments {
			buf.WriteString(frag)
		}
		buf.WriteString(`</div>`)
	}
	buf.WriteString(`</div>`)
	return buf.String()
}

func renderArticle(title string, sections []schema.Section) string {
	var buf strings.Builder
	buf.WriteString(`<article itemscope itemtype="https://schema.org/Article">`)
	fmt.Fprintf(&buf, "<h1>%s</h1>", html.EscapeString(title))
	for _, sec := range sections {
		level := sec.Level
		if level < 1 || level > 6 {
			level = 2
		}
		fmt.Fprintf(&buf, "<h%d>%s</h%d>", level, html.EscapeString(sec.Heading), level)
		fmt.Fprintf(&buf, `<div itemprop="articleBody">%s</div>`, sec.Content)
	}
	buf.WriteString(`</article>`)
	return buf.String()
}

func renderFAQ(pairs []schema.QA) string {
	var buf strings.Builder
	buf.WriteString(`<section class="faq">`)
	for _, qa := range pairs {
		buf.WriteString(`<div class="faq-item">`)
		fmt.Fprintf(&buf, "<h3>%s</h3>", html.EscapeString(qa.Question))
		fmt.Fprintf(&buf, `<div class="faq-answer">%s</div>`, html.EscapeString(qa.Answer))
		buf.WriteString(`</div>`)
	}
	buf.WriteString(`</section>`)
	return buf.String()
}

func renderReferences(entries []enrich.BibliographyEntry) string {
	var buf strings.Builder
	buf.WriteString(`<section id="references" class="references"><h2>References</h2><ol>`)
	for _, e := range entries {
		buf.WriteString("<li>")
		buf.WriteString(html.EscapeString(e.Text))
		if e.URL != "" {
			fmt.Fprintf(&buf, ` <a href="%s">%s</a>`,
				html.EscapeString(e.URL), html.EscapeString(e.URL))
		}
		buf.WriteString("</li>")
	}
	buf.WriteString(`</ol></section>`)
	return buf.String()
}
