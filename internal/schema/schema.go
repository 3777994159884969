// Package schema builds the schema.org JSON-LD documents embedded alongside
// enriched content. All builders are pure: no I/O, no shared state, one
// document per call.
package schema

import (
	"encoding/json"
	"time"
)

// Context is the fixed @context identifier carried by every document.
const Context = "https://schema.org"

// Doc is one structured-metadata document, immutable once built.
type Doc map[string]any

// JSON returns the compact serialized form of the document.
func (d Doc) JSON() (string, error) {
	b, err := json.Marshal(map[string]any(d))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ScriptTag wraps the document in an application/ld+json script element.
func (d Doc) ScriptTag() (string, error) {
	j, err := d.JSON()
	if err != nil {
		return "", err
	}
	return `<script type="application/ld+json">` + j + `</script>`, nil
}

// ContextBlock describes hidden LLM-facing context for a visible element.
type ContextBlock struct {
	Context    string // Human-authored context text. Required.
	Role       string // Context kind, e.g. "summary", "altText".
	SchemaType string // schema.org @type for the wrapped element.
}

// NewContextBlock builds the WebPageElement context document. Empty Role
// and SchemaType fall back to "summary" and "WebPageElement".
func NewContextBlock(b ContextBlock, now time.Time) Doc {
	role := b.Role
	if role == "" {
		role = "summary"
	}
	typ := b.SchemaType
	if typ == "" {
		typ = "WebPageElement"
	}
	return Doc{
		"@context":    Context,
		"@type":       typ,
		"role":        role,
		"dateCreated": now.UTC().Format("2006-01-02T15:04:05Z"),
		"llmContext":  b.Context,
	}
}

// Section is one article section referenced from the Article document.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level,omitempty"`
	Content string `json:"content"`
}

// NewArticle builds the Article document from a title, section headings,
// and optional extra schema.org properties. Metadata keys are merged in and
// may override the defaults.
func NewArticle(title string, sections []Section, metadata map[string]any) Doc {
	headings := make([]string, len(sections))
	for i, s := range sections {
		headings[i] = s.Heading
	}
	d := Doc{
		"@context":       Context,
		"@type":          "Article",
		"headline":       title,
		"articleSection": headings,
	}
	for k, v := range metadata {
		d[k] = v
	}
	return d
}

// QA is one question/answer pair.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// NewFAQPage builds the FAQPage document.
func NewFAQPage(pairs []QA) Doc {
	entities := make([]any, len(pairs))
	for i, qa := range pairs {
		entities[i] = map[string]any{
			"@type": "Question",
			"name":  qa.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  qa.Answer,
			},
		}
	}
	return Doc{
		"@context":   Context,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}

// DefinedTerm is one glossary entry in the DefinedTermSet document.
type DefinedTerm struct {
	Name        string
	Description string
}

// NewDefinedTermSet builds the glossary document. Every entry is listed,
// independent of how many times it matched in the content.
func NewDefinedTermSet(terms []DefinedTerm) Doc {
	list := make([]any, len(terms))
	for i, t := range terms {
		list[i] = map[string]any{
			"@type":       "DefinedTerm",
			"name":        t.Name,
			"description": t.Description,
		}
	}
	return Doc{
		"@context":    Context,
		"@type":       "DefinedTermSet",
		"definedTerm": list,
	}
}

// Citation is one resolved source in the ScholarlyArticle document.
type Citation struct {
	Title     string
	Authors   []string
	Publisher string
	Date      string
	URL       string
}

// NewScholarlyArticle builds the citation graph from resolved records, in
// the order given (first-seen order when built from a registry).
func NewScholarlyArticle(citations []Citation) Doc {
	list := make([]any, len(citations))
	for i, c := range citations {
		authors := c.Authors
		if authors == nil {
			authors = []string{}
		}
		entry := map[string]any{
			"@type":     "CreativeWork",
			"name":      c.Title,
			"author":    authors,
			"publisher": c.Publisher,
		}
		if c.Date != "" {
			entry["datePublished"] = c.Date
		}
		if c.URL != "" {
			entry["url"] = c.URL
		}
		list[i] = entry
	}
	return Doc{
		"@context": Context,
		"@type":    "ScholarlyArticle",
		"citation": list,
	}
}
