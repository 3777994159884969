package enrich

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/htmlgeo/internal/htmldoc"
)

// MarkerClass tags the placeholder spans that identify citation positions.
const MarkerClass = "citation-marker"

// CitationRecord is the metadata for one citable source. ID must be unique
// within a record list.
type CitationRecord struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Date      string   `json:"date,omitempty"`
	URL       string   `json:"url,omitempty"`
}

// CitationRegistry assigns stable sequence numbers to citation ids in order
// of first resolution and accumulates the resolved records for the
// bibliography. A registry is scoped to one enrichment session: construct a
// fresh one per session (or call Reset between sessions) — numbering
// accumulates across every Resolve call made through the same instance.
type CitationRegistry struct {
	seq      map[string]int
	resolved []CitationRecord
}

// NewCitationRegistry returns an empty, session-scoped registry.
func NewCitationRegistry() *CitationRegistry {
	return &CitationRegistry{seq: make(map[string]int)}
}

// Reset clears all numbering and resolved records.
func (r *CitationRegistry) Reset() {
	r.seq = make(map[string]int)
	r.resolved = nil
}

// Resolved returns the resolved records in first-seen order.
func (r *CitationRegistry) Resolved() []CitationRecord {
	out := make([]CitationRecord, len(r.resolved))
	copy(out, r.resolved)
	return out
}

// Resolve replaces the markers for id in the tree with a numbered
// reference. If no marker exists one is appended at the first block-level
// container (the body), else at the document root, then resolved there.
// The id is assigned the next sequence number on first resolution; repeat
// resolutions reuse the earlier number and do not re-enter the
// bibliography. Returns a NotFoundError, with no mutation, when id has no
// record.
func (r *CitationRegistry) Resolve(root *html.Node, id string, records []CitationRecord) error {
	rec, ok := findRecord(records, id)
	if !ok {
		return &NotFoundError{ID: id}
	}

	markers := findMarkers(root, id)
	if len(markers) == 0 {
		target := htmldoc.Body(root)
		if target == nil {
			target = root
		}
		m := htmldoc.Elem("span", "class", MarkerClass, "data-citation-id", id)
		target.AppendChild(m)
		markers = []*html.Node{m}
	}

	n, seen := r.seq[id]
	if !seen {
		n = len(r.resolved) + 1
		r.seq[id] = n
		r.resolved = append(r.resolved, rec)
	}

	for _, m := range markers {
		replaceWithCite(m, n)
	}
	return nil
}

// ResolveAll resolves every record's id in list order, auto-inserting
// markers for ids that have none. An empty record list is a no-op.
func (r *CitationRegistry) ResolveAll(root *html.Node, records []CitationRecord) error {
	for _, rec := range records {
		if err := r.Resolve(root, rec.ID, records); err != nil {
			return err
		}
	}
	return nil
}

// BibliographyEntry is one rendered references line.
type BibliographyEntry struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	URL    string `json:"url,omitempty"`
}

// Bibliography renders one entry per resolved record, deduplicated, in
// first-seen order.
func (r *CitationRegistry) Bibliography() []BibliographyEntry {
	entries := make([]BibliographyEntry, 0, len(r.resolved))
	for i, rec := range r.resolved {
		entries = append(entries, BibliographyEntry{
			Number: i + 1,
			Text:   formatCitation(rec),
			URL:    rec.URL,
		})
	}
	return entries
}

// formatCitation renders "authors. "title". publisher date".
func formatCitation(rec CitationRecord) string {
	var buf strings.Builder
	buf.WriteString(strings.Join(rec.Authors, ", "))
	buf.WriteString(". ")
	fmt.Fprintf(&buf, "%q. ", rec.Title)
	buf.WriteString(strings.TrimSpace(rec.Publisher + " " + rec.Date))
	return buf.String()
}

func findRecord(records []CitationRecord, id string) (CitationRecord, bool) {
	for _, rec := range records {
		if rec.ID == id {
			return rec, true
		}
	}
	return CitationRecord{}, false
}

func findMarkers(root *html.Node, id string) []*html.Node {
	return htmldoc.FindAll(root, func(n *html.Node) bool {
		return htmldoc.IsElement(n, "span") &&
			htmldoc.HasClass(n, MarkerClass) &&
			htmldoc.Attr(n, "data-citation-id") == id
	})
}

// replaceWithCite swaps a marker for <cite id="cite-n">[n]</cite>.
func replaceWithCite(marker *html.Node, n int) {
	parent := marker.Parent
	if parent == nil {
		return
	}
	cite := htmldoc.Elem("cite", "id", fmt.Sprintf("cite-%d", n))
	cite.AppendChild(htmldoc.TextNode(fmt.Sprintf("[%d]", n)))
	parent.InsertBefore(cite, marker)
	parent.RemoveChild(marker)
}
