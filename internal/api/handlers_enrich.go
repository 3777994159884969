package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/dgallion1/htmlgeo/internal/enrich"
	"github.com/dgallion1/htmlgeo/internal/htmldoc"
	"github.com/dgallion1/htmlgeo/internal/schema"
	"github.com/dgallion1/htmlgeo/internal/source"
)

type glossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// parseContent turns request content into a tree. Markdown is converted
// first; everything else is treated as HTML.
func parseContent(content, format string) (*html.Node, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &enrich.InvalidContentError{Reason: "content is required"}
	}
	if format == "markdown" || format == "md" {
		conv := &source.MarkdownConverter{}
		rendered, err := conv.Convert(strings.NewReader(content), "request.md")
		if err != nil {
			return nil, &enrich.InvalidContentError{Reason: err.Error()}
		}
		content = rendered
	}
	doc, err := htmldoc.ParseString(content)
	if err != nil {
		return nil, &enrich.InvalidContentError{Reason: err.Error()}
	}
	return doc, nil
}

// writeEnrichError maps engine errors onto HTTP statuses.
func writeEnrichError(w http.ResponseWriter, err error) {
	var notFound *enrich.NotFoundError
	switch {
	case errors.As(err, &notFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, enrich.ErrInvalidConfig):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		jsonError(w, err.Error(), http.StatusBadRequest)
	}
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content   string `json:"content"`
		Format    string `json:"format"`
		MaxTokens *int   `json:"max_tokens"`
		Overlap   *int   `json:"overlap"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := enrich.ChunkConfig{
		MaxTokens: s.cfg.DefaultMaxTokens,
		Overlap:   s.cfg.DefaultOverlap,
	}
	if req.MaxTokens != nil {
		cfg.MaxTokens = *req.MaxTokens
	}
	if req.Overlap != nil {
		cfg.Overlap = *req.Overlap
	}

	doc, err := parseContent(req.Content, req.Format)
	if err != nil {
		writeEnrichError(w, err)
		return
	}

	blocks, err := enrich.SegmentBlocks(doc)
	if err != nil {
		writeEnrichError(w, err)
		return
	}

	res, err := enrich.AssembleChunks(blocks, cfg)
	if err != nil {
		writeEnrichError(w, err)
		return
	}
	for _, warning := range res.Warnings {
		s.log.Warn("chunk config", "warning", warning)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"html":     renderChunkWrapper(res.Chunks),
		"chunks":   res.Chunks,
		"warnings": res.Warnings,
	})
}

func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content  string          `json:"content"`
		Format   string          `json:"format"`
		Glossary []glossaryEntry `json:"glossary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := parseContent(req.Content, req.Format)
	if err != nil {
		writeEnrichError(w, err)
		return
	}

	glossary := make([]enrich.TermEntry, len(req.Glossary))
	terms := make([]schema.DefinedTerm, len(req.Glossary))
	for i, g := range req.Glossary {
		glossary[i] = enrich.TermEntry{Term: g.Term, Definition: g.Definition}
		terms[i] = schema.DefinedTerm{Name: g.Term, Description: g.Definition}
	}

	annotated := enrich.AnnotateTerms(doc, glossary)
	rendered, err := htmldoc.RenderBody(annotated)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"html":   rendered,
		"schema": schema.NewDefinedTermSet(terms),
	})
}

func (s *Server) handleCitations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content    string                  `json:"content"`
		Format     string                  `json:"format"`
		Citations  []enrich.CitationRecord `json:"citations"`
		CitationID string                  `json:"citation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := parseContent(req.Content, req.Format)
	if err != nil {
		writeEnrichError(w, err)
		return
	}

	// One registry per request: citation numbering is session-scoped.
	registry := enrich.NewCitationRegistry()
	if req.CitationID != "" {
		err = registry.Resolve(doc, req.CitationID, req.Citations)
	} else {
		err = registry.ResolveAll(doc, req.Citations)
	}
	if err != nil {
		writeEnrichError(w, err)
		return
	}

	rendered, err := htmldoc.RenderBody(doc)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	references := registry.Bibliography()
	resolved := registry.Resolved()
	citations := make([]schema.Citation, len(resolved))
	for i, rec := range resolved {
		citations[i] = schema.Citation{
			Title:     rec.Title,
			Authors:   rec.Authors,
			Publisher: rec.Publisher,
			Date:      rec.Date,
			URL:       rec.URL,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"html":            rendered,
		"references":      references,
		"references_html": renderReferences(references),
		"schema":          schema.NewScholarlyArticle(citations),
	})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string           `json:"title"`
		Sections []schema.Section `json:"sections"`
		Metadata map[string]any   `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"html":   renderArticle(req.Title, req.Sections),
		"schema": schema.NewArticle(req.Title, req.Sections, req.Metadata),
	})
}

func (s *Server) handleFAQ(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QAPairs []schema.QA `json:"qa_pairs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"html":   renderFAQ(req.QAPairs),
		"schema": schema.NewFAQPage(req.QAPairs),
	})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content    string `json:"content"`
		Context    string `json:"context"`
		Role       string `json:"role"`
		SchemaType string `json:"schema_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Context) == "" {
		jsonError(w, "context is required", http.StatusBadRequest)
		return
	}

	doc := schema.NewContextBlock(schema.ContextBlock{
		Context:    strings.TrimSpace(req.Context),
		Role:       req.Role,
		SchemaType: req.SchemaType,
	}, time.Now())

	// The visible element is returned unchanged; the context rides alongside.
	writeJSON(w, http.StatusOK, map[string]any{
		"html":   req.Content,
		"schema": doc,
	})
}

func (s *Server) handleDensity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"density": enrich.InformationDensity(req.Text),
		"tokens":  enrich.EstimateTokens(req.Text),
	})
}
