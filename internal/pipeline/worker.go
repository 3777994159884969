package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/htmlgeo/internal/enrich"
	"github.com/dgallion1/htmlgeo/internal/htmldoc"
	"github.com/dgallion1/htmlgeo/internal/schema"
	"github.com/dgallion1/htmlgeo/internal/source"
)

// Worker converts one upload to HTML and runs the enrichment passes on it.
type Worker struct {
	log         *slog.Logger
	stats       *EnrichStats
	pdfFallback bool
}

func NewWorker(log *slog.Logger, stats *EnrichStats, pdfFallback bool) *Worker {
	return &Worker{
		log:         log,
		stats:       stats,
		pdfFallback: pdfFallback,
	}
}

// Process runs a job to completion, recording status transitions and the
// result on the job itself.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()

	job.SetStatus(StatusConverting, "converting")
	markup, err := w.convert(job)
	if err != nil {
		w.fail(job, fmt.Sprintf("convert: %v", err))
		return
	}

	job.SetStatus(StatusEnriching, "enriching")
	res, progress, err := w.enrichDocument(markup, job.Options())
	if err != nil {
		w.fail(job, fmt.Sprintf("enrich: %v", err))
		return
	}

	job.SetProgress(progress.Blocks, progress.Chunks, progress.Citations)
	job.SetResult(res)
	job.SetStatus(StatusCompleted, "done")

	w.stats.Record(time.Since(start))
	w.log.Info("job completed",
		"job_id", job.ID,
		"filename", job.Filename,
		"blocks", progress.Blocks,
		"chunks", progress.Chunks,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (w *Worker) convert(job *Job) (string, error) {
	conv, err := source.ForFile(job.Filename)
	if err != nil {
		return "", err
	}
	if p, ok := conv.(*source.PDFConverter); ok {
		p.FallbackPdftotext = w.pdfFallback
	}
	return conv.Convert(bytes.NewReader(job.FileData()), job.Filename)
}

// enrichDocument runs the term, citation, and chunking passes over the
// converted markup. Each job gets its own citation registry, so numbering
// never leaks between jobs.
func (w *Worker) enrichDocument(markup string, opts EnrichOptions) (*EnrichResult, Progress, error) {
	doc, err := htmldoc.ParseString(markup)
	if err != nil {
		return nil, Progress{}, err
	}

	var schemas []schema.Doc

	doc = enrich.AnnotateTerms(doc, opts.Glossary)
	if len(opts.Glossary) > 0 {
		terms := make([]schema.DefinedTerm, len(opts.Glossary))
		for i, e := range opts.Glossary {
			terms[i] = schema.DefinedTerm{Name: e.Term, Description: e.Definition}
		}
		schemas = append(schemas, schema.NewDefinedTermSet(terms))
	}

	var references []enrich.BibliographyEntry
	citations := 0
	if len(opts.Citations) > 0 {
		registry := enrich.NewCitationRegistry()
		if err := registry.ResolveAll(doc, opts.Citations); err != nil {
			return nil, Progress{}, err
		}
		references = registry.Bibliography()
		citations = len(references)
		schemas = append(schemas, schema.NewScholarlyArticle(citationEntries(registry.Resolved())))
	}

	blocks, err := enrich.SegmentBlocks(doc)
	if err != nil {
		return nil, Progress{}, err
	}

	cfg := enrich.ChunkConfig{MaxTokens: opts.MaxTokens, Overlap: opts.Overlap}
	chunked, err := enrich.AssembleChunks(blocks, cfg)
	if err != nil {
		return nil, Progress{}, err
	}

	rendered, err := htmldoc.RenderBody(doc)
	if err != nil {
		return nil, Progress{}, err
	}

	res := &EnrichResult{
		HTML:       rendered,
		Chunks:     chunked.Chunks,
		Warnings:   chunked.Warnings,
		References: references,
		Schemas:    schemas,
	}
	progress := Progress{
		Blocks:    len(blocks),
		Chunks:    len(chunked.Chunks),
		Citations: citations,
	}
	return res, progress, nil
}

func (w *Worker) fail(job *Job, msg string) {
	job.AddError(msg)
	job.SetStatus(StatusFailed, "failed")
	w.log.Error("job failed", "job_id", job.ID, "filename", job.Filename, "error", msg)
}

func citationEntries(records []enrich.CitationRecord) []schema.Citation {
	out := make([]schema.Citation, len(records))
	for i, rec := range records {
		out[i] = schema.Citation{
			Title:     rec.Title,
			Authors:   rec.Authors,
			Publisher: rec.Publisher,
			Date:      rec.Date,
			URL:       rec.URL,
		}
	}
	return out
}
