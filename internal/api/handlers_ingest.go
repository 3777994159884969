package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dgallion1/htmlgeo/internal/enrich"
	"github.com/dgallion1/htmlgeo/internal/pipeline"
	"github.com/dgallion1/htmlgeo/internal/source"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !source.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	opts, err := s.ingestOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(uuid.NewString(), filename, data, opts)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   job.Snapshot().Status,
		"poll_url": fmt.Sprintf("/api/ingest/%s/status", job.ID),
	})
}

// ingestOptions reads the optional form fields controlling the passes:
// numeric chunk overrides plus JSON-encoded glossary and citation lists.
func (s *Server) ingestOptions(r *http.Request) (pipeline.EnrichOptions, error) {
	opts := pipeline.EnrichOptions{
		MaxTokens: s.cfg.DefaultMaxTokens,
		Overlap:   s.cfg.DefaultOverlap,
	}
	if v := r.FormValue("max_tokens"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("max_tokens must be a positive integer, got %q", v)
		}
		opts.MaxTokens = n
	}
	if v := r.FormValue("overlap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("overlap must be a non-negative integer, got %q", v)
		}
		opts.Overlap = n
	}
	if v := r.FormValue("glossary"); v != "" {
		var entries []glossaryEntry
		if err := json.Unmarshal([]byte(v), &entries); err != nil {
			return opts, fmt.Errorf("glossary must be a JSON array of {term, definition}: %w", err)
		}
		for _, g := range entries {
			opts.Glossary = append(opts.Glossary, enrich.TermEntry{
				Term:       g.Term,
				Definition: g.Definition,
			})
		}
	}
	if v := r.FormValue("citations"); v != "" {
		if err := json.Unmarshal([]byte(v), &opts.Citations); err != nil {
			return opts, fmt.Errorf("citations must be a JSON array of citation records: %w", err)
		}
	}
	return opts, nil
}

func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	resp := map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"filename": snap.Filename,
		"progress": snap.Progress,
	}
	if result := job.Result(); result != nil {
		resp["result"] = result
	}
	writeJSON(w, http.StatusOK, resp)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
