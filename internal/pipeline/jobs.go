package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/htmlgeo/internal/enrich"
	"github.com/dgallion1/htmlgeo/internal/schema"
)

// JobStatus represents the state of an ingest-and-enrich job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusConverting JobStatus = "converting"
	StatusEnriching  JobStatus = "enriching"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// EnrichOptions selects which passes a job runs and with what limits.
// Chunking always runs; terms and citations run when supplied.
type EnrichOptions struct {
	MaxTokens int
	Overlap   int
	Glossary  []enrich.TermEntry
	Citations []enrich.CitationRecord
}

// EnrichResult is the output of a completed job.
type EnrichResult struct {
	HTML       string                     `json:"html"`
	Chunks     []enrich.Chunk             `json:"chunks"`
	Warnings   []string                   `json:"warnings,omitempty"`
	References []enrich.BibliographyEntry `json:"references,omitempty"`
	Schemas    []schema.Doc               `json:"schemas,omitempty"`
}

// Progress tracks enrichment progress.
type Progress struct {
	Blocks    int      `json:"blocks"`
	Chunks    int      `json:"chunks"`
	Citations int      `json:"citations"`
	Errors    []string `json:"errors"`
}

// Job tracks the state of a single document enrichment.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`

	// Internal: not serialized.
	updatedAt time.Time
	fileData  []byte
	options   EnrichOptions
	result    *EnrichResult
	errors    []string
}

// NewJob builds a queued job holding the upload and its options.
func NewJob(id, filename string, data []byte, opts EnrichOptions) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		updatedAt: now,
		fileData:  data,
		options:   opts,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.updatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.updatedAt = time.Now()
}

// SetProgress records block/chunk/citation counts.
func (j *Job) SetProgress(blocks, chunks, citations int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Blocks = blocks
	j.Progress.Chunks = chunks
	j.Progress.Citations = citations
	j.updatedAt = time.Now()
}

// SetResult stores the completed enrichment output.
func (j *Job) SetResult(res *EnrichResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.updatedAt = time.Now()
}

// UpdatedAt reports the time of the last state transition.
func (j *Job) UpdatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.updatedAt
}

// Result returns the stored output, or nil while the job is in flight.
func (j *Job) Result() *EnrichResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// FileData returns the raw upload bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Options returns the job's enrichment options.
func (j *Job) Options() EnrichOptions {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.options
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Progress: Progress{
			Blocks:    j.Progress.Blocks,
			Chunks:    j.Progress.Chunks,
			Citations: j.Progress.Citations,
			Errors:    errs,
		},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
