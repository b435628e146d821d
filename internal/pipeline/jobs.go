package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"lexchunk/internal/segment"
)

// JobStatus represents the state of a segmentation job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusAnalyzing  JobStatus = "analyzing"
	StatusSegmenting JobStatus = "segmenting"
	StatusEmbedding  JobStatus = "embedding"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single document through the pipeline.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Title    string `json:"title"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	// StatusLine is the engine's free-text progress report, refreshed after
	// each page. Its wording is not a compatibility surface.
	StatusLine string `json:"status_line"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Per-document segmentation overrides, set at submission.
	Options segment.Options `json:"-"`

	// Internal: not serialized.
	fileData []byte
	chunks   []segment.Chunk
	errors   []string
}

// Progress tracks processing progress and diagnostics.
type Progress struct {
	TotalChunks int      `json:"total_chunks"`
	FontNames   []string `json:"font_names,omitempty"`
	Errors      []string `json:"errors"`
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
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetStatusLine records the engine's per-page progress message.
func (j *Job) SetStatusLine(line string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.StatusLine = line
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult stores the segmentation output on the job.
func (j *Job) SetResult(chunks []segment.Chunk, fontNames []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.chunks = chunks
	j.Progress.TotalChunks = len(chunks)
	j.Progress.FontNames = fontNames
	j.UpdatedAt = time.Now()
}

// Chunks returns the segmentation output, nil until segmenting finished.
func (j *Job) Chunks() []segment.Chunk {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.chunks
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	DocID      string    `json:"doc_id"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	StatusLine string    `json:"status_line"`
	Progress   Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	fonts := make([]string, len(j.Progress.FontNames))
	copy(fonts, j.Progress.FontNames)
	return JobSnapshot{
		ID:         j.ID,
		DocID:      j.DocID,
		Filename:   j.Filename,
		Title:      j.Title,
		Status:     j.Status,
		Phase:      j.Phase,
		StatusLine: j.StatusLine,
		Progress: Progress{
			TotalChunks: j.Progress.TotalChunks,
			FontNames:   fonts,
			Errors:      errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns the hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
