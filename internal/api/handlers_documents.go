package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lexchunk/internal/parser"
	"lexchunk/internal/pipeline"
	"lexchunk/internal/segment"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
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
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" && !parser.IsSupportedExtension(filename) {
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

	opts, err := s.segmentOverrides(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	docID := r.FormValue("doc_id")
	if docID == "" {
		docID = pipeline.ContentHashHex(data)[:16]
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        uuid.NewString(),
		DocID:     docID,
		Filename:  filename,
		Title:     r.FormValue("title"),
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Options:   opts,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"doc_id":   job.DocID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

// segmentOverrides merges per-document form overrides into the service
// defaults. Bad patterns and margins are rejected here so the job never
// starts with options the engine would refuse.
func (s *Server) segmentOverrides(r *http.Request) (segment.Options, error) {
	opts := s.defaults

	if v := r.FormValue("footer_pattern"); v != "" {
		re, err := segment.CompilePattern(v)
		if err != nil {
			return segment.Options{}, fmt.Errorf("footer_pattern: %w", err)
		}
		opts.FooterPattern = re
	}
	if v := r.FormValue("paragraph_pattern"); v != "" {
		re, err := segment.CompilePattern(v)
		if err != nil {
			return segment.Options{}, fmt.Errorf("paragraph_pattern: %w", err)
		}
		opts.ParagraphPattern = re
	}
	if v := r.FormValue("top_margin"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return segment.Options{}, fmt.Errorf("top_margin: %w", err)
		}
		opts.TopMargin = f
	}
	if v := r.FormValue("bottom_margin"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return segment.Options{}, fmt.Errorf("bottom_margin: %w", err)
		}
		opts.BottomMargin = f
	}

	if err := opts.Validate(); err != nil {
		return segment.Options{}, err
	}
	return opts, nil
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleJobChunks(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	chunks := job.Chunks()
	if chunks == nil {
		snap := job.Snapshot()
		jsonError(w, fmt.Sprintf("chunks not ready, job is %s", snap.Status), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": job.DocID,
		"count":  len(chunks),
		"chunks": chunks,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
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
