package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"lexchunk/internal/layout"
	"lexchunk/internal/parser"
	"lexchunk/internal/segment"
	"lexchunk/internal/store"
)

// Worker processes a single document job: parse, segment, embed.
type Worker struct {
	store *store.ChunkStore
	log   *slog.Logger
}

func NewWorker(cs *store.ChunkStore, log *slog.Logger) *Worker {
	return &Worker{store: cs, log: log}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	chunks, fontNames, err := w.segmentDocument(ctx, job, log)
	if err != nil {
		log.Error("segmentation failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "segmenting")
		return
	}
	job.SetResult(chunks, fontNames)
	log.Info("document segmented", "chunks", len(chunks), "fonts", len(fontNames))

	if len(chunks) == 0 {
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "segmenting")
		return
	}

	// Embed and store with retry; chunks stay readable on the job either
	// way, so an embedding outage degrades to a partial result.
	job.SetStatus(StatusEmbedding, "embedding")
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.Add(ctx, job.DocID, chunks)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			lastErr = ctx.Err()
		}
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		log.Error("embedding store failed", "error", lastErr)
		job.AddError(fmt.Sprintf("store: %s", lastErr))
		job.SetStatus(StatusPartial, "embedding")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}

// segmentDocument dispatches by file type. PDFs run the two-pass layout
// engine; heading-structured text formats go through the simple parsers.
func (w *Worker) segmentDocument(ctx context.Context, job *Job, log *slog.Logger) ([]segment.Chunk, []string, error) {
	ext := strings.ToLower(filepath.Ext(job.Filename))

	if ext != ".pdf" {
		job.SetStatus(StatusParsing, "parsing")
		p, err := parser.ForFile(job.Filename)
		if err != nil {
			return nil, nil, err
		}
		chunks, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", ext, err)
		}
		return chunks, nil, nil
	}

	job.SetStatus(StatusParsing, "parsing")
	doc, err := layout.ParsePDF(bytes.NewReader(job.FileData()))
	if err != nil {
		return nil, nil, fmt.Errorf("parse pdf: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	job.SetStatus(StatusAnalyzing, "layout analysis")
	opts := job.Options
	opts.Log = log
	segmenting := false
	opts.Progress = func(status string) {
		// The first report arrives when the statistics pass is done.
		if !segmenting {
			segmenting = true
			job.SetStatus(StatusSegmenting, "segmenting")
		}
		job.SetStatusLine(status)
	}

	res, err := segment.Run(doc, opts)
	if err != nil {
		return nil, nil, err
	}
	return res.Chunks, res.FontNames, nil
}
