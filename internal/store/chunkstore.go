// Package store persists segmented chunks in an embedded chromem-go vector
// database, one collection per document, and answers similarity queries over
// them. Embeddings are computed by an Ollama endpoint at insert time; the
// chunks themselves are emitted upstream with the embeddings field empty.
package store

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/philippgille/chromem-go"

	"lexchunk/internal/segment"
)

// ChunkStore wraps the vector database.
type ChunkStore struct {
	db     *chromem.DB
	embedf chromem.EmbeddingFunc
	Stats  *EmbedStats
}

// SearchHit is one similarity-search result.
type SearchHit struct {
	Text       string  `json:"text"`
	Heading    string  `json:"heading"`
	Page       string  `json:"page,omitempty"`
	Similarity float32 `json:"similarity"`
}

// New opens the store. An empty dbPath keeps everything in memory; otherwise
// collections persist under that directory across restarts.
func New(dbPath, ollamaURL, embedModel string) (*ChunkStore, error) {
	var db *chromem.DB
	var err error
	if dbPath != "" {
		db, err = chromem.NewPersistentDB(dbPath, false)
		if err != nil {
			return nil, fmt.Errorf("open persistent db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	return &ChunkStore{
		db:     db,
		embedf: chromem.NewEmbeddingFuncOllama(embedModel, ollamaURL),
		Stats:  NewEmbedStats(512),
	}, nil
}

// Add embeds and stores a document's chunks, replacing any previous content
// for the same document ID.
func (s *ChunkStore) Add(ctx context.Context, docID string, chunks []segment.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	name := collectionName(docID)
	// Replace, never append: re-ingesting a document must not duplicate.
	_ = s.db.DeleteCollection(name)
	col, err := s.db.GetOrCreateCollection(name, nil, s.embedf)
	if err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for i, ch := range chunks {
		docs = append(docs, chromem.Document{
			ID:      strconv.Itoa(i),
			Content: ch.Text,
			Metadata: map[string]string{
				"heading": ch.Heading,
				"page":    ch.Page,
				"index":   strconv.Itoa(i),
			},
		})
	}

	start := time.Now()
	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents to %s: %w", name, err)
	}
	s.Stats.Record(time.Since(start).Milliseconds() / int64(len(docs)))
	return nil
}

// Search runs a similarity query against one document's chunks.
func (s *ChunkStore) Search(ctx context.Context, docID, query string, limit int) ([]SearchHit, error) {
	col := s.db.GetCollection(collectionName(docID), s.embedf)
	if col == nil {
		return nil, fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	if limit <= 0 {
		limit = 5
	}
	if n := col.Count(); limit > n {
		limit = n
	}
	if limit == 0 {
		return nil, nil
	}

	results, err := col.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query document %s: %w", docID, err)
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, SearchHit{
			Text:       r.Content,
			Heading:    r.Metadata["heading"],
			Page:       r.Metadata["page"],
			Similarity: r.Similarity,
		})
	}
	return hits, nil
}

// Delete drops a document's collection. Deleting an absent document is not an
// error.
func (s *ChunkStore) Delete(docID string) error {
	return s.db.DeleteCollection(collectionName(docID))
}

func collectionName(docID string) string {
	return "doc_" + docID
}
