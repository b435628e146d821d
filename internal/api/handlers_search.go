package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"lexchunk/internal/store"
)

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// handleSearch runs a similarity query over one document's chunks.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	hits, err := s.orchestrator.ChunkStore().Search(r.Context(), docID, req.Query, req.Limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if hits == nil {
		hits = []store.SearchHit{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":  docID,
		"results": hits,
	})
}

// handleDeleteDocument drops a document's stored chunks. Deleting an absent
// document succeeds.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.orchestrator.ChunkStore().Delete(docID); err != nil {
		jsonError(w, "delete failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doc_id": docID, "deleted": true})
}
