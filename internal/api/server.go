package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lexchunk/internal/config"
	"lexchunk/internal/pipeline"
	"lexchunk/internal/segment"
)

// Server is the HTTP API server for lexchunk.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config

	// defaults are the service-wide segmentation options; uploads may
	// override the pattern and margin fields per document.
	defaults segment.Options
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config, defaults segment.Options) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
		defaults:     defaults,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/documents", s.handleUpload)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/chunks", s.handleJobChunks)

		r.Post("/api/documents/{docID}/search", s.handleSearch)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)

		r.Post("/api/templates/preprocess", s.handlePreprocessTemplate)
		r.Get("/api/stats/embeddings", s.handleEmbedStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
