package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/careerctx/internal/audit"
	"github.com/ziadkadry99/careerctx/internal/db"
	"github.com/ziadkadry99/careerctx/internal/documents"
	"github.com/ziadkadry99/careerctx/internal/embeddings"
	"github.com/ziadkadry99/careerctx/internal/facts"
	"github.com/ziadkadry99/careerctx/internal/retrieval"
	"github.com/ziadkadry99/careerctx/internal/weighting"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Deps are the components the API serves.
type Deps struct {
	Documents *documents.Store
	Facts     *facts.Store
	Weights   *weighting.Calculator
	Assembler *retrieval.Assembler
	Cache     *embeddings.Cache
	Audit     *audit.Store // optional
}

// Server exposes documents, weights, retrieval and company facts over HTTP.
type Server struct {
	cfg        Config
	db         *db.DB
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

// New creates a server and registers every route.
func New(cfg Config, database *db.DB, deps Deps) *Server {
	s := &Server{cfg: cfg, db: database, deps: deps}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/documents", func(r chi.Router) {
		r.Get("/", s.handleListDocuments)
		r.Post("/", s.handleCreateDocument)
		r.Delete("/{id}", s.handleDeleteDocument)
		r.Get("/{id}/weight", s.handleGetWeight)
		r.Patch("/{id}/weight", s.handleSetWeight)
	})
	r.Post("/api/retrieve", s.handleRetrieve)
	r.Get("/api/cache/stats", s.handleCacheStats)

	if s.deps.Facts != nil {
		facts.RegisterRoutes(r, s.deps.Facts)
	}
	if s.deps.Audit != nil {
		audit.RegisterRoutes(r, s.deps.Audit)
	}
	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("careerctx server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
