package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/alan-mat/sway/internal/chat"
	"github.com/alan-mat/sway/internal/indexer"
	"github.com/alan-mat/sway/internal/provider"
	"github.com/alan-mat/sway/internal/session"
	"github.com/alan-mat/sway/internal/syllabus"
	"github.com/alan-mat/sway/internal/vector"
)

const shutdownTimeout = 10 * time.Second

type ServerConfig struct {
	ListenHost string
	ListenPort int

	// UploadDir is where uploaded documents are stored before indexing.
	UploadDir string
}

func DefaultConfig() ServerConfig {
	return ServerConfig{
		ListenPort: 8080,
		UploadDir:  "pdfs",
	}
}

// Dependencies holds the external clients the server operates with.
// All of them are constructed before the server starts, so a missing
// credential fails at boot instead of on the first request.
type Dependencies struct {
	LM          provider.LMProvider
	Embedder    provider.Embedder
	Reranker    provider.Reranker
	VectorStore vector.Store
	Sessions    session.Store
}

// Server exposes the syllabus generator and the document chat over HTTP.
type Server struct {
	config ServerConfig

	syllabus *syllabus.Pipeline
	chat     *chat.Pipeline
	indexer  *indexer.Indexer

	sessions session.Store
	vectors  vector.Store
}

func New(config ServerConfig, deps Dependencies) *Server {
	cp := chat.NewPipeline(deps.LM, deps.Embedder, deps.VectorStore)
	if deps.Reranker != nil {
		cp = cp.WithReranker(deps.Reranker)
	}

	return &Server{
		config:   config,
		syllabus: syllabus.NewPipeline(deps.LM),
		chat:     cp,
		indexer:  indexer.New(deps.VectorStore, deps.Embedder),
		sessions: deps.Sessions,
		vectors:  deps.VectorStore,
	}
}

// Handler builds the route tree. Exposed separately from Serve so
// tests can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(requestLogger)
	r.Use(recoverJSON)

	r.Get("/", s.handleCatalog)
	r.Post("/SwaySyllabusGenerator", s.handleSyllabus)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Post("/documents", s.handleUploadDocument)
			r.Post("/chat", s.handleChat)
		})
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context) error {
	lisAddr := fmt.Sprintf("%s:%d", s.config.ListenHost, s.config.ListenPort)

	srv := &http.Server{
		Addr:    lisAddr,
		Handler: s.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server starting", "listener", lisAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Server shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
