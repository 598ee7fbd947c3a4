// Package api provides the HTTP API server and handlers for the Newsdesk
// backend.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/newsdeskapp/newsdesk-server/internal/identity"
	"github.com/newsdeskapp/newsdesk-server/internal/store"
)

const livenessMessage = "Newspaper FullStack Server is running smoothly!"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	verifier identity.Verifier
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, verifier identity.Verifier, allowedOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		store:    st,
		services: services,
		verifier: verifier,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware(allowedOrigins)

	humaConfig := huma.DefaultConfig("Newsdesk API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	// Liveness probe, plain text by design of the frontend it serves.
	s.router.Get("/", s.handleLiveness)

	s.registerHealthRoutes()
	s.registerArticleRoutes()
	s.registerUserRoutes()
	s.registerPublisherRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(livenessMessage)); err != nil {
		s.logger.Error("failed to write liveness response", "error", err)
	}
}
