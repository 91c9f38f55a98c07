// Package api serves the recommendation engine and deck builder over REST
// and streams build progress over websockets.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/desktopmtg/desktopmtg/internal/api/websocket"
	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/events"
	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
	"github.com/desktopmtg/desktopmtg/internal/storage/repository"
)

// Server is the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	settings   *config.Settings

	wsHub      *websocket.Hub
	dispatcher *events.Dispatcher

	orchestrator *recommendations.Orchestrator
	repo         repository.CardRepository

	persistSettings bool
}

// Dependencies holds the wired services the server exposes.
type Dependencies struct {
	Settings     *config.Settings
	Orchestrator *recommendations.Orchestrator
	Repo         repository.CardRepository
	Dispatcher   *events.Dispatcher

	// PersistSettings writes settings updates back to disk.
	PersistSettings bool
}

// NewServer creates a new API server.
func NewServer(deps Dependencies) *Server {
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewDispatcher()
	}

	wsHub := websocket.NewHub()
	dispatcher.Register(websocket.NewObserver(wsHub))

	s := &Server{
		router:          chi.NewRouter(),
		settings:        deps.Settings,
		wsHub:           wsHub,
		dispatcher:      dispatcher,
		orchestrator:    deps.Orchestrator,
		repo:            deps.Repo,
		persistSettings: deps.PersistSettings,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	allowedOrigins := s.settings.API.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(s.jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the websocket hub and the HTTP listener in background
// goroutines.
func (s *Server) Start() error {
	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.settings.API.Port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("API server listening on port %d", s.settings.API.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("API server error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully stops the server and the websocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Dispatcher returns the event dispatcher shared with the websocket hub.
func (s *Server) Dispatcher() *events.Dispatcher {
	return s.dispatcher
}
