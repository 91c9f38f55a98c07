package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desktopmtg/desktopmtg/internal/api/handlers"
	"github.com/desktopmtg/desktopmtg/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		recommendHandler := handlers.NewRecommendHandler(s.orchestrator)
		r.Post("/recommendations", recommendHandler.Recommend)

		deckHandler := handlers.NewDeckHandler(s.settings, s.repo, s.dispatcher)
		r.Post("/decks/build", deckHandler.BuildDeck)

		cardHandler := handlers.NewCardHandler(s.repo)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.SearchCards)
			r.Get("/name/{name}", cardHandler.GetCardByName)
			r.Post("/import", cardHandler.ImportCards)
		})

		collectionHandler := handlers.NewCollectionHandler(s.repo)
		r.Route("/collection", func(r chi.Router) {
			r.Get("/", collectionHandler.GetCollection)
			r.Put("/quantity", collectionHandler.SetQuantity)
		})

		settingsHandler := handlers.NewSettingsHandler(s.settings, s.persistSettings)
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.GetSettings)
			r.Put("/", settingsHandler.UpdateSettings)
		})
	})
}

// healthCheck reports server liveness.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
