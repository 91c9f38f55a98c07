// Package handlers contains the HTTP handlers for the REST API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/desktopmtg/desktopmtg/internal/api/response"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
)

// RecommendHandler handles card recommendation requests.
type RecommendHandler struct {
	orchestrator *recommendations.Orchestrator
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(orchestrator *recommendations.Orchestrator) *RecommendHandler {
	return &RecommendHandler{orchestrator: orchestrator}
}

// RecommendRequest describes the deck to recommend cards for.
type RecommendRequest struct {
	Commanders []cards.Card `json:"commanders,omitempty"`
	Mainboard  []cards.Card `json:"mainboard,omitempty"`
	Format     string       `json:"format"`
	Limit      int          `json:"limit,omitempty"`
	Strategy   string       `json:"strategy,omitempty"`
	OwnedOnly  bool         `json:"owned_only,omitempty"`
}

// RecommendResponse carries the scored recommendations back to the client.
type RecommendResponse struct {
	Cards  []cards.Card `json:"cards"`
	Query  string       `json:"query"`
	Status string       `json:"status"`
}

// Recommend returns cards ranked by synergy with the submitted deck.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = "commander"
	}

	deck := &recommendations.Deck{
		Commanders: req.Commanders,
		Mainboard:  req.Mainboard,
	}

	result := h.orchestrator.Recommend(r.Context(), deck, format, recommendations.RecommendOptions{
		Limit:     req.Limit,
		Strategy:  req.Strategy,
		OwnedOnly: req.OwnedOnly,
	})

	response.Success(w, RecommendResponse{
		Cards:  result.Cards,
		Query:  result.Query,
		Status: result.Status,
	})
}
