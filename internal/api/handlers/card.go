package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/desktopmtg/desktopmtg/internal/api/response"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
	"github.com/desktopmtg/desktopmtg/internal/storage/repository"
)

// CardHandler handles card corpus lookups and imports.
type CardHandler struct {
	repo repository.CardRepository
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(repo repository.CardRepository) *CardHandler {
	return &CardHandler{repo: repo}
}

// SearchCards searches the corpus by name substring.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, errors.New("query parameter q is required"))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(w, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	results, err := h.repo.SearchCardsByName(r.Context(), query, limit)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, results)
}

// GetCardByName returns a single card by exact name.
func (h *CardHandler) GetCardByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("card name is required"))
		return
	}

	card, err := h.repo.FindCardByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			response.NotFound(w, err)
			return
		}
		response.InternalError(w, err)
		return
	}

	response.Success(w, card)
}

// ImportCardsResponse reports how many cards an import touched.
type ImportCardsResponse struct {
	Imported int `json:"imported"`
}

// ImportCards accepts Scryfall card objects, normalizes them and upserts
// them into the corpus.
func (h *CardHandler) ImportCards(w http.ResponseWriter, r *http.Request) {
	var raw []cards.ScryfallCard
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if len(raw) == 0 {
		response.BadRequest(w, errors.New("no cards in request"))
		return
	}

	normalized := make([]cards.Card, 0, len(raw))
	for i := range raw {
		normalized = append(normalized, raw[i].Normalize())
	}

	if err := h.repo.SaveCards(r.Context(), normalized); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, ImportCardsResponse{Imported: len(normalized)})
}
