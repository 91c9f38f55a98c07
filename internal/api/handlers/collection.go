package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desktopmtg/desktopmtg/internal/api/response"
	"github.com/desktopmtg/desktopmtg/internal/storage/repository"
)

// CollectionHandler handles the user's owned card collection.
type CollectionHandler struct {
	repo repository.CardRepository
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(repo repository.CardRepository) *CollectionHandler {
	return &CollectionHandler{repo: repo}
}

// GetCollection returns all owned cards with quantities.
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collected, err := h.repo.GetCollectedCards(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, collected)
}

// SetQuantityRequest identifies a card printing and the owned quantity.
type SetQuantityRequest struct {
	Name            string `json:"name"`
	SetCode         string `json:"set,omitempty"`
	CollectorNumber string `json:"collector_number,omitempty"`
	Quantity        int    `json:"quantity"`
}

// SetQuantity records the owned quantity for a card.
func (h *CollectionHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Name == "" {
		response.BadRequest(w, errors.New("card name is required"))
		return
	}
	if req.Quantity < 0 {
		response.BadRequest(w, errors.New("quantity must not be negative"))
		return
	}

	err := h.repo.SetQuantity(r.Context(), req.Name, req.SetCode, req.CollectorNumber, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			response.NotFound(w, err)
			return
		}
		response.InternalError(w, err)
		return
	}

	response.NoContent(w)
}
