package handlers

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/desktopmtg/desktopmtg/internal/api/response"
	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/events"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
	"github.com/desktopmtg/desktopmtg/internal/storage/repository"
)

// DeckHandler handles deck building requests.
type DeckHandler struct {
	settings   *config.Settings
	repo       repository.CardRepository
	dispatcher *events.Dispatcher
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(settings *config.Settings, repo repository.CardRepository, dispatcher *events.Dispatcher) *DeckHandler {
	return &DeckHandler{settings: settings, repo: repo, dispatcher: dispatcher}
}

// BuildDeckRequest describes a deck build job. When Pool is empty the user's
// collection is used as the candidate pool.
type BuildDeckRequest struct {
	Pool   []cards.Card `json:"pool,omitempty"`
	Trials int          `json:"trials,omitempty"`
	Seed   *int64       `json:"seed,omitempty"`
}

// BuildDeckResponse carries the built deck and its synergy score.
type BuildDeckResponse struct {
	Commanders []cards.Card `json:"commanders"`
	Mainboard  []cards.Card `json:"mainboard"`
	Synergy    float64      `json:"synergy"`
	RunID      string       `json:"run_id"`
}

// BuildDeck assembles a commander deck from the candidate pool.
func (h *DeckHandler) BuildDeck(w http.ResponseWriter, r *http.Request) {
	var req BuildDeckRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, errors.New("invalid request body"))
			return
		}
	}

	pool := req.Pool
	if len(pool) == 0 {
		if h.repo == nil {
			response.BadRequest(w, errors.New("no candidate pool provided and no collection available"))
			return
		}
		collected, err := h.repo.GetCollectedCards(r.Context())
		if err != nil {
			response.InternalError(w, err)
			return
		}
		pool = collected
	}
	if len(pool) == 0 {
		response.BadRequest(w, errors.New("candidate pool is empty"))
		return
	}

	trials := req.Trials
	if trials <= 0 {
		trials = h.settings.App.BuildTrials
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	tracer := events.NewTracer(h.dispatcher)
	tracer.BuildStarted(trials)

	builder := recommendations.NewBuilder(h.settings, rng, tracer)
	result := builder.BuildGreedyCommanderDeck(pool, trials)

	tracer.BuildCompleted(result.Synergy)

	response.Success(w, BuildDeckResponse{
		Commanders: result.Deck.Commanders,
		Mainboard:  result.Deck.Mainboard,
		Synergy:    result.Synergy,
		RunID:      tracer.RunID(),
	})
}
