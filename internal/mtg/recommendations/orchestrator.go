package recommendations

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// SearchClient is the semantic search collaborator. Lower Distance on a
// returned card means more similar.
type SearchClient interface {
	Search(ctx context.Context, query string, limit int) ([]cards.Card, error)
}

// CardCorpus is the read-only card database collaborator.
type CardCorpus interface {
	FindCardByName(ctx context.Context, name string) (*cards.Card, error)
	FindCardByDetails(ctx context.Context, name, setCode, collectorNumber string) (*cards.Card, error)
	GetCollectedCards(ctx context.Context) ([]cards.Card, error)
}

// RecommendOptions controls a recommendation request.
type RecommendOptions struct {
	Limit     int    // Final result count (default 20)
	Strategy  string // Blend strategy; empty uses the configured default
	OwnedOnly bool   // Restrict results to the user's collection
}

// RecommendResult is the orchestrator's outcome. When the search collaborator
// fails, Cards is empty and Status explains why; the error is not propagated.
type RecommendResult struct {
	Cards  []cards.Card `json:"cards"`
	Query  string       `json:"query"`
	Status string       `json:"status"`
}

// StatusOK indicates a recommendation pipeline that ran to completion.
const StatusOK = "ok"

// Orchestrator runs the full suggestion pipeline: query generation, search,
// filtering, score blending, and synergy reranking.
type Orchestrator struct {
	search   SearchClient
	corpus   CardCorpus
	settings *config.Settings
	tracer   Tracer
	logger   *log.Logger
}

// NewOrchestrator creates a recommendation orchestrator. corpus, tracer, and
// logger may be nil.
func NewOrchestrator(search SearchClient, corpus CardCorpus, settings *config.Settings, tracer Tracer, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		search:   search,
		corpus:   corpus,
		settings: settings,
		tracer:   tracer,
		logger:   logger,
	}
}

// Recommend suggests cards for the given deck. Search failures degrade to an
// empty result with a status message rather than an error; a broken
// collaborator should read as "no suggestions right now", not a crash.
func (o *Orchestrator) Recommend(ctx context.Context, deck *Deck, format string, opts RecommendOptions) RecommendResult {
	if deck == nil {
		deck = &Deck{}
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = o.settings.Scoring.Strategy
	}

	query := GenerateQuery(deck, format, o.settings)

	searchLimit := o.settings.Search.Limit
	if searchLimit < opts.Limit*3 {
		searchLimit = opts.Limit * 3
	}
	candidates, err := o.search.Search(ctx, query, searchLimit)
	if err != nil {
		o.warnf("card search failed: %v", err)
		return RecommendResult{Cards: []cards.Card{}, Query: query, Status: "search unavailable: " + err.Error()}
	}

	candidates = dedupeByCompleteness(candidates)
	candidates = o.filterCandidates(ctx, candidates, deck, format, opts)

	for i := range candidates {
		keywordScore := KeywordSimilarity(query, candidates[i])
		candidates[i].KeywordScore = keywordScore

		combined := o.blendScores(candidates[i], keywordScore, strategy)
		candidates[i].CombinedScore = combined
		// The reranker's semantic scorer consumes the blended signal.
		blended := combined
		candidates[i].SemanticScore = &blended
	}

	ranked := RerankBySynergy(candidates, deck, format, o.settings, o.tracer)
	ranked = dedupeByHighestSynergy(ranked)

	final := make([]cards.Card, 0, opts.Limit)
	for _, card := range ranked {
		if !card.LegalIn(format) {
			continue
		}
		final = append(final, card)
		if len(final) >= opts.Limit {
			break
		}
	}

	return RecommendResult{Cards: final, Query: query, Status: StatusOK}
}

// filterCandidates drops cards already in the deck, outside the commander's
// color identity, and (in owned-only mode) outside the collection.
func (o *Orchestrator) filterCandidates(ctx context.Context, candidates []cards.Card, deck *Deck, format string, opts RecommendOptions) []cards.Card {
	var owned map[string]bool
	if opts.OwnedOnly && o.corpus != nil {
		collection, err := o.corpus.GetCollectedCards(ctx)
		if err != nil {
			o.warnf("collection lookup failed, skipping ownership filter: %v", err)
		} else {
			owned = make(map[string]bool, len(collection))
			for _, c := range collection {
				owned[strings.ToLower(c.Name)] = true
			}
		}
	}

	identity := deck.ColorIdentity()
	isCommander := strings.EqualFold(format, "commander")

	out := candidates[:0]
	for _, card := range candidates {
		if deck.ContainsName(card.Name) {
			continue
		}
		if isCommander && len(deck.Commanders) > 0 && !card.WithinColorIdentity(identity) {
			continue
		}
		if owned != nil && !owned[strings.ToLower(card.Name)] {
			continue
		}
		out = append(out, card)
	}
	return out
}

// blendScores combines the external semantic signal with the local keyword
// similarity according to the strategy. primary_fallback is the contractual
// default; the rest exist for comparison runs.
func (o *Orchestrator) blendScores(card cards.Card, keywordScore float64, strategy string) float64 {
	semantic, hasSemantic := semanticSimilarity(card, o.settings)
	epsilon := finite(o.settings.Scoring.SemanticEpsilon, 0.01)

	switch strategy {
	case config.StrategyWeightedAverage:
		sw := finite(o.settings.Scoring.SemanticWeight, 0.7)
		kw := finite(o.settings.Scoring.KeywordWeight, 0.3)
		if sw+kw == 0 {
			return 0
		}
		return (semantic*sw + keywordScore*kw) / (sw + kw)
	case config.StrategyMaximum:
		return math.Max(semantic, keywordScore)
	case config.StrategyProduct:
		return semantic * keywordScore
	case config.StrategySum:
		return math.Min(1, semantic+keywordScore)
	case config.StrategySemanticOnly:
		return semantic
	case config.StrategyKeywordOnly:
		return keywordScore
	default: // primary_fallback
		if hasSemantic && semantic > epsilon {
			return semantic
		}
		return keywordScore
	}
}

func (o *Orchestrator) warnf(format string, args ...any) {
	if o.logger != nil {
		o.logger.Printf("[WARN] "+format, args...)
	}
}

// dedupeByCompleteness collapses duplicate printings by name, keeping the
// record with the most populated fields. First seen wins ties. Order of
// first appearance is preserved.
func dedupeByCompleteness(list []cards.Card) []cards.Card {
	index := make(map[string]int, len(list))
	out := make([]cards.Card, 0, len(list))
	for _, card := range list {
		key := strings.ToLower(card.Name)
		if at, ok := index[key]; ok {
			if card.Completeness() > out[at].Completeness() {
				out[at] = card
			}
			continue
		}
		index[key] = len(out)
		out = append(out, card)
	}
	return out
}

// dedupeByHighestSynergy collapses duplicates by name keeping the highest
// synergy score. Input is already sorted descending, so first seen wins.
func dedupeByHighestSynergy(list []cards.Card) []cards.Card {
	seen := make(map[string]bool, len(list))
	out := make([]cards.Card, 0, len(list))
	for _, card := range list {
		key := strings.ToLower(card.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, card)
	}
	return out
}
