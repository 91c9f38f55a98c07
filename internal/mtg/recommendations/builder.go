package recommendations

import (
	"math/rand"
	"strings"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// Card categories used during deck construction.
const (
	CategoryLand    = "land"
	CategoryRamp    = "ramp"
	CategoryDraw    = "draw"
	CategoryRemoval = "removal"
	CategoryOther   = "other"
)

// mainboardSize is the number of cards beside the commander in a commander
// deck.
const mainboardSize = 99

// Category shortfall penalties for deck evaluation. Missing lands hurts
// most.
var categoryPenalties = map[string]float64{
	CategoryLand:    50,
	CategoryRamp:    30,
	CategoryDraw:    25,
	CategoryRemoval: 25,
}

// basicLandsByColor maps a color symbol to its basic land.
var basicLandsByColor = map[string]string{
	"W": "Plains",
	"U": "Island",
	"B": "Swamp",
	"R": "Mountain",
	"G": "Forest",
}

// BuildResult is the outcome of a greedy build run.
type BuildResult struct {
	Deck    *Deck   `json:"deck"`
	Synergy float64 `json:"synergy"`
}

// Builder assembles complete commander decks from a card pool by greedy
// category filling. The random source drives commander selection only;
// scoring itself is deterministic.
type Builder struct {
	settings *config.Settings
	rng      *rand.Rand
	tracer   Tracer
}

// NewBuilder creates a deck builder. rng must not be nil; tracer may be.
func NewBuilder(settings *config.Settings, rng *rand.Rand, tracer Tracer) *Builder {
	return &Builder{settings: settings, rng: rng, tracer: tracer}
}

// BuildGreedyCommanderDeck runs the given number of independent build trials
// over the pool and returns the highest-scoring deck. A pool without a legal
// commander yields a degraded fallback deck with synergy zero rather than an
// error.
func (b *Builder) BuildGreedyCommanderDeck(pool []cards.Card, trials int) BuildResult {
	if trials < 1 {
		trials = 1
	}

	commanders := legalCommanders(pool)
	if len(commanders) == 0 {
		return b.fallbackDeck(pool)
	}

	var best BuildResult
	haveBest := false
	for trial := 0; trial < trials; trial++ {
		commander := commanders[b.rng.Intn(len(commanders))]
		deck, synergy := b.buildTrial(commander, pool)

		isBest := !haveBest || synergy > best.Synergy
		if b.tracer != nil {
			b.tracer.TrialCompleted(TrialSummaryEvent{
				Trial:         trial,
				CommanderName: commander.Name,
				Synergy:       synergy,
				DeckSize:      len(deck.Mainboard),
				Best:          isBest,
			})
		}
		if isBest {
			best = BuildResult{Deck: deck, Synergy: synergy}
			haveBest = true
		}
	}
	return best
}

// buildTrial assembles one deck around the given commander.
func (b *Builder) buildTrial(commander cards.Card, pool []cards.Card) (*Deck, float64) {
	deck := &Deck{Commanders: []cards.Card{commander}}
	identity := deck.ColorIdentity()

	quotaRes := SmartQuotas(commander, deck, b.settings)
	quotas := quotaRes.Quotas

	b.fillCategory(deck, pool, identity, CategoryRamp, quotas.RampTarget)

	// Ramp changes the deck's cost profile; recompute before draw.
	quotas = SmartQuotas(commander, deck, b.settings).Quotas
	b.fillCategory(deck, pool, identity, CategoryDraw, quotas.DrawTarget)

	// And again before removal and lands.
	quotas = SmartQuotas(commander, deck, b.settings).Quotas
	b.fillCategory(deck, pool, identity, CategoryRemoval, quotas.RemovalTarget)
	b.fillCategory(deck, pool, identity, CategoryLand, quotas.LandTarget)

	b.fillRemaining(deck, pool, identity)
	b.backfillBasicLands(deck, quotas.LandTarget, identity)

	deck.StripDuplicates()

	return deck, evaluateDeckSynergy(deck, quotas)
}

// fillCategory reranks the remaining legal pool against the deck and takes
// the top unchosen cards of the category up to the target count.
func (b *Builder) fillCategory(deck *Deck, pool []cards.Card, identity []string, category string, target int) {
	have := countCategory(deck.Mainboard, category)
	if have >= target {
		return
	}

	candidates := legalCandidates(deck, pool, identity)
	ranked := RerankBySynergy(candidates, deck, "commander", b.settings, b.tracer)

	chosen := deck.NameSet()
	for _, card := range ranked {
		if have >= target || len(deck.Mainboard) >= mainboardSize {
			return
		}
		if ClassifyCard(card) != category {
			continue
		}
		key := strings.ToLower(card.Name)
		if chosen[key] && !card.IsBasicLand() {
			continue
		}
		deck.Mainboard = append(deck.Mainboard, card)
		chosen[key] = true
		have++
	}
}

// fillRemaining tops the mainboard up to 99 cards from the best remaining
// candidates regardless of category.
func (b *Builder) fillRemaining(deck *Deck, pool []cards.Card, identity []string) {
	if len(deck.Mainboard) >= mainboardSize {
		return
	}

	candidates := legalCandidates(deck, pool, identity)
	ranked := RerankBySynergy(candidates, deck, "commander", b.settings, b.tracer)

	chosen := deck.NameSet()
	for _, card := range ranked {
		if len(deck.Mainboard) >= mainboardSize {
			return
		}
		key := strings.ToLower(card.Name)
		if chosen[key] && !card.IsBasicLand() {
			continue
		}
		deck.Mainboard = append(deck.Mainboard, card)
		chosen[key] = true
	}
}

// backfillBasicLands appends basic lands round-robin across the commander's
// colors until the land target is met. Colorless decks default to Plains.
func (b *Builder) backfillBasicLands(deck *Deck, landTarget int, identity []string) {
	lands := countCategory(deck.Mainboard, CategoryLand)
	if lands >= landTarget {
		return
	}

	colors := identity
	if len(colors) == 0 {
		colors = []string{"W"}
	}

	for i := 0; lands < landTarget && len(deck.Mainboard) < mainboardSize; i++ {
		name := basicLandsByColor[colors[i%len(colors)]]
		deck.Mainboard = append(deck.Mainboard, cards.Card{
			Name:     name,
			TypeLine: "Basic Land — " + name,
		})
		lands++
	}
}

// fallbackDeck produces the degraded result for a pool with no legal
// commander: a nominal leader plus arbitrary fillers, synergy zero.
func (b *Builder) fallbackDeck(pool []cards.Card) BuildResult {
	deck := &Deck{}
	if len(pool) > 0 {
		leader := pool[0]
		for _, card := range pool {
			if card.IsType("Legendary") {
				leader = card
				break
			}
		}
		deck.Commanders = []cards.Card{leader}
		for _, card := range pool {
			if len(deck.Mainboard) >= mainboardSize {
				break
			}
			if strings.EqualFold(card.Name, leader.Name) {
				continue
			}
			deck.Mainboard = append(deck.Mainboard, card)
		}
	}
	deck.StripDuplicates()
	return BuildResult{Deck: deck, Synergy: 0}
}

// legalCommanders filters the pool to cards that may lead a commander deck.
func legalCommanders(pool []cards.Card) []cards.Card {
	var out []cards.Card
	for _, card := range pool {
		if !card.IsLegendaryCreature() {
			continue
		}
		if !card.LegalIn("commander") {
			continue
		}
		out = append(out, card)
	}
	return out
}

// legalCandidates filters the pool to commander-legal cards within the
// color identity that are not already chosen (basic lands exempt).
func legalCandidates(deck *Deck, pool []cards.Card, identity []string) []cards.Card {
	chosen := deck.NameSet()
	out := make([]cards.Card, 0, len(pool))
	for _, card := range pool {
		if !card.WithinColorIdentity(identity) {
			continue
		}
		if !card.LegalIn("commander") {
			continue
		}
		if chosen[strings.ToLower(card.Name)] && !card.IsBasicLand() {
			continue
		}
		out = append(out, card)
	}
	return out
}

// ClassifyCard buckets a card into one build category by type line and
// oracle text.
func ClassifyCard(card cards.Card) string {
	if card.IsType("Land") {
		return CategoryLand
	}

	text := strings.ToLower(card.OracleText)
	switch {
	case strings.Contains(text, "add ") && strings.Contains(text, "mana"),
		strings.Contains(text, "search your library for a") && strings.Contains(text, "land"):
		return CategoryRamp
	case strings.Contains(text, "draw a card"),
		strings.Contains(text, "draw two cards"),
		strings.Contains(text, "draw three cards"),
		strings.Contains(text, "draws a card"):
		return CategoryDraw
	case strings.Contains(text, "destroy target"),
		strings.Contains(text, "exile target"),
		strings.Contains(text, "destroy all"),
		strings.Contains(text, "exile all"),
		strings.Contains(text, "counter target"):
		return CategoryRemoval
	default:
		return CategoryOther
	}
}

func countCategory(list []cards.Card, category string) int {
	n := 0
	for _, card := range list {
		if ClassifyCard(card) == category {
			n++
		}
	}
	return n
}

// evaluateDeckSynergy scores a finished deck: the sum of card synergies
// minus weighted penalties for unmet category quotas.
func evaluateDeckSynergy(deck *Deck, quotas Quotas) float64 {
	total := 0.0
	for _, card := range deck.Mainboard {
		total += card.SynergyScore
	}

	targets := map[string]int{
		CategoryLand:    quotas.LandTarget,
		CategoryRamp:    quotas.RampTarget,
		CategoryDraw:    quotas.DrawTarget,
		CategoryRemoval: quotas.RemovalTarget,
	}
	for _, category := range []string{CategoryLand, CategoryRamp, CategoryDraw, CategoryRemoval} {
		actual := countCategory(deck.Mainboard, category)
		if shortfall := targets[category] - actual; shortfall > 0 {
			total -= float64(shortfall) * categoryPenalties[category]
		}
	}
	return total
}
