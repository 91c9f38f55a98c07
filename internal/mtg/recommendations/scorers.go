package recommendations

import (
	"math"
	"strings"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// scorer is one scoring function in the synergy pipeline. Scorers are pure:
// same inputs always produce the same contribution, and no scorer shares
// mutable state with another.
type scorer struct {
	name  string
	score func(card cards.Card, stats DeckStatistics, format string, settings *config.Settings) float64
}

// scorerPipeline is the fixed-order set of scorers the reranker sums.
var scorerPipeline = []scorer{
	{"name_hash", scoreNameHash},
	{"semantic", scoreSemantic},
	{"theme", scoreThemeSynergy},
	{"curve", scoreCurveFill},
	{"tribal", scoreTribal},
	{"keyword", scoreKeywordOverlap},
	{"keyword_interaction", scoreKeywordInteraction},
	{"format", scoreFormatBonus},
	{"utility", scoreUtility},
}

// finite coerces a possibly corrupt numeric value to a usable one. NaN and
// infinities degrade to the fallback so one bad field cannot poison a
// ranking.
func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// scoreNameHash is a small deterministic tie-breaker derived from the card
// name, so equal-scored distinct cards still order reproducibly.
func scoreNameHash(card cards.Card, _ DeckStatistics, _ string, _ *config.Settings) float64 {
	sum := 0
	for _, r := range strings.ToLower(card.Name) {
		sum += int(r)
	}
	return float64(sum%100) / 100.0
}

// scoreSemantic converts the card's semantic signal into a contribution.
// A card with no semantic score and no distance contributes exactly zero;
// absence of a signal is never treated as a perfect match.
func scoreSemantic(card cards.Card, _ DeckStatistics, _ string, settings *config.Settings) float64 {
	similarity, ok := semanticSimilarity(card, settings)
	if !ok {
		return 0
	}
	return similarity * finite(settings.Scoring.BaseBoost, 1)
}

// semanticSimilarity resolves the card's similarity in [0,inf) from its
// precomputed semantic score, or failing that from its search distance via
// the configured conversion. The second return is false when neither signal
// exists.
func semanticSimilarity(card cards.Card, settings *config.Settings) (float64, bool) {
	if card.SemanticScore != nil {
		return math.Max(0, finite(*card.SemanticScore, 0)), true
	}
	if card.Distance == nil {
		return 0, false
	}

	d := math.Max(0, finite(*card.Distance, 0))
	var similarity float64
	switch settings.Scoring.DistanceConversion {
	case config.ConversionSqrt:
		similarity = 1 - math.Sqrt(d)
	case config.ConversionExponential:
		similarity = math.Exp(-d)
	case config.ConversionAggressiveExp:
		similarity = math.Exp(-2 * d)
	default:
		similarity = 1 - d
	}
	return math.Max(0, similarity), true
}

// scoreThemeSynergy rewards cards whose tags overlap the deck's themes,
// linearly in theme prevalence and capped so one dominant theme cannot
// swamp every other signal.
func scoreThemeSynergy(card cards.Card, stats DeckStatistics, _ string, settings *config.Settings) float64 {
	tags := DeriveKeywordTags(card)
	if len(tags) == 0 {
		return 0
	}
	themeCap := finite(settings.Scoring.ThemeCap, 0.6)
	mult := finite(settings.Scoring.ThemeMultiplier, 0)

	total := 0.0
	for _, theme := range themeVocabulary {
		if stats.ThemeCounts[theme] == 0 {
			continue
		}
		for _, tag := range tags {
			if tag == theme {
				total += math.Min(stats.ThemeFraction(theme), themeCap) * mult
				break
			}
		}
	}
	return total
}

// scoreCurveFill rewards cards landing in under-filled curve buckets. Gaps
// below the configured threshold earn nothing.
func scoreCurveFill(card cards.Card, stats DeckStatistics, _ string, settings *config.Settings) float64 {
	gap := stats.CurveNeeds[cards.CurveBucket(card.ManaValue)]
	if gap <= finite(settings.Scoring.CurveMinGap, 0.05) {
		return 0
	}
	return gap * finite(settings.Scoring.CurveMultiplier, 0)
}

// scoreTribal pays a flat bonus for tribal-payoff text, but only when the
// deck has already declared a tribal theme.
func scoreTribal(card cards.Card, stats DeckStatistics, _ string, settings *config.Settings) float64 {
	if !stats.TribalTrigger {
		return 0
	}
	if !matchesTribalChoice(card.OracleText) {
		return 0
	}
	bonus := finite(settings.Scoring.TribalBonus, 0)
	// Deep tribes pay slightly more, niche tribes slightly less.
	weight := 1.0
	for _, syn := range AnalyzeOracleText(card.OracleText).TypeSynergies.Tribal {
		w := GetTribalSynergyWeight(syn.Type)
		if w > weight {
			weight = w
		}
	}
	return bonus * weight
}

// scoreKeywordOverlap pays per keyword tag the card shares with the deck's
// aggregate keyword set.
func scoreKeywordOverlap(card cards.Card, stats DeckStatistics, _ string, settings *config.Settings) float64 {
	bonus := finite(settings.Scoring.KeywordBonus, 0)
	total := 0.0
	for _, tag := range DeriveKeywordTags(card) {
		if stats.DeckKeywords[tag] {
			total += bonus
		}
	}
	return total
}

// scoreKeywordInteraction pays per known synergistic partner pairing between
// the card's tags and the deck's keyword set.
func scoreKeywordInteraction(card cards.Card, stats DeckStatistics, _ string, settings *config.Settings) float64 {
	bonus := finite(settings.Scoring.InteractionBonus, 0)
	total := 0.0
	for _, tag := range DeriveKeywordTags(card) {
		for _, partner := range keywordPartners[tag] {
			if stats.DeckKeywords[partner] {
				total += bonus
			}
		}
	}
	return total
}

// scoreFormatBonus rewards multiplayer-scaling text and legendary permanents
// in commander; other formats get nothing from this scorer.
func scoreFormatBonus(card cards.Card, _ DeckStatistics, format string, settings *config.Settings) float64 {
	if !strings.EqualFold(format, "commander") {
		return 0
	}
	total := 0.0
	text := strings.ToLower(card.OracleText)
	if strings.Contains(text, "each opponent") || strings.Contains(text, "each player") {
		total += finite(settings.Scoring.MultiplayerBonus, 0)
	}
	if card.IsType("Legendary") {
		total += finite(settings.Scoring.LegendaryBonus, 0)
	}
	return total
}

// scoreUtility pays flat bonuses for card draw, removal, and tutor text.
func scoreUtility(card cards.Card, _ DeckStatistics, _ string, settings *config.Settings) float64 {
	patterns := AnalyzeOracleText(card.OracleText)
	total := 0.0
	if patterns.Resources.CardDraw > 0 {
		total += finite(settings.Scoring.DrawBonus, 0)
	}
	if patterns.Interaction.Destroy > 0 || patterns.Interaction.Exile > 0 {
		total += finite(settings.Scoring.RemovalBonus, 0)
	}
	if containsPattern(card.OracleText, "search your library") {
		total += finite(settings.Scoring.TutorBonus, 0)
	}
	return total
}
