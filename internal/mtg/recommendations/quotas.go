package recommendations

import (
	"fmt"
	"strings"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// Quotas holds the target counts for each functional category of a
// commander deck.
type Quotas struct {
	LandTarget    int `json:"landTarget"`
	RampTarget    int `json:"rampTarget"`
	DrawTarget    int `json:"drawTarget"`
	RemovalTarget int `json:"removalTarget"`
}

// Hard bounds for quota clamping, applied after all adjustments.
const (
	minLands, maxLands     = 32, 42
	minRamp, maxRamp       = 6, 16
	minDraw, maxDraw       = 5, 15
	minRemoval, maxRemoval = 4, 12
)

// QuotaResult carries the computed quotas along with the adjustments applied
// and human-readable reasoning for each.
type QuotaResult struct {
	Quotas      Quotas         `json:"quotas"`
	Adjustments map[string]int `json:"adjustments"`
	Reasoning   []string       `json:"reasoning"`
}

// SmartQuotas computes adaptive category targets from the commander's
// profile and the deck's current composition. Quotas evolve as the deck
// fills, so callers recompute after each category fill.
func SmartQuotas(commander cards.Card, deck *Deck, settings *config.Settings) QuotaResult {
	result := QuotaResult{
		Adjustments: map[string]int{"lands": 0, "ramp": 0, "draw": 0, "removal": 0},
	}

	applyCommanderAdjustments(commander, &result)
	applyDeckStateAdjustments(deck, &result)

	base := settings.Quotas
	result.Quotas = Quotas{
		LandTarget:    clamp(base.Lands+result.Adjustments["lands"], minLands, maxLands),
		RampTarget:    clamp(base.Ramp+result.Adjustments["ramp"], minRamp, maxRamp),
		DrawTarget:    clamp(base.Draw+result.Adjustments["draw"], minDraw, maxDraw),
		RemovalTarget: clamp(base.Removal+result.Adjustments["removal"], minRemoval, maxRemoval),
	}
	return result
}

// applyCommanderAdjustments shifts targets based on the commander's cost,
// text, and color identity.
func applyCommanderAdjustments(commander cards.Card, result *QuotaResult) {
	mv := commander.ManaValue

	if mv >= 6 {
		result.Adjustments["ramp"] += 3
		result.Adjustments["lands"] += 1
		result.Reasoning = append(result.Reasoning,
			fmt.Sprintf("%s costs %.0f mana, adding ramp and a land", commander.Name, mv))
	} else if mv <= 2 && mv > 0 {
		result.Adjustments["ramp"] -= 2
		result.Adjustments["lands"] -= 1
		result.Reasoning = append(result.Reasoning,
			fmt.Sprintf("%s is cheap at %.0f mana, trimming ramp and a land", commander.Name, mv))
	}

	patterns := AnalyzeOracleText(commander.OracleText)
	if patterns.Resources.CardDraw > 0 {
		result.Adjustments["draw"] -= 2
		result.Reasoning = append(result.Reasoning, "commander draws cards itself, trimming draw slots")
	}
	if patterns.Interaction.Destroy > 0 || patterns.Interaction.Exile > 0 {
		result.Adjustments["removal"] -= 2
		result.Reasoning = append(result.Reasoning, "commander provides removal, trimming removal slots")
	}

	for _, color := range commander.ColorIdentity {
		switch strings.ToUpper(color) {
		case "G":
			result.Adjustments["ramp"] += 1
			result.Reasoning = append(result.Reasoning, "green identity favors extra ramp")
		case "U":
			result.Adjustments["draw"] += 1
			result.Reasoning = append(result.Reasoning, "blue identity favors extra draw")
		case "W", "B":
			result.Adjustments["removal"] += 1
			result.Reasoning = append(result.Reasoning, "white/black identity favors extra removal")
		case "R":
			if mv <= 3 {
				result.Adjustments["lands"] -= 1
				result.Reasoning = append(result.Reasoning, "cheap red commander allows fewer lands")
			}
		}
	}
}

// applyDeckStateAdjustments shifts targets based on what has already been
// chosen: average cost and emergent theme balance.
func applyDeckStateAdjustments(deck *Deck, result *QuotaResult) {
	if deck == nil || len(deck.Mainboard) == 0 {
		return
	}

	totalMV := 0.0
	nonLands := 0
	for _, card := range deck.Mainboard {
		if card.IsType("Land") {
			continue
		}
		totalMV += card.ManaValue
		nonLands++
	}
	if nonLands > 0 {
		avg := totalMV / float64(nonLands)
		if avg >= 4.0 {
			result.Adjustments["ramp"] += 2
			result.Adjustments["lands"] += 1
			result.Reasoning = append(result.Reasoning,
				fmt.Sprintf("average cost %.1f is high, adding ramp and a land", avg))
		} else if avg <= 2.5 {
			result.Adjustments["lands"] -= 1
			result.Reasoning = append(result.Reasoning,
				fmt.Sprintf("average cost %.1f is low, trimming a land", avg))
		}
	}

	total := len(deck.Mainboard)
	counts := map[string]int{}
	for _, card := range deck.Mainboard {
		text := strings.ToLower(card.OracleText)
		switch {
		case strings.Contains(text, "search your library") || strings.Contains(text, "you win the game"):
			counts["combo"]++
		case strings.Contains(text, "counter target") || strings.Contains(text, "destroy all"):
			counts["control"]++
		case card.IsType("Creature") && card.ManaValue <= 3:
			counts["aggro"]++
		case strings.Contains(text, "add ") && strings.Contains(text, "mana"):
			counts["ramp"]++
		}
	}

	if frac(counts["combo"], total) > 0.15 {
		result.Adjustments["draw"] += 2
		result.Reasoning = append(result.Reasoning, "combo leanings favor extra draw")
	}
	if frac(counts["control"], total) > 0.2 {
		result.Adjustments["removal"] += 1
		result.Adjustments["draw"] += 1
		result.Reasoning = append(result.Reasoning, "control leanings favor removal and draw")
	}
	if frac(counts["aggro"], total) > 0.35 {
		result.Adjustments["lands"] -= 1
		result.Reasoning = append(result.Reasoning, "aggressive curve allows fewer lands")
	}
	if frac(counts["ramp"], total) > 0.15 {
		result.Adjustments["lands"] -= 1
		result.Reasoning = append(result.Reasoning, "heavy ramp package allows fewer lands")
	}
}

func frac(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
