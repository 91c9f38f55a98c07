package recommendations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/desktopmtg/desktopmtg/internal/config"
)

// GenerateQuery builds a short free-text query for the semantic search
// backend from the deck's contents. Commander identity dominates the query;
// the mainboard only contributes aggregate theme and keyword signals. An
// empty deck falls back to a generic per-format sentence.
func GenerateQuery(deck *Deck, format string, settings *config.Settings) string {
	if deck == nil || (len(deck.Commanders) == 0 && len(deck.Mainboard) == 0) {
		return fmt.Sprintf("Suggest cards for a %s deck.", strings.ToLower(format))
	}

	var parts []string

	for _, commander := range deck.Commanders {
		parts = append(parts, commander.Name)

		for _, kw := range AnalyzeOracleText(commander.OracleText).Keywords {
			parts = append(parts, kw.Keyword)
		}

		for _, subtype := range commander.Subtypes() {
			parts = append(parts, strings.ToLower(subtype))
		}
	}

	stats := ComputeDeckStats(deck, settings)

	// Dominant themes, most prevalent first.
	type themeCount struct {
		theme string
		count int
	}
	counts := make([]themeCount, 0, len(stats.ThemeCounts))
	for theme, count := range stats.ThemeCounts {
		if count > 0 {
			counts = append(counts, themeCount{theme, count})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].theme < counts[j].theme
	})
	for i, tc := range counts {
		if i >= 3 {
			break
		}
		parts = append(parts, tc.theme)
	}

	// Tribal concentration: if one creature type dominates the mainboard,
	// name it.
	if tribe, ok := dominantTribe(deck); ok {
		parts = append(parts, tribe+" tribal")
	}

	parts = dedupeStrings(parts)
	if len(parts) == 0 {
		return fmt.Sprintf("Suggest cards for a %s deck.", strings.ToLower(format))
	}
	return strings.Join(parts, " ")
}

// dominantTribe returns the most common known creature type among mainboard
// creatures when it makes up at least a third of them.
func dominantTribe(deck *Deck) (string, bool) {
	counts := make(map[string]int)
	creatures := 0
	for _, card := range deck.Mainboard {
		if !card.IsType("Creature") {
			continue
		}
		creatures++
		for _, subtype := range card.Subtypes() {
			key := strings.ToLower(subtype)
			if _, known := tribalDatabase[key]; known {
				counts[key]++
			}
		}
	}
	if creatures < 3 {
		return "", false
	}

	best, bestCount := "", 0
	for tribe, count := range counts {
		if count > bestCount || (count == bestCount && tribe < best) {
			best, bestCount = tribe, count
		}
	}
	if bestCount*3 >= creatures && best != "" {
		return best, true
	}
	return "", false
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
