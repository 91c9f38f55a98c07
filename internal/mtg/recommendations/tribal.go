package recommendations

import "strings"

// TribalSupport indicates how deep a creature type's support runs in the
// commander card pool.
type TribalSupport string

const (
	// TribalSupportStrong indicates a deep pool of tribal payoffs.
	TribalSupportStrong TribalSupport = "strong"
	// TribalSupportModerate indicates a workable but thinner pool.
	TribalSupportModerate TribalSupport = "moderate"
	// TribalSupportWeak indicates a niche tribe with few payoffs.
	TribalSupportWeak TribalSupport = "weak"
)

// TribalInfo describes a creature type's tribal profile.
type TribalInfo struct {
	Type          string        // The creature type (e.g., "goblin")
	Support       TribalSupport // Depth of tribal support
	SynergyWeight float64       // Multiplier for tribal scoring (0.8-1.3)
	RelatedTypes  []string      // Types that commonly cross over
	CommonThemes  []string      // Theme tags the tribe typically carries
}

// tribalDatabase maps lowercase creature types to their tribal profile.
var tribalDatabase = map[string]TribalInfo{
	"goblin": {
		Type:          "goblin",
		Support:       TribalSupportStrong,
		SynergyWeight: 1.3,
		RelatedTypes:  []string{"shaman", "warrior"},
		CommonThemes:  []string{"tokens", "sacrifice"},
	},
	"elf": {
		Type:          "elf",
		Support:       TribalSupportStrong,
		SynergyWeight: 1.3,
		RelatedTypes:  []string{"druid", "shaman"},
		CommonThemes:  []string{"tokens", "counters"},
	},
	"zombie": {
		Type:          "zombie",
		Support:       TribalSupportStrong,
		SynergyWeight: 1.3,
		RelatedTypes:  []string{"skeleton"},
		CommonThemes:  []string{"graveyard", "sacrifice", "tokens"},
	},
	"vampire": {
		Type:          "vampire",
		Support:       TribalSupportStrong,
		SynergyWeight: 1.3,
		RelatedTypes:  []string{"knight"},
		CommonThemes:  []string{"lifegain", "counters"},
	},
	"merfolk": {
		Type:          "merfolk",
		Support:       TribalSupportStrong,
		SynergyWeight: 1.2,
		RelatedTypes:  []string{"wizard"},
		CommonThemes:  []string{"counters"},
	},
	"human": {
		Type:          "human",
		Support:       TribalSupportStrong,
		SynergyWeight: 1.2,
		RelatedTypes:  []string{"soldier", "knight", "wizard"},
		CommonThemes:  []string{"tokens", "counters"},
	},
	"wizard": {
		Type:          "wizard",
		Support:       TribalSupportStrong,
		SynergyWeight: 1.2,
		RelatedTypes:  []string{"human", "merfolk"},
		CommonThemes:  []string{"spells"},
	},
	"soldier": {
		Type:          "soldier",
		Support:       TribalSupportStrong,
		SynergyWeight: 1.2,
		RelatedTypes:  []string{"human", "knight"},
		CommonThemes:  []string{"tokens"},
	},
	"dragon": {
		Type:          "dragon",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.1,
		CommonThemes:  []string{"tokens"},
	},
	"angel": {
		Type:          "angel",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.1,
		CommonThemes:  []string{"lifegain"},
	},
	"demon": {
		Type:          "demon",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.0,
		CommonThemes:  []string{"sacrifice"},
	},
	"spirit": {
		Type:          "spirit",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.1,
		CommonThemes:  []string{"graveyard"},
	},
	"knight": {
		Type:          "knight",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.1,
		RelatedTypes:  []string{"human", "soldier"},
		CommonThemes:  []string{"artifacts"},
	},
	"warrior": {
		Type:          "warrior",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.0,
		RelatedTypes:  []string{"goblin"},
		CommonThemes:  []string{"counters"},
	},
	"cat": {
		Type:          "cat",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.1,
		CommonThemes:  []string{"tokens", "lifegain"},
	},
	"dinosaur": {
		Type:          "dinosaur",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.1,
		CommonThemes:  []string{},
	},
	"sliver": {
		Type:          "sliver",
		Support:       TribalSupportStrong,
		SynergyWeight: 1.3,
		CommonThemes:  []string{"tribal"},
	},
	"elemental": {
		Type:          "elemental",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.0,
		CommonThemes:  []string{"tokens"},
	},
	"faerie": {
		Type:          "faerie",
		Support:       TribalSupportModerate,
		SynergyWeight: 1.1,
		RelatedTypes:  []string{"rogue"},
		CommonThemes:  []string{"spells"},
	},
}

// GetTribalInfo returns the tribal profile for a creature type, or nil if
// the type is not in the database.
func GetTribalInfo(creatureType string) *TribalInfo {
	if info, ok := tribalDatabase[strings.ToLower(creatureType)]; ok {
		return &info
	}
	return nil
}

// GetTribalSynergyWeight returns the synergy weight for a creature type.
// Unknown types are neutral.
func GetTribalSynergyWeight(creatureType string) float64 {
	if info, ok := tribalDatabase[strings.ToLower(creatureType)]; ok {
		return info.SynergyWeight
	}
	return 1.0
}

// IsChangeling reports whether a card's text makes it every creature type.
func IsChangeling(oracleText string) bool {
	if oracleText == "" {
		return false
	}
	return containsPattern(oracleText, "changeling") ||
		containsPattern(oracleText, "is every creature type")
}

// tribalChoicePatterns match text that picks or rewards a creature type at
// large, the signal the tribal scorer pays a bonus for when the deck has a
// tribal theme.
var tribalChoicePatterns = []string{
	"choose a creature type",
	"creature type of your choice",
	"creatures you control of the chosen type",
	"share a creature type",
}

// matchesTribalChoice reports whether text contains a tribal-choice pattern
// or supports a known tribe directly.
func matchesTribalChoice(oracleText string) bool {
	if oracleText == "" {
		return false
	}
	text := strings.ToLower(oracleText)
	for _, pattern := range tribalChoicePatterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	if IsChangeling(oracleText) {
		return true
	}
	return len(detectTypeSynergies(text).Tribal) > 0
}
