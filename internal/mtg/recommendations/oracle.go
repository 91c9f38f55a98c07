package recommendations

import (
	"regexp"
	"strings"
)

// OraclePatterns holds the structured mechanical signals parsed from a
// card's rules text. Always derived on demand; deterministic for a given
// text, so callers may cache results keyed by the text string.
type OraclePatterns struct {
	Triggers         []TriggerPattern   `json:"triggers"`
	Engines          []EnginePattern    `json:"engines"`
	TypeSynergies    TypeSynergies      `json:"typeSynergies"`
	Keywords         []KeywordAbility   `json:"keywords"`
	Resources        ResourceEffects    `json:"resources"`
	Interaction      InteractionEffects `json:"interaction"`
	CaresAboutTokens bool               `json:"caresAboutTokens"`
}

// TriggerPattern records one detected triggered-ability clause.
type TriggerPattern struct {
	Class   string   `json:"class"` // enters_battlefield, dies_or_leaves, attacks, cast_spell
	Matched string   `json:"matched"`
	Types   []string `json:"types,omitempty"` // creature/card types mentioned in the clause
}

// EnginePattern records a detected repeatable resource loop.
type EnginePattern struct {
	Type        string `json:"type"` // discard_draw, sacrifice_benefit, tap_untap
	Optional    bool   `json:"optional"`
	Conditional bool   `json:"conditional"`
}

// TypeSynergies groups type-based synergy signals.
type TypeSynergies struct {
	Tribal    []TribalSynergy `json:"tribal,omitempty"`
	Equipment bool            `json:"equipment"`
	Artifacts bool            `json:"artifacts"`
}

// TribalSynergy records a creature type the text actively supports.
// Strength is 1..5.
type TribalSynergy struct {
	Type     string `json:"type"`
	Strength int    `json:"strength"`
}

// KeywordAbility records a keyword ability mention with occurrence count.
// Grants is set when the text gives the keyword to other objects rather
// than merely having it.
type KeywordAbility struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
	Grants  bool   `json:"grants"`
}

// ResourceEffects summarizes resource generation and consumption in the text.
type ResourceEffects struct {
	CardDraw      int  `json:"cardDraw"`
	Discard       int  `json:"discard"`
	GeneratesMana bool `json:"generatesMana"`
	Lifegain      int  `json:"lifegain"`
	Lifeloss      int  `json:"lifeloss"`
}

// InteractionEffects summarizes how the text interacts with opposing cards.
type InteractionEffects struct {
	Destroy      int  `json:"destroy"`
	Exile        int  `json:"exile"`
	Counterspell bool `json:"counterspell"`
	Bounce       bool `json:"bounce"`
}

// tribalVocabulary is the fixed set of creature types checked for tribal
// synergy, in detection order.
var tribalVocabulary = []string{
	"goblin", "elf", "zombie", "vampire", "merfolk", "human", "wizard",
	"soldier", "dragon", "angel", "demon", "spirit", "knight", "warrior",
	"cat", "dinosaur", "sliver", "elemental", "faerie",
}

// keywordVocabulary is the fixed set of keyword abilities checked by the
// analyzer, in detection order.
var keywordVocabulary = []string{
	"flying", "trample", "haste", "vigilance", "lifelink", "deathtouch",
	"first strike", "double strike", "menace", "reach", "hexproof",
	"indestructible", "flash", "defender", "ward", "proliferate", "dredge",
	"landfall", "prowess",
}

var (
	triggerClasses = []struct {
		class string
		re    *regexp.Regexp
	}{
		{"enters_battlefield", regexp.MustCompile(`(?:when(?:ever)?\s+)?[^.;]*enters(?: the battlefield)?[^.;]*`)},
		{"dies_or_leaves", regexp.MustCompile(`when(?:ever)?\s+[^.;]*(?:dies|leaves the battlefield|is put into a graveyard)[^.;]*`)},
		{"attacks", regexp.MustCompile(`when(?:ever)?\s+[^.;]*attacks?[^.;]*`)},
		{"cast_spell", regexp.MustCompile(`when(?:ever)?\s+[^.;]*casts?\s+[^.;]*spell[^.;]*`)},
	}

	drawCountRe    = regexp.MustCompile(`draws?\s+(?:a|one|two|three|four|x|\d+)\s+cards?|draws?\s+a\s+card`)
	discardRe      = regexp.MustCompile(`discards?\s+(?:a|one|two|three|four|x|\d+)?\s*cards?`)
	manaGenRe      = regexp.MustCompile(`add\s+(?:\{|one mana|two mana|x mana|mana of any)`)
	lifegainRe     = regexp.MustCompile(`(?:gain|gains)\s+(?:\d+|x)\s+life`)
	lifelossRe     = regexp.MustCompile(`(?:lose|loses)\s+(?:\d+|x)\s+life`)
	destroyRe      = regexp.MustCompile(`destroy\s+(?:target|all|each|up to)`)
	exileRe        = regexp.MustCompile(`exile\s+(?:target|all|each|up to)`)
	counterspellRe = regexp.MustCompile(`counter\s+target\s+[^.;]*spell`)
	bounceRe       = regexp.MustCompile(`return\s+(?:target|up to|all|each)\s+[^.;]*to\s+(?:its owner's|their owners'|your)\s+hand`)
	grantsRe       = regexp.MustCompile(`(?:has|have|gains?|gets?)\s+(?:[^.;]*\s)?%s`)
)

// tokenDependencyPatterns detect text that depends on existing tokens. A
// card can care about tokens without creating any, so this is checked
// independently of token creation.
var tokenDependencyPatterns = []string{
	"sacrifice a token",
	"sacrifice another token",
	"for each token you control",
	"tap an untapped token",
	"tokens you control get",
	"tokens you control have",
	"token you control",
	"number of tokens",
}

// AnalyzeOracleText parses rules text into structured pattern signals.
// It never fails; empty text yields the zero OraclePatterns.
func AnalyzeOracleText(oracleText string) OraclePatterns {
	var p OraclePatterns
	if strings.TrimSpace(oracleText) == "" {
		return p
	}
	text := strings.ToLower(oracleText)

	p.Triggers = detectTriggers(text)
	p.Engines = detectEngines(text)
	p.TypeSynergies = detectTypeSynergies(text)
	p.Keywords = detectKeywordAbilities(text)
	p.Resources = detectResources(text)
	p.Interaction = detectInteraction(text)
	p.CaresAboutTokens = detectTokenDependency(text)

	return p
}

func detectTriggers(text string) []TriggerPattern {
	var triggers []TriggerPattern
	for _, tc := range triggerClasses {
		for _, match := range tc.re.FindAllString(text, -1) {
			// The ETB regex is broad; require an actual trigger word so
			// static ability text does not register.
			if tc.class == "enters_battlefield" && !strings.Contains(match, "when") {
				continue
			}
			triggers = append(triggers, TriggerPattern{
				Class:   tc.class,
				Matched: strings.TrimSpace(match),
				Types:   typesInClause(match),
			})
		}
	}
	return triggers
}

// typesInClause lists tribal vocabulary types mentioned in a trigger clause.
func typesInClause(clause string) []string {
	var found []string
	for _, t := range tribalVocabulary {
		if strings.Contains(clause, t) {
			found = append(found, t)
		}
	}
	return found
}

// detectEngines finds repeatable resource loops by keyword co-occurrence.
// Both halves of a loop must be present; a single keyword is not an engine.
func detectEngines(text string) []EnginePattern {
	optional := strings.Contains(text, "may")
	conditional := strings.Contains(text, "if you do")

	var engines []EnginePattern
	if strings.Contains(text, "discard") && strings.Contains(text, "draw") {
		engines = append(engines, EnginePattern{Type: "discard_draw", Optional: optional, Conditional: conditional})
	}
	if strings.Contains(text, "sacrifice") &&
		(strings.Contains(text, "draw") || strings.Contains(text, "add") ||
			strings.Contains(text, "gain") || strings.Contains(text, "deal")) {
		engines = append(engines, EnginePattern{Type: "sacrifice_benefit", Optional: optional, Conditional: conditional})
	}
	if strings.Contains(text, "untap") && strings.Contains(text, "tap") {
		engines = append(engines, EnginePattern{Type: "tap_untap", Optional: optional, Conditional: conditional})
	}
	return engines
}

// tribalSynergyTemplates are phrase patterns indicating the text supports a
// creature type rather than merely mentioning it. %s is the type name.
var tribalSynergyTemplates = []string{
	"other %ss",
	"other %s",
	"%s creatures",
	"%ss you control",
	"%s you control",
	"each %s",
	"%s spells",
	"choose a %s",
	"%s tokens",
}

// strongTribalTemplates indicate dedicated tribal payoffs and add extra
// strength.
var strongTribalTemplates = []string{
	"other %ss you control",
	"%ss you control get",
	"for each %s",
	"whenever a %s",
	"whenever another %s",
}

func detectTypeSynergies(text string) TypeSynergies {
	var ts TypeSynergies

	for _, tribe := range tribalVocabulary {
		matched := false
		for _, tmpl := range tribalSynergyTemplates {
			if strings.Contains(text, strings.ReplaceAll(tmpl, "%s", tribe)) {
				matched = true
				break
			}
		}
		if !matched {
			// Incidental mention of the type name alone is not synergy.
			continue
		}

		mentions := strings.Count(text, tribe)
		bonus := 0
		for _, tmpl := range strongTribalTemplates {
			if strings.Contains(text, strings.ReplaceAll(tmpl, "%s", tribe)) {
				bonus++
			}
		}
		strength := 1 + (mentions - 1) + bonus
		if strength > 5 {
			strength = 5
		}
		ts.Tribal = append(ts.Tribal, TribalSynergy{Type: tribe, Strength: strength})
	}

	ts.Equipment = strings.Contains(text, "equipment") || strings.Contains(text, "equipped creature") ||
		strings.Contains(text, "attach")
	ts.Artifacts = strings.Contains(text, "artifact you control") || strings.Contains(text, "artifacts you control") ||
		strings.Contains(text, "artifact spells") || strings.Contains(text, "for each artifact") ||
		strings.Contains(text, "artifact enters")

	return ts
}

func detectKeywordAbilities(text string) []KeywordAbility {
	var kws []KeywordAbility
	for _, kw := range keywordVocabulary {
		count := strings.Count(text, kw)
		if count == 0 {
			continue
		}
		grants := grantsKeyword(text, kw)
		kws = append(kws, KeywordAbility{Keyword: kw, Count: count, Grants: grants})
	}
	return kws
}

func grantsKeyword(text, keyword string) bool {
	re := regexp.MustCompile(strings.ReplaceAll(grantsRe.String(), "%s", regexp.QuoteMeta(keyword)))
	return re.MatchString(text)
}

func detectResources(text string) ResourceEffects {
	return ResourceEffects{
		CardDraw:      len(drawCountRe.FindAllString(text, -1)),
		Discard:       len(discardRe.FindAllString(text, -1)),
		GeneratesMana: manaGenRe.MatchString(text),
		Lifegain:      len(lifegainRe.FindAllString(text, -1)),
		Lifeloss:      len(lifelossRe.FindAllString(text, -1)),
	}
}

func detectInteraction(text string) InteractionEffects {
	return InteractionEffects{
		Destroy:      len(destroyRe.FindAllString(text, -1)),
		Exile:        len(exileRe.FindAllString(text, -1)),
		Counterspell: counterspellRe.MatchString(text),
		Bounce:       bounceRe.MatchString(text),
	}
}

func detectTokenDependency(text string) bool {
	for _, pattern := range tokenDependencyPatterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}

// containsPattern reports whether text contains the pattern,
// case-insensitively.
func containsPattern(text, pattern string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(pattern))
}
