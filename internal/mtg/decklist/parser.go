// Package decklist parses plain-text deck lists of the common
// "4 Lightning Bolt (M21) 123" form into the canonical deck model.
package decklist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
)

// Deck list sections. An empty line after mainboard entries switches to the
// sideboard, matching the Arena export convention.
const (
	SectionCommander = "commander"
	SectionMain      = "main"
	SectionSideboard = "sideboard"
)

// Entry is one parsed deck list line.
type Entry struct {
	Quantity        int
	Name            string
	SetCode         string
	CollectorNumber string
	Section         string
}

// List is a parsed deck list with per-line warnings for anything skipped.
type List struct {
	Commanders []Entry
	Mainboard  []Entry
	Sideboard  []Entry
	Warnings   []string
}

// entryPattern matches "4 Lightning Bolt", "4 Lightning Bolt (M21)" and
// "4 Lightning Bolt (M21) 123". Quantity is required.
var entryPattern = regexp.MustCompile(`^(\d+)x?\s+([^(]+?)(?:\s+\(([A-Za-z0-9]+)\)(?:\s+(\S+))?)?$`)

// Parse reads a plain-text deck list. Section headers ("Commander", "Deck",
// "Sideboard") are recognized case-insensitively; lines starting with "//" or
// "#" are comments. Unparseable lines produce warnings, not errors.
func Parse(input string) (*List, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.New("empty deck list")
	}

	list := &List{}
	section := SectionMain
	sawEntries := false

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			// Arena exports separate the sideboard with a blank line.
			if sawEntries && section == SectionMain {
				section = SectionSideboard
			}
			continue
		}
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}

		switch strings.ToLower(line) {
		case "commander", "commanders":
			section = SectionCommander
			continue
		case "deck", "mainboard", "main":
			section = SectionMain
			continue
		case "sideboard", "side":
			section = SectionSideboard
			continue
		}

		matches := entryPattern.FindStringSubmatch(line)
		if matches == nil {
			list.Warnings = append(list.Warnings, fmt.Sprintf("line %d: cannot parse %q", i+1, line))
			continue
		}

		quantity, err := strconv.Atoi(matches[1])
		if err != nil || quantity < 1 {
			list.Warnings = append(list.Warnings, fmt.Sprintf("line %d: invalid quantity %q", i+1, matches[1]))
			continue
		}

		entry := Entry{
			Quantity:        quantity,
			Name:            strings.TrimSpace(matches[2]),
			SetCode:         strings.ToLower(matches[3]),
			CollectorNumber: matches[4],
			Section:         section,
		}
		switch section {
		case SectionCommander:
			list.Commanders = append(list.Commanders, entry)
		case SectionSideboard:
			list.Sideboard = append(list.Sideboard, entry)
		default:
			list.Mainboard = append(list.Mainboard, entry)
		}
		sawEntries = true
	}

	if !sawEntries {
		return nil, errors.New("deck list contains no card entries")
	}
	return list, nil
}

// Resolve expands a parsed list into a deck, looking each name up in the
// corpus. Names the corpus does not know resolve to name-only cards and a
// warning, so a missing corpus row degrades output instead of failing it.
func Resolve(ctx context.Context, list *List, corpus recommendations.CardCorpus) (*recommendations.Deck, []string, error) {
	if list == nil {
		return nil, nil, errors.New("nil deck list")
	}

	var warnings []string
	resolve := func(entries []Entry) ([]cards.Card, error) {
		var out []cards.Card
		for _, entry := range entries {
			card, err := lookup(ctx, corpus, entry)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: not in corpus, using name only", entry.Name))
				card = &cards.Card{Name: entry.Name, SetCode: entry.SetCode, CollectorNumber: entry.CollectorNumber}
			}
			for i := 0; i < entry.Quantity; i++ {
				out = append(out, *card)
			}
		}
		return out, nil
	}

	deck := &recommendations.Deck{}
	var err error
	if deck.Commanders, err = resolve(list.Commanders); err != nil {
		return nil, warnings, err
	}
	if deck.Mainboard, err = resolve(list.Mainboard); err != nil {
		return nil, warnings, err
	}
	if deck.Sideboard, err = resolve(list.Sideboard); err != nil {
		return nil, warnings, err
	}
	return deck, append(warnings, list.Warnings...), nil
}

func lookup(ctx context.Context, corpus recommendations.CardCorpus, entry Entry) (*cards.Card, error) {
	if corpus == nil {
		return nil, errors.New("no corpus")
	}
	return corpus.FindCardByDetails(ctx, entry.Name, entry.SetCode, entry.CollectorNumber)
}
