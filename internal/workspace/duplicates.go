package workspace

import (
	"sort"

	"github.com/nbarlow/slate/internal/deckio"
)

// Occurrence names one place a given card id was found.
type Occurrence struct {
	DeckPath string
	CardID   string
}

// DuplicateID is a card id that occurs more than once across a set of
// already-loaded decks, with every occurrence.
type DuplicateID struct {
	CardID      string
	Occurrences []Occurrence
}

// FindDuplicateIDs indexes card ids across decks (keyed by their absolute
// path) and reports every id that appears more than once. Duplicates are
// never rejected or deduplicated elsewhere in the engine — this is purely a
// reporting utility, typically surfaced by a "doctor" command.
func FindDuplicateIDs(decks map[string]deckio.ParsedFile) []DuplicateID {
	byID := make(map[string][]Occurrence)
	for deckPath, parsed := range decks {
		for _, item := range parsed.Items {
			for _, m := range item.Metadata {
				byID[m.ID] = append(byID[m.ID], Occurrence{DeckPath: deckPath, CardID: m.ID})
			}
		}
	}

	var dups []DuplicateID
	for id, occ := range byID {
		if len(occ) < 2 {
			continue
		}
		sort.Slice(occ, func(i, j int) bool { return occ[i].DeckPath < occ[j].DeckPath })
		dups = append(dups, DuplicateID{CardID: id, Occurrences: occ})
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].CardID < dups[j].CardID })
	return dups
}
