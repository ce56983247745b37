// Package deckmgr owns all mutating access to deck files: every mutation is
// read-parse-modify-serialize-atomic-write.
package deckmgr

import (
	"fmt"
	"os"

	"github.com/nbarlow/slate/internal/deckio"
	"github.com/nbarlow/slate/internal/itemtype"
	"github.com/nbarlow/slate/internal/logging"
	"github.com/nbarlow/slate/internal/metadata"
)

// Error tags a deck-manager failure with the path and operation it occurred
// under.
type Error struct {
	Op   string
	Path string
	Kind ErrorKind
	Err  error
}

// ErrorKind classifies deck-manager failures.
type ErrorKind int

const (
	DeckNotFound ErrorKind = iota
	DeckReadError
	DeckParseError
	CardNotFound
	ItemValidationError
	DeckWriteError
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.kindLabel(), e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.kindLabel())
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) kindLabel() string {
	switch e.Kind {
	case DeckNotFound:
		return "deck not found"
	case DeckReadError:
		return "deck read error"
	case DeckParseError:
		return "deck parse error"
	case CardNotFound:
		return "card not found"
	case ItemValidationError:
		return "item validation error"
	case DeckWriteError:
		return "deck write error"
	default:
		return "unknown error"
	}
}

// ReadDeck reads and parses the deck at p.
func ReadDeck(p string) (deckio.ParsedFile, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Deck("read_deck: not found: %s", p)
			return deckio.ParsedFile{}, &Error{Op: "read_deck", Path: p, Kind: DeckNotFound, Err: err}
		}
		logging.Deck("read_deck: read error: %s: %v", p, err)
		return deckio.ParsedFile{}, &Error{Op: "read_deck", Path: p, Kind: DeckReadError, Err: err}
	}
	parsed, err := deckio.ParseFile(string(raw))
	if err != nil {
		logging.Deck("read_deck: parse error: %s: %v", p, err)
		return deckio.ParsedFile{}, &Error{Op: "read_deck", Path: p, Kind: DeckParseError, Err: err}
	}
	return parsed, nil
}

// findCard locates the item and metadata index of the first card with the
// given id. The by-id lookup is a linear scan; first match wins.
func findCard(items []deckio.Item, cardID string) (itemIdx, metaIdx int, ok bool) {
	for i, item := range items {
		for j, m := range item.Metadata {
			if m.ID == cardID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// UpdateCardMetadata replaces the metadata of the card with the given id,
// preserving all content bytes and all other cards.
func UpdateCardMetadata(p, cardID string, newMeta metadata.Metadata) error {
	parsed, err := ReadDeck(p)
	if err != nil {
		return err
	}
	itemIdx, metaIdx, ok := findCard(parsed.Items, cardID)
	if !ok {
		return &Error{Op: "update_card_metadata", Path: p, Kind: CardNotFound}
	}
	parsed.Items[itemIdx].Metadata[metaIdx] = newMeta
	return writeDeck(p, "update_card_metadata", parsed)
}

// ReplaceItem replaces the entire item containing card_id with new_item.
// new_item's card count must equal item_type.Parse(new_item.Content)'s card
// count.
func ReplaceItem(p, cardID string, newItem deckio.Item, it itemtype.ItemType) error {
	parsed, err := ReadDeck(p)
	if err != nil {
		return err
	}
	itemIdx, _, ok := findCard(parsed.Items, cardID)
	if !ok {
		return &Error{Op: "replace_item", Path: p, Kind: CardNotFound}
	}
	if err := validateItem(p, "replace_item", newItem, it); err != nil {
		return err
	}
	parsed.Items[itemIdx] = newItem
	return writeDeck(p, "replace_item", parsed)
}

// AppendItem appends new_item as the last item. If the last existing item's
// content does not end in a newline, one is injected first; if there are no
// existing items and the preamble is non-empty and does not end in a
// newline, one is injected there instead.
func AppendItem(p string, newItem deckio.Item, it itemtype.ItemType) error {
	parsed, err := ReadDeck(p)
	if err != nil {
		return err
	}
	if err := validateItem(p, "append_item", newItem, it); err != nil {
		return err
	}

	if n := len(parsed.Items); n > 0 {
		last := &parsed.Items[n-1]
		if last.Content != "" && last.Content[len(last.Content)-1] != '\n' {
			last.Content += "\n"
		}
	} else if parsed.Preamble != "" && parsed.Preamble[len(parsed.Preamble)-1] != '\n' {
		parsed.Preamble += "\n"
	}

	parsed.Items = append(parsed.Items, newItem)
	return writeDeck(p, "append_item", parsed)
}

// RemoveItem drops the item containing card_id.
func RemoveItem(p, cardID string) error {
	parsed, err := ReadDeck(p)
	if err != nil {
		return err
	}
	itemIdx, _, ok := findCard(parsed.Items, cardID)
	if !ok {
		return &Error{Op: "remove_item", Path: p, Kind: CardNotFound}
	}
	parsed.Items = append(parsed.Items[:itemIdx], parsed.Items[itemIdx+1:]...)
	return writeDeck(p, "remove_item", parsed)
}

// validateItem invokes item_type.Parse(new_item.Content) and compares the
// resulting card count to new_item's own metadata count.
func validateItem(p, op string, item deckio.Item, it itemtype.ItemType) error {
	parsedContent, err := it.Parse(item.Content)
	if err != nil {
		return &Error{Op: op, Path: p, Kind: ItemValidationError, Err: fmt.Errorf("content parse failed: %w", err)}
	}
	if len(parsedContent.Cards) != len(item.Metadata) {
		return &Error{Op: op, Path: p, Kind: ItemValidationError, Err: fmt.Errorf("card count mismatch: content implies %d, item has %d", len(parsedContent.Cards), len(item.Metadata))}
	}
	return nil
}

// writeDeck performs the atomic write: serialize, write to p+".tmp", rename
// over p. On any failure the temp file is best-effort removed and p is left
// unchanged.
func writeDeck(p, op string, parsed deckio.ParsedFile) error {
	content := deckio.SerializeFile(parsed)
	tmpPath := p + ".tmp"

	if err := os.WriteFile(tmpPath, []byte(content), 0o644); err != nil {
		_ = os.Remove(tmpPath)
		logging.Deck("%s: failed to write temp file %s: %v", op, tmpPath, err)
		return &Error{Op: op, Path: p, Kind: DeckWriteError, Err: err}
	}
	if err := os.Rename(tmpPath, p); err != nil {
		_ = os.Remove(tmpPath)
		logging.Deck("%s: failed to rename %s to %s: %v", op, tmpPath, p, err)
		return &Error{Op: op, Path: p, Kind: DeckWriteError, Err: err}
	}
	logging.Deck("%s: wrote %s (%d item(s))", op, p, len(parsed.Items))
	return nil
}
