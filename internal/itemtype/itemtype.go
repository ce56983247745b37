// Package itemtype determines how many cards an item's content body
// produces, for the two item shapes the engine knows about: QA and cloze.
package itemtype

import (
	"fmt"
	"regexp"
)

// CardSpec is one card derived from an item's content. ID carries an
// existing-id hint when the content itself names the card (cloze spans);
// it is empty when the item type has no way to name individual cards (QA).
type CardSpec struct {
	ID string
}

// ParsedContent is the result of parsing an item's content body under a
// given item type.
type ParsedContent struct {
	Cards []CardSpec
}

// ItemType maps a content body to the card specs it produces.
type ItemType interface {
	Name() string
	Parse(content string) (ParsedContent, error)
}

// QA is a question/answer item: its content is free text and always
// produces exactly one card.
type QA struct{}

func (QA) Name() string { return "qa" }

func (QA) Parse(_ string) (ParsedContent, error) {
	return ParsedContent{Cards: []CardSpec{{}}}, nil
}

// Cloze is a cloze-deletion item: its content contains one or more
// {{id::text}} spans, each producing one card tagged with that id.
type Cloze struct{}

func (Cloze) Name() string { return "cloze" }

var clozeSpan = regexp.MustCompile(`\{\{([^:}]+)::`)

func (Cloze) Parse(content string) (ParsedContent, error) {
	matches := clozeSpan.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return ParsedContent{}, fmt.Errorf("cloze content must contain at least one {{id::...}} span")
	}
	cards := make([]CardSpec, 0, len(matches))
	for _, m := range matches {
		cards = append(cards, CardSpec{ID: m[1]})
	}
	return ParsedContent{Cards: cards}, nil
}

// ByName resolves an item type by its Name(). Used by callers (the CLI)
// that select an item type from a string flag.
func ByName(name string) (ItemType, bool) {
	switch name {
	case "qa":
		return QA{}, true
	case "cloze":
		return Cloze{}, true
	default:
		return nil, false
	}
}
