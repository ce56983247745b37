// Package deckio implements the file codec: parsing and serializing a deck
// file as a preamble plus an ordered sequence of items, each item being one
// or more contiguous card-metadata comments followed by a content body.
package deckio

import (
	"fmt"
	"strings"

	"github.com/nbarlow/slate/internal/metadata"
)

// Item is a contiguous block of metadata comments sharing one content body.
type Item struct {
	Metadata []metadata.Metadata
	Content  string
}

// ParsedFile is a fully parsed deck: its byte-preserved preamble and its
// ordered items.
type ParsedFile struct {
	Preamble string
	Items    []Item
}

// ParseError reports a metadata-line parse failure at a specific line.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// ParseFile parses deck text into a ParsedFile.
func ParseFile(text string) (ParsedFile, error) {
	lines := splitLines(text)

	i := 0
	var preambleLines []string
	for i < len(lines) && !metadata.IsMetadataLine(lines[i]) {
		preambleLines = append(preambleLines, lines[i])
		i++
	}
	preamble := strings.Join(preambleLines, "")

	var items []Item
	for i < len(lines) {
		var metas []metadata.Metadata
		for i < len(lines) && metadata.IsMetadataLine(lines[i]) {
			m, err := metadata.ParseLine(lines[i])
			if err != nil {
				return ParsedFile{}, &ParseError{
					Line:    i + 1,
					Column:  errorColumn(lines[i], err),
					Message: err.Error(),
				}
			}
			metas = append(metas, m)
			i++
		}

		var contentLines []string
		for i < len(lines) && !metadata.IsMetadataLine(lines[i]) {
			contentLines = append(contentLines, lines[i])
			i++
		}

		items = append(items, Item{Metadata: metas, Content: strings.Join(contentLines, "")})
	}

	return ParsedFile{Preamble: preamble, Items: items}, nil
}

// errorColumn makes a best effort at locating the offending field's byte
// offset within the line for diagnostics; falls back to column 1.
func errorColumn(line string, err error) int {
	if fv, ok := err.(*metadata.InvalidFieldValueError); ok && fv.Value != "" {
		if idx := strings.Index(line, fv.Value); idx >= 0 {
			return idx + 1
		}
	}
	return 1
}

// SerializeFile is the left inverse of ParseFile for any ParsedFile that
// ParseFile itself produced: parse(serialize(p)) == p.
func SerializeFile(p ParsedFile) string {
	var sb strings.Builder
	sb.WriteString(p.Preamble)
	for _, item := range p.Items {
		for _, m := range item.Metadata {
			sb.WriteString(m.Serialize())
			sb.WriteString("\n")
		}
		sb.WriteString(item.Content)
	}
	return sb.String()
}

// splitLines splits text into segments each retaining its own trailing "\n"
// (the final segment has none if the text doesn't end in a newline), so that
// content bytes are preserved exactly through a parse/serialize round trip.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
