// Package metadata implements the parse/serialize contract for a single
// card-metadata comment line.
package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"
)

// State is the card state machine's position: New, Learning, Review, Relearning.
type State int

const (
	New State = iota
	Learning
	Review
	Relearning
)

func (s State) String() string {
	switch s {
	case New:
		return "new"
	case Learning:
		return "learning"
	case Review:
		return "review"
	case Relearning:
		return "relearning"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	linePrefix = "<!--@ "
	lineSuffix = "-->"
)

// Metadata is the parsed form of a single card-metadata comment.
//
// Stability and difficulty keep their raw textual form so that re-serializing
// a value parsed from disk doesn't drift the file's formatting for fields the
// caller didn't touch.
type Metadata struct {
	ID            string
	StabilityRaw  string
	DifficultyRaw string
	State         State
	LearningSteps uint64
	LastReview    *time.Time
	Due           *time.Time
}

// NewMetadata builds a Metadata value from fresh numeric results, using a
// minimal canonical textual representation for the numeric fields.
func NewMetadata(id string, stability, difficulty float64, state State, learningSteps uint64, lastReview, due *time.Time) Metadata {
	return Metadata{
		ID:            id,
		StabilityRaw:  strconv.FormatFloat(stability, 'f', -1, 64),
		DifficultyRaw: strconv.FormatFloat(difficulty, 'f', -1, 64),
		State:         state,
		LearningSteps: learningSteps,
		LastReview:    lastReview,
		Due:           due,
	}
}

// StabilityValue parses the raw stability field as a float64.
func (m Metadata) StabilityValue() float64 {
	v, _ := strconv.ParseFloat(m.StabilityRaw, 64)
	return v
}

// DifficultyValue parses the raw difficulty field as a float64.
func (m Metadata) DifficultyValue() float64 {
	v, _ := strconv.ParseFloat(m.DifficultyRaw, 64)
	return v
}

// InvalidMetadataFormatError reports that a line isn't shaped like a
// metadata comment, or has the wrong number of fields.
type InvalidMetadataFormatError struct {
	Reason string
}

func (e *InvalidMetadataFormatError) Error() string {
	return fmt.Sprintf("invalid metadata format: %s", e.Reason)
}

// InvalidFieldValueError names the offending field, its raw value, and the
// kind of value that was expected.
type InvalidFieldValueError struct {
	Field    string
	Value    string
	Expected string
}

func (e *InvalidFieldValueError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q, expected %s", e.Value, e.Field, e.Expected)
}

// IsMetadataLine reports whether line has the outer shape of a metadata
// comment (used by the file codec to find item boundaries before attempting
// a full parse).
func IsMetadataLine(line string) bool {
	trimmed := strings.TrimRight(line, "\r\n")
	return strings.HasPrefix(trimmed, linePrefix) && strings.HasSuffix(trimmed, lineSuffix) && len(trimmed) >= len(linePrefix)+len(lineSuffix)
}

// ParseLine parses a single metadata comment line (trailing newline optional).
func ParseLine(line string) (Metadata, error) {
	trimmed := strings.TrimRight(line, "\r\n")
	if !IsMetadataLine(trimmed) {
		return Metadata{}, &InvalidMetadataFormatError{Reason: "line is not a metadata comment"}
	}

	body := strings.TrimSuffix(strings.TrimPrefix(trimmed, linePrefix), lineSuffix)
	fields := strings.Fields(body)
	if len(fields) < 5 || len(fields) > 7 {
		return Metadata{}, &InvalidMetadataFormatError{Reason: fmt.Sprintf("expected 5-7 fields, got %d", len(fields))}
	}

	id := fields[0]
	if id == "" || strings.Contains(id, "-->") {
		return Metadata{}, &InvalidFieldValueError{Field: "id", Value: id, Expected: "non-whitespace without embedded -->"}
	}

	if _, err := strconv.ParseFloat(fields[1], 64); err != nil {
		return Metadata{}, &InvalidFieldValueError{Field: "stability", Value: fields[1], Expected: "numeric"}
	}
	if _, err := strconv.ParseFloat(fields[2], 64); err != nil {
		return Metadata{}, &InvalidFieldValueError{Field: "difficulty", Value: fields[2], Expected: "numeric"}
	}

	stateVal, err := strconv.Atoi(fields[3])
	if err != nil || stateVal < int(New) || stateVal > int(Relearning) {
		return Metadata{}, &InvalidFieldValueError{Field: "state", Value: fields[3], Expected: "state in 0..3"}
	}

	steps, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return Metadata{}, &InvalidFieldValueError{Field: "learning_steps", Value: fields[4], Expected: "non-negative integer"}
	}

	m := Metadata{
		ID:            id,
		StabilityRaw:  fields[1],
		DifficultyRaw: fields[2],
		State:         State(stateVal),
		LearningSteps: steps,
	}

	if len(fields) >= 6 {
		t, err := iso8601.ParseString(fields[5])
		if err != nil {
			return Metadata{}, &InvalidFieldValueError{Field: "last_review", Value: fields[5], Expected: "ISO timestamp"}
		}
		utc := t.UTC()
		m.LastReview = &utc
	}
	if len(fields) == 7 {
		t, err := iso8601.ParseString(fields[6])
		if err != nil {
			return Metadata{}, &InvalidFieldValueError{Field: "due", Value: fields[6], Expected: "ISO timestamp"}
		}
		utc := t.UTC()
		m.Due = &utc
	}

	return m, nil
}

// Serialize renders m back to its on-disk line form (without a trailing
// newline). serialize(m) round-trips through ParseLine for every value
// ParseLine itself produces.
//
// A Due timestamp with no LastReview can't be represented positionally (the
// wire grammar nests due under last_review) — such a value serializes with
// due dropped, since the combination is a caller-construction error rather
// than one ParseLine can ever produce.
func (m Metadata) Serialize() string {
	fields := []string{
		m.ID,
		m.StabilityRaw,
		m.DifficultyRaw,
		strconv.Itoa(int(m.State)),
		strconv.FormatUint(m.LearningSteps, 10),
	}
	if m.LastReview != nil {
		fields = append(fields, formatTimestamp(*m.LastReview))
		if m.Due != nil {
			fields = append(fields, formatTimestamp(*m.Due))
		}
	}
	return linePrefix + strings.Join(fields, " ") + lineSuffix
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
