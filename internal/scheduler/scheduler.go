// Package scheduler implements the card state machine: the due predicate
// and the FSRS-based schedule-next computation.
package scheduler

import (
	"fmt"
	"time"

	"github.com/open-spaced-repetition/go-fsrs/v3"

	"github.com/nbarlow/slate/internal/logging"
	"github.com/nbarlow/slate/internal/metadata"
)

// Grade is the reviewer's recall rating for a card.
type Grade int

const (
	Again Grade = iota
	Hard
	Good
	Easy
)

func (g Grade) rating() fsrs.Rating { return fsrs.Rating(g + 1) }

func (g Grade) valid() bool { return g >= Again && g <= Easy }

// Default interval tables used to reconstruct an effective due date when a
// card has no stored `due` value. Indexed by learning_steps; an out-of-range
// index falls back to the first entry.
var (
	DefaultLearningTable   = []time.Duration{1 * time.Minute, 10 * time.Minute}
	DefaultRelearningTable = []time.Duration{10 * time.Minute}
)

// Scheduler wraps an FSRS instance plus the learning/relearning interval
// tables used for due-date reconstruction.
type Scheduler struct {
	fsrs            *fsrs.FSRS
	learningTable   []time.Duration
	relearningTable []time.Duration
}

// New builds a Scheduler with the given FSRS parameters and default
// interval tables.
func New(params fsrs.Parameters) *Scheduler {
	return &Scheduler{
		fsrs:            fsrs.NewFSRS(params),
		learningTable:   DefaultLearningTable,
		relearningTable: DefaultRelearningTable,
	}
}

// NewDefault builds a Scheduler with go-fsrs's default parameters.
func NewDefault() *Scheduler {
	return New(fsrs.DefaultParam())
}

// WithIntervalTables overrides the learning/relearning reconstruction
// tables (mainly for tests that want a hand-computed due date).
func (s *Scheduler) WithIntervalTables(learning, relearning []time.Duration) *Scheduler {
	s.learningTable = learning
	s.relearningTable = relearning
	return s
}

// EffectiveDue computes the due predicate's reconstruction rule: the stored
// due date if present, else one derived from last_review plus an
// interval. The second return is false when the card can never be "due"
// (New cards, or non-new cards with no last_review and no due).
func (s *Scheduler) EffectiveDue(m metadata.Metadata) (time.Time, bool) {
	if m.State == metadata.New {
		return time.Time{}, false
	}
	if m.Due != nil {
		return *m.Due, true
	}
	if m.LastReview == nil {
		return time.Time{}, false
	}

	switch m.State {
	case metadata.Review:
		days := m.StabilityValue()
		return m.LastReview.Add(time.Duration(days * float64(24*time.Hour))), true
	case metadata.Learning:
		return m.LastReview.Add(tableEntry(s.learningTable, m.LearningSteps)), true
	case metadata.Relearning:
		return m.LastReview.Add(tableEntry(s.relearningTable, m.LearningSteps)), true
	default:
		return time.Time{}, false
	}
}

func tableEntry(table []time.Duration, index uint64) time.Duration {
	if len(table) == 0 {
		return 0
	}
	i := int(index)
	if i < 0 || i >= len(table) {
		i = 0
	}
	return table[i]
}

// IsDue reports whether m is due at now, inclusive.
func (s *Scheduler) IsDue(m metadata.Metadata, now time.Time) bool {
	due, ok := s.EffectiveDue(m)
	if !ok {
		return false
	}
	return !due.After(now)
}

// DueDateIfDue returns the effective due date and true iff the card is due
// at now. Used by the queue builder to categorize and stamp due_date.
func (s *Scheduler) DueDateIfDue(m metadata.Metadata, now time.Time) (time.Time, bool) {
	due, ok := s.EffectiveDue(m)
	if !ok || due.After(now) {
		return time.Time{}, false
	}
	return due, true
}

// Log is the undo payload for a schedule-next call: the full prior metadata
// plus the newly computed fields.
type Log struct {
	Rating        Grade
	PreviousState metadata.State
	PreviousCard  metadata.Metadata
	Due           time.Time
	Stability     float64
	Difficulty    float64
	ScheduledDays float64
	LearningSteps uint64
	Review        time.Time
}

// ScheduleError tags a schedule-next failure with the card id that caused it.
type ScheduleError struct {
	CardID  string
	Message string
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("schedule error for card %s: %s", e.CardID, e.Message)
}

// ScheduleNext lifts m into an FSRS card, invokes FSRS with the given grade,
// and returns the updated metadata plus the undo log.
func (s *Scheduler) ScheduleNext(m metadata.Metadata, grade Grade, now time.Time) (metadata.Metadata, Log, error) {
	if !grade.valid() {
		logging.Scheduler("card %s: rejected grade %d (out of range 0..3)", m.ID, grade)
		return metadata.Metadata{}, Log{}, &ScheduleError{CardID: m.ID, Message: "grade out of range 0..3"}
	}

	var card fsrs.Card
	if m.State == metadata.New {
		card = fsrs.NewCard()
	} else {
		var elapsedDays float64
		if m.LastReview != nil {
			elapsedDays = now.Sub(*m.LastReview).Hours() / 24
			if elapsedDays < 0 {
				elapsedDays = 0
			}
		}
		var scheduledDays float64
		if m.State == metadata.Review {
			scheduledDays = m.StabilityValue()
		}
		due := now
		if m.Due != nil {
			due = *m.Due
		}
		var lastReview time.Time
		if m.LastReview != nil {
			lastReview = *m.LastReview
		}
		card = fsrs.Card{
			Due:           due,
			Stability:     m.StabilityValue(),
			Difficulty:    m.DifficultyValue(),
			ElapsedDays:   uint64(elapsedDays),
			ScheduledDays: uint64(scheduledDays),
			State:         fsrs.State(m.State),
			LastReview:    lastReview,
		}
	}

	info := s.fsrs.Next(card, now, grade.rating())
	updatedCard := info.Card

	steps := m.LearningSteps + 1
	if metadata.State(updatedCard.State) == metadata.Review {
		steps = 0
	}

	lastReview := updatedCard.LastReview
	due := updatedCard.Due
	updated := metadata.NewMetadata(m.ID, updatedCard.Stability, updatedCard.Difficulty, metadata.State(updatedCard.State), steps, &lastReview, &due)

	logEntry := Log{
		Rating:        grade,
		PreviousState: m.State,
		PreviousCard:  m,
		Due:           updatedCard.Due,
		Stability:     updatedCard.Stability,
		Difficulty:    updatedCard.Difficulty,
		ScheduledDays: float64(updatedCard.ScheduledDays),
		LearningSteps: steps,
		Review:        info.ReviewLog.Review,
	}

	logging.Scheduler("card %s: %s -> %s, grade=%d, due=%s", m.ID, m.State, updated.State, grade, due.Format(time.RFC3339))

	return updated, logEntry, nil
}
