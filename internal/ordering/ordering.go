// Package ordering implements the review-queue ordering strategies: small
// composable functions from a slice of queue items to a reordered slice of
// the same length.
package ordering

import (
	"math/rand"
	"sort"
)

// Category is which pool a queue item belongs to.
type Category int

const (
	NewCard Category = iota
	DueCard
)

// Item is the minimal shape an ordering strategy operates on.
type Item struct {
	Category     Category
	DueDateMs    *int64
	DeckPath     string
	FilePosition int
}

// Strategy reorders a slice of items, returning a slice of the same length.
type Strategy func(items []Item) []Item

// Preserve is the identity strategy.
func Preserve() Strategy {
	return func(items []Item) []Item {
		out := make([]Item, len(items))
		copy(out, items)
		return out
	}
}

// Order names a sort_by ordering.
type Order int

const (
	ByDueDate Order = iota
	ByFilePosition
)

// SortBy returns a stable strategy implementing the named total order.
func SortBy(order Order) Strategy {
	return func(items []Item) []Item {
		out := make([]Item, len(items))
		copy(out, items)
		switch order {
		case ByDueDate:
			sort.SliceStable(out, func(i, j int) bool {
				a, b := out[i].DueDateMs, out[j].DueDateMs
				if a == nil && b == nil {
					return false
				}
				if a == nil {
					return false
				}
				if b == nil {
					return true
				}
				return *a < *b
			})
		case ByFilePosition:
			sort.SliceStable(out, func(i, j int) bool {
				if out[i].DeckPath != out[j].DeckPath {
					return out[i].DeckPath < out[j].DeckPath
				}
				return out[i].FilePosition < out[j].FilePosition
			})
		}
		return out
	}
}

// RNG is the minimal interface Shuffle needs, satisfied by *rand.Rand —
// injectable so tests can seed determinism.
type RNG interface {
	Intn(n int) int
}

// Shuffle returns a strategy producing a uniform random permutation driven
// by rng.
func Shuffle(rng RNG) Strategy {
	return func(items []Item) []Item {
		out := make([]Item, len(items))
		copy(out, items)
		for i := len(out) - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			out[i], out[j] = out[j], out[i]
		}
		return out
	}
}

// Chain composes strategies left to right.
func Chain(strategies ...Strategy) Strategy {
	return func(items []Item) []Item {
		out := items
		for _, s := range strategies {
			out = s(out)
		}
		return out
	}
}

// Primary names which pool leads the combined result.
type Primary int

const (
	NewFirst Primary = iota
	DueFirst
)

// QueueOrderSpec lifts to a strategy: partition into new vs due, apply the
// per-group ordering, concatenate in the primary direction.
type QueueOrderSpec struct {
	Primary      Primary
	NewCardOrder Strategy
	DueCardOrder Strategy
}

// ToStrategy lifts a spec to a Strategy.
func (s QueueOrderSpec) ToStrategy() Strategy {
	return func(items []Item) []Item {
		var newItems, dueItems []Item
		for _, it := range items {
			if it.Category == NewCard {
				newItems = append(newItems, it)
			} else {
				dueItems = append(dueItems, it)
			}
		}
		if s.NewCardOrder != nil {
			newItems = s.NewCardOrder(newItems)
		}
		if s.DueCardOrder != nil {
			dueItems = s.DueCardOrder(dueItems)
		}

		out := make([]Item, 0, len(newItems)+len(dueItems))
		if s.Primary == NewFirst {
			out = append(out, newItems...)
			out = append(out, dueItems...)
		} else {
			out = append(out, dueItems...)
			out = append(out, newItems...)
		}
		return out
	}
}

// NewFirstByDueDate: new preserved, due by due date, new first.
func NewFirstByDueDate() Strategy {
	return QueueOrderSpec{Primary: NewFirst, NewCardOrder: Preserve(), DueCardOrder: SortBy(ByDueDate)}.ToStrategy()
}

// DueFirstByDueDate: same orderings, due first.
func DueFirstByDueDate() Strategy {
	return QueueOrderSpec{Primary: DueFirst, NewCardOrder: Preserve(), DueCardOrder: SortBy(ByDueDate)}.ToStrategy()
}

// NewFirstShuffled: new shuffled, due by due date, new first.
func NewFirstShuffled(rng RNG) Strategy {
	return QueueOrderSpec{Primary: NewFirst, NewCardOrder: Shuffle(rng), DueCardOrder: SortBy(ByDueDate)}.ToStrategy()
}

// NewFirstFileOrder: new by file position, due by due date, new first.
func NewFirstFileOrder() Strategy {
	return QueueOrderSpec{Primary: NewFirst, NewCardOrder: SortBy(ByFilePosition), DueCardOrder: SortBy(ByDueDate)}.ToStrategy()
}

// ShuffledOrdering is the bare shuffle() over the combined pool — the
// default.
func ShuffledOrdering(rng RNG) Strategy {
	return Shuffle(rng)
}

// DefaultRNG wraps math/rand.Rand to satisfy RNG.
func DefaultRNG(seed int64) RNG {
	return rand.New(rand.NewSource(seed))
}
