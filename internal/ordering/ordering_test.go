package ordering

import (
	"testing"
)

func ms(v int64) *int64 { return &v }

func TestPreserveIsIdentity(t *testing.T) {
	items := []Item{{DeckPath: "a"}, {DeckPath: "b"}, {DeckPath: "c"}}
	out := Preserve()(items)
	for i, it := range out {
		if it.DeckPath != items[i].DeckPath {
			t.Errorf("index %d: got %q want %q", i, it.DeckPath, items[i].DeckPath)
		}
	}
}

func TestSortByDueDateNullsLast(t *testing.T) {
	items := []Item{
		{DeckPath: "a", DueDateMs: nil},
		{DeckPath: "b", DueDateMs: ms(200)},
		{DeckPath: "c", DueDateMs: ms(100)},
	}
	out := SortBy(ByDueDate)(items)
	want := []string{"c", "b", "a"}
	for i, w := range want {
		if out[i].DeckPath != w {
			t.Errorf("index %d: got %q want %q", i, out[i].DeckPath, w)
		}
	}
}

func TestSortByFilePosition(t *testing.T) {
	items := []Item{
		{DeckPath: "b", FilePosition: 1},
		{DeckPath: "a", FilePosition: 2},
		{DeckPath: "a", FilePosition: 1},
	}
	out := SortBy(ByFilePosition)(items)
	want := []struct {
		deck string
		pos  int
	}{{"a", 1}, {"a", 2}, {"b", 1}}
	for i, w := range want {
		if out[i].DeckPath != w.deck || out[i].FilePosition != w.pos {
			t.Errorf("index %d: got %+v want %+v", i, out[i], w)
		}
	}
}

type fixedRNG struct{ seq []int }

func (f *fixedRNG) Intn(n int) int {
	v := f.seq[0]
	f.seq = f.seq[1:]
	return v
}

func TestShuffleDeterministicGivenRNG(t *testing.T) {
	items := []Item{{DeckPath: "a"}, {DeckPath: "b"}, {DeckPath: "c"}}
	rng := &fixedRNG{seq: []int{0, 0}}
	out := Shuffle(rng)(items)
	if len(out) != 3 {
		t.Fatalf("expected 3 items, got %d", len(out))
	}
	// i=2 swaps with 0 -> c,b,a; i=1 swaps with 0 -> b,c,a
	want := []string{"b", "c", "a"}
	for i, w := range want {
		if out[i].DeckPath != w {
			t.Errorf("index %d: got %q want %q", i, out[i].DeckPath, w)
		}
	}
}

func TestShuffleReturnsSameLength(t *testing.T) {
	items := make([]Item, 10)
	rng := DefaultRNG(42)
	out := Shuffle(rng)(items)
	if len(out) != len(items) {
		t.Errorf("expected length %d, got %d", len(items), len(out))
	}
}

func TestChainComposesLeftToRight(t *testing.T) {
	items := []Item{
		{DeckPath: "b", DueDateMs: ms(2)},
		{DeckPath: "a", DueDateMs: ms(1)},
	}
	out := Chain(SortBy(ByDueDate), Preserve())(items)
	if out[0].DeckPath != "a" || out[1].DeckPath != "b" {
		t.Errorf("unexpected order: %+v", out)
	}
}

func TestNewFirstByDueDate(t *testing.T) {
	items := []Item{
		{Category: DueCard, DeckPath: "due-b", DueDateMs: ms(200)},
		{Category: NewCard, DeckPath: "new-a"},
		{Category: DueCard, DeckPath: "due-a", DueDateMs: ms(100)},
		{Category: NewCard, DeckPath: "new-b"},
	}
	out := NewFirstByDueDate()(items)
	want := []string{"new-a", "new-b", "due-a", "due-b"}
	for i, w := range want {
		if out[i].DeckPath != w {
			t.Errorf("index %d: got %q want %q", i, out[i].DeckPath, w)
		}
	}
}

func TestDueFirstByDueDate(t *testing.T) {
	items := []Item{
		{Category: NewCard, DeckPath: "new-a"},
		{Category: DueCard, DeckPath: "due-a", DueDateMs: ms(100)},
	}
	out := DueFirstByDueDate()(items)
	if out[0].DeckPath != "due-a" || out[1].DeckPath != "new-a" {
		t.Errorf("expected due first, got %+v", out)
	}
}

func TestNewFirstFileOrder(t *testing.T) {
	items := []Item{
		{Category: NewCard, DeckPath: "b", FilePosition: 1},
		{Category: NewCard, DeckPath: "a", FilePosition: 1},
	}
	out := NewFirstFileOrder()(items)
	if out[0].DeckPath != "a" || out[1].DeckPath != "b" {
		t.Errorf("expected file-position order, got %+v", out)
	}
}
