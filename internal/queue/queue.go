// Package queue builds review queues: loading decks concurrently, emitting
// one entry per card in deterministic traversal order, and applying an
// ordering strategy.
package queue

import (
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nbarlow/slate/internal/deckio"
	"github.com/nbarlow/slate/internal/deckmgr"
	"github.com/nbarlow/slate/internal/logging"
	"github.com/nbarlow/slate/internal/metadata"
	"github.com/nbarlow/slate/internal/ordering"
	"github.com/nbarlow/slate/internal/scheduler"
	"github.com/nbarlow/slate/internal/snapshot"
)

// Category is which pool a queue item belongs to.
type Category int

const (
	NewCard Category = iota
	DueCard
)

// Item is one card queued for review.
type Item struct {
	DeckPath     string
	DeckName     string
	RelativePath string // deck path relative to BuildInput.RootPath
	Item         deckio.Item
	CardIndex    int // index into Item.Metadata
	Card         metadata.Metadata
	FilePosition int
	Category     Category
	DueDate      *time.Time
}

// Queue is the built review queue.
type Queue struct {
	Items    []Item
	TotalNew int
	TotalDue int
}

// BuildInput names the decks to load and the clock to evaluate dueness
// against.
type BuildInput struct {
	DeckPaths []string // absolute paths, caller order preserved, duplicates preserved
	RootPath  string
	Now       time.Time
}

type loadedDeck struct {
	path   string
	parsed deckio.ParsedFile
	ok     bool
}

// BuildQueue loads every deck in in.DeckPaths with unbounded concurrency,
// soft-skipping any that fail to read or parse, then emits and orders the
// resulting card sequence. A nil order falls back to
// ordering.ShuffledOrdering.
func BuildQueue(in BuildInput, sched *scheduler.Scheduler, order ordering.Strategy) Queue {
	logging.Queue("building queue over %d deck(s), as_of=%s", len(in.DeckPaths), in.Now.Format(time.RFC3339))

	loaded := make([]loadedDeck, len(in.DeckPaths))
	g := new(errgroup.Group)

	for i, p := range in.DeckPaths {
		i, p := i, p
		g.Go(func() error {
			parsed, err := deckmgr.ReadDeck(p)
			if err != nil {
				logging.Queue("skipping unreadable deck %s: %v", p, err)
				loaded[i] = loadedDeck{path: p}
				return nil
			}
			loaded[i] = loadedDeck{path: p, parsed: parsed, ok: true}
			return nil
		})
	}
	_ = g.Wait()

	var orderingItems []ordering.Item
	var queueItems []Item
	filePosition := 0

	for _, ld := range loaded {
		if !ld.ok {
			continue
		}
		relPath := ld.path
		if rel, err := filepath.Rel(in.RootPath, ld.path); err == nil {
			relPath = rel
		}
		deckName := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))

		for _, item := range ld.parsed.Items {
			for cardIdx, m := range item.Metadata {
				filePosition++

				var category Category
				var dueDate *time.Time
				if m.State == 0 { // New
					category = NewCard
				} else {
					due, isDue := sched.DueDateIfDue(m, in.Now)
					if !isDue {
						continue
					}
					category = DueCard
					d := due
					dueDate = &d
				}

				qi := Item{
					DeckPath:     ld.path,
					DeckName:     deckName,
					RelativePath: relPath,
					Item:         item,
					CardIndex:    cardIdx,
					Card:         m,
					FilePosition: filePosition,
					Category:     category,
					DueDate:      dueDate,
				}
				queueItems = append(queueItems, qi)

				var oc ordering.Category
				var dueMs *int64
				if category == NewCard {
					oc = ordering.NewCard
				} else {
					oc = ordering.DueCard
					v := dueDate.UnixMilli()
					dueMs = &v
				}
				orderingItems = append(orderingItems, ordering.Item{
					Category:     oc,
					DueDateMs:    dueMs,
					DeckPath:     ld.path,
					FilePosition: filePosition,
				})
			}
		}
	}

	if order == nil {
		order = ordering.ShuffledOrdering(ordering.DefaultRNG(time.Now().UnixNano()))
	}
	orderedIdx := orderIndices(orderingItems, order)

	result := Queue{Items: make([]Item, 0, len(queueItems))}
	for _, idx := range orderedIdx {
		qi := queueItems[idx]
		result.Items = append(result.Items, qi)
		if qi.Category == NewCard {
			result.TotalNew++
		} else {
			result.TotalDue++
		}
	}
	logging.Queue("queue built: %d new, %d due", result.TotalNew, result.TotalDue)
	return result
}

// orderIndices runs the ordering strategy and recovers the resulting
// permutation as indices into the original items slice. FilePosition is a
// global monotonic counter assigned once per card, so it uniquely identifies
// each item and makes the permutation recoverable without threading an index
// field through ordering.Item itself.
func orderIndices(items []ordering.Item, order ordering.Strategy) []int {
	byFilePosition := make(map[int]int, len(items))
	for i, it := range items {
		byFilePosition[it.FilePosition] = i
	}

	ordered := order(items)
	result := make([]int, len(ordered))
	for i, it := range ordered {
		result[i] = byFilePosition[it.FilePosition]
	}
	return result
}

// TreeNode is the minimal shape BuildQueue's selection resolution needs from
// a snapshot tree node.
type TreeNode = snapshot.Node

// Selection kind.
type SelectionKind int

const (
	SelectAll SelectionKind = iota
	SelectFolder
	SelectDeck
)

// Selection names what subset of the workspace to queue.
type Selection struct {
	Kind SelectionKind
	Path string // relative path, used by SelectFolder and SelectDeck
}

// CollectDeckPathsFromSelection resolves a selection against a deck tree,
// returning absolute deck paths in deterministic DFS order.
func CollectDeckPathsFromSelection(sel Selection, tree []*TreeNode) []string {
	switch sel.Kind {
	case SelectAll:
		var paths []string
		collectLeaves(tree, &paths)
		return paths
	case SelectFolder:
		group := findGroup(tree, sel.Path)
		if group == nil {
			return nil
		}
		var paths []string
		collectLeaves(group.Children, &paths)
		return paths
	case SelectDeck:
		leaf := findLeaf(tree, sel.Path)
		if leaf == nil {
			return nil
		}
		return []string{leaf.Leaf.AbsolutePath}
	default:
		return nil
	}
}

func collectLeaves(nodes []*TreeNode, out *[]string) {
	for _, n := range nodes {
		if n.IsLeaf {
			*out = append(*out, n.Leaf.AbsolutePath)
			continue
		}
		collectLeaves(n.Children, out)
	}
}

func findGroup(nodes []*TreeNode, relPath string) *TreeNode {
	for _, n := range nodes {
		if !n.IsLeaf && n.RelativePath == relPath {
			return n
		}
		if !n.IsLeaf {
			if found := findGroup(n.Children, relPath); found != nil {
				return found
			}
		}
	}
	return nil
}

func findLeaf(nodes []*TreeNode, relPath string) *TreeNode {
	for _, n := range nodes {
		if n.IsLeaf && n.RelativePath == relPath {
			return n
		}
		if !n.IsLeaf {
			if found := findLeaf(n.Children, relPath); found != nil {
				return found
			}
		}
	}
	return nil
}
