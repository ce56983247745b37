// Package snapshot builds a point-in-time summary of every deck discovered
// under a workspace root, and a tree view over those summaries.
package snapshot

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nbarlow/slate/internal/deckmgr"
	"github.com/nbarlow/slate/internal/scheduler"
	"github.com/nbarlow/slate/internal/workspace"
)

const snapshotConcurrency = 16

// Status tags a deck snapshot's tagged-union state.
type Status int

const (
	OK Status = iota
	ReadError
	ParseError
)

// StateCounts tallies cards by scheduler state.
type StateCounts struct {
	New        int
	Learning   int
	Review     int
	Relearning int
}

// DeckSnapshot is one deck's summary at a point in time.
type DeckSnapshot struct {
	AbsolutePath string
	RelativePath string
	Name         string
	Status       Status
	Message      string // set when Status != OK

	TotalCards  int
	DueCards    int
	StateCounts StateCounts
}

// Options configures a snapshot run.
type Options struct {
	AsOf                time.Time
	IncludeHidden       bool
	ExtraIgnorePatterns []string
}

// Snapshot is the top-level result of snapshotting a workspace.
type Snapshot struct {
	RootPath string
	AsOf     time.Time
	Decks    []DeckSnapshot
}

// SnapshotWorkspace scans root, then reads and summarizes every discovered
// deck with bounded concurrency.
func SnapshotWorkspace(root string, opts Options, sched *scheduler.Scheduler) (Snapshot, error) {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	entries, err := workspace.Scan(root, workspace.Options{
		IncludeHidden:       opts.IncludeHidden,
		ExtraIgnorePatterns: opts.ExtraIgnorePatterns,
	})
	if err != nil {
		return Snapshot{}, err
	}

	decks := make([]DeckSnapshot, len(entries))
	g := new(errgroup.Group)
	g.SetLimit(snapshotConcurrency)

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			decks[i] = summarizeDeck(entry, asOf, sched)
			return nil
		})
	}
	_ = g.Wait() // summarizeDeck never returns an error; failures are captured per-deck

	sort.Slice(decks, func(i, j int) bool { return decks[i].RelativePath < decks[j].RelativePath })

	return Snapshot{RootPath: root, AsOf: asOf, Decks: decks}, nil
}

func summarizeDeck(entry workspace.DeckEntry, asOf time.Time, sched *scheduler.Scheduler) DeckSnapshot {
	base := DeckSnapshot{AbsolutePath: entry.AbsolutePath, RelativePath: entry.RelativePath, Name: entry.Name}

	parsed, err := deckmgr.ReadDeck(entry.AbsolutePath)
	if err != nil {
		dmErr, ok := err.(*deckmgr.Error)
		if ok && dmErr.Kind == deckmgr.DeckParseError {
			base.Status = ParseError
			base.Message = normalizeMessage(err)
			return base
		}
		base.Status = ReadError
		base.Message = normalizeMessage(err)
		return base
	}

	for _, item := range parsed.Items {
		for _, m := range item.Metadata {
			base.TotalCards++
			switch m.State {
			case 0:
				base.StateCounts.New++
			case 1:
				base.StateCounts.Learning++
			case 2:
				base.StateCounts.Review++
			case 3:
				base.StateCounts.Relearning++
			}
			if sched.IsDue(m, asOf) {
				base.DueCards++
			}
		}
	}
	base.Status = OK
	return base
}

// normalizeMessage strips the deckmgr "op path: kind: " wrapper, keeping
// only the underlying cause. It splits on the first two ": " boundaries
// rather than the last, since the cause itself (a parse error's line:column,
// a read error's "open <path>: ...") commonly contains its own colons that
// must survive into the snapshot row.
func normalizeMessage(err error) string {
	msg := err.Error()
	first := strings.Index(msg, ": ")
	if first < 0 {
		return msg
	}
	rest := msg[first+2:]
	second := strings.Index(rest, ": ")
	if second < 0 {
		return rest
	}
	return rest[second+2:]
}

// Node is one row of the deck tree: either a group (directory) or a leaf
// (deck).
type Node struct {
	Name         string
	RelativePath string
	Depth        int
	IsLeaf       bool

	Leaf     *DeckSnapshot
	Children []*Node

	TotalCards  int
	DueCards    int
	StateCounts StateCounts
	ErrorCount  int
}

// BuildDeckTree groups snapshots by "/"-separated path segments, sorting
// groups before leaves then by name at every level, and aggregating counts
// up to every ancestor.
func BuildDeckTree(snapshots []DeckSnapshot) []*Node {
	root := &Node{Depth: -1}
	for _, s := range snapshots {
		insert(root, strings.Split(s.RelativePath, "/"), s)
	}
	sortChildren(root)
	return root.Children
}

func insert(parent *Node, segments []string, s DeckSnapshot) {
	if len(segments) == 1 {
		leaf := s
		child := &Node{
			Name:         segments[0],
			RelativePath: joinRel(parent, segments[0]),
			Depth:        parent.Depth + 1,
			IsLeaf:       true,
			Leaf:         &leaf,
		}
		aggregate(parent, leaf)
		parent.Children = append(parent.Children, child)
		return
	}

	var group *Node
	for _, c := range parent.Children {
		if !c.IsLeaf && c.Name == segments[0] {
			group = c
			break
		}
	}
	if group == nil {
		group = &Node{Name: segments[0], RelativePath: joinRel(parent, segments[0]), Depth: parent.Depth + 1}
		parent.Children = append(parent.Children, group)
	}
	insert(group, segments[1:], s)

	aggregateFromChild(parent, group)
}

func joinRel(parent *Node, name string) string {
	if parent.RelativePath == "" {
		return name
	}
	return parent.RelativePath + "/" + name
}

func aggregate(node *Node, s DeckSnapshot) {
	if s.Status != OK {
		node.ErrorCount++
		return
	}
	node.TotalCards += s.TotalCards
	node.DueCards += s.DueCards
	node.StateCounts.New += s.StateCounts.New
	node.StateCounts.Learning += s.StateCounts.Learning
	node.StateCounts.Review += s.StateCounts.Review
	node.StateCounts.Relearning += s.StateCounts.Relearning
}

// aggregateFromChild re-derives parent's aggregates from all children,
// since a deeply nested insert may touch the same group node many times.
func aggregateFromChild(parent *Node, group *Node) {
	parent.TotalCards = 0
	parent.DueCards = 0
	parent.StateCounts = StateCounts{}
	parent.ErrorCount = 0
	for _, c := range parent.Children {
		if c.IsLeaf {
			if c.Leaf.Status != OK {
				parent.ErrorCount++
				continue
			}
			parent.TotalCards += c.Leaf.TotalCards
			parent.DueCards += c.Leaf.DueCards
			parent.StateCounts.New += c.Leaf.StateCounts.New
			parent.StateCounts.Learning += c.Leaf.StateCounts.Learning
			parent.StateCounts.Review += c.Leaf.StateCounts.Review
			parent.StateCounts.Relearning += c.Leaf.StateCounts.Relearning
			continue
		}
		parent.TotalCards += c.TotalCards
		parent.DueCards += c.DueCards
		parent.StateCounts.New += c.StateCounts.New
		parent.StateCounts.Learning += c.StateCounts.Learning
		parent.StateCounts.Review += c.StateCounts.Review
		parent.StateCounts.Relearning += c.StateCounts.Relearning
		parent.ErrorCount += c.ErrorCount
	}
	_ = group
}

func sortChildren(node *Node) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsLeaf != b.IsLeaf {
			return !a.IsLeaf // groups before leaves
		}
		return a.Name < b.Name
	})
	for _, c := range node.Children {
		if !c.IsLeaf {
			sortChildren(c)
		}
	}
}

// Row is one line of a flattened tree view.
type Row struct {
	Node *Node
}

// FlattenDeckTree produces a DFS row list. Nodes whose RelativePath is in
// collapsed are emitted but their descendants are skipped.
func FlattenDeckTree(nodes []*Node, collapsed map[string]bool) []Row {
	var rows []Row
	var walk func([]*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			rows = append(rows, Row{Node: n})
			if !n.IsLeaf && !collapsed[n.RelativePath] {
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return rows
}
