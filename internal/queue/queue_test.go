package queue

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbarlow/slate/internal/ordering"
	"github.com/nbarlow/slate/internal/scheduler"
	"github.com/nbarlow/slate/internal/snapshot"
)

func writeDeck(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestBuildQueueEmitsNewAndDue(t *testing.T) {
	dir := t.TempDir()
	p := writeDeck(t, dir, "deck.md",
		"<!--@ a 1 1 0 0-->\nnew card\n"+
			"<!--@ b 2 1 2 0 2025-01-01T00:00:00.000Z 2025-01-01T00:00:00.000Z-->\ndue card\n")

	sched := scheduler.NewDefault()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	q := BuildQueue(BuildInput{DeckPaths: []string{p}, Now: now}, sched, ordering.Preserve())

	require.Len(t, q.Items, 2)
	assert.Equal(t, 1, q.TotalNew)
	assert.Equal(t, 1, q.TotalDue)
	assert.Equal(t, NewCard, q.Items[0].Category)
	assert.Equal(t, DueCard, q.Items[1].Category)
	assert.Equal(t, 1, q.Items[0].FilePosition)
	assert.Equal(t, 2, q.Items[1].FilePosition)
}

func TestBuildQueueSoftSkipsUnreadableDeck(t *testing.T) {
	dir := t.TempDir()
	good := writeDeck(t, dir, "good.md", "<!--@ a 1 1 0 0-->\nnew\n")
	missing := filepath.Join(dir, "missing.md")

	sched := scheduler.NewDefault()
	q := BuildQueue(BuildInput{DeckPaths: []string{missing, good}, Now: time.Now()}, sched, ordering.Preserve())

	require.Len(t, q.Items, 1)
	assert.Equal(t, good, q.Items[0].DeckPath)
}

func TestBuildQueuePreserveOrderMatchesTraversalOrder(t *testing.T) {
	dir := t.TempDir()
	p1 := writeDeck(t, dir, "d1.md", "<!--@ a 1 1 0 0-->\nx\n<!--@ b 1 1 0 0-->\ny\n")
	p2 := writeDeck(t, dir, "d2.md", "<!--@ c 1 1 0 0-->\nz\n")

	sched := scheduler.NewDefault()
	q := BuildQueue(BuildInput{DeckPaths: []string{p1, p2}, Now: time.Now()}, sched, ordering.Preserve())

	require.Len(t, q.Items, 3)
	assert.Equal(t, p1, q.Items[0].DeckPath)
	assert.Equal(t, p1, q.Items[1].DeckPath)
	assert.Equal(t, p2, q.Items[2].DeckPath)
	assert.Equal(t, 1, q.Items[0].FilePosition)
	assert.Equal(t, 2, q.Items[1].FilePosition)
	assert.Equal(t, 3, q.Items[2].FilePosition)
}

func TestBuildQueueDuplicateDeckPathsPreserved(t *testing.T) {
	dir := t.TempDir()
	p := writeDeck(t, dir, "d.md", "<!--@ a 1 1 0 0-->\nx\n")

	sched := scheduler.NewDefault()
	q := BuildQueue(BuildInput{DeckPaths: []string{p, p}, Now: time.Now()}, sched, ordering.Preserve())
	assert.Len(t, q.Items, 2)
}

func TestCollectDeckPathsFromSelectionAll(t *testing.T) {
	snaps := []snapshot.DeckSnapshot{
		{RelativePath: "a.md", AbsolutePath: "/root/a.md", Status: snapshot.OK},
		{RelativePath: "sub/b.md", AbsolutePath: "/root/sub/b.md", Status: snapshot.OK},
	}
	tree := snapshot.BuildDeckTree(snaps)
	paths := CollectDeckPathsFromSelection(Selection{Kind: SelectAll}, tree)
	assert.ElementsMatch(t, []string{"/root/a.md", "/root/sub/b.md"}, paths)
}

func TestCollectDeckPathsFromSelectionFolder(t *testing.T) {
	snaps := []snapshot.DeckSnapshot{
		{RelativePath: "a.md", AbsolutePath: "/root/a.md", Status: snapshot.OK},
		{RelativePath: "sub/b.md", AbsolutePath: "/root/sub/b.md", Status: snapshot.OK},
	}
	tree := snapshot.BuildDeckTree(snaps)
	paths := CollectDeckPathsFromSelection(Selection{Kind: SelectFolder, Path: "sub"}, tree)
	assert.Equal(t, []string{"/root/sub/b.md"}, paths)
}

func TestCollectDeckPathsFromSelectionDeck(t *testing.T) {
	snaps := []snapshot.DeckSnapshot{
		{RelativePath: "a.md", AbsolutePath: "/root/a.md", Status: snapshot.OK},
	}
	tree := snapshot.BuildDeckTree(snaps)
	paths := CollectDeckPathsFromSelection(Selection{Kind: SelectDeck, Path: "a.md"}, tree)
	assert.Equal(t, []string{"/root/a.md"}, paths)
}

func TestCollectDeckPathsFromSelectionNoMatchReturnsEmpty(t *testing.T) {
	tree := snapshot.BuildDeckTree(nil)
	paths := CollectDeckPathsFromSelection(Selection{Kind: SelectDeck, Path: "nope.md"}, tree)
	assert.Empty(t, paths)
}
