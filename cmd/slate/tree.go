package slate

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbarlow/slate/internal/scheduler"
	"github.com/nbarlow/slate/internal/snapshot"
)

// treeCmd represents the tree command: render the workspace's deck tree,
// groups before leaves, alphabetically, with aggregated counts.
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Render the workspace as a deck tree with aggregated counts",
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(_ *cobra.Command, _ []string) error {
	sched := scheduler.NewDefault()
	snap, err := snapshot.SnapshotWorkspace(env.Workspace, snapshot.Options{AsOf: time.Now()}, sched)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	tree := snapshot.BuildDeckTree(snap.Decks)
	rows := snapshot.FlattenDeckTree(tree, nil)

	if len(rows) == 0 {
		fmt.Println("(empty workspace)")
		return nil
	}

	for _, row := range rows {
		n := row.Node
		indent := strings.Repeat("  ", n.Depth)
		if n.IsLeaf {
			fmt.Printf("%s%s (%d due / %d total)\n", indent, n.Name, n.DueCards, n.TotalCards)
			continue
		}
		suffix := ""
		if n.ErrorCount > 0 {
			suffix = fmt.Sprintf(", %d error", n.ErrorCount)
		}
		fmt.Printf("%s%s/ (%d due / %d total%s)\n", indent, n.Name, n.DueCards, n.TotalCards, suffix)
	}
	return nil
}
