package slate

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbarlow/slate/internal/scheduler"
	"github.com/nbarlow/slate/internal/snapshot"
)

var snapshotIncludeHidden bool

// snapshotCmd represents the snapshot command: summarize per-deck card
// counts and due/state breakdowns across the active workspace.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Summarize due/learning/review counts per deck",
	Long: `Scan the active workspace and report, for every deck, its total card
count and a breakdown by scheduling state, plus how many cards are due now.
Decks that fail to read or parse are reported with their status rather than
aborting the whole snapshot.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().BoolVar(&snapshotIncludeHidden, "include-hidden", false, "include files under hidden directories")
}

func runSnapshot(_ *cobra.Command, _ []string) error {
	sched := scheduler.NewDefault()
	snap, err := snapshot.SnapshotWorkspace(env.Workspace, snapshot.Options{
		AsOf:          time.Now(),
		IncludeHidden: snapshotIncludeHidden,
	}, sched)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	if len(snap.Decks) == 0 {
		fmt.Println("No decks found")
		return nil
	}

	fmt.Printf("%-40s %-12s %6s %6s %6s %6s %6s %6s\n", "Deck", "Status", "Total", "Due", "New", "Learn", "Review", "Relrn")
	for _, d := range snap.Decks {
		status := "ok"
		switch d.Status {
		case snapshot.ReadError:
			status = "read_error"
		case snapshot.ParseError:
			status = "parse_error"
		}
		fmt.Printf("%-40s %-12s %6d %6d %6d %6d %6d %6d\n", d.RelativePath, status, d.TotalCards, d.DueCards,
			d.StateCounts.New, d.StateCounts.Learning, d.StateCounts.Review, d.StateCounts.Relearning)
		if d.Status != snapshot.OK {
			fmt.Printf("    %s\n", d.Message)
		}
	}
	return nil
}
