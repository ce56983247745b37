package slate

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbarlow/slate/internal/ordering"
	"github.com/nbarlow/slate/internal/queue"
	"github.com/nbarlow/slate/internal/scheduler"
	"github.com/nbarlow/slate/internal/snapshot"
)

var (
	queueFolder string
	queueDeck   string
	queueOrder  string
	queueLimit  int
)

// queueCmd represents the queue command: build today's review queue,
// optionally scoped to a folder or a single deck.
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Build today's review queue",
	Long: `Build the review queue for the active workspace: every new card plus every
due card, ordered according to --order.

Examples:
  slate queue                       # the whole workspace, new-first by due date
  slate queue --folder japanese     # only decks under the "japanese" folder
  slate queue --deck verbs.md       # only one deck
  slate queue --order due-first     # due cards first`,
	RunE: runQueue,
}

func init() {
	rootCmd.AddCommand(queueCmd)
	queueCmd.Flags().StringVar(&queueFolder, "folder", "", "restrict to decks under this folder (relative path)")
	queueCmd.Flags().StringVar(&queueDeck, "deck", "", "restrict to a single deck (relative path)")
	queueCmd.Flags().StringVar(&queueOrder, "order", "new-first",
		"ordering: new-first, due-first, shuffled, file-order")
	queueCmd.Flags().IntVar(&queueLimit, "limit", 0, "maximum number of cards to show (0 = no limit)")
}

func runQueue(_ *cobra.Command, _ []string) error {
	sched := scheduler.NewDefault()
	now := time.Now()

	snap, err := snapshot.SnapshotWorkspace(env.Workspace, snapshot.Options{AsOf: now}, sched)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}
	tree := snapshot.BuildDeckTree(snap.Decks)

	sel := queue.Selection{Kind: queue.SelectAll}
	switch {
	case queueDeck != "":
		sel = queue.Selection{Kind: queue.SelectDeck, Path: queueDeck}
	case queueFolder != "":
		sel = queue.Selection{Kind: queue.SelectFolder, Path: queueFolder}
	}
	deckPaths := queue.CollectDeckPathsFromSelection(sel, tree)

	strategy, err := resolveOrderingStrategy(queueOrder)
	if err != nil {
		return err
	}

	q := queue.BuildQueue(queue.BuildInput{
		DeckPaths: deckPaths,
		RootPath:  env.Workspace,
		Now:       now,
	}, sched, strategy)

	items := q.Items
	if queueLimit > 0 && len(items) > queueLimit {
		items = items[:queueLimit]
	}

	fmt.Printf("%d new, %d due (%d shown)\n\n", q.TotalNew, q.TotalDue, len(items))
	for _, item := range items {
		category := "new"
		if item.Category == queue.DueCard {
			category = "due"
		}
		fmt.Printf("%-6s %-30s %s\n", category, item.RelativePath, item.Card.ID)
	}
	return nil
}

func resolveOrderingStrategy(name string) (ordering.Strategy, error) {
	rng := ordering.DefaultRNG(time.Now().UnixNano())
	switch name {
	case "new-first":
		return ordering.NewFirstByDueDate(), nil
	case "due-first":
		return ordering.DueFirstByDueDate(), nil
	case "shuffled":
		return ordering.ShuffledOrdering(rng), nil
	case "file-order":
		return ordering.NewFirstFileOrder(), nil
	default:
		return nil, fmt.Errorf("invalid order: %s (valid: new-first, due-first, shuffled, file-order)", name)
	}
}
