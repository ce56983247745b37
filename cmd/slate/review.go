package slate

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbarlow/slate/internal/deckio"
	"github.com/nbarlow/slate/internal/deckmgr"
	"github.com/nbarlow/slate/internal/metadata"
	"github.com/nbarlow/slate/internal/scheduler"
)

// reviewCmd grades a single card, applying the FSRS schedule-next
// computation and writing the result back to its deck file.
var reviewCmd = &cobra.Command{
	Use:   "review <deck> <card-id> <grade>",
	Short: "Grade a card and write its updated schedule back to the deck",
	Long: `Grade a card's review: <grade> is 0 (again), 1 (hard), 2 (good), or 3 (easy).
<deck> may be relative to the active workspace or an absolute path.`,
	Args: cobra.ExactArgs(3),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, args []string) error {
	deckArg, cardID, gradeArg := args[0], args[1], args[2]

	gradeInt, err := strconv.Atoi(gradeArg)
	if err != nil {
		return fmt.Errorf("invalid grade %q: must be an integer 0..3", gradeArg)
	}
	grade := scheduler.Grade(gradeInt)

	deckPath := deckArg
	if !filepath.IsAbs(deckPath) {
		deckPath = filepath.Join(env.Workspace, deckArg)
	}

	parsed, err := deckmgr.ReadDeck(deckPath)
	if err != nil {
		return fmt.Errorf("failed to read deck: %w", err)
	}

	priorMeta, ok := findMetadata(parsed, cardID)
	if !ok {
		return &deckmgr.Error{Op: "review", Path: deckPath, Kind: deckmgr.CardNotFound,
			Err: fmt.Errorf("card %q not found", cardID)}
	}

	sched := scheduler.NewDefault()
	newMeta, _, err := sched.ScheduleNext(priorMeta, grade, time.Now())
	if err != nil {
		return fmt.Errorf("schedule failed: %w", err)
	}

	if err := deckmgr.UpdateCardMetadata(deckPath, cardID, newMeta); err != nil {
		return fmt.Errorf("failed to update card metadata: %w", err)
	}

	due := "none"
	if newMeta.Due != nil {
		due = newMeta.Due.Format(time.RFC3339)
	}
	fmt.Printf("%s: %s -> %s, due %s\n", cardID, priorMeta.State, newMeta.State, due)
	return nil
}

// findMetadata looks up a card's current metadata by id across every item
// in a parsed deck.
func findMetadata(parsed deckio.ParsedFile, cardID string) (metadata.Metadata, bool) {
	for _, item := range parsed.Items {
		for _, m := range item.Metadata {
			if m.ID == cardID {
				return m, true
			}
		}
	}
	return metadata.Metadata{}, false
}
