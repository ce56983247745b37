package slate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nbarlow/slate/internal/deckio"
	"github.com/nbarlow/slate/internal/deckmgr"
	"github.com/nbarlow/slate/internal/ids"
	"github.com/nbarlow/slate/internal/itemtype"
	"github.com/nbarlow/slate/internal/metadata"
)

var addType string

// addCmd appends a new item to a deck. QA cards have no id of their own, so
// one is minted; cloze cards name their own ids in the content's
// {{id::...}} spans and are appended as-is.
var addCmd = &cobra.Command{
	Use:   "add <deck> <content>",
	Short: "Append a new item to a deck",
	Long: `Append a new item to a deck. For a QA item (the default), a single fresh
card id is generated, unique against every id already present in the deck.
For a cloze item, ids come from the content's {{id::...}} spans.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addType, "type", "qa", "item type: qa or cloze")
}

func runAdd(_ *cobra.Command, args []string) error {
	deckArg, content := args[0], args[1]

	it, ok := itemtype.ByName(addType)
	if !ok {
		return fmt.Errorf("invalid type %q: must be qa or cloze", addType)
	}

	deckPath := deckArg
	if !filepath.IsAbs(deckPath) {
		deckPath = filepath.Join(env.Workspace, deckArg)
	}

	parsed, err := deckmgr.ReadDeck(deckPath)
	if err != nil {
		return fmt.Errorf("failed to read deck: %w", err)
	}

	generate := ids.NewDefault()
	seen := existingCardIDs(parsed)
	mintID := func() string {
		for {
			candidate := generate()
			if !seen[candidate] {
				seen[candidate] = true
				return candidate
			}
		}
	}

	content, newMeta, err := buildNewCards(content, it, mintID)
	if err != nil {
		return fmt.Errorf("invalid content for type %q: %w", addType, err)
	}

	newItem := deckio.Item{Metadata: newMeta, Content: content}
	if err := deckmgr.AppendItem(deckPath, newItem, it); err != nil {
		return fmt.Errorf("failed to append item: %w", err)
	}

	cardIDs := make([]string, len(newMeta))
	for i, m := range newMeta {
		cardIDs[i] = m.ID
	}
	fmt.Printf("appended %d card(s) to %s: %v\n", len(newMeta), deckArg, cardIDs)
	return nil
}

// buildNewCards parses content under it, minting a fresh card id for every
// card spec that doesn't already name one (the QA case, where item_type
// never supplies an id), and returns the resulting metadata set.
func buildNewCards(content string, it itemtype.ItemType, mintID func() string) (string, []metadata.Metadata, error) {
	parsedContent, err := it.Parse(content)
	if err != nil {
		return "", nil, err
	}

	metas := make([]metadata.Metadata, len(parsedContent.Cards))
	for i, spec := range parsedContent.Cards {
		id := spec.ID
		if id == "" {
			id = mintID()
		}
		metas[i] = metadata.NewMetadata(id, 0, 0, metadata.New, 0, nil, nil)
	}
	return content, metas, nil
}

func existingCardIDs(parsed deckio.ParsedFile) map[string]bool {
	seen := make(map[string]bool)
	for _, item := range parsed.Items {
		for _, m := range item.Metadata {
			seen[m.ID] = true
		}
	}
	return seen
}
