package slate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nbarlow/slate/internal/deckio"
	"github.com/nbarlow/slate/internal/deckmgr"
	"github.com/nbarlow/slate/internal/workspace"
)

// doctorCmd represents the doctor command for workspace health checks.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check workspace health and integrity",
	Long: `Check slate's own config/data/state/cache directories and registered
workspaces, then scan the active workspace for integrity issues: decks that
fail to read or parse, and duplicate card ids across decks.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	fmt.Println("Running slate workspace diagnostics...")
	fmt.Println()

	allOK := true
	allOK = checkSlateConfiguration() && allOK
	allOK = checkWorkspaceIntegrity() && allOK

	fmt.Println()
	if allOK {
		fmt.Println("All checks passed.")
		return nil
	}
	fmt.Println("Some issues detected. See details above.")
	return nil
}

func checkSlateConfiguration() bool {
	fmt.Println("Checking slate configuration...")

	allOK := true
	directories := map[string]string{
		"Config": env.ConfigDir,
		"Data":   env.DataDir,
		"State":  env.StateDir,
		"Cache":  env.CacheDir,
	}
	for name, dir := range directories {
		if info, err := os.Stat(dir); err == nil {
			if info.IsDir() {
				fmt.Printf("   ok  %s directory: %s\n", name, dir)
			} else {
				fmt.Printf("   FAIL %s path exists but is not a directory: %s\n", name, dir)
				allOK = false
			}
		} else {
			fmt.Printf("   warn %s directory missing (will be created): %s\n", name, dir)
		}
	}

	fmt.Printf("   ok  Active workspace: %s\n", env.Workspace)
	if len(env.Workspaces) > 0 {
		fmt.Printf("   ok  Registered workspaces: %v\n", env.Workspaces)
	} else {
		fmt.Println("   warn No workspaces registered")
		allOK = false
	}

	fmt.Println()
	return allOK
}

func checkWorkspaceIntegrity() bool {
	fmt.Println("Checking workspace integrity...")

	allOK := true

	entries, err := workspace.Scan(env.Workspace, workspace.Options{})
	if err != nil {
		fmt.Printf("   FAIL workspace scan failed: %v\n", err)
		fmt.Println()
		return false
	}
	fmt.Printf("   ok  %d deck(s) discovered\n", len(entries))

	decks := make(map[string]deckio.ParsedFile)
	for _, entry := range entries {
		parsed, err := deckmgr.ReadDeck(entry.AbsolutePath)
		if err != nil {
			fmt.Printf("   FAIL %s: %v\n", entry.RelativePath, err)
			allOK = false
			continue
		}
		decks[entry.AbsolutePath] = parsed
	}

	dups := workspace.FindDuplicateIDs(decks)
	if len(dups) == 0 {
		fmt.Println("   ok  no duplicate card ids")
	} else {
		allOK = false
		for _, d := range dups {
			fmt.Printf("   FAIL duplicate card id %q:\n", d.CardID)
			for _, occ := range d.Occurrences {
				fmt.Printf("         %s\n", occ.DeckPath)
			}
		}
	}

	fmt.Println()
	return allOK
}
