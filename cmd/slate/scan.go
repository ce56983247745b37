package slate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbarlow/slate/internal/workspace"
)

var scanIncludeHidden bool

// scanCmd represents the scan command: list deck files discovered under the
// active workspace root.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List deck files discovered in the workspace",
	Long: `Recursively discover deck files under the active workspace root, honoring
.reignore rules and hidden-directory skipping.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanIncludeHidden, "include-hidden", false, "include files under hidden directories")
}

func runScan(_ *cobra.Command, _ []string) error {
	entries, err := workspace.Scan(env.Workspace, workspace.Options{IncludeHidden: scanIncludeHidden})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No deck files found")
		return nil
	}

	for _, entry := range entries {
		fmt.Println(entry.RelativePath)
	}
	return nil
}
