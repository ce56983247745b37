// Package slate provides the CLI commands for the slate workspace engine.
package slate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nbarlow/slate/internal/logging"
	"github.com/nbarlow/slate/internal/workspaceconfig"
)

var (
	// Persistent flag values, shared by every subcommand via getDirectoryOverrides.
	configDirFlag string
	dataDirFlag   string
	stateDirFlag  string
	cacheDirFlag  string
	workspaceFlag string
	debugFlag     bool

	// env is the resolved runtime environment, populated by initializeEnv.
	env *workspaceconfig.Env
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "A file-backed spaced-repetition workspace engine",
	Long: `slate manages a workspace of markdown deck files, each card carrying its
spaced-repetition state in a metadata comment. All persistent state lives in
the deck files themselves.

Examples:
  slate scan                     # list deck files discovered in the workspace
  slate snapshot                 # summarize due/learning/review counts per deck
  slate queue                    # build today's review queue
  slate review deck.md abc 2     # grade card "abc" in deck.md as Good
  slate --workspace /path doctor # run workspace integrity checks against a specific workspace`,
	PersistentPreRunE: initializeEnv,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "",
		"custom config directory (default: XDG_CONFIG_HOME/slate or ~/.config/slate)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "custom data directory")
	rootCmd.PersistentFlags().StringVar(&stateDirFlag, "state-dir", "", "custom state directory")
	rootCmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "", "custom cache directory")
	rootCmd.PersistentFlags().StringVar(&workspaceFlag, "workspace", "",
		"workspace root to operate on (default: last active, or first registered)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging to <state-dir>/slate-debug.log")
}

// initializeEnv resolves the runtime environment and, if requested, turns on
// debug logging. Runs before every subcommand.
func initializeEnv(_ *cobra.Command, _ []string) error {
	var err error
	env, err = workspaceconfig.GetEnvWithOverrides(getDirectoryOverrides())
	if err != nil {
		return fmt.Errorf("failed to initialize environment: %w", err)
	}

	if debugFlag || os.Getenv("SLATE_DEBUG") == "1" {
		if err := logging.GetInstance().Initialize(env.StateDir); err != nil {
			return fmt.Errorf("failed to initialize debug logging: %w", err)
		}
	}

	return nil
}

// getDirectoryOverrides extracts directory overrides from cobra flags.
func getDirectoryOverrides() workspaceconfig.DirectoryOverrides {
	return workspaceconfig.DirectoryOverrides{
		ConfigDir: configDirFlag,
		DataDir:   dataDirFlag,
		StateDir:  stateDirFlag,
		CacheDir:  cacheDirFlag,
		Workspace: workspaceFlag,
	}
}

// GetEnv returns the resolved runtime environment. Valid after cobra
// command execution has started.
func GetEnv() *workspaceconfig.Env {
	return env
}
