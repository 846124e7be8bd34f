package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "winnow",
	Short: "Prune-candidate analysis for agent memory stores",
	Long:  "Winnow scores stored agent memories and flags stale, orphaned, and duplicate records for review. Analysis never deletes; deletion is always an explicit, separate step.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(purgeCmd)
}
