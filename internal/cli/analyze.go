package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mpeters/winnow/internal/config"
	"github.com/mpeters/winnow/internal/prune"
	"github.com/mpeters/winnow/internal/store"
	"github.com/spf13/cobra"
)

var (
	analyzeSession    string
	analyzeStaleAge   int
	analyzeMinScore   int
	analyzeSimilarity float64
	analyzeMinContent int
	analyzeNoFiles    bool
	analyzeNoBranches bool
	analyzeNoDupes    bool
	analyzeJSON       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score memories and list prune candidates",
	Long:  "Run the pruning analysis against the local store and print candidates, lowest score (most prunable) first. Read-only: nothing is deleted.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSession, "session", "s", "", "Current session id")
	analyzeCmd.Flags().IntVar(&analyzeStaleAge, "stale-age", 0, "Days without update before a record is stale")
	analyzeCmd.Flags().IntVar(&analyzeMinScore, "min-score", -1, "Score threshold below which zero-reason records become candidates")
	analyzeCmd.Flags().Float64Var(&analyzeSimilarity, "similarity", 0, "Jaccard similarity threshold for duplicates")
	analyzeCmd.Flags().IntVar(&analyzeMinContent, "min-content", -1, "Minimum trimmed content length")
	analyzeCmd.Flags().BoolVar(&analyzeNoFiles, "no-files", false, "Skip file existence checks")
	analyzeCmd.Flags().BoolVar(&analyzeNoBranches, "no-branches", false, "Skip branch existence checks")
	analyzeCmd.Flags().BoolVar(&analyzeNoDupes, "no-dupes", false, "Skip duplicate detection")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit the full analysis as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	memories, err := db.ListMemories()
	if err != nil {
		return fmt.Errorf("list memories: %w", err)
	}

	workDir := cfg.Prune.WorkDir
	engine := prune.New(func() prune.Prober {
		return prune.NewSystemProber(workDir)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	analysis := engine.Analyze(ctx, prune.Request{
		Memories:  store.Views(memories),
		SessionID: analyzeSession,
		Overrides: analyzeOverrides(cmd),
	})

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	printAnalysis(analysis, len(memories))
	return nil
}

// analyzeOverrides builds config overrides from the flags the user
// actually set, so unset flags keep engine defaults.
func analyzeOverrides(cmd *cobra.Command) *prune.Overrides {
	o := &prune.Overrides{}
	if cmd.Flags().Changed("stale-age") {
		o.StaleAgeDays = &analyzeStaleAge
	}
	if cmd.Flags().Changed("min-score") {
		o.MinScoreThreshold = &analyzeMinScore
	}
	if cmd.Flags().Changed("similarity") {
		o.DuplicateSimilarity = &analyzeSimilarity
	}
	if cmd.Flags().Changed("min-content") {
		o.MinContentLength = &analyzeMinContent
	}
	if analyzeNoFiles {
		f := false
		o.CheckFiles = &f
	}
	if analyzeNoBranches {
		f := false
		o.CheckBranches = &f
	}
	if analyzeNoDupes {
		f := false
		o.DetectDuplicates = &f
	}
	return o
}

func printAnalysis(analysis *prune.Analysis, total int) {
	if len(analysis.Candidates) == 0 {
		fmt.Printf("No prune candidates among %d memories.\n", total)
		return
	}

	fmt.Printf("%d prune candidates (of %d memories), most prunable first:\n\n", len(analysis.Candidates), total)
	for _, c := range analysis.Candidates {
		reasons := make([]string, len(c.Reasons))
		for i, r := range c.Reasons {
			reasons[i] = string(r)
		}
		fmt.Printf("  #%-5d %3d  %-7s %s\n", c.ID, c.Score, c.Type, c.Summary)
		fmt.Printf("         reasons: %s\n", strings.Join(reasons, ", "))
		if len(c.Paths) > 0 {
			fmt.Printf("         paths: %s\n", strings.Join(c.Paths, ", "))
		}
		if len(c.Branches) > 0 {
			fmt.Printf("         branches: %s\n", strings.Join(c.Branches, ", "))
		}
	}

	fmt.Printf("\nBy reason:\n")
	for reason, count := range analysis.Stats.CandidatesByReason {
		fmt.Printf("  %-18s %d\n", reason, count)
	}
	fmt.Printf("\nRun `winnow purge <id>...` to delete reviewed candidates.\n")
}
