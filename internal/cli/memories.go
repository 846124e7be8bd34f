package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mpeters/winnow/internal/store"
	"github.com/spf13/cobra"
)

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("WINNOW_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}

// --- add command ---

var (
	addTags       []string
	addImportance string
	addSession    string
)

var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Store a memory",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "Tags (repeatable)")
	addCmd.Flags().StringVarP(&addImportance, "importance", "i", "normal", "Importance: low, normal, high, critical")
	addCmd.Flags().StringVarP(&addSession, "session", "s", "", "Originating session id")
}

func runAdd(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	m := &store.Memory{
		Content:    strings.Join(args, " "),
		Tags:       addTags,
		Importance: addImportance,
		SessionID:  addSession,
	}
	if err := db.CreateMemory(m); err != nil {
		return fmt.Errorf("create memory: %w", err)
	}

	fmt.Printf("stored memory #%d\n", m.ID)
	return nil
}

// --- list command ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored memories",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	memories, err := db.ListMemories()
	if err != nil {
		return fmt.Errorf("list memories: %w", err)
	}

	if len(memories) == 0 {
		fmt.Println("No memories stored.")
		return nil
	}

	for _, m := range memories {
		updated := time.UnixMilli(m.UpdatedAt).Format("2006-01-02")
		line := m.Content
		if idx := strings.IndexByte(line, '\n'); idx >= 0 {
			line = line[:idx]
		}
		if len(line) > 70 {
			line = line[:70] + "..."
		}
		fmt.Printf("  #%-5d %s  %-8s %s\n", m.ID, updated, m.Importance, line)
		if len(m.Tags) > 0 {
			fmt.Printf("         tags: %s\n", strings.Join(m.Tags, ", "))
		}
	}
	return nil
}

// --- purge command ---

var purgeCmd = &cobra.Command{
	Use:   "purge <id>...",
	Short: "Delete memories by id",
	Long:  "Delete the given memories. Ids come from `winnow analyze`; nothing is ever deleted implicitly.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPurge,
}

func runPurge(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	deleted, err := db.DeleteMemories(ids)
	if err != nil {
		return fmt.Errorf("delete memories: %w", err)
	}

	fmt.Printf("deleted %d of %d\n", deleted, len(ids))
	return nil
}
