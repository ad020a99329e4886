package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/corpus"
	"github.com/pable/slp-stats/internal/storage"
)

var (
	dropForce  bool
	dropMirror bool
)

// dropCmd deletes the replay cache for the tracked code.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the replay cache for the tracked code",
	Long: `Permanently delete the cache file kept next to the replays for the tracked
identity code. The next scan decodes every replay again. With --mirror the
code's rows are also removed from the SQLite mirror.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().BoolVar(&dropMirror, "mirror", false, "also delete the code's rows from the SQLite mirror")
}

func runDrop(cmd *cobra.Command, args []string) error {
	code, err := requireCode()
	if err != nil {
		return err
	}
	repo := corpus.NewFileRepository(cfg.Replays.Dir, code)
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", repo.Path)
		if dropMirror {
			fmt.Fprintf(os.Stderr, "and every %s row in: %s\n", code, dbPath)
		}
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if _, err := os.Stat(repo.Path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stdout, "Cache does not exist, nothing to drop.")
	} else {
		if err := repo.Remove(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", repo.Path)
	}

	if !dropMirror {
		return nil
	}
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	n, err := db.MatchCount(code)
	if err != nil {
		return fmt.Errorf("count %s in mirror: %w", code, err)
	}
	if err := db.DeleteCode(code); err != nil {
		return fmt.Errorf("delete %s from mirror: %w", code, err)
	}
	fmt.Fprintf(os.Stdout, "Removed %d games for %s from %s\n", n, code, dbPath)
	return nil
}
