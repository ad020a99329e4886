package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List identity codes stored in the mirror",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	if err := ensureDBDir(); err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	codes, err := db.ListCodes()
	if err != nil {
		return fmt.Errorf("list codes: %w", err)
	}
	if len(codes) == 0 {
		fmt.Fprintln(os.Stdout, "No games mirrored yet. Run 'slpstats export' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %6s  %6s  %-10s  %-10s  %s\n",
		"CODE", "GAMES", "WINS", "FIRST", "LAST", "EXPORTED")
	fmt.Fprintf(os.Stdout, "%-12s  %6s  %6s  %-10s  %-10s  %s\n",
		"────────────", "──────", "──────", "──────────", "──────────", "────────")
	for _, c := range codes {
		fmt.Fprintf(os.Stdout, "%-12s  %6d  %6d  %-10s  %-10s  %s\n",
			c.Code, c.Matches, c.Wins, day(c.First), day(c.Last), c.ScannedAt)
	}
	return nil
}

// day trims a stored timestamp to its date.
func day(ts string) string {
	if len(ts) < 10 {
		return ts
	}
	return ts[:10]
}
