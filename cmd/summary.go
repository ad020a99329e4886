package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/report"
	"github.com/pable/slp-stats/internal/storage"
)

// summaryCmd is the cobra command for a high-level overview of the mirror.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the mirrored games",
	Long: `Display aggregate statistics about the tracked code's games in the SQLite
mirror: game count, date range, last export and how games ended.
Run 'slpstats export' first to refresh the mirror.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	code, err := requireCode()
	if err != nil {
		return err
	}
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
	var cs *storage.CodeSummary
	for i := range codes {
		if codes[i].Code == code {
			cs = &codes[i]
		}
	}
	if cs == nil {
		fmt.Fprintf(os.Stdout, "No games mirrored for %s yet. Run 'slpstats export' to add them.\n", code)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== %s ===\n\n", code)
	fmt.Fprintf(os.Stdout, "  Games stored  : %d\n", cs.Matches)
	fmt.Fprintf(os.Stdout, "  Wins          : %d (%.2f%%)\n", cs.Wins, 100*float64(cs.Wins)/float64(cs.Matches))
	fmt.Fprintf(os.Stdout, "  Date range    : %s → %s\n", day(cs.First), day(cs.Last))
	if cs.ScanDir != "" {
		fmt.Fprintf(os.Stdout, "  Replay dir    : %s\n", cs.ScanDir)
		fmt.Fprintf(os.Stdout, "  Last export   : %s\n", cs.ScannedAt)
	}

	outcomes, err := db.OutcomeBreakdown(code)
	if err != nil {
		return fmt.Errorf("outcome breakdown: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Outcomes ---\n\n")
	t := report.NewTable(os.Stdout)
	t.Header("RESULT", "CAUSE", "GAMES", "SHARE")
	for _, o := range outcomes {
		cause := o.Cause
		if cause == "" {
			cause = "—"
		}
		t.Append(
			o.Result,
			cause,
			strconv.Itoa(o.Count),
			fmt.Sprintf("%.1f%%", 100*float64(o.Count)/float64(cs.Matches)),
		)
	}
	t.Render()
	return nil
}
