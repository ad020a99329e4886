package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/report"
	"github.com/pable/slp-stats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stats mirror",
	Long: `Run an arbitrary SQL query against the SQLite mirror written by 'export'
and print results as a table.

Schema overview:
  matches(code, seq, played_at, player_character_id, player_character,
    opponent_character_id, opponent_character, stage_id, stage,
    result, end_cause, initiator, is_win)
  scans(code, replay_dir, scanned_at, records, added)

played_at is UTC text (YYYY-MM-DDTHH:MM:SS.mmmZ) and sorts chronologically.
Example: slpstats sql "SELECT stage, SUM(is_win), COUNT(1) FROM matches GROUP BY stage"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if err := ensureDBDir(); err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := report.NewTable(os.Stdout)

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

