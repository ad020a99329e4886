package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/model"
	"github.com/pable/slp-stats/internal/report"
	"github.com/pable/slp-stats/internal/storage"
)

var (
	trendDays int
	trendAs   []string
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Day-by-day winrate from the mirror",
	Long: `Print one row per UTC day with games, wins and winrate, plus a running
winrate over the window. Reads the SQLite mirror; run 'slpstats export' first.

Example:
  slpstats trend --days 14 --as fox --as falco`,
	Args: cobra.NoArgs,
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().IntVar(&trendDays, "days", 30, "how many days back to include")
	trendCmd.Flags().StringSliceVar(&trendAs, "as", nil, "only games played as these characters")
}

func runTrend(cmd *cobra.Command, args []string) error {
	code, err := requireCode()
	if err != nil {
		return err
	}
	var ids []int
	for _, name := range trendAs {
		c, err := model.ParseCharacter(name)
		if err != nil {
			return err
		}
		ids = append(ids, int(c))
	}
	if trendDays <= 0 {
		return fmt.Errorf("--days must be positive")
	}

	if err := ensureDBDir(); err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	since := time.Now().UTC().AddDate(0, 0, -trendDays)
	days, err := db.DailyWinRates(code, since, ids)
	if err != nil {
		return fmt.Errorf("query daily winrates: %w", err)
	}
	if len(days) == 0 {
		fmt.Println("no games found")
		return nil
	}

	t := report.NewTable(os.Stdout)
	t.Header("DAY", "G", "W", "WIN%", "RUNNING%")
	var games, wins int
	for _, d := range days {
		games += d.Games
		wins += d.Wins
		t.Append(
			d.Day,
			strconv.Itoa(d.Games),
			strconv.Itoa(d.Wins),
			fmt.Sprintf("%.2f%%", 100*float64(d.Wins)/float64(d.Games)),
			fmt.Sprintf("%.2f%%", 100*float64(wins)/float64(games)),
		)
	}
	t.Render()
	return nil
}
