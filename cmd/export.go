package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/aggregator"
	"github.com/pable/slp-stats/internal/model"
	"github.com/pable/slp-stats/internal/query"
	"github.com/pable/slp-stats/internal/storage"
)

var exportOut string

// statsFile is the schema written by --out.
type statsFile struct {
	Code        string        `json:"code"`
	GeneratedAt string        `json:"generated_at"`
	Games       int           `json:"games"`
	Wins        int           `json:"wins"`
	WinPct      float64       `json:"win_pct"`
	Characters  []bucketStats `json:"characters"`
	Opponents   []bucketStats `json:"opponents"`
	Stages      []bucketStats `json:"stages"`
}

// bucketStats is one character or stage within statsFile.
type bucketStats struct {
	Name   string  `json:"name"`
	Games  int     `json:"games"`
	Wins   int     `json:"wins"`
	WinPct float64 `json:"win_pct"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Mirror the corpus into the SQLite database",
	Long: `Scan the replay directory, then rewrite the tracked code's rows in the SQLite
mirror so they can be queried with 'sql', 'summary' and 'trend'. The cache
file stays the source of truth; the mirror is rebuilt from it on every export.

With --out, per-character, per-opponent and per-stage totals are also written
as JSON.

Example:
  slpstats export --out stats.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "also write a JSON stats file to this path")
}

func runExport(cmd *cobra.Command, args []string) error {
	sum, err := scanCorpus(os.Stdout)
	if err != nil {
		return err
	}
	code := cfg.Player.Code

	if err := ensureDBDir(); err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	prev, err := db.LastScan(code)
	if err != nil {
		return fmt.Errorf("last scan: %w", err)
	}
	if prev != nil {
		cMuted.Fprintf(os.Stdout, "Previous export: %s, %d games (%d new) from %s\n",
			prev.ScannedAt.Local().Format("2006-01-02 15:04"), prev.Records, prev.Added, prev.ReplayDir)
	}

	if err := db.ReplaceMatches(code, sum.Records); err != nil {
		return fmt.Errorf("mirror %s: %w", code, err)
	}
	if err := verifyMirror(db, code, sum.Records); err != nil {
		return err
	}
	err = db.RecordScan(storage.ScanInfo{
		Code:      code,
		ReplayDir: cfg.Replays.Dir,
		ScannedAt: time.Now(),
		Records:   len(sum.Records),
		Added:     sum.Added,
	})
	if err != nil {
		return fmt.Errorf("record scan: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Mirrored %d games for %s into %s\n", len(sum.Records), code, dbPath)

	if exportOut == "" {
		return nil
	}
	out := buildStatsFile(code, query.New(sum.Records))
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", exportOut)
	return nil
}

// verifyMirror reads code's rows back and checks they match records.
func verifyMirror(db *storage.DB, code string, records []model.MatchRecord) error {
	got, err := db.ListMatches(code)
	if err != nil {
		return fmt.Errorf("read back %s: %w", code, err)
	}
	if len(got) != len(records) {
		return fmt.Errorf("mirror holds %d games for %s, expected %d", len(got), code, len(records))
	}
	for i := range records {
		want := records[i]
		if got[i].PlayerCharacter != want.PlayerCharacter ||
			got[i].OpponentCharacter != want.OpponentCharacter ||
			got[i].Stage != want.Stage ||
			got[i].Outcome != want.Outcome ||
			!got[i].Timestamp.Equal(want.Timestamp) {
			return fmt.Errorf("mirror row %d for %s differs: got %s, want %s", i, code, got[i], want)
		}
	}
	return nil
}

func buildStatsFile(code string, e *query.Engine) statsFile {
	all := query.Overall{}
	total, _ := e.Winrate(all)
	pct, _ := total.Winrate()
	return statsFile{
		Code:        code,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Games:       total.Games,
		Wins:        total.Wins,
		WinPct:      pct,
		Characters:  bucketList(e.Characters(all)),
		Opponents:   bucketList(e.Matchups(all)),
		Stages:      bucketList(e.Stages(all)),
	}
}

func bucketList[T ~uint8](a *aggregator.Aggregator[T]) []bucketStats {
	rows := a.Rows()
	out := make([]bucketStats, 0, len(rows))
	for _, r := range rows {
		pct, _ := r.Winrate()
		out = append(out, bucketStats{Name: r.Label, Games: r.Games, Wins: r.Wins, WinPct: pct})
	}
	return out
}
