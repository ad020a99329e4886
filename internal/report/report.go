package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pable/slp-stats/internal/aggregator"
	"github.com/pable/slp-stats/internal/model"
	"github.com/pable/slp-stats/internal/query"
)

// NoData is printed in place of any empty result.
const NoData = "No data for given input."

// Bucket line prefixes, by what the bucket key describes.
const (
	PrefixOpponent  = "Vs."
	PrefixStage     = "On"
	PrefixCharacter = "As"
)

// NewTable returns a table with right-aligned rows and a centered header.
func NewTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// WinrateString formats a tally as "Won 3 of 4 games (75.00%).". Lines that
// follow a label use a lower-case "won". ok is false when wl has no games.
func WinrateString(wl aggregator.WinLoss, standalone bool) (s string, ok bool) {
	rate, ok := wl.Winrate()
	if !ok {
		return "", false
	}
	verb := "won"
	if standalone {
		verb = "Won"
	}
	return fmt.Sprintf("%s %d of %d games (%.2f%%).", verb, wl.Wins, wl.Games, rate), true
}

// PrintWinrate prints a labeled winrate, or NoData.
func PrintWinrate(w io.Writer, label string, wl aggregator.WinLoss) {
	s, ok := WinrateString(wl, true)
	if !ok {
		fmt.Fprintln(w, NoData)
		return
	}
	fmt.Fprintf(w, "%s:\n%s\n", label, s)
}

// PrintBucketLines prints one "<prefix> <label> won ..." line per non-empty
// bucket, or NoData when the aggregator is empty.
func PrintBucketLines[T ~uint8](w io.Writer, prefix string, a *aggregator.Aggregator[T]) {
	rows := a.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(w, NoData)
		return
	}
	for _, r := range rows {
		s, _ := WinrateString(r.WinLoss, false)
		fmt.Fprintf(w, "%s %s %s\n", prefix, r.Label, s)
	}
}

// PrintBucketTable prints non-empty buckets as a table with a 95% Wilson
// interval and a sample-size flag, or NoData when the aggregator is empty.
// Columns: <heading> | W | L | G | WIN% | 95% CI | SAMPLE
func PrintBucketTable[T ~uint8](w io.Writer, heading string, a *aggregator.Aggregator[T]) {
	rows := a.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(w, NoData)
		return
	}

	table := NewTable(w)
	table.Header(heading, "W", "L", "G", "WIN%", "95% CI", "SAMPLE")
	for _, r := range rows {
		table.Append(bucketCells(r.Label, r.WinLoss)...)
	}
	total := a.Total()
	table.Append(bucketCells("TOTAL", total)...)
	table.Render()
}

func bucketCells(label string, wl aggregator.WinLoss) []any {
	rate, _ := wl.Winrate()
	lo, hi := wilsonCI(wl.Wins, wl.Games)
	return []any{
		label,
		strconv.Itoa(wl.Wins),
		strconv.Itoa(wl.Losses()),
		strconv.Itoa(wl.Games),
		fmt.Sprintf("%.2f%%", rate),
		fmt.Sprintf("%.0f-%.0f%%", lo*100, hi*100),
		sampleFlag(wl.Games),
	}
}

// sampleFlag marks buckets by whether they are large enough to be picked as
// best.
func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n > aggregator.MinBestGames:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

// PrintMatchup prints a head-to-head total followed by its stage breakdown.
func PrintMatchup(w io.Writer, rep *query.MatchupReport) {
	PrintWinrate(w, fmt.Sprintf("%s vs. %s", rep.Player, rep.Opponent), rep.Total)
	PrintBucketTable(w, "STAGE", rep.Stages)
}

// PrintRecords prints one line per record, oldest first.
func PrintRecords(w io.Writer, records []model.MatchRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, NoData)
		return
	}
	for _, r := range records {
		fmt.Fprintln(w, r.String())
	}
}

// PrintRecordTable prints records with their start time.
// Columns: # | DATE | AS | VS | STAGE | RESULT
func PrintRecordTable(w io.Writer, records []model.MatchRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, NoData)
		return
	}
	table := NewTable(w)
	table.Header("#", "DATE", "AS", "VS", "STAGE", "RESULT")
	for i, r := range records {
		table.Append(
			strconv.Itoa(i+1),
			r.Timestamp.Format("2006-01-02 15:04"),
			r.PlayerCharacter.String(),
			r.OpponentCharacter.String(),
			r.Stage.String(),
			r.Outcome.String(),
		)
	}
	table.Render()
}

// PrintOverview prints favorite and best picks per dimension.
// Columns: DIMENSION | FAVORITE | GAMES | BEST | WIN%
func PrintOverview(w io.Writer, ov *query.Overview) {
	PrintWinrate(w, ov.Label, ov.Total)

	table := NewTable(w)
	table.Header("DIMENSION", "FAVORITE", "GAMES", "BEST", "WIN%")
	table.Append(overviewCells("Played as", ov.Characters.Favorite, ov.Characters.Best)...)
	table.Append(overviewCells("Played against", ov.Opponents.Favorite, ov.Opponents.Best)...)
	table.Append(overviewCells("Played on", ov.Stages.Favorite, ov.Stages.Best)...)
	table.Render()
}

func overviewCells[T ~uint8](dim string, fav, best aggregator.Pick[T]) []any {
	favName, favGames := "—", "—"
	if fav.OK {
		favName, favGames = fav.Label, strconv.Itoa(fav.Games)
	}
	bestName, bestRate := "—", "—"
	if best.OK {
		rate, _ := best.Winrate()
		bestName, bestRate = best.Label, fmt.Sprintf("%.2f%%", rate)
	}
	return []any{dim, favName, favGames, bestName, bestRate}
}

// PrintOverviewLines is the compact overview used by the shell.
func PrintOverviewLines(w io.Writer, ov *query.Overview) {
	s, _ := WinrateString(ov.Total, true)
	fmt.Fprintf(w, "%s:\n%s\n", ov.Label, s)
	overviewLine(w, "Most played character", "Best character", ov.Characters.Favorite, ov.Characters.Best)
	overviewLine(w, "Most common opponent", "Best matchup", ov.Opponents.Favorite, ov.Opponents.Best)
	overviewLine(w, "Most played stage", "Best stage", ov.Stages.Favorite, ov.Stages.Best)
}

func overviewLine[T ~uint8](w io.Writer, favTitle, bestTitle string, fav, best aggregator.Pick[T]) {
	if fav.OK {
		fmt.Fprintf(w, "%s: %s (%d games)\n", favTitle, fav.Label, fav.Games)
	}
	if best.OK {
		rate, _ := best.Winrate()
		fmt.Fprintf(w, "%s: %s (%.2f%%)\n", bestTitle, best.Label, rate)
	} else {
		fmt.Fprintf(w, "%s: not enough games (need more than %d)\n", bestTitle, aggregator.MinBestGames)
	}
}
