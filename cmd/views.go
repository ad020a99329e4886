package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pable/slp-stats/internal/query"
	"github.com/pable/slp-stats/internal/report"
)

// view names accepted after a filter, e.g. "character fox stages".
const (
	viewWinrate    = "winrate"
	viewCharacters = "characters"
	viewStages     = "stages"
	viewMatchups   = "matchups"
	viewOverview   = "overview"
)

// renderView prints one view of the games matching f. compact selects the
// line format used by the shell instead of tables.
func renderView(w io.Writer, e *query.Engine, f query.Filter, view string, compact bool) error {
	switch strings.ToLower(view) {
	case viewWinrate, "":
		wl, err := e.Winrate(f)
		if err != nil {
			return noData(w, err)
		}
		report.PrintWinrate(w, f.Label(), wl)
	case viewCharacters:
		agg := e.Characters(f)
		if compact {
			report.PrintBucketLines(w, report.PrefixCharacter, agg)
		} else {
			report.PrintBucketTable(w, "CHARACTER", agg)
		}
	case viewStages:
		agg := e.Stages(f)
		if compact {
			report.PrintBucketLines(w, report.PrefixStage, agg)
		} else {
			report.PrintBucketTable(w, "STAGE", agg)
		}
	case viewMatchups:
		agg := e.Matchups(f)
		if compact {
			report.PrintBucketLines(w, report.PrefixOpponent, agg)
		} else {
			report.PrintBucketTable(w, "OPPONENT", agg)
		}
	case viewOverview:
		ov, err := e.Overview(f)
		if err != nil {
			return noData(w, err)
		}
		if compact {
			report.PrintOverviewLines(w, ov)
		} else {
			report.PrintOverview(w, ov)
		}
	default:
		return fmt.Errorf("unknown view %q (want winrate, characters, stages, matchups or overview)", view)
	}
	return nil
}

// noData prints the shared "no data" line for query.ErrNoData and passes
// any other error through.
func noData(w io.Writer, err error) error {
	if errors.Is(err, query.ErrNoData) {
		fmt.Fprintln(w, report.NoData)
		return nil
	}
	return err
}

func viewArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return viewWinrate
}
