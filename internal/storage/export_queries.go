package storage

import (
	"fmt"
	"strings"
	"time"
)

// DayWinRate is one calendar day (UTC) of results.
type DayWinRate struct {
	Day   string // "YYYY-MM-DD"
	Games int
	Wins  int
}

// OutcomeCount counts matches per result and end cause.
type OutcomeCount struct {
	Result string
	Cause  string
	Count  int
}

// DailyWinRates returns per-day totals for code since the given time,
// oldest day first. When characterIDs is non-empty only games played as one
// of those characters are counted.
func (db *DB) DailyWinRates(code string, since time.Time, characterIDs []int) ([]DayWinRate, error) {
	args := []interface{}{code, since.UTC().Format(playedAtLayout)}
	filter := ""
	if len(characterIDs) > 0 {
		filter = fmt.Sprintf("AND player_character_id IN (%s)", placeholders(len(characterIDs)))
		for _, id := range characterIDs {
			args = append(args, id)
		}
	}

	query := fmt.Sprintf(`
		SELECT substr(played_at, 1, 10) AS day, COUNT(1), SUM(is_win)
		FROM matches
		WHERE code = ?
		  AND played_at >= ?
		  %s
		GROUP BY day
		ORDER BY day ASC`, filter)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayWinRate
	for rows.Next() {
		var d DayWinRate
		if err := rows.Scan(&d.Day, &d.Games, &d.Wins); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// OutcomeBreakdown counts code's matches by result and end cause, most
// frequent first.
func (db *DB) OutcomeBreakdown(code string) ([]OutcomeCount, error) {
	rows, err := db.conn.Query(`
		SELECT result, end_cause, COUNT(1) AS n
		FROM matches
		WHERE code = ?
		GROUP BY result, end_cause
		ORDER BY n DESC, result ASC, end_cause ASC`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutcomeCount
	for rows.Next() {
		var o OutcomeCount
		if err := rows.Scan(&o.Result, &o.Cause, &o.Count); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
