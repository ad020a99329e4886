package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/slp-stats/internal/model"
)

// playedAtLayout is how match start times are stored; it sorts lexically.
const playedAtLayout = "2006-01-02T15:04:05.000Z"

// CodeSummary is one tracked identity code in the mirror.
type CodeSummary struct {
	Code      string
	Matches   int
	Wins      int
	First     string
	Last      string
	ScanDir   string
	ScannedAt string
}

// ScanInfo records the most recent mirror export for a code.
type ScanInfo struct {
	Code      string
	ReplayDir string
	ScannedAt time.Time
	Records   int
	Added     int
}

// ReplaceMatches rewrites every row for code with records, in one
// transaction. seq preserves corpus order.
func (db *DB) ReplaceMatches(code string, records []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM matches WHERE code = ?", code); err != nil {
		return fmt.Errorf("clear matches for %s: %w", code, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO matches(
			code, seq, played_at,
			player_character_id, player_character,
			opponent_character_id, opponent_character,
			stage_id, stage,
			result, end_cause, initiator, is_win
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		_, err = stmt.Exec(
			code, i, r.Timestamp.UTC().Format(playedAtLayout),
			int(r.PlayerCharacter), r.PlayerCharacter.String(),
			int(r.OpponentCharacter), r.OpponentCharacter.String(),
			int(r.Stage), r.Stage.String(),
			r.Outcome.Result.String(), r.Outcome.Cause.String(), r.Outcome.Initiator, boolInt(r.IsVictory()),
		)
		if err != nil {
			return fmt.Errorf("insert match %d for %s: %w", i, code, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns the mirrored records for code in corpus order.
func (db *DB) ListMatches(code string) ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT played_at, player_character_id, opponent_character_id, stage_id,
		       result, end_cause, initiator
		FROM matches WHERE code = ? ORDER BY seq`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var (
			playedAt, result, cause string
			me, opp, stage          int
			initiator               int
		)
		if err := rows.Scan(&playedAt, &me, &opp, &stage, &result, &cause, &initiator); err != nil {
			return nil, err
		}
		r, err := decodeRow(playedAt, me, opp, stage, result, cause, initiator)
		if err != nil {
			return nil, fmt.Errorf("match row for %s: %w", code, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func decodeRow(playedAt string, me, opp, stage int, result, cause string, initiator int) (model.MatchRecord, error) {
	var r model.MatchRecord
	ts, err := time.Parse(playedAtLayout, playedAt)
	if err != nil {
		return r, err
	}
	var ok bool
	if r.PlayerCharacter, ok = model.Characters.FromID(me); !ok {
		return r, &model.CorruptedCharDataError{ID: me}
	}
	if r.OpponentCharacter, ok = model.Characters.FromID(opp); !ok {
		return r, &model.CorruptedCharDataError{ID: opp}
	}
	if r.Stage, ok = model.Stages.FromID(stage); !ok {
		return r, &model.CorruptedStageDataError{ID: stage}
	}
	if err := r.Outcome.Result.UnmarshalText([]byte(result)); err != nil {
		return r, err
	}
	if cause != "" {
		if err := r.Outcome.Cause.UnmarshalText([]byte(cause)); err != nil {
			return r, err
		}
	}
	r.Outcome.Initiator = initiator
	r.Timestamp = ts
	return r, nil
}

// MatchCount returns how many records are mirrored for code.
func (db *DB) MatchCount(code string) (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE code = ?", code).Scan(&n)
	return n, err
}

// DeleteCode removes every row for code.
func (db *DB) DeleteCode(code string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM matches WHERE code = ?", code); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM scans WHERE code = ?", code); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordScan upserts the last export info for a code.
func (db *DB) RecordScan(s ScanInfo) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO scans(code, replay_dir, scanned_at, records, added)
		VALUES (?, ?, ?, ?, ?)`,
		s.Code, s.ReplayDir, s.ScannedAt.UTC().Format(time.RFC3339), s.Records, s.Added)
	return err
}

// LastScan returns the last export info for code, or nil if there is none.
func (db *DB) LastScan(code string) (*ScanInfo, error) {
	var s ScanInfo
	var at string
	err := db.conn.QueryRow(`
		SELECT code, replay_dir, scanned_at, records, added FROM scans WHERE code = ?`, code).
		Scan(&s.Code, &s.ReplayDir, &at, &s.Records, &s.Added)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.ScannedAt, err = time.Parse(time.RFC3339, at); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListCodes returns every mirrored code with its totals, ordered by code.
func (db *DB) ListCodes() ([]CodeSummary, error) {
	rows, err := db.conn.Query(`
		SELECT m.code, COUNT(1), SUM(m.is_win), MIN(m.played_at), MAX(m.played_at),
		       COALESCE(s.replay_dir, ''), COALESCE(s.scanned_at, '')
		FROM matches m
		LEFT JOIN scans s ON s.code = m.code
		GROUP BY m.code
		ORDER BY m.code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CodeSummary
	for rows.Next() {
		var c CodeSummary
		if err := rows.Scan(&c.Code, &c.Matches, &c.Wins, &c.First, &c.Last, &c.ScanDir, &c.ScannedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows as
// strings. NULLs become "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
