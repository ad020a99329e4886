package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pable/slp-stats/internal/classifier"
	"github.com/pable/slp-stats/internal/model"
)

// DefaultExtension is the replay file extension, without the dot.
const DefaultExtension = "slp"

// Decoder turns a replay file into a game. With skipFrames set only
// metadata and game start data are needed.
type Decoder interface {
	Decode(path string, skipFrames bool) (*model.Game, error)
}

// FileStatus is what happened to one directory entry during a scan.
type FileStatus int

const (
	StatusSkipped   FileStatus = iota // not a replay file
	StatusCached                      // already in the cache
	StatusNotPlayer                   // tracked player is not in the game
	StatusAdded                       // classified and appended
	StatusFailed                      // decode or classification error
)

func (s FileStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusCached:
		return "cached"
	case StatusNotPlayer:
		return "not_player"
	case StatusAdded:
		return "added"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileEvent reports one processed directory entry.
type FileEvent struct {
	Path   string
	Status FileStatus
	Err    error
	Record *model.MatchRecord
	// Added is the number of records added so far in this scan.
	Added int
}

// Observer receives scan progress. Calls happen on the scanning goroutine.
type Observer interface {
	CacheLoaded(state CacheState, records int, err error)
	FileProcessed(ev FileEvent)
}

type nopObserver struct{}

func (nopObserver) CacheLoaded(CacheState, int, error) {}
func (nopObserver) FileProcessed(FileEvent)            {}

// Summary is the result of a scan.
type Summary struct {
	Cache     CacheState
	CacheErr  error
	Records   []model.MatchRecord
	Added     int
	Cached    int
	NotPlayer int
	Failed    int
	Skipped   int
}

// Scanner classifies the replays of one directory for one identity code.
type Scanner struct {
	Decoder   Decoder
	Repo      Repository
	Code      string
	Extension string
	Observer  Observer
}

// NewScanner returns a scanner backed by the code's cache file in dir.
func NewScanner(dec Decoder, dir, code string) *Scanner {
	return &Scanner{
		Decoder:   dec,
		Repo:      NewFileRepository(dir, code),
		Code:      code,
		Extension: DefaultExtension,
	}
}

// PersistError reports that a finished scan could not write the cache. The
// Summary returned alongside it still holds the merged records.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return "persist cache: " + e.Err.Error() }

func (e *PersistError) Unwrap() error { return e.Err }

// Scan processes every replay in dir, one at a time in directory order, and
// persists the merged corpus. Per-file failures are reported to the observer
// and skipped, and a cache that cannot be read starts the corpus empty. If
// the final write fails, Scan returns the summary together with a
// *PersistError.
func (s *Scanner) Scan(dir string) (*Summary, error) {
	obs := s.Observer
	if obs == nil {
		obs = nopObserver{}
	}

	snap, err := s.Repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	obs.CacheLoaded(snap.State, snap.Len(), snap.Err)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read replay dir %s: %w", dir, err)
	}

	sum := &Summary{Cache: snap.State, CacheErr: snap.Err}
	var added []model.MatchRecord
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		ev := FileEvent{Path: path}
		if e.IsDir() || !s.isReplay(e.Name()) {
			ev.Status = StatusSkipped
		} else {
			rec, status, err := s.processFile(path, snap)
			ev.Status, ev.Err = status, err
			if status == StatusAdded {
				added = append(added, rec)
				ev.Record = &rec
			}
		}
		ev.Added = len(added)
		sum.count(ev.Status)
		obs.FileProcessed(ev)
	}

	records, err := s.Repo.MergeAndPersist(snap, added)
	if err != nil {
		sum.Records = append(append([]model.MatchRecord(nil), snap.Records...), added...)
		return sum, &PersistError{Err: err}
	}
	sum.Records = records
	return sum, nil
}

func (s *Scanner) processFile(path string, snap *Snapshot) (model.MatchRecord, FileStatus, error) {
	meta, err := s.Decoder.Decode(path, true)
	if err != nil {
		return model.MatchRecord{}, StatusFailed, err
	}
	if meta.StartAt.IsZero() {
		return model.MatchRecord{}, StatusFailed, model.ErrMissingTimestamp
	}
	if snap.Contains(meta.StartAt) {
		return model.MatchRecord{}, StatusCached, nil
	}

	ok, err := classifier.HasPlayer(meta, s.Code)
	if err != nil {
		return model.MatchRecord{}, StatusFailed, err
	}
	if !ok {
		return model.MatchRecord{}, StatusNotPlayer, nil
	}

	full, err := s.Decoder.Decode(path, false)
	if err != nil {
		return model.MatchRecord{}, StatusFailed, err
	}
	rec, err := classifier.Classify(full, s.Code)
	if err != nil {
		return model.MatchRecord{}, StatusFailed, fmt.Errorf("classify: %w", err)
	}
	return rec, StatusAdded, nil
}

func (s *Scanner) isReplay(name string) bool {
	ext := strings.TrimPrefix(s.Extension, ".")
	if ext == "" {
		ext = DefaultExtension
	}
	return filepath.Ext(name) == "."+ext
}

func (sum *Summary) count(st FileStatus) {
	switch st {
	case StatusSkipped:
		sum.Skipped++
	case StatusCached:
		sum.Cached++
	case StatusNotPlayer:
		sum.NotPlayer++
	case StatusAdded:
		sum.Added++
	case StatusFailed:
		sum.Failed++
	}
}
