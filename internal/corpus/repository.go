// Package corpus keeps the per-player cache of classified matches and scans
// replay directories into it incrementally.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/slp-stats/internal/model"
)

// CacheVersion is the on-disk schema version. Caches written with any other
// version are discarded and rebuilt from the replays.
const CacheVersion = 1

// CacheState describes what Load found on disk.
type CacheState int

const (
	CacheMissing CacheState = iota
	CacheLoaded
	CacheCorrupt
	CacheOutdated
	CacheUnreadable
)

func (s CacheState) String() string {
	switch s {
	case CacheMissing:
		return "missing"
	case CacheLoaded:
		return "loaded"
	case CacheCorrupt:
		return "corrupt"
	case CacheOutdated:
		return "outdated"
	case CacheUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// cacheFile is the persisted document.
type cacheFile struct {
	Version int                 `json:"cache_version"`
	Results []model.MatchRecord `json:"results"`
}

// Snapshot is a loaded cache: its records plus the raw text they were read
// from, which backs the Contains membership test.
type Snapshot struct {
	Version int
	Records []model.MatchRecord
	State   CacheState

	// Err is why a present cache was discarded (CacheCorrupt, CacheUnreadable).
	Err error

	raw []byte
}

// Contains reports whether a record with timestamp ts is already cached.
// The test is a substring search for the serialized timestamp in the raw
// cache text, so it matches exactly what an earlier run wrote.
func (s *Snapshot) Contains(ts time.Time) bool {
	if len(s.raw) == 0 {
		return false
	}
	key, err := TimestampKey(ts)
	if err != nil {
		return false
	}
	return bytes.Contains(s.raw, key)
}

// Len returns the number of cached records.
func (s *Snapshot) Len() int { return len(s.Records) }

// TimestampKey serializes ts the way it appears inside a cache file.
func TimestampKey(ts time.Time) ([]byte, error) {
	return json.Marshal(ts.UTC())
}

// Repository persists the corpus for one identity code.
type Repository interface {
	Load() (*Snapshot, error)
	IsCurrent(version int) bool
	Rebuild() *Snapshot
	MergeAndPersist(prior *Snapshot, added []model.MatchRecord) ([]model.MatchRecord, error)
}

// FileRepository stores the corpus as a JSON file next to the replays.
type FileRepository struct {
	Path string
}

// CachePath returns the cache location for code inside dir.
func CachePath(dir, code string) string {
	return filepath.Join(dir, code+".cache")
}

// NewFileRepository returns the repository for code's cache inside dir.
func NewFileRepository(dir, code string) *FileRepository {
	return &FileRepository{Path: CachePath(dir, code)}
}

// Load reads the cache. A missing, unreadable, corrupt or outdated cache is
// not an error: the returned snapshot is empty and State (and Err) say why.
func (r *FileRepository) Load() (*Snapshot, error) {
	data, err := os.ReadFile(r.Path)
	if errors.Is(err, os.ErrNotExist) {
		return r.Rebuild(), nil
	}
	if err != nil {
		snap := r.Rebuild()
		snap.State = CacheUnreadable
		snap.Err = fmt.Errorf("read cache %s: %w", r.Path, err)
		return snap, nil
	}

	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		snap := r.Rebuild()
		snap.State = CacheCorrupt
		snap.Err = fmt.Errorf("decode cache %s: %w", r.Path, err)
		return snap, nil
	}
	if !r.IsCurrent(f.Version) {
		snap := r.Rebuild()
		snap.State = CacheOutdated
		return snap, nil
	}
	return &Snapshot{Version: f.Version, Records: f.Results, State: CacheLoaded, raw: data}, nil
}

// IsCurrent reports whether version matches CacheVersion.
func (r *FileRepository) IsCurrent(version int) bool { return version == CacheVersion }

// Rebuild returns an empty current-version snapshot. Nothing is written
// until MergeAndPersist.
func (r *FileRepository) Rebuild() *Snapshot {
	return &Snapshot{Version: CacheVersion, State: CacheMissing}
}

// MergeAndPersist appends added to the prior records and writes the whole
// corpus. The file is rewritten even when added is empty.
func (r *FileRepository) MergeAndPersist(prior *Snapshot, added []model.MatchRecord) ([]model.MatchRecord, error) {
	records := make([]model.MatchRecord, 0, prior.Len()+len(added))
	records = append(records, prior.Records...)
	records = append(records, added...)

	data, err := json.Marshal(cacheFile{Version: CacheVersion, Results: records})
	if err != nil {
		return nil, fmt.Errorf("encode cache: %w", err)
	}
	if err := writeFileAtomic(r.Path, data); err != nil {
		return nil, fmt.Errorf("write cache %s: %w", r.Path, err)
	}
	return records, nil
}

// Remove deletes the cache file. A missing file is not an error.
func (r *FileRepository) Remove() error {
	if err := os.Remove(r.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cache %s: %w", r.Path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
