package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Collection names owned by the core.
const (
	Telemetry = "telemetry"
	Alerts    = "alerts"
	Hubs      = "iot_hubs"
	Sensors   = "sensors"
)

// Record is one schema-free entry in a collection. The store enforces
// no schema; payload validation happens at the API boundary.
type Record = map[string]any

type dataset map[string][]Record

// Store is a file-backed collection store. Every operation loads the
// whole dataset, mutates it and rewrites the file as one unit, under
// an in-process mutex plus a cross-process advisory lock. Reads always
// see the latest committed write; two writers never interleave.
type Store struct {
	path string
	mu   sync.Mutex
	flk  *flock.Flock
}

// Open returns a store backed by the JSON file at path. The file is
// created on first write; a missing or malformed file reads as empty.
func Open(path string) *Store {
	return &Store{
		path: path,
		flk:  flock.New(path + ".lock"),
	}
}

// Add assigns an id and created_at if absent, appends the record to the
// collection and persists. The stored record is returned.
func (s *Store) Add(collection string, rec Record) (Record, error) {
	stored := cloneRecord(rec)
	if _, ok := stored["id"]; !ok {
		stored["id"] = uuid.NewString()
	}
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = time.Now().UTC().Format(time.RFC3339)
	}

	err := s.withLock(func(ds dataset) bool {
		ds[collection] = append(ds[collection], stored)
		return true
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Get returns all records in the collection matching the filter, a
// conjunction of exact-match field equalities. A nil filter returns the
// full collection. Unknown collections yield an empty list, not an error.
func (s *Store) Get(collection string, filter Record) ([]Record, error) {
	var out []Record
	err := s.withLock(func(ds dataset) bool {
		for _, rec := range ds[collection] {
			if matches(rec, filter) {
				out = append(out, rec)
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update merges patch fields into every record matching filter, stamps
// updated_at, and persists if anything matched. Returns the match count;
// zero matches is not an error.
func (s *Store) Update(collection string, filter, patch Record) (int, error) {
	count := 0
	err := s.withLock(func(ds dataset) bool {
		now := time.Now().UTC().Format(time.RFC3339)
		for _, rec := range ds[collection] {
			if !matches(rec, filter) {
				continue
			}
			for k, v := range patch {
				rec[k] = v
			}
			rec["updated_at"] = now
			count++
		}
		return count > 0
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes every record matching filter and persists if anything
// matched. A nil filter clears the entire collection.
func (s *Store) Delete(collection string, filter Record) (int, error) {
	count := 0
	err := s.withLock(func(ds dataset) bool {
		recs := ds[collection]
		retained := recs[:0:0]
		for _, rec := range recs {
			if matches(rec, filter) {
				count++
				continue
			}
			retained = append(retained, rec)
		}
		ds[collection] = retained
		return count > 0
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Overwrite replaces a collection wholesale. Used by the retention
// sweeper to commit pruned sets atomically.
func (s *Store) Overwrite(collection string, recs []Record) error {
	return s.withLock(func(ds dataset) bool {
		ds[collection] = recs
		return true
	})
}

// withLock runs fn over the freshly loaded dataset while holding both
// locks, rewriting the file when fn reports a mutation.
func (s *Store) withLock(fn func(ds dataset) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer s.flk.Unlock()

	ds := s.load()
	if fn(ds) {
		return s.persist(ds)
	}
	return nil
}

// load reads the dataset from disk. A malformed file is logged and
// treated as empty so the service stays available.
func (s *Store) load() dataset {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("store: read %s: %v, starting empty", s.path, err)
		}
		return dataset{}
	}
	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		log.Printf("store: malformed dataset %s: %v, starting empty", s.path, err)
		return dataset{}
	}
	return ds
}

// persist writes the dataset to a temp file and renames it into place
// so a crash mid-write never leaves a torn file behind.
func (s *Store) persist(ds dataset) error {
	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit dataset: %w", err)
	}
	return nil
}

// matches reports whether rec satisfies every field equality in filter.
func matches(rec, filter Record) bool {
	for k, want := range filter {
		got, ok := rec[k]
		if !ok || !valueEqual(got, want) {
			return false
		}
	}
	return true
}

// valueEqual compares a stored value against a filter value. Stored
// numbers decode as float64, so numeric filter values are normalized
// before comparison.
func valueEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec)+2)
	for k, v := range rec {
		out[k] = v
	}
	return out
}
