package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/density-bench/density-bench/il"
)

// MemoryStore keeps everything in process memory. Used by tests and as
// the default when no store path is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	demos map[string]DemoSet
	runs  map[string]il.RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.demos = make(map[string]DemoSet)
	s.runs = make(map[string]il.RunRecord)
	return nil
}

func (s *MemoryStore) SaveDemonstrations(_ context.Context, set DemoSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set.SchemaVersion = CurrentSchemaVersion
	s.demos[set.Name] = set
	return nil
}

func (s *MemoryStore) GetDemonstrations(_ context.Context, name string) (DemoSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.demos[name]
	return set, ok, nil
}

func (s *MemoryStore) SaveRunRecord(_ context.Context, rec il.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[rec.ID] = rec
	return nil
}

func (s *MemoryStore) GetRunRecord(_ context.Context, id string) (il.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[id]
	return rec, ok, nil
}

func (s *MemoryStore) ListRunRecords(_ context.Context) ([]il.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]il.RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAtUTC < out[j].StartedAtUTC })
	return out, nil
}
