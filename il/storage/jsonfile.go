package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/density-bench/density-bench/il"
)

// jsonDocument is the on-disk shape of a JSONFileStore.
type jsonDocument struct {
	SchemaVersion int                     `json:"schema_version"`
	Demos         map[string]DemoSet      `json:"demonstrations"`
	Runs          map[string]il.RunRecord `json:"runs"`
}

// JSONFileStore persists the whole store as one JSON document. Meant
// for small demonstration sets that travel with an experiment; the
// file is read once on Init and rewritten on every save.
type JSONFileStore struct {
	path string

	mu  sync.Mutex
	doc jsonDocument
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

func (s *JSONFileStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = jsonDocument{
		SchemaVersion: CurrentSchemaVersion,
		Demos:         make(map[string]DemoSet),
		Runs:          make(map[string]il.RunRecord),
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse store file %s: %w", s.path, err)
	}
	if doc.SchemaVersion != CurrentSchemaVersion {
		return fmt.Errorf("%w: store file %s has version %d, want %d",
			ErrVersionMismatch, s.path, doc.SchemaVersion, CurrentSchemaVersion)
	}
	if doc.Demos == nil {
		doc.Demos = make(map[string]DemoSet)
	}
	if doc.Runs == nil {
		doc.Runs = make(map[string]il.RunRecord)
	}
	s.doc = doc
	return nil
}

// flush rewrites the backing file. Caller holds s.mu.
func (s *JSONFileStore) flush() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *JSONFileStore) SaveDemonstrations(_ context.Context, set DemoSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set.SchemaVersion = CurrentSchemaVersion
	s.doc.Demos[set.Name] = set
	return s.flush()
}

func (s *JSONFileStore) GetDemonstrations(_ context.Context, name string) (DemoSet, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.doc.Demos[name]
	return set, ok, nil
}

func (s *JSONFileStore) SaveRunRecord(_ context.Context, rec il.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Runs[rec.ID] = rec
	return s.flush()
}

func (s *JSONFileStore) GetRunRecord(_ context.Context, id string) (il.RunRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.doc.Runs[id]
	return rec, ok, nil
}

func (s *JSONFileStore) ListRunRecords(_ context.Context) ([]il.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]il.RunRecord, 0, len(s.doc.Runs))
	for _, rec := range s.doc.Runs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAtUTC < out[j].StartedAtUTC })
	return out, nil
}
