// Package storage persists demonstration sets and experiment run
// records. Three backends share one Store interface: in-memory,
// a single JSON file, and sqlite.
package storage

import (
	"context"

	"github.com/density-bench/density-bench/il"
)

// DemoSet is a named collection of expert demonstration trajectories,
// tagged with the environment that produced them.
type DemoSet struct {
	SchemaVersion int             `json:"schema_version"`
	Name          string          `json:"name"`
	EnvName       string          `json:"env_name"`
	Seed          int64           `json:"seed"`
	Trajectories  []il.Trajectory `json:"trajectories"`
}

// Store defines persistence operations for demonstration sets and run
// records. Every Store also satisfies il.RunRecorder.
type Store interface {
	Init(ctx context.Context) error
	SaveDemonstrations(ctx context.Context, set DemoSet) error
	GetDemonstrations(ctx context.Context, name string) (DemoSet, bool, error)
	SaveRunRecord(ctx context.Context, rec il.RunRecord) error
	GetRunRecord(ctx context.Context, id string) (il.RunRecord, bool, error)
	ListRunRecords(ctx context.Context) ([]il.RunRecord, error)
}

// CloseIfSupported closes stores that hold external resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
