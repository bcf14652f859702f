package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Open chooses a backend from the path's shape: empty or "mem:" for
// the in-memory store, a .db/.sqlite extension for sqlite, .json for
// the flat-file store.
func Open(path string) (Store, error) {
	if path == "" || path == "mem:" {
		return NewMemoryStore(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path), nil
	case ".json":
		return NewJSONFileStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported store path %q (want mem:, *.db, or *.json)", path)
	}
}
