package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/density-bench/density-bench/il"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists payloads as JSON blobs in a sqlite database.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS demonstrations (
			name TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_records (
			id TEXT PRIMARY KEY,
			started_at_utc TEXT NOT NULL,
			payload BLOB NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}
	return s.db, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) SaveDemonstrations(ctx context.Context, set DemoSet) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeDemoSet(set)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO demonstrations (name, schema_version, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			schema_version = excluded.schema_version,
			payload = excluded.payload
	`, set.Name, CurrentSchemaVersion, payload)
	return err
}

func (s *SQLiteStore) GetDemonstrations(ctx context.Context, name string) (DemoSet, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return DemoSet{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM demonstrations WHERE name = ?`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DemoSet{}, false, nil
		}
		return DemoSet{}, false, err
	}

	set, err := DecodeDemoSet(payload)
	if err != nil {
		return DemoSet{}, false, fmt.Errorf("decode demonstrations %s: %w", name, err)
	}
	return set, true, nil
}

func (s *SQLiteStore) SaveRunRecord(ctx context.Context, rec il.RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRunRecord(rec)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO run_records (id, started_at_utc, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at_utc = excluded.started_at_utc,
			payload = excluded.payload
	`, rec.ID, rec.StartedAtUTC, payload)
	return err
}

func (s *SQLiteStore) GetRunRecord(ctx context.Context, id string) (il.RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return il.RunRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM run_records WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return il.RunRecord{}, false, nil
		}
		return il.RunRecord{}, false, err
	}

	rec, err := DecodeRunRecord(payload)
	if err != nil {
		return il.RunRecord{}, false, fmt.Errorf("decode run record %s: %w", id, err)
	}
	return rec, true, nil
}

func (s *SQLiteStore) ListRunRecords(ctx context.Context) ([]il.RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT payload FROM run_records ORDER BY started_at_utc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []il.RunRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := DecodeRunRecord(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
