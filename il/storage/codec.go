package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/density-bench/density-bench/il"
)

// CurrentSchemaVersion is stamped on every encoded demonstration set.
const CurrentSchemaVersion = 1

var ErrVersionMismatch = errors.New("record schema version mismatch")

// EncodeDemoSet serializes a demonstration set, stamping the current
// schema version.
func EncodeDemoSet(set DemoSet) ([]byte, error) {
	set.SchemaVersion = CurrentSchemaVersion
	return json.Marshal(set)
}

// DecodeDemoSet deserializes a demonstration set and checks its schema
// version.
func DecodeDemoSet(data []byte) (DemoSet, error) {
	var set DemoSet
	if err := json.Unmarshal(data, &set); err != nil {
		return DemoSet{}, err
	}
	if set.SchemaVersion != CurrentSchemaVersion {
		return DemoSet{}, fmt.Errorf("%w: got %d, want %d",
			ErrVersionMismatch, set.SchemaVersion, CurrentSchemaVersion)
	}
	return set, nil
}

// EncodeRunRecord serializes a run record.
func EncodeRunRecord(rec il.RunRecord) ([]byte, error) {
	return json.Marshal(rec)
}

// DecodeRunRecord deserializes a run record.
func DecodeRunRecord(data []byte) (il.RunRecord, error) {
	var rec il.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return il.RunRecord{}, err
	}
	return rec, nil
}
