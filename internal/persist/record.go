package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// RecordVersion is the schema version written by EncodeRecord.
const RecordVersion = 1

// DefaultKey is the storage key the editor collection is saved under.
const DefaultKey = "editors"

// ErrSchemaMismatch is returned for records that decode but do not describe
// a usable collection.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SnippetRecord is the persisted part of one snippet. Trees and ranges are
// derived data and are recomputed on load.
type SnippetRecord struct {
	Content string `json:"content"`
}

// PairRecord is one persisted editor pair.
type PairRecord struct {
	ID     string        `json:"id,omitempty"`
	Name   string        `json:"name"`
	Before SnippetRecord `json:"before"`
	After  SnippetRecord `json:"after"`
	Output SnippetRecord `json:"output"`
}

// Record is the persisted editor collection.
type Record struct {
	Version           int          `json:"version"`
	SelectedPairIndex int          `json:"selectedPairIndex"`
	Engine            string       `json:"engine,omitempty"`
	Language          string       `json:"language,omitempty"`
	Editors           []PairRecord `json:"editors"`
}

// EncodeRecord serializes r, stamping the current schema version.
func EncodeRecord(r Record) ([]byte, error) {
	r.Version = RecordVersion
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a stored record. A bare JSON array of pairs, the
// layout written before records were versioned, is accepted as well.
func DecodeRecord(data []byte) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Record{}, fmt.Errorf("%w: empty record", ErrSchemaMismatch)
	}

	var r Record
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &r.Editors); err != nil {
			return Record{}, fmt.Errorf("decoding legacy record: %w", err)
		}
		r.Version = RecordVersion
	case '{':
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return Record{}, fmt.Errorf("decoding record: %w", err)
		}
		if r.Version != RecordVersion {
			return Record{}, fmt.Errorf("%w: version %d, want %d", ErrSchemaMismatch, r.Version, RecordVersion)
		}
	default:
		return Record{}, fmt.Errorf("%w: unexpected JSON value", ErrSchemaMismatch)
	}

	if len(r.Editors) == 0 {
		return Record{}, fmt.Errorf("%w: no editors", ErrSchemaMismatch)
	}
	if r.SelectedPairIndex < 0 || r.SelectedPairIndex >= len(r.Editors) {
		r.SelectedPairIndex = 0
	}
	return r, nil
}
