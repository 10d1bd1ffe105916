package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/sortlab/internal/trace"
)

// marshalInts converts a sequence to canonical JSON TEXT for storage.
// A nil sequence is stored as [].
func marshalInts(seq []int) (string, error) {
	data, err := trace.MarshalCanonical(seq)
	if err != nil {
		return "", fmt.Errorf("marshal sequence: %w", err)
	}
	return string(data), nil
}

// unmarshalInts parses a stored JSON array. NULL and empty TEXT read as nil.
func unmarshalInts(data sql.NullString) ([]int, error) {
	if !data.Valid || data.String == "" {
		return nil, nil
	}
	var seq []int
	if err := json.Unmarshal([]byte(data.String), &seq); err != nil {
		return nil, fmt.Errorf("unmarshal sequence: %w", err)
	}
	return seq, nil
}
