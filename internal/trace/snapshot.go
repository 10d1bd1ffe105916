package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/sortlab/internal/mutation"
)

// DomainTrace separates trace hashes from any other SHA-256 use.
// The version suffix leaves room for a future encoding.
const DomainTrace = "sortlab/trace/v1"

// Snapshot is the observable record of one run.
type Snapshot struct {
	Scenario  string
	Algorithm string
	Input     []int
	Output    []int
	Status    string
	Events    []mutation.Event
}

// Value returns the snapshot as a canonical JSON object. Events encode as
// [slot, value] pairs, with HOLD written as its slot number.
func (s Snapshot) Value() map[string]any {
	events := make([]any, len(s.Events))
	for i, e := range s.Events {
		events[i] = []int{e.Slot, e.Value}
	}
	return map[string]any{
		"scenario":  s.Scenario,
		"algorithm": s.Algorithm,
		"input":     s.Input,
		"output":    s.Output,
		"status":    s.Status,
		"events":    events,
	}
}

// MarshalCanonical encodes the snapshot as canonical JSON.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	data, err := MarshalCanonical(s.Value())
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Hash returns the hex SHA-256 of the snapshot's canonical encoding under
// DomainTrace.
func Hash(s Snapshot) (string, error) {
	data, err := s.MarshalCanonical()
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainTrace, data), nil
}

// hashWithDomain computes SHA256(domain + 0x00 + data). The null byte keeps
// the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
