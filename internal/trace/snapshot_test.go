package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sortlab/internal/mutation"
)

func exampleSnapshot() Snapshot {
	return Snapshot{
		Scenario:  "pair",
		Algorithm: "bubble",
		Input:     []int{2, 1},
		Output:    []int{1, 2},
		Status:    "completed",
		Events: []mutation.Event{
			{Slot: mutation.Hold, Value: 2},
			{Slot: 0, Value: 1},
			{Slot: 1, Value: 2},
		},
	}
}

func TestSnapshot_MarshalCanonical(t *testing.T) {
	got, err := exampleSnapshot().MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"algorithm":"bubble","events":[[-1,2],[0,1],[1,2]],"input":[2,1],"output":[1,2],"scenario":"pair","status":"completed"}`,
		string(got))
}

func TestSnapshot_EmptyRun(t *testing.T) {
	got, err := Snapshot{Algorithm: "heap", Status: "failed"}.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"algorithm":"heap","events":[],"input":[],"output":[],"scenario":"","status":"failed"}`,
		string(got))
}

func TestHash(t *testing.T) {
	s := exampleSnapshot()
	h1, err := Hash(s)
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, err := Hash(exampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "hash is deterministic")

	s.Events = s.Events[:2]
	h3, err := Hash(s)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3, "any event change changes the hash")
}

func TestHashWithDomain_Separates(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain("a", data), hashWithDomain("b", data))
	assert.NotEqual(t,
		hashWithDomain("ab", []byte("c")),
		hashWithDomain("a", []byte("bc")),
		"the separator keeps the domain boundary unambiguous")
}
