package mutation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchange_EmitsLiftTriplet(t *testing.T) {
	seq := []int{5, 3, 9}
	rec := NewRecorder()

	Exchange(seq, 0, 2, rec)

	assert.Equal(t, []int{9, 3, 5}, seq)
	assert.Equal(t, []Event{
		{Slot: Hold, Value: 5},
		{Slot: 0, Value: 9},
		{Slot: 2, Value: 5},
	}, rec.Snapshot())
}

func TestWrite_SingleEvent(t *testing.T) {
	seq := []int{1, 2}
	rec := NewRecorder()

	Write(seq, 1, 7, rec)

	assert.Equal(t, []int{1, 7}, seq)
	assert.Equal(t, []Event{{Slot: 1, Value: 7}}, rec.Snapshot())
}

func TestLift_DoesNotTouchArray(t *testing.T) {
	rec := NewRecorder()
	Lift(4, rec)

	events := rec.Snapshot()
	require.Len(t, events, 1)
	assert.True(t, events[0].IsHold())
	assert.Equal(t, 4, events[0].Value)
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "(HOLD,5)", Event{Slot: Hold, Value: 5}.String())
	assert.Equal(t, "(3,1)", Event{Slot: 3, Value: 1}.String())
}

func TestRecorder_CancelAfter(t *testing.T) {
	rec := &Recorder{CancelAfter: 2}

	assert.False(t, rec.Cancelled())
	rec.Emit(Event{Slot: 0, Value: 1})
	assert.False(t, rec.Cancelled())
	rec.Emit(Event{Slot: 1, Value: 2})
	assert.True(t, rec.Cancelled())
	assert.Equal(t, 3, rec.Polls())
}

func TestRecorder_SnapshotIsCopy(t *testing.T) {
	rec := NewRecorder()
	rec.Emit(Event{Slot: 0, Value: 1})

	snap := rec.Snapshot()
	snap[0].Value = 99

	assert.Equal(t, 1, rec.Snapshot()[0].Value)
}

func TestNop(t *testing.T) {
	var p Probe = Nop{}
	assert.False(t, p.Cancelled())
	p.Emit(Event{Slot: 0, Value: 1})
}
