package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calgrid/internal/model"
)

func TestLayoutDay_TwoOverlapping(t *testing.T) {
	events := []model.Event{
		ev("a", at(2, 9, 0), at(2, 10, 0)),
		ev("b", at(2, 9, 30), at(2, 10, 30)),
	}

	slots := Day(events, at(2, 0, 0)).Slots
	require.Len(t, slots, 2)

	got := byID(slots)
	assert.Equal(t, 0, got["a"].Column)
	assert.Equal(t, 1, got["b"].Column)
	assert.Equal(t, 2, got["a"].ColumnCount)
	assert.Equal(t, 2, got["b"].ColumnCount)
}

func TestLayoutDay_TouchingStartsNewGroup(t *testing.T) {
	events := []model.Event{
		ev("a", at(2, 9, 0), at(2, 10, 0)),
		ev("b", at(2, 10, 0), at(2, 11, 0)),
		ev("c", at(2, 9, 30), at(2, 9, 45)),
	}

	slots := Day(events, at(2, 0, 0)).Slots
	require.Len(t, slots, 3)
	assert.Equal(t, []string{"a", "c", "b"}, slotIDs(slots))

	got := byID(slots)
	assert.Equal(t, PlacedSlot{Segment: got["a"].Segment, Column: 0, ColumnCount: 2}, got["a"])
	assert.Equal(t, PlacedSlot{Segment: got["c"].Segment, Column: 1, ColumnCount: 2}, got["c"])
	assert.Equal(t, PlacedSlot{Segment: got["b"].Segment, Column: 0, ColumnCount: 1}, got["b"])
}

func TestLayoutDay_TransitiveGroupUsesDiscoveryOrder(t *testing.T) {
	// a and b do not overlap, but c bridges them; b is only reachable
	// through c, which is discovered after b is first skipped.
	events := []model.Event{
		ev("a", at(2, 9, 0), at(2, 10, 0)),
		ev("b", at(2, 11, 0), at(2, 12, 0)),
		ev("c", at(2, 9, 30), at(2, 11, 30)),
	}

	slots := Day(events, at(2, 0, 0)).Slots
	assert.Equal(t, []string{"a", "c", "b"}, slotIDs(slots))

	got := byID(slots)
	assert.Equal(t, 0, got["a"].Column)
	assert.Equal(t, 1, got["c"].Column)
	assert.Equal(t, 2, got["b"].Column, "non-overlapping members still take separate columns")
	for _, s := range slots {
		assert.Equal(t, 3, s.ColumnCount)
	}
}

func TestLayoutDay_OverlappingNeverShareColumn(t *testing.T) {
	events := []model.Event{
		ev("a", at(4, 8, 0), at(4, 12, 0)),
		ev("b", at(4, 8, 30), at(4, 9, 0)),
		ev("c", at(4, 9, 0), at(4, 9, 30)),
		ev("d", at(4, 11, 0), at(4, 13, 0)),
		ev("e", at(4, 14, 0), at(4, 15, 0)),
		ev("f", at(4, 14, 30), at(4, 14, 30)),
	}

	slots := Day(events, at(4, 0, 0)).Slots
	require.Len(t, slots, len(events))
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			if Overlaps(slots[i].Interval(), slots[j].Interval()) {
				assert.NotEqual(t, slots[i].Column, slots[j].Column, "%s vs %s", slots[i].Event.ID, slots[j].Event.ID)
			}
		}
	}
}

func TestDaySegments_Filter(t *testing.T) {
	events := []model.Event{
		ev("today", at(2, 9, 0), at(2, 10, 0)),
		ev("tomorrow", at(3, 9, 0), at(3, 10, 0)),
		ev("multi", at(1, 9, 0), at(3, 10, 0)),
		ev("to-midnight", at(2, 23, 0), at(3, 0, 0)),
	}

	segs := DaySegments(events, at(2, 12, 0))
	require.Len(t, segs, 1)
	assert.Equal(t, "today", segs[0].Event.ID)
	assert.Equal(t, at(2, 0, 0), segs[0].Day)
}

func TestLayoutDay_ZeroDuration(t *testing.T) {
	inside := []model.Event{
		ev("a", at(2, 9, 0), at(2, 10, 0)),
		ev("z", at(2, 9, 30), at(2, 9, 30)),
	}
	slots := Day(inside, at(2, 0, 0)).Slots
	require.Len(t, slots, 2)
	assert.Equal(t, 2, slots[1].ColumnCount, "instant strictly inside another event overlaps it")

	atEnd := []model.Event{
		ev("a", at(2, 9, 0), at(2, 10, 0)),
		ev("z", at(2, 10, 0), at(2, 10, 0)),
	}
	slots = Day(atEnd, at(2, 0, 0)).Slots
	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.Equal(t, 0, s.Column)
		assert.Equal(t, 1, s.ColumnCount)
	}
}

func TestLayoutDay_MalformedIntervalClampsToZero(t *testing.T) {
	events := []model.Event{ev("bad", at(2, 11, 0), at(2, 10, 0))}

	slots := Day(events, at(2, 0, 0)).Slots
	require.Len(t, slots, 1)
	assert.Equal(t, slots[0].Start, slots[0].End)
	assert.Equal(t, 0, slots[0].Column)
	assert.Equal(t, 1, slots[0].ColumnCount)
}

func TestLayoutDay_Empty(t *testing.T) {
	assert.Empty(t, LayoutDay(nil))
	assert.Empty(t, Day(nil, weekStart).Slots)
}
