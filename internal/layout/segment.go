package layout

import (
	"time"

	"calgrid/internal/model"
)

// Segment is the part of an event lying within one calendar day.
type Segment struct {
	Event model.Event
	Day   time.Time // midnight of the day

	// Start / End are the event bounds clipped to [Day, next midnight).
	// End is never before Start.
	Start time.Time
	End   time.Time
}

// Interval returns the clipped bounds.
func (s Segment) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// PlacedSlot is a segment with its horizontal position inside the day:
// Column is zero-based, ColumnCount is how many equal-width columns the
// renderer should divide the day into for this slot.
type PlacedSlot struct {
	Segment
	Column      int
	ColumnCount int
}

// DayLayout holds the placed slots of one rendered day.
type DayLayout struct {
	Day   time.Time
	Slots []PlacedSlot
}

// Clip builds the segment of ev on day. Negative-duration results collapse
// to zero duration at the clipped start.
func Clip(ev model.Event, day time.Time) Segment {
	dayStart := StartOfDay(day)
	dayEnd := NextDay(day)

	start := ev.Start
	if start.Before(dayStart) {
		start = dayStart
	}
	end := ev.End
	if end.After(dayEnd) {
		end = dayEnd
	}
	if end.Before(start) {
		end = start
	}
	return Segment{Event: ev, Day: dayStart, Start: start, End: end}
}

// touchesDay reports whether iv intersects [dayStart, dayEnd). A
// zero-duration interval counts when its instant lies inside the day, so an
// instant at midnight still belongs to that day.
func touchesDay(iv Interval, dayStart, dayEnd time.Time) bool {
	iv = iv.normalized()
	if iv.Start.Equal(iv.End) {
		return !iv.Start.Before(dayStart) && iv.Start.Before(dayEnd)
	}
	return Overlaps(iv, Interval{Start: dayStart, End: dayEnd})
}
