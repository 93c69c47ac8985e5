package layout

import (
	"slices"
	"time"

	"calgrid/internal/model"
)

// WeekSegments selects the single-day events intersecting day and clips them
// to the day boundaries, in snapshot order.
func WeekSegments(events []model.Event, day time.Time) []Segment {
	dayStart := StartOfDay(day)
	dayEnd := NextDay(day)

	var segs []Segment
	for _, ev := range events {
		if IsMultiDay(ev) {
			continue
		}
		if !touchesDay(Interval{Start: ev.Start, End: ev.End}, dayStart, dayEnd) {
			continue
		}
		segs = append(segs, Clip(ev, dayStart))
	}
	return segs
}

// PackColumns assigns columns by first-fit over segments sorted by start.
// A column is reused once its last occupant has ended (end <= start), which
// yields the minimum column count for the day's overlap structure. Every
// slot shares the final column count.
func PackColumns(segs []Segment) []PlacedSlot {
	if len(segs) == 0 {
		return nil
	}

	sorted := slices.Clone(segs)
	slices.SortStableFunc(sorted, func(a, b Segment) int {
		return a.Start.Compare(b.Start)
	})

	var columnEnds []time.Time
	placed := make([]PlacedSlot, 0, len(sorted))

	for _, seg := range sorted {
		col := -1
		for i, end := range columnEnds {
			if !end.After(seg.Start) {
				col = i
				break
			}
		}
		if col < 0 {
			columnEnds = append(columnEnds, seg.End)
			col = len(columnEnds) - 1
		} else {
			columnEnds[col] = seg.End
		}
		placed = append(placed, PlacedSlot{Segment: seg, Column: col})
	}

	for i := range placed {
		placed[i].ColumnCount = len(columnEnds)
	}
	return placed
}

// Week lays out every day of w with PackColumns.
func Week(events []model.Event, w Window) []DayLayout {
	days := w.DaySeq()
	out := make([]DayLayout, 0, len(days))
	for _, day := range days {
		out = append(out, DayLayout{
			Day:   day,
			Slots: PackColumns(WeekSegments(events, day)),
		})
	}
	return out
}
