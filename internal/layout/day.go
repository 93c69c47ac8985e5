package layout

import (
	"time"

	"calgrid/internal/model"
)

// DaySegments selects the single-day events dated on day, in snapshot order,
// clipped to the day.
func DaySegments(events []model.Event, day time.Time) []Segment {
	var segs []Segment
	for _, ev := range events {
		if IsMultiDay(ev) || !SameDate(ev.Start, day) {
			continue
		}
		segs = append(segs, Clip(ev, day))
	}
	return segs
}

// LayoutDay groups segments into connected overlap components and gives each
// member the column of its discovery position within the group, with
// ColumnCount equal to the group size.
//
// Groups are seeded by the first unassigned segment in input order and grow
// transitively: a segment joins when it overlaps any current member. Columns
// follow discovery order, not a tight packing, so two members that do not
// overlap each other still take separate columns.
func LayoutDay(segs []Segment) []PlacedSlot {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	placed := make([]PlacedSlot, 0, len(segs))

	for i := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		group := []int{i}

		// Rescan until the component stops growing: a later member can link
		// an earlier-skipped segment to the group.
		for grown := true; grown; {
			grown = false
			for j := i + 1; j < len(segs); j++ {
				if used[j] || !overlapsAny(segs, group, j) {
					continue
				}
				used[j] = true
				group = append(group, j)
				grown = true
			}
		}

		for col, idx := range group {
			placed = append(placed, PlacedSlot{
				Segment:     segs[idx],
				Column:      col,
				ColumnCount: len(group),
			})
		}
	}
	return placed
}

func overlapsAny(segs []Segment, group []int, j int) bool {
	for _, g := range group {
		if Overlaps(segs[g].Interval(), segs[j].Interval()) {
			return true
		}
	}
	return false
}

// Day lays out the single-day events of day using LayoutDay.
func Day(events []model.Event, day time.Time) DayLayout {
	return DayLayout{
		Day:   StartOfDay(day),
		Slots: LayoutDay(DaySegments(events, day)),
	}
}
