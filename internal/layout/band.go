package layout

import "calgrid/internal/model"

// PlacedBand is a multi-day event drawn as a horizontal banner over the
// inclusive day span [StartDayIndex, EndDayIndex] of the window, on Row.
type PlacedBand struct {
	Event         model.Event
	StartDayIndex int
	EndDayIndex   int
	Row           int

	// ContinuesBefore is set when the event starts before the window,
	// ContinuesAfter when it ends after it.
	ContinuesBefore bool
	ContinuesAfter  bool
}

// Span is the number of day columns the band covers.
func (b PlacedBand) Span() int {
	return b.EndDayIndex - b.StartDayIndex + 1
}

func (b PlacedBand) conflicts(start, end int) bool {
	return !(end < b.StartDayIndex || start > b.EndDayIndex)
}

// Bands stacks the multi-day events overlapping w into rows. Events are
// processed in snapshot order and each goes to the first row whose bands do
// not share a day with it. There is no pre-sort by start, so out-of-order
// input can use more rows than strictly needed.
func Bands(events []model.Event, w Window) [][]PlacedBand {
	if w.Days <= 0 {
		return nil
	}
	win := w.Interval()
	last := w.Days - 1

	var rows [][]PlacedBand
	for _, ev := range events {
		if !IsMultiDay(ev) {
			continue
		}
		if !Overlaps(Interval{Start: ev.Start, End: ev.End}, win) {
			continue
		}

		band := PlacedBand{
			Event:           ev,
			StartDayIndex:   clampIndex(w.DayIndex(ev.Start), 0, last),
			EndDayIndex:     clampIndex(w.DayIndex(ev.End), last, last),
			ContinuesBefore: ev.Start.Before(w.Start),
			ContinuesAfter:  ev.End.After(win.End),
		}
		if band.EndDayIndex < band.StartDayIndex {
			band.EndDayIndex = band.StartDayIndex
		}

		row := -1
		for r := range rows {
			if !rowConflicts(rows[r], band.StartDayIndex, band.EndDayIndex) {
				row = r
				break
			}
		}
		if row < 0 {
			rows = append(rows, nil)
			row = len(rows) - 1
		}
		band.Row = row
		rows[row] = append(rows[row], band)
	}
	return rows
}

// clampIndex resolves a DayIndex result: -1 (outside the window) becomes
// missing, anything else is clamped to [0, last].
func clampIndex(idx, missing, last int) int {
	if idx < 0 {
		return missing
	}
	if idx > last {
		return last
	}
	return idx
}

func rowConflicts(row []PlacedBand, start, end int) bool {
	for _, b := range row {
		if b.conflicts(start, end) {
			return true
		}
	}
	return false
}
