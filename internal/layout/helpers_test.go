package layout

import (
	"fmt"
	"time"

	"calgrid/internal/model"
)

// Week of Sunday 2025-06-01 .. Saturday 2025-06-07, no DST change inside.
var weekStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// at returns weekStart + dayOffset days at hh:mm.
func at(dayOffset, hh, mm int) time.Time {
	return weekStart.AddDate(0, 0, dayOffset).Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

func ev(id string, start, end time.Time) model.Event {
	return model.Event{ID: id, Title: "Event " + id, Start: start, End: end}
}

func slotIDs(slots []PlacedSlot) []string {
	ids := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.Event.ID
	}
	return ids
}

func byID(slots []PlacedSlot) map[string]PlacedSlot {
	m := make(map[string]PlacedSlot, len(slots))
	for _, s := range slots {
		m[s.Event.ID] = s
	}
	return m
}

func bandRows(rows [][]PlacedBand) [][]string {
	out := make([][]string, len(rows))
	for r, row := range rows {
		for _, b := range row {
			out[r] = append(out[r], fmt.Sprintf("%s:%d-%d", b.Event.ID, b.StartDayIndex, b.EndDayIndex))
		}
	}
	return out
}
