package layout

import (
	"time"

	"calgrid/internal/model"
)

// MonthCell is one day of the month grid.
type MonthCell struct {
	Day     time.Time
	InMonth bool // day belongs to the reference month
	Today   bool

	// Events lists at most maxVisible events starting on Day, in snapshot
	// order; Hidden counts the rest.
	Events []model.Event
	Hidden int
}

// Month fills one cell per day of w. Events are attached to the day they
// start on. maxVisible <= 0 shows every event.
func Month(events []model.Event, w Window, ref, now time.Time, maxVisible int) []MonthCell {
	days := w.DaySeq()
	cells := make([]MonthCell, len(days))
	for i, day := range days {
		cells[i] = MonthCell{
			Day:     day,
			InMonth: day.Year() == ref.Year() && day.Month() == ref.Month(),
			Today:   SameDate(day, now),
		}
	}

	for _, ev := range events {
		idx := w.DayIndex(ev.Start)
		if idx < 0 {
			continue
		}
		c := &cells[idx]
		if maxVisible > 0 && len(c.Events) >= maxVisible {
			c.Hidden++
			continue
		}
		c.Events = append(c.Events, ev)
	}
	return cells
}
