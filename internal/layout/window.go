package layout

import (
	"time"

	"calgrid/internal/model"
)

// Window is a contiguous, day-aligned, half-open date range of Days days
// beginning at Start.
type Window struct {
	Start time.Time
	Days  int
}

// StartOfDay returns local midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextDay returns midnight of the following calendar date. AddDate keeps this
// correct across DST transitions where a day is not 24h.
func NextDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsMultiDay reports whether an event's start and end fall on different
// calendar dates. An event ending exactly at the following midnight counts
// as multi-day.
func IsMultiDay(ev model.Event) bool {
	return !SameDate(ev.Start, ev.End)
}

// DayWindow is the one-day window containing date.
func DayWindow(date time.Time) Window {
	return Window{Start: StartOfDay(date), Days: 1}
}

// StartOfWeek returns midnight of the first day of the week containing date.
func StartOfWeek(date time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(date)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekWindow is the seven-day window containing date.
func WeekWindow(date time.Time, weekStart time.Weekday) Window {
	return Window{Start: StartOfWeek(date, weekStart), Days: 7}
}

// MonthWindow covers the full weeks overlapping date's calendar month,
// including leading and trailing days of the adjacent months.
func MonthWindow(date time.Time, weekStart time.Weekday) Window {
	y, m, _ := date.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, date.Location())
	last := first.AddDate(0, 1, -1)

	start := StartOfWeek(first, weekStart)
	end := StartOfWeek(last, weekStart).AddDate(0, 0, 7)

	days := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days++
	}
	return Window{Start: start, Days: days}
}

// End is the exclusive end boundary of the window.
func (w Window) End() time.Time {
	return w.Start.AddDate(0, 0, w.Days)
}

// Interval returns the window as [Start, End).
func (w Window) Interval() Interval {
	return Interval{Start: w.Start, End: w.End()}
}

// Day returns midnight of the i-th day of the window.
func (w Window) Day(i int) time.Time {
	return w.Start.AddDate(0, 0, i)
}

// DaySeq lists the midnights of every day in the window.
func (w Window) DaySeq() []time.Time {
	if w.Days <= 0 {
		return nil
	}
	days := make([]time.Time, w.Days)
	for i := range days {
		days[i] = w.Day(i)
	}
	return days
}

// DayIndex returns the offset of t's calendar date inside the window, or -1
// when the date is not part of it.
func (w Window) DayIndex(t time.Time) int {
	for i := 0; i < w.Days; i++ {
		if SameDate(w.Day(i), t) {
			return i
		}
	}
	return -1
}

// Contains reports whether t lies inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End())
}
