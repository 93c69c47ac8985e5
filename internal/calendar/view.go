package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"calgrid/internal/layout"
)

var ErrUnknownView = errors.New("unknown calendar view")

// View selects which grid is shown.
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// ParseView accepts "month", "week" or "day" (case-insensitive). Empty input
// yields ViewWeek.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewWeek:
		return ViewWeek, nil
	case ViewMonth:
		return ViewMonth, nil
	case ViewDay:
		return ViewDay, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// WindowFor resolves the visible window of a view around date.
func WindowFor(v View, date time.Time, weekStart time.Weekday) layout.Window {
	switch v {
	case ViewMonth:
		return layout.MonthWindow(date, weekStart)
	case ViewDay:
		return layout.DayWindow(date)
	default:
		return layout.WeekWindow(date, weekStart)
	}
}

// Step moves date one page forward (n=1) or back (n=-1) for the view.
func Step(v View, date time.Time, n int) time.Time {
	date = layout.StartOfDay(date)
	switch v {
	case ViewMonth:
		// Pin to the 1st so Jan 31 + 1 month does not skip February.
		y, m, _ := date.Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, date.Location()).AddDate(0, n, 0)
	case ViewDay:
		return date.AddDate(0, 0, n)
	default:
		return date.AddDate(0, 0, 7*n)
	}
}
