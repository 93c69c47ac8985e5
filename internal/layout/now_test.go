package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	w := WeekWindow(weekStart, time.Sunday)

	m, ok := Now(w, at(3, 14, 25))
	assert.True(t, ok)
	assert.Equal(t, NowMarker{DayIndex: 3, Minutes: 14*60 + 25}, m)

	m, ok = Now(w, weekStart)
	assert.True(t, ok)
	assert.Equal(t, NowMarker{DayIndex: 0, Minutes: 0}, m)

	_, ok = Now(w, w.End())
	assert.False(t, ok)

	_, ok = Now(DayWindow(at(2, 0, 0)), at(3, 9, 0))
	assert.False(t, ok, "day view shows the marker only on today")
}

func TestNow_DSTUsesWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available:", err)
	}

	// Spring forward: 2025-03-09 has 23 hours.
	spring := time.Date(2025, 3, 9, 10, 0, 0, 0, loc)
	m, ok := Now(DayWindow(spring), spring)
	require.True(t, ok)
	assert.Equal(t, 600, m.Minutes)

	// Fall back: 2025-11-02 has 25 hours.
	fall := time.Date(2025, 11, 2, 22, 15, 0, 0, loc)
	m, ok = Now(DayWindow(fall), fall)
	require.True(t, ok)
	assert.Equal(t, 22*60+15, m.Minutes)
}
