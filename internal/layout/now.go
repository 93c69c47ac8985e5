package layout

import "time"

// NowMarker locates the current-time indicator inside a window.
type NowMarker struct {
	DayIndex int
	Minutes  int // wall-clock minutes since midnight
}

// Now returns the indicator position for now, or false when now is outside w.
func Now(w Window, now time.Time) (NowMarker, bool) {
	if !w.Contains(now) {
		return NowMarker{}, false
	}
	idx := w.DayIndex(now)
	if idx < 0 {
		return NowMarker{}, false
	}
	h, m, _ := now.Clock()
	return NowMarker{DayIndex: idx, Minutes: h*60 + m}, true
}
