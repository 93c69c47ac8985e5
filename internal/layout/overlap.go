// Package layout places calendar events on a visible window: side-by-side
// columns for events inside one day and stacked rows for banners of events
// spanning several days.
//
// Every function here is a pure function of its arguments. Nothing is cached
// between calls and input events are never modified.
package layout

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// normalized clamps a negative-duration interval to zero duration at Start.
func (iv Interval) normalized() Interval {
	if iv.End.Before(iv.Start) {
		iv.End = iv.Start
	}
	return iv
}

// Duration is End-Start, never negative.
func (iv Interval) Duration() time.Duration {
	iv = iv.normalized()
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether a and b share any instant. Touching endpoints do
// not overlap. A zero-duration interval at t overlaps b only when
// b.Start < t < b.End.
func Overlaps(a, b Interval) bool {
	a, b = a.normalized(), b.normalized()
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
