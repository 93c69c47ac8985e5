// Package calendar owns the navigation state of the calendar (view and
// current date) and turns an event snapshot into a complete layout result
// for the visible window.
package calendar

import (
	"sync"
	"time"

	"calgrid/internal/layout"
	"calgrid/internal/model"
)

// Snapshotter provides the events to lay out. *store.Store satisfies it.
type Snapshotter interface {
	Snapshot() ([]model.Event, uint64)
}

// Result is everything the presentation layer needs for one view.
type Result struct {
	View    View
	Date    time.Time // current date of the state, midnight
	Window  layout.Window
	Version uint64 // store version the result was computed from

	// Days holds one entry per window day for the day and week views.
	Days []layout.DayLayout
	// Bands holds multi-day rows for the day and week views.
	Bands [][]layout.PlacedBand
	// Month holds the grid cells of the month view.
	Month []layout.MonthCell

	Now *layout.NowMarker
}

// Options tunes Recompute.
type Options struct {
	WeekStart      time.Weekday
	MonthMaxEvents int
}

// Recompute runs the layout engines for view over events. It is a pure
// function of its inputs.
func Recompute(events []model.Event, view View, date, now time.Time, opts Options) Result {
	w := WindowFor(view, date, opts.WeekStart)
	res := Result{
		View:   view,
		Date:   layout.StartOfDay(date),
		Window: w,
	}

	switch view {
	case ViewMonth:
		res.Month = layout.Month(events, w, date, now, opts.MonthMaxEvents)
	case ViewDay:
		res.Days = []layout.DayLayout{layout.Day(events, w.Start)}
		res.Bands = layout.Bands(events, w)
	default:
		res.Days = layout.Week(events, w)
		res.Bands = layout.Bands(events, w)
	}

	if view != ViewMonth {
		if m, ok := layout.Now(w, now); ok {
			res.Now = &m
		}
	}
	return res
}

// State is the owned calendar state: which view is shown and around which
// date. It is safe for concurrent use.
type State struct {
	events Snapshotter
	opts   Options

	mu   sync.RWMutex
	view View
	date time.Time
}

// NewState starts at date in the given view.
func NewState(events Snapshotter, view View, date time.Time, opts Options) *State {
	return &State{
		events: events,
		opts:   opts,
		view:   view,
		date:   layout.StartOfDay(date),
	}
}

func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *State) Date() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.date
}

func (s *State) SetView(v View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func (s *State) SetDate(t time.Time) {
	s.mu.Lock()
	s.date = layout.StartOfDay(t)
	s.mu.Unlock()
}

// OpenDay switches to the day view of date, as clicking a week header does.
func (s *State) OpenDay(date time.Time) {
	s.mu.Lock()
	s.view = ViewDay
	s.date = layout.StartOfDay(date)
	s.mu.Unlock()
}

func (s *State) Next() { s.step(1) }
func (s *State) Prev() { s.step(-1) }

func (s *State) step(n int) {
	s.mu.Lock()
	s.date = Step(s.view, s.date, n)
	s.mu.Unlock()
}

// Today moves the state to now's date.
func (s *State) Today(now time.Time) {
	s.SetDate(now)
}

// Window is the visible window for the current view and date.
func (s *State) Window() layout.Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return WindowFor(s.view, s.date, s.opts.WeekStart)
}

// Recompute lays out a fresh snapshot for the current view.
func (s *State) Recompute(now time.Time) Result {
	s.mu.RLock()
	view, date := s.view, s.date
	s.mu.RUnlock()

	events, version := s.events.Snapshot()
	res := Recompute(events, view, date, now, s.opts)
	res.Version = version
	return res
}
