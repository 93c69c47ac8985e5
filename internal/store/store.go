// Package store holds the in-memory event snapshot that the layout engines
// read from. It is the only place events are created, edited or deleted.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
)

var (
	ErrNotFound    = errors.New("event not found")
	ErrDuplicateID = errors.New("event id already exists")
)

// Store keeps events in insertion order.
type Store struct {
	mu      sync.RWMutex
	events  []model.Event
	version uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Add validates ev, assigns an ID when empty and appends it. Events without
// a SourceID are tagged model.SourceLocal.
func (s *Store) Add(ev model.Event) (model.Event, error) {
	if err := ev.Validate(); err != nil {
		return model.Event{}, err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.SourceID == "" {
		ev.SourceID = model.SourceLocal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(ev.ID) >= 0 {
		return model.Event{}, fmt.Errorf("%w: %s", ErrDuplicateID, ev.ID)
	}
	s.events = append(s.events, ev)
	s.version++

	appLog.Debug("store: event added", "id", ev.ID, "source", ev.SourceID)
	return ev, nil
}

// Edit replaces the event with the same ID, keeping its position.
func (s *Store) Edit(ev model.Event) (model.Event, error) {
	if err := ev.Validate(); err != nil {
		return model.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(ev.ID)
	if i < 0 {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, ev.ID)
	}
	if ev.SourceID == "" {
		ev.SourceID = s.events[i].SourceID
	}
	s.events[i] = ev
	s.version++

	appLog.Debug("store: event edited", "id", ev.ID)
	return ev, nil
}

// Delete removes the event with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.events = slices.Delete(s.events, i, i+1)
	s.version++

	appLog.Debug("store: event deleted", "id", id)
	return nil
}

// Get returns a copy of one event.
func (s *Store) Get(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Event{}, false
	}
	return s.events[i], true
}

// ReplaceSource drops every event of sourceID and appends events in their
// place at the end, tagged with sourceID. Used by ICS refresh, where a feed
// is always imported whole. Feeds may carry zero-duration entries, so only
// untitled events, events ending before they start and duplicate IDs are
// skipped. When the accepted events equal what the source already holds the
// store is left untouched and the version does not move.
func (s *Store) ReplaceSource(sourceID string, events []model.Event) (added, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []model.Event
	taken := make(map[string]bool, len(s.events))
	for _, e := range s.events {
		if e.SourceID == sourceID {
			current = append(current, e)
			continue
		}
		taken[e.ID] = true
	}

	accepted := make([]model.Event, 0, len(events))
	for _, ev := range events {
		ev.SourceID = sourceID
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if !importable(ev) || taken[ev.ID] {
			skipped++
			continue
		}
		taken[ev.ID] = true
		accepted = append(accepted, ev)
	}
	added = len(accepted)

	if slices.EqualFunc(current, accepted, sameEvent) {
		appLog.Debug("store: source unchanged", "source", sourceID, "events", added, "skipped", skipped)
		return added, skipped
	}

	s.events = slices.DeleteFunc(s.events, func(e model.Event) bool {
		return e.SourceID == sourceID
	})
	s.events = append(s.events, accepted...)
	s.version++

	appLog.Info("store: source replaced", "source", sourceID, "added", added, "skipped", skipped)
	return added, skipped
}

func sameEvent(a, b model.Event) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Description == b.Description &&
		a.SourceID == b.SourceID &&
		a.Start.Equal(b.Start) &&
		a.End.Equal(b.End)
}

// Snapshot returns a copy of all events in insertion order together with
// the store version it was taken at.
func (s *Store) Snapshot() ([]model.Event, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events), s.version
}

// Version increases on every mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len is the number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func importable(ev model.Event) bool {
	return ev.Validate() == nil || (ev.Title != "" && ev.End.Equal(ev.Start))
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.events, func(e model.Event) bool {
		return e.ID == id
	})
}
