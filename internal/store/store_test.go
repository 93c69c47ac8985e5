package store_test

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calgrid/internal/model"
	"calgrid/internal/store"
)

var nine = time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC)

func event(title string) model.Event {
	return model.Event{Title: title, Start: nine, End: nine.Add(time.Hour)}
}

func TestAdd_AssignsIDAndSource(t *testing.T) {
	s := store.New()

	got, err := s.Add(event("Standup"))
	require.NoError(t, err)

	_, err = uuid.Parse(got.ID)
	assert.NoError(t, err, "generated id must be a UUID")
	assert.Equal(t, model.SourceLocal, got.SourceID)
	assert.Equal(t, 1, s.Len())
}

func TestAdd_RejectsInvalid(t *testing.T) {
	s := store.New()

	_, err := s.Add(model.Event{Title: "", Start: nine, End: nine.Add(time.Hour)})
	assert.ErrorIs(t, err, model.ErrEmptyTitle)

	_, err = s.Add(model.Event{Title: "x", Start: nine, End: nine})
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	assert.Zero(t, s.Len())
	assert.Zero(t, s.Version())
}

func TestAdd_DuplicateID(t *testing.T) {
	s := store.New()
	ev := event("a")
	ev.ID = "fixed"

	_, err := s.Add(ev)
	require.NoError(t, err)
	_, err = s.Add(ev)
	assert.ErrorIs(t, err, store.ErrDuplicateID)
}

func TestEditAndDelete(t *testing.T) {
	s := store.New()
	a, _ := s.Add(event("a"))
	b, _ := s.Add(event("b"))
	c, _ := s.Add(event("c"))

	b.Title = "b renamed"
	b.SourceID = ""
	_, err := s.Edit(b)
	require.NoError(t, err)

	snap, _ := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "b renamed", snap[1].Title, "edit keeps position")
	assert.Equal(t, model.SourceLocal, snap[1].SourceID, "edit keeps source when omitted")

	require.NoError(t, s.Delete(a.ID))
	snap, _ = s.Snapshot()
	assert.Equal(t, []string{b.ID, c.ID}, []string{snap[0].ID, snap[1].ID})

	assert.ErrorIs(t, s.Delete(a.ID), store.ErrNotFound)
	_, err = s.Edit(model.Event{ID: "missing", Title: "x", Start: nine, End: nine.Add(time.Minute)})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := store.New()
	added, _ := s.Add(event("a"))

	snap, v1 := s.Snapshot()
	snap[0].Title = "mutated"

	got, ok := s.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, "a", got.Title)

	_, _ = s.Add(event("b"))
	_, v2 := s.Snapshot()
	assert.Greater(t, v2, v1)
}

func TestReplaceSource(t *testing.T) {
	s := store.New()
	local, _ := s.Add(event("local"))

	feed := []model.Event{
		{ID: "f1", Title: "feed 1", Start: nine, End: nine.Add(time.Hour)},
		{ID: "f2", Title: "", Start: nine, End: nine.Add(time.Hour)},
		{ID: "f3", Title: "feed 3", Start: nine, End: nine.Add(2 * time.Hour)},
	}
	added, skipped := s.ReplaceSource("work", feed)
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, skipped)

	added, skipped = s.ReplaceSource("work", feed[:1])
	assert.Equal(t, 1, added)
	assert.Zero(t, skipped)

	snap, _ := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, local.ID, snap[0].ID)
	assert.Equal(t, "f1", snap[1].ID)
	assert.Equal(t, "work", snap[1].SourceID)
}

func TestReplaceSource_UnchangedFeedKeepsVersion(t *testing.T) {
	s := store.New()
	feed := []model.Event{
		{ID: "f1", Title: "feed 1", Start: nine, End: nine.Add(time.Hour)},
		{ID: "f2", Title: "feed 2", Start: nine.Add(time.Hour), End: nine.Add(2 * time.Hour)},
	}

	s.ReplaceSource("work", feed)
	v1 := s.Version()
	_, _ = s.Add(event("added later"))
	v2 := s.Version()

	added, skipped := s.ReplaceSource("work", feed)
	assert.Equal(t, 2, added)
	assert.Zero(t, skipped)
	assert.Equal(t, v2, s.Version())

	snap, _ := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "f1", snap[0].ID, "unchanged feed keeps its position")

	changed := slices.Clone(feed)
	changed[1].Title = "feed 2 moved"
	s.ReplaceSource("work", changed)
	assert.Greater(t, s.Version(), v2)
	assert.Greater(t, v2, v1)

	got, ok := s.Get("f2")
	require.True(t, ok)
	assert.Equal(t, "feed 2 moved", got.Title)
}

func TestConcurrentAccess(t *testing.T) {
	s := store.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Add(event("concurrent"))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Snapshot()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
}

func TestReplaceSource_KeepsInstantsDropsNegative(t *testing.T) {
	s := store.New()

	added, skipped := s.ReplaceSource("feed", []model.Event{
		{ID: "reminder", Title: "Call back", Start: nine, End: nine},
		{ID: "broken", Title: "Broken", Start: nine, End: nine.Add(-time.Hour)},
	})
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, skipped)

	got, ok := s.Get("reminder")
	require.True(t, ok)
	assert.Equal(t, got.Start, got.End)
}
