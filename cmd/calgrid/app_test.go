package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calgrid/internal/config"
	"calgrid/internal/model"
	"calgrid/internal/store"
)

func TestSeedEvents(t *testing.T) {
	st := store.New()
	n, err := seedEvents(st, []config.SeedEvent{
		{Title: "Standup", Start: "2025-06-04T09:00", End: "2025-06-04T09:15"},
		{Title: "Backwards", Start: "2025-06-04T10:00", End: "2025-06-04T09:00"},
		{Title: "Broken", Start: "soon", End: "2025-06-04T09:00"},
	}, time.UTC)

	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidRange)
	assert.Contains(t, err.Error(), "events[2] start")

	events, _ := st.Snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].Title)
	assert.Equal(t, model.SourceLocal, events[0].SourceID)
}
