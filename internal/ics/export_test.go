package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calgrid/internal/model"
)

func TestEncode(t *testing.T) {
	stamp := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []model.Event{
		{
			ID:          "e1",
			Title:       "Review",
			Description: "quarterly",
			Start:       time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
			End:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	raw, err := Encode(events, stamp)
	require.NoError(t, err)
	out := string(raw)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "PRODID:"+productID)
	assert.Contains(t, out, "UID:e1")
	assert.Contains(t, out, "SUMMARY:Review")
	assert.Contains(t, out, "DESCRIPTION:quarterly")
	assert.Contains(t, out, "DTSTART:20250602T090000Z")
	assert.Contains(t, out, "DTEND:20250602T100000Z")
}

func TestEncode_ParsesBack(t *testing.T) {
	ev := model.Event{
		ID:    "e2",
		Title: "Lunch",
		Start: time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 3, 13, 0, 0, 0, time.UTC),
	}
	body, err := Encode([]model.Event{ev}, ev.Start)
	require.NoError(t, err)

	got, err := ParseICS(Source{ID: "self"}, body, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ev.ID, got[0].ID)
	assert.Equal(t, ev.Title, got[0].Title)
	assert.True(t, ev.Start.Equal(got[0].Start))
	assert.True(t, ev.End.Equal(got[0].End))
}
