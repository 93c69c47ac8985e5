package model

import (
	"errors"
	"strings"
	"time"
)

// SourceLocal marks events created through the store API rather than
// imported from an ICS source.
const SourceLocal = "local"

var (
	ErrEmptyTitle   = errors.New("event title is empty")
	ErrInvalidRange = errors.New("event end must be after start")
)

// Event is a single calendar entry as held by the event store.
// The layout engines treat it as read-only.
type Event struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Start / End are local wall-clock timestamps, End exclusive.
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`

	// SourceID is the ICS source ID that produced the event, or SourceLocal.
	SourceID string `json:"source_id,omitempty" yaml:"source_id,omitempty"`
}

// Validate applies the event form rules: a non-empty title and End strictly
// after Start.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if !e.End.After(e.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Duration returns End-Start, or zero when End is not after Start.
func (e Event) Duration() time.Duration {
	if !e.End.After(e.Start) {
		return 0
	}
	return e.End.Sub(e.Start)
}
