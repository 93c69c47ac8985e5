package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
)

var ErrEmptyBody = errors.New("empty ICS body")

// ParseICS converts a VCALENDAR payload into events in loc.
//
//   - DTSTART without a time part (VALUE=DATE) is an all-day event. Its end
//     is moved to the last instant of its final day so a one-day all-day
//     event stays on a single date.
//   - A missing DTEND yields a zero-duration event (or one full day when
//     all-day).
//   - RRULE is not expanded; only the first instance is imported.
//   - VEVENTs that fail to parse are logged and skipped.
func ParseICS(src Source, body []byte, loc *time.Location) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, fmt.Errorf("parse calendar %s: %w", src.ID, err)
	}

	events := make([]model.Event, 0)
	for _, ve := range cal.Events() {
		ev, perr := parseVEvent(ve, loc)
		if perr != nil {
			appLog.Warn("ics vevent skipped", "id", src.ID, "reason", perr.Error())
			continue
		}
		ev.SourceID = src.ID
		events = append(events, ev)
	}

	appLog.Info("ics parse completed", "id", src.ID, "url", redactURL(src.URL), "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (model.Event, error) {
	var out model.Event

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, errors.New("missing UID")
	}
	out.ID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = strings.TrimSpace(p.Value)
	}
	if out.Title == "" {
		out.Title = "(no title)"
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, fmt.Errorf("%s: missing DTSTART", out.ID)
	}
	allDay := isDateValue(dtStart)

	var start, end time.Time
	var err error
	if allDay {
		start, err = ve.GetAllDayStartAt()
	} else {
		start, err = ve.GetStartAt()
	}
	if err != nil {
		return out, fmt.Errorf("%s: DTSTART: %w", out.ID, err)
	}

	if ve.GetProperty(ical.ComponentPropertyDtEnd) != nil {
		if allDay {
			end, err = ve.GetAllDayEndAt()
		} else {
			end, err = ve.GetEndAt()
		}
		if err != nil {
			return out, fmt.Errorf("%s: DTEND: %w", out.ID, err)
		}
	}

	if allDay {
		// Dates carry no zone: keep the calendar date, not the instant.
		start = wallDate(start, loc)
		if end.IsZero() {
			end = start.AddDate(0, 0, 1)
		} else {
			end = wallDate(end, loc)
		}
		if !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}
		end = end.Add(-time.Second)
	} else {
		start = start.In(loc)
		if end.IsZero() {
			end = start
		} else {
			end = end.In(loc)
		}
	}
	out.Start, out.End = start, end

	if ve.GetProperty(ical.ComponentPropertyRrule) != nil {
		appLog.Debug("ics recurrence not expanded", "uid", out.ID)
	}
	return out, nil
}

// isDateValue reports whether a DTSTART carries a date without time.
func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func wallDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
