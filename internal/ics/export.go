package ics

import (
	"bytes"
	"fmt"
	"time"

	goical "github.com/emersion/go-ical"

	"calgrid/internal/model"
)

const productID = "-//calgrid//calgrid//EN"

// Encode serializes events as a published VCALENDAR with one VEVENT each.
// Times are written in UTC.
func Encode(events []model.Event, stamp time.Time) ([]byte, error) {
	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, productID)
	cal.Props.SetText(goical.PropMethod, "PUBLISH")

	for _, ev := range events {
		ve := goical.NewEvent()
		ve.Props.SetText(goical.PropUID, ev.ID)
		ve.Props.SetDateTime(goical.PropDateTimeStamp, stamp.UTC())
		ve.Props.SetDateTime(goical.PropDateTimeStart, ev.Start.UTC())
		ve.Props.SetDateTime(goical.PropDateTimeEnd, ev.End.UTC())
		ve.Props.SetText(goical.PropSummary, ev.Title)
		if ev.Description != "" {
			ve.Props.SetText(goical.PropDescription, ev.Description)
		}
		cal.Children = append(cal.Children, ve.Component)
	}

	var buf bytes.Buffer
	if err := goical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
