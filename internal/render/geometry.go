// Package render turns layout results into something visible: pixel boxes
// for the HTML page and a plain-text agenda for terminals.
package render

import (
	"time"

	"calgrid/internal/config"
	"calgrid/internal/layout"
)

// Box is a positioned rectangle. Vertical values are pixels, horizontal
// values are percentages of the containing column or band area.
type Box struct {
	TopPx    float64
	HeightPx float64
	LeftPct  float64
	WidthPct float64
}

// Geometry converts logical layout positions into pixels.
type Geometry struct {
	HourHeightPx    int
	MinSlotHeightPx int
	BandRowPx       int
	BandHeightPx    int
}

// WeekGeometry uses the week-view minimum slot height.
func WeekGeometry(l config.LayoutConfig) Geometry {
	return Geometry{
		HourHeightPx:    l.HourHeightPx,
		MinSlotHeightPx: l.MinSlotHeightPx,
		BandRowPx:       l.BandRowPx,
		BandHeightPx:    l.BandHeightPx,
	}
}

// DayGeometry uses the larger day-view minimum slot height.
func DayGeometry(l config.LayoutConfig) Geometry {
	g := WeekGeometry(l)
	g.MinSlotHeightPx = l.DayMinSlotHeightPx
	return g
}

func (g Geometry) pxPerMinute() float64 {
	return float64(g.HourHeightPx) / 60
}

// DayHeightPx is the height of a full 24h column.
func (g Geometry) DayHeightPx() float64 {
	return float64(24 * g.HourHeightPx)
}

// Slot positions a placed slot inside its day column. Zero-length and very
// short slots are stretched to MinSlotHeightPx so they stay visible.
func (g Geometry) Slot(s layout.PlacedSlot) Box {
	startMin := minutesIntoDay(s.Day, s.Start)
	endMin := minutesIntoDay(s.Day, s.End)
	if endMin < startMin {
		endMin = startMin
	}

	height := (endMin - startMin) * g.pxPerMinute()
	if floor := float64(g.MinSlotHeightPx); height < floor {
		height = floor
	}

	cols := s.ColumnCount
	if cols < 1 {
		cols = 1
	}
	width := 100 / float64(cols)
	return Box{
		TopPx:    startMin * g.pxPerMinute(),
		HeightPx: height,
		LeftPct:  float64(s.Column) * width,
		WidthPct: width,
	}
}

// Band positions a multi-day band inside a band area of days columns.
func (g Geometry) Band(b layout.PlacedBand, days int) Box {
	if days < 1 {
		days = 1
	}
	unit := 100 / float64(days)
	return Box{
		TopPx:    float64(b.Row * g.BandRowPx),
		HeightPx: float64(g.BandHeightPx),
		LeftPct:  float64(b.StartDayIndex) * unit,
		WidthPct: float64(b.Span()) * unit,
	}
}

// BandAreaHeightPx is the height reserved above the time grid for rows.
func (g Geometry) BandAreaHeightPx(rows int) float64 {
	return float64(rows * g.BandRowPx)
}

// NowOffsetPx is the vertical position of the current-time line.
func (g Geometry) NowOffsetPx(m layout.NowMarker) float64 {
	return float64(m.Minutes) * g.pxPerMinute()
}

// minutesIntoDay reads the wall clock so boxes line up with the hour rows
// on DST days. A segment ending at the next midnight maps to 24h.
func minutesIntoDay(day, t time.Time) float64 {
	if !t.After(day) {
		return 0
	}
	if !layout.SameDate(day, t) {
		return 24 * 60
	}
	h, m, s := t.Clock()
	return float64(h*60+m) + float64(s)/60
}

// RangeLabel formats a band's date range as "Jun 3 - Jun 6".
func RangeLabel(start, end time.Time) string {
	return start.Format("Jan 2") + " - " + end.Format("Jan 2")
}

// BandLabel is the banner text with continuation arrows.
func BandLabel(b layout.PlacedBand) string {
	label := b.Event.Title
	if b.ContinuesBefore {
		label = "← " + label
	}
	if b.ContinuesAfter {
		label += " →"
	}
	return label
}
