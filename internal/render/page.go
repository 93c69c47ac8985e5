package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"calgrid/internal/calendar"
	"calgrid/internal/config"
	"calgrid/internal/layout"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.New("calendar.html.tmpl").Funcs(template.FuncMap{
	"px":  func(v float64) string { return fmt.Sprintf("%.1fpx", v) },
	"pct": func(v float64) string { return fmt.Sprintf("%.4f%%", v) },
	"deref": func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	},
}).ParseFS(templateFS, "templates/*.tmpl"))

// Page is the template model of /calendar.
type Page struct {
	Title string
	View  string
	Date  string

	PrevDate  string
	NextDate  string
	TodayDate string

	Hours       []string
	HourPx      float64
	DayHeightPx float64
	BandAreaPx  float64

	Columns []Column
	Bands   []BandView
	Weeks   [][]CellView
}

// Column is one day of the day or week grid.
type Column struct {
	Weekday string
	DayNum  int
	Date    string
	Today   bool
	Slots   []SlotView
	NowPx   *float64
}

type SlotView struct {
	Box
	Title       string
	Description string
	Time        string
}

type BandView struct {
	Box
	Label       string
	Range       string
	Description string
}

// CellView is one month-grid cell.
type CellView struct {
	DayNum  int
	Date    string
	InMonth bool
	Today   bool
	Events  []SlotView
	Hidden  int
}

// BuildPage converts a layout result into the template model.
func BuildPage(res calendar.Result, l config.LayoutConfig, now time.Time) Page {
	p := Page{
		Title:     Title(res.View, res.Date, res.Window),
		View:      string(res.View),
		Date:      dateParam(res.Date),
		PrevDate:  dateParam(calendar.Step(res.View, res.Date, -1)),
		NextDate:  dateParam(calendar.Step(res.View, res.Date, 1)),
		TodayDate: dateParam(now),
	}

	if res.View == calendar.ViewMonth {
		p.Weeks = monthWeeks(res.Month)
		return p
	}

	g := WeekGeometry(l)
	if res.View == calendar.ViewDay {
		g = DayGeometry(l)
	}
	p.HourPx = float64(g.HourHeightPx)
	p.DayHeightPx = g.DayHeightPx()
	p.BandAreaPx = g.BandAreaHeightPx(len(res.Bands))
	for h := 0; h < 24; h++ {
		p.Hours = append(p.Hours, hourLabel(h))
	}

	for i, d := range res.Days {
		col := Column{
			Weekday: d.Day.Format("Mon"),
			DayNum:  d.Day.Day(),
			Date:    dateParam(d.Day),
			Today:   layout.SameDate(d.Day, now),
		}
		for _, s := range d.Slots {
			col.Slots = append(col.Slots, SlotView{
				Box:         g.Slot(s),
				Title:       s.Event.Title,
				Description: s.Event.Description,
				Time:        s.Event.Start.Format("15:04") + " - " + s.Event.End.Format("15:04"),
			})
		}
		if res.Now != nil && res.Now.DayIndex == i {
			off := g.NowOffsetPx(*res.Now)
			col.NowPx = &off
		}
		p.Columns = append(p.Columns, col)
	}

	for _, row := range res.Bands {
		for _, b := range row {
			p.Bands = append(p.Bands, BandView{
				Box:         g.Band(b, res.Window.Days),
				Label:       BandLabel(b),
				Range:       RangeLabel(b.Event.Start, b.Event.End),
				Description: b.Event.Description,
			})
		}
	}
	return p
}

func monthWeeks(cells []layout.MonthCell) [][]CellView {
	var weeks [][]CellView
	for i, c := range cells {
		if i%7 == 0 {
			weeks = append(weeks, make([]CellView, 0, 7))
		}
		cv := CellView{
			DayNum:  c.Day.Day(),
			Date:    dateParam(c.Day),
			InMonth: c.InMonth,
			Today:   c.Today,
			Hidden:  c.Hidden,
		}
		for _, ev := range c.Events {
			cv.Events = append(cv.Events, SlotView{
				Title:       ev.Title,
				Description: ev.Description,
				Time:        ev.Start.Format("15:04"),
			})
		}
		weeks[len(weeks)-1] = append(weeks[len(weeks)-1], cv)
	}
	return weeks
}

// WritePage renders the calendar page.
func WritePage(w io.Writer, p Page) error {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Title is the header caption of a view.
func Title(v calendar.View, date time.Time, w layout.Window) string {
	switch v {
	case calendar.ViewMonth:
		return date.Format("January 2006")
	case calendar.ViewDay:
		return date.Format("Monday, Jan 2, 2006")
	default:
		last := w.Day(w.Days - 1)
		return w.Start.Format("Jan 2") + " - " + last.Format("Jan 2, 2006")
	}
}

func hourLabel(h int) string {
	return time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC).Format("3 PM")
}

func dateParam(t time.Time) string {
	return t.Format(time.DateOnly)
}
