package web

import (
	"fmt"
	"net/http"
	"time"

	"calgrid/internal/calendar"
	"calgrid/internal/ics"
	"calgrid/internal/layout"
	"calgrid/internal/render"
)

type slotDTO struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Column      int       `json:"column"`
	ColumnCount int       `json:"column_count"`
}

type dayDTO struct {
	Date  string    `json:"date"`
	Slots []slotDTO `json:"slots"`
}

type bandDTO struct {
	EventID         string `json:"event_id"`
	Title           string `json:"title"`
	StartDayIndex   int    `json:"start_day_index"`
	EndDayIndex     int    `json:"end_day_index"`
	Row             int    `json:"row"`
	ContinuesBefore bool   `json:"continues_before"`
	ContinuesAfter  bool   `json:"continues_after"`
}

type cellDTO struct {
	Date    string     `json:"date"`
	InMonth bool       `json:"in_month"`
	Today   bool       `json:"today"`
	Events  []eventDTO `json:"events"`
	Hidden  int        `json:"hidden"`
}

type nowDTO struct {
	DayIndex int `json:"day_index"`
	Minutes  int `json:"minutes"`
}

// layoutResponse is the JSON response shape for /api/layout.
type layoutResponse struct {
	View        string      `json:"view"`
	Date        string      `json:"date"`
	WindowStart string      `json:"window_start"`
	WindowDays  int         `json:"window_days"`
	Version     uint64      `json:"version"`
	Timezone    string      `json:"timezone"`
	Days        []dayDTO    `json:"days,omitempty"`
	Bands       [][]bandDTO `json:"bands,omitempty"`
	Month       []cellDTO   `json:"month,omitempty"`
	Now         *nowDTO     `json:"now,omitempty"`
}

type layoutKey struct {
	view    calendar.View
	date    string
	version uint64
	minute  int64
}

type layoutCache struct {
	key  layoutKey
	resp layoutResponse
}

// viewRequest resolves ?view= and ?date= against config defaults.
func (s *Server) viewRequest(r *http.Request, now time.Time) (calendar.View, time.Time, error) {
	q := r.URL.Query()

	raw := q.Get("view")
	if raw == "" {
		raw = s.cfg.DefaultView
	}
	view, err := calendar.ParseView(raw)
	if err != nil {
		return "", time.Time{}, err
	}

	date := now
	if v := q.Get("date"); v != "" {
		date, err = time.ParseInLocation(time.DateOnly, v, s.loc)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", errBadRequest)
		}
	}
	return view, layout.StartOfDay(date), nil
}

func (s *Server) recompute(view calendar.View, date, now time.Time) calendar.Result {
	events, version := s.store.Snapshot()
	res := calendar.Recompute(events, view, date, now, s.calendarOptions())
	res.Version = version
	return res
}

// handleLayout returns the computed layout of one view.
//
// GET /api/layout?view=week&date=2025-06-04
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	now := s.clock()
	view, date, err := s.viewRequest(r, now)
	if err != nil {
		writeErr(w, err)
		return
	}

	key := layoutKey{
		view:    view,
		date:    date.Format(time.DateOnly),
		version: s.store.Version(),
		minute:  now.Unix() / 60,
	}

	s.layoutMu.RLock()
	lc := s.layoutCache
	s.layoutMu.RUnlock()
	if lc != nil && lc.key == key {
		writeJSON(w, http.StatusOK, lc.resp)
		return
	}

	res := s.recompute(view, date, now)
	resp := s.toLayoutResponse(res)

	// The version may have moved between Version() and Snapshot().
	key.version = res.Version
	s.layoutMu.Lock()
	s.layoutCache = &layoutCache{key: key, resp: resp}
	s.layoutMu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) toLayoutResponse(res calendar.Result) layoutResponse {
	resp := layoutResponse{
		View:        string(res.View),
		Date:        res.Date.Format(time.DateOnly),
		WindowStart: res.Window.Start.Format(time.DateOnly),
		WindowDays:  res.Window.Days,
		Version:     res.Version,
		Timezone:    s.loc.String(),
	}

	for _, d := range res.Days {
		day := dayDTO{Date: d.Day.Format(time.DateOnly), Slots: make([]slotDTO, 0, len(d.Slots))}
		for _, sl := range d.Slots {
			day.Slots = append(day.Slots, slotDTO{
				EventID:     sl.Event.ID,
				Title:       sl.Event.Title,
				Start:       sl.Start,
				End:         sl.End,
				Column:      sl.Column,
				ColumnCount: sl.ColumnCount,
			})
		}
		resp.Days = append(resp.Days, day)
	}

	for _, row := range res.Bands {
		out := make([]bandDTO, 0, len(row))
		for _, b := range row {
			out = append(out, bandDTO{
				EventID:         b.Event.ID,
				Title:           b.Event.Title,
				StartDayIndex:   b.StartDayIndex,
				EndDayIndex:     b.EndDayIndex,
				Row:             b.Row,
				ContinuesBefore: b.ContinuesBefore,
				ContinuesAfter:  b.ContinuesAfter,
			})
		}
		resp.Bands = append(resp.Bands, out)
	}

	for _, c := range res.Month {
		cell := cellDTO{
			Date:    c.Day.Format(time.DateOnly),
			InMonth: c.InMonth,
			Today:   c.Today,
			Events:  make([]eventDTO, 0, len(c.Events)),
			Hidden:  c.Hidden,
		}
		for _, ev := range c.Events {
			cell.Events = append(cell.Events, toDTO(ev))
		}
		resp.Month = append(resp.Month, cell)
	}

	if res.Now != nil {
		resp.Now = &nowDTO{DayIndex: res.Now.DayIndex, Minutes: res.Now.Minutes}
	}
	return resp
}

// handleCalendarPage renders the HTML calendar, the page the snapshot
// command captures.
func (s *Server) handleCalendarPage(w http.ResponseWriter, r *http.Request) {
	now := s.clock()
	view, date, err := s.viewRequest(r, now)
	if err != nil {
		writeErr(w, err)
		return
	}

	page := render.BuildPage(s.recompute(view, date, now), s.cfg.Layout, now)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, page); err != nil {
		writeErr(w, err)
	}
}

// handleAgenda renders the same view as plain text.
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	now := s.clock()
	view, date, err := s.viewRequest(r, now)
	if err != nil {
		writeErr(w, err)
		return
	}

	out := render.Agenda(s.recompute(view, date, now), render.DefaultStyles(), 100)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out + "\n"))
}

// handleExport serves the whole store as an ICS file.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	events, _ := s.store.Snapshot()
	body, err := ics.Encode(events, s.clock())
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calgrid.ics"`)
	_, _ = w.Write(body)
}

// Tick drops a cached layout computed in an earlier minute so the
// current-time indicator moves even when nothing else changed.
func (s *Server) Tick(now time.Time) {
	minute := now.Unix() / 60
	s.layoutMu.Lock()
	if s.layoutCache != nil && s.layoutCache.key.minute != minute {
		s.layoutCache = nil
	}
	s.layoutMu.Unlock()
}
