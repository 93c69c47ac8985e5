package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"calgrid/internal/config"
	appLog "calgrid/internal/log"
	"calgrid/internal/model"
)

// eventDTO is the JSON shape of an event.
type eventDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	SourceID    string    `json:"source_id"`
}

func toDTO(ev model.Event) eventDTO {
	return eventDTO{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Start:       ev.Start,
		End:         ev.End,
		SourceID:    ev.SourceID,
	}
}

// eventRequest is the body of POST /api/events and PUT /api/events/{id}.
// Times accept RFC3339 or "2006-01-02T15:04" in the display timezone.
type eventRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

type eventsResponse struct {
	Events  []eventDTO `json:"events"`
	Version uint64     `json:"version"`
}

const maxRequestBody = 1 << 20

func (s *Server) decodeEvent(r *http.Request) (model.Event, error) {
	var req eventRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		return model.Event{}, fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}

	start, err := config.ParseSeedTime(req.Start, s.loc)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: start: %v", errBadRequest, err)
	}
	end, err := config.ParseSeedTime(req.End, s.loc)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: end: %v", errBadRequest, err)
	}

	return model.Event{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Start:       start,
		End:         end,
	}, nil
}

// handleEvents lists (GET) or creates (POST) events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		events, version := s.store.Snapshot()
		dtos := make([]eventDTO, 0, len(events))
		for _, ev := range events {
			dtos = append(dtos, toDTO(ev))
		}
		writeJSON(w, http.StatusOK, eventsResponse{Events: dtos, Version: version})

	case http.MethodPost:
		ev, err := s.decodeEvent(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		created, err := s.store.Add(ev)
		if err != nil {
			writeErr(w, err)
			return
		}
		appLog.Info("api event created", "id", created.ID)
		writeJSON(w, http.StatusCreated, toDTO(created))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleEvent reads (GET), replaces (PUT) or deletes (DELETE) one event.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		ev, ok := s.store.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeJSON(w, http.StatusOK, toDTO(ev))

	case http.MethodPut:
		ev, err := s.decodeEvent(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		ev.ID = id
		updated, err := s.store.Edit(ev)
		if err != nil {
			writeErr(w, err)
			return
		}
		appLog.Info("api event updated", "id", id)
		writeJSON(w, http.StatusOK, toDTO(updated))

	case http.MethodDelete:
		if err := s.store.Delete(id); err != nil {
			writeErr(w, err)
			return
		}
		appLog.Info("api event deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

type refreshResponse struct {
	Sources  int      `json:"sources"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// handleRefresh re-imports all ICS sources synchronously.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if s.importer == nil {
		writeError(w, http.StatusServiceUnavailable, "no ICS sources configured")
		return
	}

	rep := s.importer.Run(r.Context())
	resp := refreshResponse{Sources: rep.Sources, Imported: rep.Imported, Skipped: rep.Skipped}
	for _, err := range rep.Errors {
		resp.Errors = append(resp.Errors, err.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}
