package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/session"
)

type SavedHandler struct {
	Session *session.Session
	Hub     *events.Hub
	Now     func() time.Time
}

// saveRequest names a job either by its position in the current results or
// by value.
type saveRequest struct {
	Index *int              `json:"index,omitempty"`
	Job   *domain.JobRecord `json:"job,omitempty"`
}

func (h SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	saved, err := h.Session.Saved(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if saved == nil {
		saved = []domain.JobRecord{}
	}
	writeJSON(w, map[string]any{"count": len(saved), "jobs": saved})
}

func (h SavedHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in saveRequest
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	var (
		rec   domain.JobRecord
		added bool
		err   error
	)
	switch {
	case in.Job != nil:
		rec = *in.Job
		if strings.TrimSpace(rec.Title) == "" {
			writeErrorField(w, r, http.StatusBadRequest, "invalid_request", "job title is required", "job")
			return
		}
		added, err = h.Session.Save(r.Context(), rec)
	case in.Index != nil:
		rec, added, err = h.Session.SaveAt(r.Context(), *in.Index)
	default:
		writeErrorField(w, r, http.StatusBadRequest, "invalid_request", "send index or job", "index")
		return
	}
	if errors.Is(err, session.ErrNoSuchResult) {
		writeErrorField(w, r, http.StatusNotFound, "not_found", err.Error(), "index")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	if added {
		h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobSaved, map[string]any{"title": rec.Title, "company": rec.Company})
	}
	writeJSON(w, map[string]any{"added": added, "job": rec})
}

// Clear empties the saved list.
func (h SavedHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.ClearSaved(r.Context()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobUnsaved, map[string]any{"all": true})
	writeJSON(w, map[string]any{"ok": true})
}

// DeleteByPath expects /saved/{n} with n the zero-based list position.
func (h SavedHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	s := strings.TrimPrefix(r.URL.Path, "/saved/")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid position")
		return
	}
	rec, err := h.Session.Unsave(r.Context(), n)
	if errors.Is(err, session.ErrNoSuchSaved) {
		WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobUnsaved, map[string]any{"title": rec.Title, "company": rec.Company})
	writeJSON(w, map[string]any{"ok": true, "job": rec})
}

func (h SavedHandler) Export(w http.ResponseWriter, r *http.Request) {
	saved, err := h.Session.Saved(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	writeCSV(w, r, saved, "saved_jobs", now)
}
