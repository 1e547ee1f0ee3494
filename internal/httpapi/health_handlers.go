package httpapi

import (
	"net/http"
	"time"

	"jobfinder-engine/internal/session"
)

type HealthHandler struct {
	Started time.Time
	Session *session.Session
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	}
	if !h.Started.IsZero() {
		out["uptime_s"] = int(time.Since(h.Started).Seconds())
	}
	if h.Session != nil {
		out["results"] = len(h.Session.Records())
	}
	writeJSON(w, out)
}
