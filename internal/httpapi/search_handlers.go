package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"jobfinder-engine/internal/classify"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/digest"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/search"
	"jobfinder-engine/internal/session"
	"jobfinder-engine/internal/stats"
)

type SearchHandler struct {
	Search  Searcher
	Session *session.Session
	Mailer  Mailer
	Hub     *events.Hub
	CfgVal  *atomic.Value // stores config.Config
	Log     *slog.Logger
}

type searchRequest struct {
	search.Request
	EmailTo   string `json:"emailTo"`
	Frequency string `json:"frequency"`
}

func (h SearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	var in searchRequest
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	reqID := RequestIDFrom(r.Context())

	req := currentConfig(h.CfgVal).WithDefaults(in.Request)
	res, err := h.Search.Search(r.Context(), req)
	if err != nil {
		h.Log.Warn("search failed", "request_id", reqID, "keyword", req.Keyword, "error", err)
		// A rejected request never ran; a failed run leaves an empty batch.
		var ve *search.ValidationError
		if !errors.As(err, &ve) {
			h.Session.SetResult(search.Result{Request: req, At: time.Now()})
		}
		writeSearchError(w, r, err)
		return
	}
	h.Session.SetResult(res)

	out := SearchResponse{
		Summary:  res.Summary,
		Count:    len(res.Records),
		Jobs:     res.Records,
		Stats:    stats.Jobs(res.Records),
		Tags:     classify.TagStatistics(res.Records),
		Searched: res.At.Format(time.RFC3339),
	}

	if in.EmailTo != "" {
		out.Digest, out.Warning = h.sendDigest(r, in, res)
	}

	h.Hub.Emit(reqID, events.TypeSearchCompleted, map[string]any{
		"keyword": res.Request.Keyword,
		"count":   len(res.Records),
	})
	WriteJSON(w, http.StatusOK, out)
}

// sendDigest mails the batch when asked to. Failures come back as a warning;
// the search itself still succeeded.
func (h SearchHandler) sendDigest(r *http.Request, in searchRequest, res search.Result) (*DigestStatus, string) {
	st := &DigestStatus{To: in.EmailTo}
	switch {
	case h.Mailer == nil:
		st.Message = "Email digest is not available."
	case len(res.Records) == 0:
		st.Message = "No jobs found; digest not sent."
	default:
		prefs := digest.Preferences{
			Keyword:      res.Request.Keyword,
			Location:     res.Request.Location,
			JobTypes:     res.Request.Buckets,
			LocationMode: string(res.Request.LocationMode),
			Frequency:    in.Frequency,
		}
		st.Sent, st.Message = h.Mailer.SendDigest(r.Context(), in.EmailTo, res.Records, prefs)
	}
	if !st.Sent {
		return st, st.Message
	}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeDigestSent, map[string]any{"to": in.EmailTo, "count": len(res.Records)})
	return st, ""
}

func (h SearchHandler) Buckets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"jobTypes":      h.Search.Buckets(),
		"categories":    h.Search.Table().Labels(),
		"locationModes": filter.LocationModes,
		"sortOrders":    filter.SortOrders,
		"limits":        filter.ResultLimits,
		"datePosted":    search.DatePostedValues,
	})
}

func currentConfig(v *atomic.Value) config.Config {
	if v != nil {
		if cfg, ok := v.Load().(config.Config); ok {
			return cfg
		}
	}
	return config.Default()
}
