package httpapi

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"jobfinder-engine/internal/classify"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/export"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/session"
	"jobfinder-engine/internal/stats"
)

type JobsHandler struct {
	Session *session.Session
	Now     func() time.Time
}

// view applies the ?mode= and ?tag= filters to the current batch.
func (h JobsHandler) view(w http.ResponseWriter, r *http.Request) ([]domain.JobRecord, filter.LocationMode, string, bool) {
	q := r.URL.Query()
	mode, err := filter.ParseLocationMode(q.Get("mode"))
	if err != nil {
		writeErrorField(w, r, http.StatusBadRequest, "invalid_request", err.Error(), "mode")
		return nil, "", "", false
	}
	tag := q.Get("tag")
	if tag == "" {
		tag = classify.AllTags
	}
	recs := filter.ApplyLocationMode(h.Session.Records(), mode)
	return classify.FilterByTag(recs, tag), mode, tag, true
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, mode, tag, ok := h.view(w, r)
	if !ok {
		return
	}
	out := JobsResponse{Count: len(recs), Tag: tag, Mode: string(mode), Jobs: recs}
	if out.Jobs == nil {
		out.Jobs = []domain.JobRecord{}
	}
	if at := h.Session.SearchedAt(); !at.IsZero() {
		out.Searched = at.Format(time.RFC3339)
	}
	writeJSON(w, out)
}

// Tags lists the filter options: "All" followed by the tags present in the
// batch, most frequent first.
func (h JobsHandler) Tags(w http.ResponseWriter, r *http.Request) {
	counts := classify.TagStatistics(h.Session.Records())
	options := make([]string, 0, len(counts)+1)
	options = append(options, classify.AllTags)
	for _, c := range counts {
		options = append(options, c.Label)
	}
	writeJSON(w, map[string]any{"options": options, "counts": counts})
}

func (h JobsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	top := 10
	if s := r.URL.Query().Get("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeErrorField(w, r, http.StatusBadRequest, "invalid_request", "top must be a non-negative integer", "top")
			return
		}
		top = n
	}
	recs := h.Session.Records()
	writeJSON(w, map[string]any{
		"summary": stats.Jobs(recs),
		"tags":    stats.TagDistribution(recs, top),
	})
}

func (h JobsHandler) Export(w http.ResponseWriter, r *http.Request) {
	recs, _, _, ok := h.view(w, r)
	if !ok {
		return
	}
	name := "job_search_results"
	if res, has := h.Session.Current(); has {
		name += "_" + res.Request.Keyword
	}
	writeCSV(w, r, recs, name, h.now())
}

func (h JobsHandler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// writeCSV buffers the export so a write failure can still become a JSON error.
func writeCSV(w http.ResponseWriter, r *http.Request, recs []domain.JobRecord, name string, at time.Time) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, recs); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	filename := export.SanitizeFilename(name+"_"+at.Format("20060102_150405")) + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(buf.Bytes())
}
