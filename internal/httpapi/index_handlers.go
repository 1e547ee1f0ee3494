package httpapi

import (
	"bytes"
	"html/template"
	"net/http"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/session"
	"jobfinder-engine/internal/stats"
)

const displayDescription = 300

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"short": func(s string) string { return stats.Truncate(s, displayDescription) },
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Job Finder</title>
<style>
body { font-family: Arial, sans-serif; max-width: 960px; margin: 0 auto; padding: 20px; color: #333; }
.summary { background: #f0f8ff; padding: 12px; border-radius: 6px; }
.job { border: 1px solid #ddd; border-radius: 8px; padding: 16px; margin: 12px 0; }
.job.remote { border-left: 4px solid #28a745; }
.tag { display: inline-block; background: #eef; border-radius: 10px; padding: 2px 8px; margin-right: 4px; font-size: 12px; }
.meta { color: #666; font-size: 14px; }
</style>
</head>
<body>
<h1>Job Finder</h1>
{{if .Has}}
<p class="summary">{{.Summary}}</p>
<p class="meta">{{.Stats.Total}} jobs · {{.Stats.UniqueCompanies}} companies · {{.Stats.RemoteJobs}} remote · {{.Stats.UniqueLocations}} locations</p>
{{range .Jobs}}
<div class="job{{if .IsRemote}} remote{{end}}">
  <h3>{{.Title}}</h3>
  <p class="meta"><strong>{{.Company}}</strong> · {{.Location}} · {{.JobType}} · {{.PostingDate}}</p>
  <p>{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</p>
  <p>{{short .Description}}</p>
  {{if .ApplyLink}}<a href="{{.ApplyLink}}" target="_blank" rel="noopener">Apply</a>{{end}}
</div>
{{end}}
{{else}}
<p>No search yet. POST /search to run one.</p>
{{end}}
</body>
</html>
`))

type IndexHandler struct {
	Session *session.Session
}

type indexPage struct {
	Has     bool
	Summary string
	Stats   stats.Summary
	Jobs    []domain.JobRecord
}

func (h IndexHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}
	res, has := h.Session.Current()
	p := indexPage{Has: has, Summary: res.Summary, Stats: stats.Jobs(res.Records), Jobs: res.Records}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, p); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
