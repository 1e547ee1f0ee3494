package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
)

const (
	MaxCards        = 10
	CardDescription = 200
)

// Preferences describe the search a digest was built from.
type Preferences struct {
	Keyword      string   `json:"keyword" yaml:"keyword"`
	Location     string   `json:"location" yaml:"location"`
	JobTypes     []string `json:"jobTypes" yaml:"job_types"`
	LocationMode string   `json:"locationMode" yaml:"location_mode"`
	Frequency    string   `json:"frequency" yaml:"frequency"`
}

type card struct {
	Title       string
	Company     string
	Location    string
	Remote      bool
	Description string
	ApplyLink   string
}

type page struct {
	Total int
	Date  string
	Prefs Preferences
	Cards []card
}

var tmpl = template.Must(template.New("digest").Parse(`<html>
<head>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.header { background-color: #FF4B4B; color: white; padding: 20px; text-align: center; }
.job-card { border: 1px solid #ddd; margin: 10px 0; padding: 15px; border-radius: 5px; }
.job-title { font-weight: bold; font-size: 18px; color: #333; }
.company { color: #666; margin: 5px 0; }
.location { color: #888; font-style: italic; }
.remote { color: #28a745; }
.description { color: #666; margin: 10px 0; }
.apply-btn { background-color: #FF4B4B; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 10px; }
.footer { text-align: center; margin-top: 30px; color: #666; }
</style>
</head>
<body>
<div class="header">
<h1>Your Daily Job Digest</h1>
<p class="count">Found {{.Total}} new opportunities matching your preferences</p>
{{- with .Prefs.Keyword}}
<p class="prefs">Search: {{.}}{{with $.Prefs.Location}} in {{.}}{{end}}</p>
{{- end}}
<p class="date">{{.Date}}</p>
</div>
{{- range .Cards}}
<div class="job-card">
<div class="job-title">{{.Title}}</div>
<div class="company">🏢 {{.Company}}</div>
<div class="location">📍 {{.Location}}</div>
{{- if .Remote}}
<div class="remote">🏠 Remote Position</div>
{{- end}}
{{- with .Description}}
<div class="description">{{.}}</div>
{{- end}}
<a href="{{.ApplyLink}}" class="apply-btn">Apply Now</a>
</div>
{{- end}}
<div class="footer">
<p>This digest was generated by the AI/CS Entry-Level &amp; Internship Finder</p>
<p>To modify your preferences or unsubscribe, visit the application.</p>
</div>
</body>
</html>
`))

// RenderHTML renders the digest body. The header counts every record; only
// the first MaxCards become cards.
func RenderHTML(records []domain.JobRecord, prefs Preferences, now time.Time) (string, error) {
	p := page{
		Total: len(records),
		Date:  now.Format("January 02, 2006"),
		Prefs: prefs,
	}
	for i, r := range records {
		if i == MaxCards {
			break
		}
		c := card{
			Title:     r.Title,
			Company:   r.Company,
			Location:  r.Location,
			Remote:    strings.Contains(r.Location, "Remote"),
			ApplyLink: r.ApplyLink,
		}
		if d := strings.TrimSpace(r.Description); d != "" {
			rs := []rune(d)
			if len(rs) > CardDescription {
				rs = rs[:CardDescription]
			}
			c.Description = string(rs) + normalize.Ellipsis
		}
		p.Cards = append(p.Cards, c)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}

func Subject(n int) string {
	return fmt.Sprintf("Daily Job Digest - %d New Opportunities", n)
}
