// Package sheet syncs job records into a spreadsheet-style table.
package sheet

import (
	"strings"

	"github.com/spf13/cast"

	"jobfinder-engine/internal/domain"
)

const (
	StatusPending     = "PENDING"
	DescriptionLimit  = 250
	DefaultSourceName = "JSearch API"
)

// Column names as they appear in the remote table.
const (
	ColTitle          = "Title"
	ColCompany        = "Company"
	ColLocation       = "Location"
	ColIndustry       = "Industry"
	ColJobType        = "Job Type"
	ColInternshipType = "Internship Type"
	ColPostingDate    = "Posting Date"
	ColTags           = "Tags"
	ColDescription    = "Job Description"
	ColLink           = "Link"
	ColSource         = "Source"
	ColQuery          = "Query"
	ColStatus         = "Status"
	ColDedupKey       = "Dedup Key"
)

type Row struct {
	Title          string
	Company        string
	Location       string
	Industry       string
	JobType        string
	InternshipType string
	PostingDate    string
	Tags           string
	Description    string
	Link           string
	Source         string
	Query          string
	Status         string
	DedupKey       string
}

// RowFromRecord projects a tagged record onto the sheet columns.
func RowFromRecord(rec domain.JobRecord, source string) Row {
	if source == "" {
		source = DefaultSourceName
	}
	desc := []rune(rec.Description)
	if len(desc) > DescriptionLimit {
		desc = desc[:DescriptionLimit]
	}
	industry := ""
	if len(rec.Tags) > 0 {
		industry = rec.Tags[0]
	}
	r := Row{
		Title:          rec.Title,
		Company:        rec.Company,
		Location:       rec.Location,
		Industry:       industry,
		JobType:        rec.JobType,
		InternshipType: InternshipType(rec.JobType),
		PostingDate:    rec.PostingDate,
		Tags:           strings.Join(rec.Tags, ", "),
		Description:    string(desc),
		Link:           rec.ApplyLink,
		Source:         source,
		Query:          rec.QueryFlag,
		Status:         StatusPending,
	}
	r.DedupKey = LinkKey(r)
	return r
}

// InternshipType buckets a free-form job type into the sheet's single-select
// values.
func InternshipType(jobType string) string {
	t := strings.ToLower(jobType)
	switch {
	case strings.Contains(t, "intern"):
		return "Internship"
	case strings.Contains(t, "full"):
		return "Full-time"
	case strings.Contains(t, "part"):
		return "Part-time"
	}
	return "Other"
}

// Fields returns the non-empty columns, ready to send.
func (r Row) Fields() map[string]any {
	out := map[string]any{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	set(ColTitle, r.Title)
	set(ColCompany, r.Company)
	set(ColLocation, r.Location)
	set(ColIndustry, r.Industry)
	set(ColJobType, r.JobType)
	set(ColInternshipType, r.InternshipType)
	set(ColPostingDate, r.PostingDate)
	set(ColTags, r.Tags)
	set(ColDescription, r.Description)
	set(ColLink, r.Link)
	set(ColSource, r.Source)
	set(ColQuery, r.Query)
	set(ColStatus, r.Status)
	set(ColDedupKey, r.DedupKey)
	return out
}

// RowFromFields reads a row back from a remote field set. Unknown or
// non-string values are coerced.
func RowFromFields(f map[string]any) Row {
	s := func(k string) string { return cast.ToString(f[k]) }
	return Row{
		Title:          s(ColTitle),
		Company:        s(ColCompany),
		Location:       s(ColLocation),
		Industry:       s(ColIndustry),
		JobType:        s(ColJobType),
		InternshipType: s(ColInternshipType),
		PostingDate:    s(ColPostingDate),
		Tags:           s(ColTags),
		Description:    s(ColDescription),
		Link:           s(ColLink),
		Source:         s(ColSource),
		Query:          s(ColQuery),
		Status:         s(ColStatus),
		DedupKey:       s(ColDedupKey),
	}
}
