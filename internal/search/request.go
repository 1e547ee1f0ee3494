package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"jobfinder-engine/internal/filter"
)

// Bucket is one selectable job type and the terms appended to the keyword.
type Bucket struct {
	Name  string `yaml:"name" json:"name"`
	Terms string `yaml:"terms" json:"terms"`
}

var DefaultBuckets = []Bucket{
	{Name: "Fall 2025 Internship", Terms: "fall 2025 internship"},
	{Name: "Spring 2026 Internship", Terms: "spring 2026 internship"},
	{Name: "Summer 2026 Internship", Terms: "summer 2026 internship"},
	{Name: "Entry-Level / New-Grad Full-Time", Terms: "entry level new grad"},
}

var DatePostedValues = []string{"all", "today", "3days", "week", "month"}

type Request struct {
	Keyword      string              `json:"keyword"`
	Location     string              `json:"location"`
	Buckets      []string            `json:"jobTypes"`
	LocationMode filter.LocationMode `json:"locationMode"`
	SortBy       filter.SortOrder    `json:"sortBy"`
	MaxResults   int                 `json:"maxResults"`
	DatePosted   string              `json:"datePosted"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// Validate checks the request against the known buckets and returns it with
// defaults filled in and bucket names in their canonical spelling.
func (r Request) Validate(known []Bucket) (Request, error) {
	kw := strings.TrimSpace(r.Keyword)
	switch {
	case kw == "":
		return r, invalid("keyword", "Please enter a job keyword to search.")
	case strings.ContainsAny(kw, `<>"'`):
		return r, invalid("keyword", "Keyword contains invalid characters.")
	case strings.ContainsAny(r.Location, `<>"'`):
		return r, invalid("location", "Location contains invalid characters.")
	case utf8.RuneCountInString(kw) < 2:
		return r, invalid("keyword", "Keyword must be at least 2 characters long.")
	case utf8.RuneCountInString(kw) > 100:
		return r, invalid("keyword", "Keyword is too long (max 100 characters).")
	}
	r.Keyword = kw
	r.Location = strings.TrimSpace(r.Location)

	if len(r.Buckets) == 0 {
		return r, invalid("jobTypes", "Please select at least one job type.")
	}
	names := make([]string, 0, len(r.Buckets))
	seen := map[string]bool{}
	for _, name := range r.Buckets {
		b, ok := findBucket(known, name)
		if !ok {
			return r, invalid("jobTypes", fmt.Sprintf("Unknown job type %q.", name))
		}
		if !seen[b.Name] {
			seen[b.Name] = true
			names = append(names, b.Name)
		}
	}
	r.Buckets = names

	mode, err := filter.ParseLocationMode(string(r.LocationMode))
	if err != nil {
		return r, invalid("locationMode", err.Error())
	}
	r.LocationMode = mode

	order, err := filter.ParseSortOrder(string(r.SortBy))
	if err != nil {
		return r, invalid("sortBy", err.Error())
	}
	r.SortBy = order

	if r.MaxResults == 0 {
		r.MaxResults = filter.DefaultLimit
	}
	if !filter.ValidLimit(r.MaxResults) {
		return r, invalid("maxResults", fmt.Sprintf("Max results must be one of %v.", filter.ResultLimits))
	}

	r.DatePosted = strings.ToLower(strings.TrimSpace(r.DatePosted))
	if r.DatePosted == "" {
		r.DatePosted = "all"
	}
	if !contains(DatePostedValues, r.DatePosted) {
		return r, invalid("datePosted", fmt.Sprintf("Date posted must be one of %v.", DatePostedValues))
	}
	return r, nil
}

func findBucket(known []Bucket, name string) (Bucket, bool) {
	name = strings.TrimSpace(name)
	for _, b := range known {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Bucket{}, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
