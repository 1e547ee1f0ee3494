package search

import (
	"errors"
	"strings"
	"testing"

	"jobfinder-engine/internal/filter"
)

func TestValidateDefaults(t *testing.T) {
	got, err := Request{Keyword: "  ml ", Buckets: []string{"fall 2025 internship", "Fall 2025 Internship"}}.Validate(DefaultBuckets)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Keyword != "ml" || got.MaxResults != 25 || got.DatePosted != "all" {
		t.Fatalf("got %+v", got)
	}
	if got.LocationMode != filter.IncludeRemote || got.SortBy != filter.ByRelevance {
		t.Fatalf("got %+v", got)
	}
	if len(got.Buckets) != 1 || got.Buckets[0] != "Fall 2025 Internship" {
		t.Fatalf("buckets = %v", got.Buckets)
	}
}

func TestValidateRejects(t *testing.T) {
	ok := Request{Keyword: "data", Buckets: []string{"Summer 2026 Internship"}}
	tests := []struct {
		name  string
		mod   func(r *Request)
		field string
	}{
		{"empty keyword", func(r *Request) { r.Keyword = "  " }, "keyword"},
		{"short keyword", func(r *Request) { r.Keyword = "a" }, "keyword"},
		{"long keyword", func(r *Request) { r.Keyword = strings.Repeat("x", 101) }, "keyword"},
		{"keyword chars", func(r *Request) { r.Keyword = "<script>" }, "keyword"},
		{"location chars", func(r *Request) { r.Location = `"nyc"` }, "location"},
		{"no buckets", func(r *Request) { r.Buckets = nil }, "jobTypes"},
		{"unknown bucket", func(r *Request) { r.Buckets = []string{"Winter"} }, "jobTypes"},
		{"bad limit", func(r *Request) { r.MaxResults = 30 }, "maxResults"},
		{"bad mode", func(r *Request) { r.LocationMode = "moon" }, "locationMode"},
		{"bad sort", func(r *Request) { r.SortBy = "salary" }, "sortBy"},
		{"bad date", func(r *Request) { r.DatePosted = "year" }, "datePosted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ok
			r.Buckets = append([]string(nil), ok.Buckets...)
			tt.mod(&r)
			_, err := r.Validate(DefaultBuckets)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}
