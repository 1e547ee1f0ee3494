// Package source defines job providers and the query they answer.
package source

import (
	"context"
	"strings"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
)

const UserAgent = "JobFinder/1.0 (+local)"

// Provider returns raw postings for a query. Implementations return a
// *domain.ConfigurationError before any network call when a credential is
// missing and a *domain.TransportError for failed calls.
type Provider interface {
	Name() string
	Fields() normalize.FieldMap
	Search(ctx context.Context, q Query) ([]domain.RawPosting, error)
}

type Query struct {
	Keyword  string
	Terms    string // bucket search terms, e.g. "fall 2025 internship"
	Location string
	Remote   bool

	Page       int
	NumPages   int
	DatePosted string // all, today, 3days, week, month
}

// Text is the free-text query sent to search APIs.
func (q Query) Text() string {
	parts := []string{strings.TrimSpace(q.Keyword)}
	if t := strings.TrimSpace(q.Terms); t != "" {
		parts = append(parts, t)
	}
	if q.Remote {
		parts = append(parts, "remote")
	}
	if l := strings.TrimSpace(q.Location); l != "" {
		parts = append(parts, l)
	}
	return strings.Join(parts, " ")
}

// Matches is the local filter board providers apply, since boards have no
// search endpoint: the keyword must appear in the title or description and the
// location, when set, in the location (remote postings always pass it).
func (q Query) Matches(title, description, location string) bool {
	kw := strings.ToLower(strings.TrimSpace(q.Keyword))
	if kw != "" && !strings.Contains(strings.ToLower(title+" "+description), kw) {
		return false
	}
	loc := strings.ToLower(location)
	if q.Remote && !strings.Contains(loc, "remote") {
		return false
	}
	if want := strings.ToLower(strings.TrimSpace(q.Location)); want != "" {
		return strings.Contains(loc, want) || strings.Contains(loc, "remote")
	}
	return true
}

func (q Query) WithDefaults() Query {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.NumPages <= 0 {
		q.NumPages = 1
	}
	if strings.TrimSpace(q.DatePosted) == "" {
		q.DatePosted = "all"
	}
	return q
}
