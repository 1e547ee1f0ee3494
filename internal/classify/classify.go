// Package classify tags job records with keyword-derived themes.
package classify

import (
	"strings"

	"jobfinder-engine/internal/domain"
)

const (
	MaxTags  = 3
	Fallback = "General Tech"
	AllTags  = "All"
)

// Classify returns up to MaxTags labels in table order. A category is credited
// once, on its first matching keyword.
func Classify(rec domain.JobRecord, table Table) []string {
	text := strings.ToLower(rec.Title + " " + rec.Description + " " + rec.Company)

	var tags []string
	for _, c := range table.cats {
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				tags = append(tags, c.Label)
				break
			}
		}
		if len(tags) == MaxTags {
			break
		}
	}
	if len(tags) == 0 {
		return []string{Fallback}
	}
	return tags
}

// Tag returns copies of records with Tags set.
func Tag(records []domain.JobRecord, table Table) []domain.JobRecord {
	out := make([]domain.JobRecord, len(records))
	for i, r := range records {
		out[i] = r.WithTags(Classify(r, table))
	}
	return out
}
