package classify

import (
	"sort"
	"strings"

	"jobfinder-engine/internal/domain"
)

type TagCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TagStatistics counts labels across records, highest first. Ties keep the
// order in which labels were first seen.
func TagStatistics(records []domain.JobRecord) []TagCount {
	idx := map[string]int{}
	var out []TagCount
	for _, r := range records {
		for _, t := range r.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			i, ok := idx[t]
			if !ok {
				i = len(out)
				idx[t] = i
				out = append(out, TagCount{Label: t})
			}
			out[i].Count++
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out
}

// FilterByTag keeps records carrying label (case-insensitive). "All" or an
// empty label returns records as given.
func FilterByTag(records []domain.JobRecord, label string) []domain.JobRecord {
	label = strings.TrimSpace(label)
	if label == "" || label == AllTags {
		return records
	}
	out := make([]domain.JobRecord, 0, len(records))
	for _, r := range records {
		if r.HasTag(label) {
			out = append(out, r)
		}
	}
	return out
}
