// Package stats computes batch summaries shown next to search results.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"jobfinder-engine/internal/classify"
	"jobfinder-engine/internal/domain"
)

type Summary struct {
	Total           int `json:"total"`
	UniqueCompanies int `json:"uniqueCompanies"`
	RemoteJobs      int `json:"remoteJobs"`
	UniqueLocations int `json:"uniqueLocations"`
}

func Jobs(records []domain.JobRecord) Summary {
	companies := map[string]struct{}{}
	locations := map[string]struct{}{}
	s := Summary{Total: len(records)}
	for _, r := range records {
		companies[r.Company] = struct{}{}
		locations[r.Location] = struct{}{}
		if r.IsRemote() {
			s.RemoteJobs++
		}
	}
	s.UniqueCompanies = len(companies)
	s.UniqueLocations = len(locations)
	return s
}

// SearchSummary renders the one-line banner shown after a search.
func SearchSummary(keyword, location string, count int, at time.Time) string {
	where := " globally"
	if loc := strings.TrimSpace(location); loc != "" {
		where = " in " + loc
	}
	return fmt.Sprintf("Found %d jobs for '%s'%s on %s at %s",
		count, strings.TrimSpace(keyword), where, at.Format("2006-01-02"), at.Format("15:04:05"))
}

type TagShare struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// TagDistribution is TagStatistics with percentages of the batch size, cut to
// top entries when top > 0.
func TagDistribution(records []domain.JobRecord, top int) []TagShare {
	counts := classify.TagStatistics(records)
	if top > 0 && len(counts) > top {
		counts = counts[:top]
	}
	out := make([]TagShare, 0, len(counts))
	for _, c := range counts {
		pct := 0.0
		if len(records) > 0 {
			pct = math.Round(float64(c.Count)*1000/float64(len(records))) / 10
		}
		out = append(out, TagShare{Label: c.Label, Count: c.Count, Percent: pct})
	}
	return out
}

// Truncate shortens s for display.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
