package filter

import (
	"fmt"
	"sort"
	"strings"

	"jobfinder-engine/internal/domain"
)

type SortOrder string

const (
	ByRelevance  SortOrder = "Relevance"
	ByDatePosted SortOrder = "Date Posted"
	ByCompany    SortOrder = "Company"
)

var SortOrders = []SortOrder{ByRelevance, ByDatePosted, ByCompany}

var ResultLimits = []int{10, 25, 50, 100}

const DefaultLimit = 25

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relevance":
		return ByRelevance, nil
	case "date posted", "date", "newest":
		return ByDatePosted, nil
	case "company":
		return ByCompany, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Sort returns a sorted copy. Relevance keeps provider order; Date Posted puts
// the newest first and undated records last; Company is A to Z. All are stable.
func Sort(records []domain.JobRecord, order SortOrder) []domain.JobRecord {
	out := append([]domain.JobRecord(nil), records...)
	switch order {
	case ByDatePosted:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := dated(out[i]), dated(out[j])
			if a == "" || b == "" {
				return b == "" && a != ""
			}
			return a > b
		})
	case ByCompany:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Company) < strings.ToLower(out[j].Company)
		})
	}
	return out
}

func dated(r domain.JobRecord) string {
	if r.PostingDate == domain.NotAvailable {
		return ""
	}
	return r.PostingDate
}

// Limit keeps the first n records; n <= 0 keeps all.
func Limit(records []domain.JobRecord, n int) []domain.JobRecord {
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[:n:n]
}

func ValidLimit(n int) bool {
	for _, l := range ResultLimits {
		if l == n {
			return true
		}
	}
	return false
}
