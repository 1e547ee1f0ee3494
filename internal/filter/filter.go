// Package filter partitions, sorts and limits tagged record batches.
package filter

import (
	"fmt"
	"strings"

	"jobfinder-engine/internal/domain"
)

type LocationMode string

const (
	OnsiteOnly    LocationMode = "On-site Only"
	RemoteOnly    LocationMode = "Remote Only"
	IncludeRemote LocationMode = "Include Remote"
)

var LocationModes = []LocationMode{OnsiteOnly, RemoteOnly, IncludeRemote}

// ParseLocationMode accepts the display names and a few short aliases. Empty
// means IncludeRemote.
func ParseLocationMode(s string) (LocationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "include remote", "include", "all", "any":
		return IncludeRemote, nil
	case "on-site only", "onsite only", "onsite", "on-site":
		return OnsiteOnly, nil
	case "remote only", "remote":
		return RemoteOnly, nil
	}
	return "", fmt.Errorf("unknown location mode %q", s)
}

func IsRemote(r domain.JobRecord) bool { return r.IsRemote() }

func Remote(records []domain.JobRecord) []domain.JobRecord {
	return keep(records, func(r domain.JobRecord) bool { return r.IsRemote() })
}

// Onsite is the exact complement of Remote.
func Onsite(records []domain.JobRecord) []domain.JobRecord {
	return keep(records, func(r domain.JobRecord) bool { return !r.IsRemote() })
}

func ApplyLocationMode(records []domain.JobRecord, mode LocationMode) []domain.JobRecord {
	switch mode {
	case OnsiteOnly:
		return Onsite(records)
	case RemoteOnly:
		return Remote(records)
	default:
		return records
	}
}

func keep(records []domain.JobRecord, pred func(domain.JobRecord) bool) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
