package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobfinder-engine/internal/domain"
)

// Since is a posting-date cutoff. The zero value keeps everything.
type Since struct {
	cutoff time.Time
}

// ParseSince accepts "all", "today" or "<n>d".
func ParseSince(s string, now time.Time) (Since, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case s == "" || s == "all":
		return Since{}, nil
	case s == "today":
		return Since{cutoff: day}, nil
	case strings.HasSuffix(s, "d"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || n < 0 {
			return Since{}, fmt.Errorf("since %q: want today, all or <n>d", s)
		}
		return Since{cutoff: day.AddDate(0, 0, -n)}, nil
	}
	return Since{}, fmt.Errorf("since %q: want today, all or <n>d", s)
}

func (s Since) Active() bool { return !s.cutoff.IsZero() }

// Keep reports whether rec was posted on or after the cutoff. Undated records
// are dropped while a cutoff is active.
func (s Since) Keep(rec domain.JobRecord) bool {
	if !s.Active() {
		return true
	}
	d, err := time.Parse("2006-01-02", rec.PostingDate)
	if err != nil {
		return false
	}
	return !d.Before(s.cutoff)
}
