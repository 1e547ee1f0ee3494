package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"jobfinder-engine/internal/domain"
)

const DateLayout = "2006-01-02"

// 9999-12-31T23:59:59Z
const maxEpoch = 253402300799

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	DateLayout,
}

// FormatPostingDate tries each alias in order and returns the first value that
// parses as a date, or "Not available".
func FormatPostingDate(raw domain.RawPosting, aliases []string) string {
	for _, key := range aliases {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if d, ok := ParseDate(v); ok {
			return d
		}
	}
	return domain.NotAvailable
}

// ParseDate accepts ISO-8601 strings and numeric epochs and reports the
// calendar day. A string keeps the day it states in its own offset; epochs are
// read in UTC.
func ParseDate(v any) (string, bool) {
	switch t := v.(type) {
	case nil, bool:
		return "", false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", false
		}
		for _, layout := range isoLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.Format(DateLayout), true
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(f)
		}
		return "", false
	default:
		f, err := cast.ToFloat64E(t)
		if err != nil {
			return "", false
		}
		return fromEpoch(f)
	}
}

func fromEpoch(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return "", false
	}
	// millisecond epochs (Lever createdAt and friends)
	if f > 1e12 {
		f /= 1000
	}
	if f > maxEpoch {
		return "", false
	}
	return time.Unix(int64(f), 0).UTC().Format(DateLayout), true
}
