package normalize

import (
	"testing"

	"jobfinder-engine/internal/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"utc z", "2025-07-10T12:00:00.000Z", "2025-07-10", true},
		{"offset keeps stated day", "2025-07-10T23:30:00-05:00", "2025-07-10", true},
		{"offset ahead of utc", "2025-07-10T01:30:00+09:00", "2025-07-10", true},
		{"offset with space", "2025-01-01 23:30:00-05:00", "2025-01-01", true},
		{"naive", "2025-07-10T08:15:00", "2025-07-10", true},
		{"bare date", "2025-07-10", "2025-07-10", true},
		{"epoch seconds", int64(1720612800), "2024-07-10", true},
		{"epoch float", 1720612800.0, "2024-07-10", true},
		{"epoch millis", int64(1720612800000), "2024-07-10", true},
		{"epoch string", "1720612800", "2024-07-10", true},
		{"relative", "2 days ago", "", false},
		{"empty", "", "", false},
		{"zero", 0, "", false},
		{"bool", true, "", false},
		{"nil", nil, "", false},
		{"huge", 1e300, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseDate(%#v) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFormatPostingDateFallsThroughAliases(t *testing.T) {
	raw := domain.RawPosting{
		"job_posted_at_datetime_utc": "not a date",
		"job_posted_at_timestamp":    int64(1720612800),
	}
	if got := FormatPostingDate(raw, JSearchFields.PostedAt); got != "2024-07-10" {
		t.Fatalf("got %q", got)
	}
	if got := FormatPostingDate(domain.RawPosting{"job_posted_at": "yesterday"}, JSearchFields.PostedAt); got != domain.NotAvailable {
		t.Fatalf("got %q", got)
	}
}
