package stats

import (
	"testing"
	"time"

	"jobfinder-engine/internal/domain"
)

func TestJobs(t *testing.T) {
	got := Jobs([]domain.JobRecord{
		{Title: "a", Company: "Acme", Location: "Austin, Remote"},
		{Title: "b", Company: "Acme", Location: "Boston"},
		{Title: "c", Company: "Beta", Location: "Boston"},
	})
	want := Summary{Total: 3, UniqueCompanies: 2, RemoteJobs: 1, UniqueLocations: 2}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if empty := Jobs(nil); empty != (Summary{}) {
		t.Fatalf("empty batch = %+v", empty)
	}
}

func TestSearchSummary(t *testing.T) {
	at := time.Date(2025, 7, 10, 9, 5, 3, 0, time.UTC)
	if got := SearchSummary("ml", "Austin", 12, at); got != "Found 12 jobs for 'ml' in Austin on 2025-07-10 at 09:05:03" {
		t.Fatalf("got %q", got)
	}
	if got := SearchSummary("ml", " ", 0, at); got != "Found 0 jobs for 'ml' globally on 2025-07-10 at 09:05:03" {
		t.Fatalf("got %q", got)
	}
}

func TestTagDistribution(t *testing.T) {
	recs := []domain.JobRecord{
		{Title: "1", Tags: []string{"ML"}},
		{Title: "2", Tags: []string{"ML", "DS"}},
		{Title: "3", Tags: []string{"CV"}},
	}
	got := TagDistribution(recs, 2)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0].Label != "ML" || got[0].Count != 2 || got[0].Percent != 66.7 {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].Label != "DS" || got[1].Percent != 33.3 {
		t.Fatalf("second = %+v", got[1])
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo world", 5); got != "héllo..." {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
}
