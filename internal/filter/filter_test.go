package filter

import (
	"testing"

	"jobfinder-engine/internal/domain"
)

func sample() []domain.JobRecord {
	return []domain.JobRecord{
		{Title: "ML Intern", Company: "Acme", Location: "Austin, Remote"},
		{Title: "Data Analyst", Company: "Beta", Location: "Boston, MA"},
		{Title: "Support (WFH)", Company: "Gamma", Location: "Not specified"},
		{Title: "Engineer", Company: "Delta", Location: "Denver", JobType: "Fulltime, Telecommute"},
		{Title: "Virtual Assistant", Company: "Eps", Location: "Anywhere"},
		{Title: "Chef", Company: "Zeta", Location: "Paris"},
	}
}

func TestRemoteOnsitePartition(t *testing.T) {
	batch := sample()
	remote, onsite := Remote(batch), Onsite(batch)
	if len(remote)+len(onsite) != len(batch) {
		t.Fatalf("partition sizes %d+%d != %d", len(remote), len(onsite), len(batch))
	}
	seen := map[string]int{}
	for _, r := range remote {
		seen[r.Key()]++
	}
	for _, r := range onsite {
		seen[r.Key()]++
	}
	for _, r := range batch {
		if seen[r.Key()] != 1 {
			t.Fatalf("%q appears %d times", r.Title, seen[r.Key()])
		}
	}
	if len(remote) != 4 {
		t.Fatalf("remote = %d, want 4", len(remote))
	}
}

func TestApplyLocationMode(t *testing.T) {
	batch := sample()
	if got := ApplyLocationMode(batch, IncludeRemote); len(got) != len(batch) {
		t.Fatalf("include remote dropped records")
	}
	if got := ApplyLocationMode(batch, OnsiteOnly); len(got) != 2 {
		t.Fatalf("onsite = %d", len(got))
	}
	if got := ApplyLocationMode(batch, RemoteOnly); len(got) != 4 {
		t.Fatalf("remote = %d", len(got))
	}
}

func TestParseLocationMode(t *testing.T) {
	tests := map[string]LocationMode{
		"":               IncludeRemote,
		"Remote Only":    RemoteOnly,
		"on-site only":   OnsiteOnly,
		"Include Remote": IncludeRemote,
	}
	for in, want := range tests {
		got, err := ParseLocationMode(in)
		if err != nil || got != want {
			t.Errorf("ParseLocationMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLocationMode("mars"); err == nil {
		t.Error("expected error")
	}
}
