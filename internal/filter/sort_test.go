package filter

import (
	"testing"

	"jobfinder-engine/internal/domain"
)

func titles(rs []domain.JobRecord) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Title
	}
	return out
}

func TestSortByDatePosted(t *testing.T) {
	in := []domain.JobRecord{
		{Title: "a", PostingDate: domain.NotAvailable},
		{Title: "b", PostingDate: "2025-01-02"},
		{Title: "c", PostingDate: "2025-03-01"},
		{Title: "d", PostingDate: domain.NotAvailable},
		{Title: "e", PostingDate: "2025-01-02"},
	}
	got := titles(Sort(in, ByDatePosted))
	want := []string{"c", "b", "e", "a", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if in[0].Title != "a" {
		t.Fatal("input reordered")
	}
}

func TestSortByCompanyAndRelevance(t *testing.T) {
	in := []domain.JobRecord{
		{Title: "1", Company: "zeta"},
		{Title: "2", Company: "Alpha"},
		{Title: "3", Company: "beta"},
	}
	if got := titles(Sort(in, ByCompany)); got[0] != "2" || got[1] != "3" || got[2] != "1" {
		t.Fatalf("company order %v", got)
	}
	if got := titles(Sort(in, ByRelevance)); got[0] != "1" || got[2] != "3" {
		t.Fatalf("relevance order %v", got)
	}
}

func TestLimit(t *testing.T) {
	in := make([]domain.JobRecord, 30)
	if got := Limit(in, 25); len(got) != 25 {
		t.Fatalf("got %d", len(got))
	}
	if got := Limit(in, 0); len(got) != 30 {
		t.Fatalf("got %d", len(got))
	}
	if !ValidLimit(50) || ValidLimit(30) {
		t.Fatal("ValidLimit wrong")
	}
}
