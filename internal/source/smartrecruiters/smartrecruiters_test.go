package smartrecruiters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
)

func TestSearchPassesKeywordAndFiltersLocation(t *testing.T) {
	var gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/companies/acme/postings" {
			http.NotFound(w, r)
			return
		}
		gotQ = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"totalFound":4,"content":[
			{"id":"11","name":"Data Intern","releasedDate":"2024-07-10T12:00:00.000Z",
			 "location":{"city":"Austin","region":"TX","country":"us"},
			 "typeOfEmployment":{"label":"Internship"}},
			{"id":"12","name":"Intern, Platform","location":{"city":"Berlin","country":"de","remote":true}},
			{"id":"13","name":"Sales Intern","location":{"city":"New York","region":"NY"}},
			{"id":"","uuid":"","name":"ghost"}
		]}`)
	}))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL, Companies: []Company{{Slug: "acme", Name: "Acme"}}}, source.NewHostLimiter(100, 10), nil)
	raws, err := p.Search(context.Background(), source.Query{Keyword: "intern", Location: "austin"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQ != "intern" {
		t.Fatalf("q = %q", gotQ)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d postings: %v", len(raws), raws)
	}

	recs := normalize.New(p.Fields(), nil).Normalize(raws)
	got := recs[0]
	if got.Title != "Data Intern" || got.Company != "Acme" || got.Location != "Austin, TX, us" ||
		got.JobType != "Internship" || got.PostingDate != "2024-07-10" {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.ApplyLink != "https://jobs.smartrecruiters.com/acme/11" {
		t.Fatalf("apply link = %q", got.ApplyLink)
	}
	if recs[1].Location != "Berlin, de, Remote" {
		t.Fatalf("remote location = %q", recs[1].Location)
	}
}

func TestSearchFollowsOffsets(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		n := pageSize
		if offset >= pageSize {
			n = 50
		}
		resp := postingsResponse{TotalFound: pageSize + 50}
		for i := 0; i < n; i++ {
			var sp posting
			sp.ID = strconv.Itoa(offset + i)
			sp.Name = "Engineer " + sp.ID
			resp.Content = append(resp.Content, sp)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL, Companies: []Company{{Slug: "big", Name: "Big"}}}, nil, nil)
	raws, err := p.Search(context.Background(), source.Query{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(raws) != pageSize+50 {
		t.Fatalf("got %d postings", len(raws))
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d", calls.Load())
	}
}

func TestSearchFailingCompanyFailsProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/companies/ok/postings" {
			fmt.Fprint(w, `{"totalFound":0,"content":[]}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL, Companies: []Company{{Slug: "ok"}, {Slug: "down"}}}, nil, nil)
	raws, err := p.Search(context.Background(), source.Query{Keyword: "x"})
	if !domain.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if raws != nil {
		t.Fatalf("expected no partial batch, got %v", raws)
	}
}
