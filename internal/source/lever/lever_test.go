package lever

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
)

func TestSearchFlattensAndFilters(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0/postings/acme":
			fmt.Fprintf(w, `[
				{"id":"1","text":"Machine Learning Intern","hostedUrl":"%[1]s/acme/1","createdAt":1720612800000,
				 "workplaceType":"remote","description":"<p>Train models</p>",
				 "categories":{"location":"Austin, TX","commitment":"Intern"}},
				{"id":"2","text":"Accountant","hostedUrl":"%[1]s/acme/2","categories":{"location":"NYC"}},
				{"id":"3","text":"ML Platform Engineer","hostedUrl":"%[1]s/acme/3","descriptionPlain":"machine learning infra"},
				{"id":"","text":"no id","hostedUrl":"x"}
			]`, srv.URL)
		case "/acme/3":
			fmt.Fprint(w, `<html><div class="posting-categories"><div class="location"> Denver,  CO </div></div></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := New(Config{BaseURL: srv.URL, Companies: []Company{{Slug: "acme", Name: "Acme"}}}, source.NewHostLimiter(100, 10), nil)
	raws, err := p.Search(context.Background(), source.Query{Keyword: "machine learning"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d postings: %v", len(raws), raws)
	}
	if raws[1]["location"] != "Denver, CO" {
		t.Fatalf("hydrated location = %v", raws[1]["location"])
	}

	recs := normalize.New(p.Fields(), nil).Normalize(raws)
	want := domain.JobRecord{
		Title:       "Machine Learning Intern",
		Company:     "Acme",
		Location:    "Austin, TX, Remote",
		Description: "Train models",
		ApplyLink:   srv.URL + "/acme/1",
		JobType:     "Intern, Remote",
		PostingDate: "2024-07-10",
	}
	if recs[0].Title != want.Title || recs[0].Location != want.Location || recs[0].JobType != want.JobType ||
		recs[0].PostingDate != want.PostingDate || recs[0].Description != want.Description || recs[0].ApplyLink != want.ApplyLink {
		t.Fatalf("got %+v\nwant %+v", recs[0], want)
	}
}

func TestSearchFailingCompanyFailsProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v0/postings/ok" {
			fmt.Fprint(w, `[]`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
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
