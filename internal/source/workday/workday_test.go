package workday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
)

func TestParseBoardURL(t *testing.T) {
	cases := []struct {
		in   string
		want board
		err  bool
	}{
		{in: "https://acme.wd5.myworkdayjobs.com/en-us/External", want: board{Scheme: "https", Host: "acme.wd5.myworkdayjobs.com", Tenant: "acme", Site: "External", Locale: "en-US"}},
		{in: "https://acme.wd1.myworkdayjobs.com/Careers", want: board{Scheme: "https", Host: "acme.wd1.myworkdayjobs.com", Tenant: "acme", Site: "Careers"}},
		{in: "", err: true},
		{in: "https://localhost/Careers", err: true},
		{in: "https://acme.wd1.myworkdayjobs.com/", err: true},
	}
	for _, c := range cases {
		got, err := parseBoardURL(c.in)
		if c.err {
			if err == nil {
				t.Errorf("%q: expected error, got %+v", c.in, got)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("%q: got %+v, %v", c.in, got, err)
		}
	}
}

func TestSearchBootstrapsCSRFAndFilters(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/en-US/External":
			http.SetCookie(w, &http.Cookie{Name: "CALYPSO_CSRF_TOKEN", Value: "tok", Path: "/"})
			fmt.Fprint(w, "<html>careers</html>")
		case r.Method == http.MethodPost && r.URL.Path == "/wday/cxs/127/External/jobs":
			if r.Header.Get("X-Calypso-Csrf-Token") != "tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			var body jobsRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotText = body.SearchText
			fmt.Fprint(w, `{"total":4,"jobPostings":[
				{"title":"Data Intern","externalPath":"/job/Austin/Data-Intern_R1","locationsText":"Austin, TX","postedOnDate":"2024-07-10"},
				{"title":"Data Analyst Intern","externalPath":"/job/Any/R2","locationsText":"2 Locations","remoteType":"Fully Remote"},
				{"title":"Intern NYC","externalPath":"/job/NYC/R3","locationsText":"New York, NY"},
				{"title":"","externalPath":"/job/x"}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := New(Config{Companies: []Company{{URL: srv.URL + "/en-US/External", Name: "Acme"}}}, source.NewHostLimiter(100, 10), nil)
	raws, err := p.Search(context.Background(), source.Query{Keyword: "intern", Location: "Austin"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotText != "intern" {
		t.Fatalf("searchText = %q", gotText)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d postings: %v", len(raws), raws)
	}

	recs := normalize.New(p.Fields(), nil).Normalize(raws)
	if recs[0].ApplyLink != srv.URL+"/External/job/Austin/Data-Intern_R1" {
		t.Errorf("link = %q", recs[0].ApplyLink)
	}
	if recs[0].PostingDate != "2024-07-10" || recs[0].Company != "Acme" {
		t.Errorf("record = %+v", recs[0])
	}
	if recs[1].Location != "2 Locations, Remote" {
		t.Errorf("remote location = %q", recs[1].Location)
	}
}

func TestBlockedHostIsRemembered(t *testing.T) {
	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets.Add(1)
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := New(Config{Companies: []Company{{URL: srv.URL + "/Careers", Name: "Acme"}}}, nil, nil)
	for i := 0; i < 2; i++ {
		_, err := p.Search(context.Background(), source.Query{Keyword: "x"})
		if !domain.IsTransport(err) || !errors.Is(err, ErrBlocked) {
			t.Fatalf("search %d: expected blocked TransportError, got %v", i, err)
		}
	}
	if gets.Load() != 1 {
		t.Fatalf("bootstrap calls = %d", gets.Load())
	}
}
