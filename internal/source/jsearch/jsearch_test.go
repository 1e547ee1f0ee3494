package jsearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
)

func newServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-RapidAPI-Key") != "k" || r.Header.Get("X-RapidAPI-Host") != DefaultHost {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		q := r.URL.Query()
		if q.Get("query") != "ml fall 2025 internship Austin" || q.Get("page") != "1" || q.Get("num_pages") != "1" || q.Get("date_posted") != "all" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

var query = source.Query{Keyword: "ml", Terms: "fall 2025 internship", Location: "Austin"}

func TestSearchOK(t *testing.T) {
	srv := newServer(t, 200, `{"status":"OK","data":[
		{"job_title":"ML Intern","employer_name":"Acme","job_is_remote":true,"job_posted_at_timestamp":1720612800},
		"garbage",
		{"job_title":"Data Intern","employer_name":"Beta"}]}`, nil)
	p := New(Config{BaseURL: srv.URL, APIKey: "k"}, nil, nil)

	raws, err := p.Search(context.Background(), query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(raws) != 3 || raws[1] != nil {
		t.Fatalf("got %v", raws)
	}
	recs := normalize.New(p.Fields(), nil).Normalize(raws)
	if len(recs) != 2 || recs[0].Location != "Remote" || recs[0].PostingDate != "2024-07-10" {
		t.Fatalf("normalized %+v", recs)
	}
}

func TestSearchEmptyOrNotOK(t *testing.T) {
	for _, body := range []string{`{"status":"ERROR","data":[{"job_title":"x"}]}`, `{"status":"OK","data":[]}`} {
		srv := newServer(t, 200, body, nil)
		raws, err := New(Config{BaseURL: srv.URL, APIKey: "k"}, nil, nil).Search(context.Background(), query)
		if err != nil || len(raws) != 0 {
			t.Fatalf("body %s: got %v, %v", body, raws, err)
		}
	}
}

func TestSearchMissingKeyMakesNoCall(t *testing.T) {
	var calls int32
	srv := newServer(t, 200, `{}`, &calls)
	_, err := New(Config{BaseURL: srv.URL}, nil, nil).Search(context.Background(), query)
	var ce *domain.ConfigurationError
	if !errors.As(err, &ce) || ce.Setting != KeySetting {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("provider was called without a key")
	}
}

func TestSearchTransportErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   int
	}{
		{"server error", 503, `oops`, 503},
		{"bad json", 200, `{not json`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)
			_, err := New(Config{BaseURL: srv.URL, APIKey: "k"}, nil, nil).Search(context.Background(), query)
			var te *domain.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if te.StatusCode != tt.code || te.Provider != "jsearch" {
				t.Fatalf("got %+v", te)
			}
		})
	}

	srv := newServer(t, 200, `{}`, nil)
	srv.Close()
	_, err := New(Config{BaseURL: srv.URL, APIKey: "k"}, nil, nil).Search(context.Background(), query)
	if !domain.IsTransport(err) {
		t.Fatalf("closed server: got %v", err)
	}
}
