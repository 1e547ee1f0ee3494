package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/search"
)

func TestSplitList(t *testing.T) {
	got := splitList(" Fall 2025 Internship, ,Summer 2026 Internship ")
	if len(got) != 2 || got[0] != "Fall 2025 Internship" || got[1] != "Summer 2026 Internship" {
		t.Errorf("got %q", got)
	}
	if splitList("") != nil {
		t.Error("empty input")
	}
}

func TestDescribe(t *testing.T) {
	err := describe(&search.ValidationError{Field: "keyword", Message: "Please enter a job keyword to search."})
	if err.Error() != "Please enter a job keyword to search." {
		t.Errorf("validation = %v", err)
	}
	cerr := &domain.ConfigurationError{Setting: "RAPIDAPI_KEY"}
	if err := describe(cerr); !errors.Is(err, cerr) || !strings.Contains(err.Error(), "keychain") {
		t.Errorf("configuration = %v", err)
	}
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	printRecords(&buf, []domain.JobRecord{{Title: "Go Intern", Company: "Acme", Location: "Remote", Tags: []string{"Backend"}}})
	out := buf.String()
	if !strings.HasPrefix(out, "TITLE") || !strings.Contains(out, "Go Intern") {
		t.Errorf("out = %q", out)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if err := run([]string{"frobnicate"}); err == nil {
		t.Error("unknown command accepted")
	}
	if err := run(nil); err == nil {
		t.Error("missing command accepted")
	}
}

func TestShutdownHandlerGuards(t *testing.T) {
	srv := &http.Server{}
	h := shutdownHandler("s3cret", srv)

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("remote status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	req.Header.Set("X-Shutdown-Token", "wrong")
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/shutdown", nil)
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	req.Header.Set("X-Shutdown-Token", "s3cret")
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("ok status = %d", rec.Code)
	}
}
