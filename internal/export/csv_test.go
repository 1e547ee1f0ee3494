package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"jobfinder-engine/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	recs := []domain.JobRecord{
		{Title: "ML Intern", Company: "Acme, Inc", Location: "Austin", Description: `Say "hi"`, Tags: []string{"Machine Learning", "Research"}},
		{Title: "Analyst", Company: "Beta", QueryFlag: "Fall 2025 Internship"},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, recs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	if !reflect.DeepEqual(rows[0], Header) {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "Acme, Inc" || rows[1][3] != `Say "hi"` || rows[1][8] != "Machine Learning, Research" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	if rows[2][0] != "Analyst" || rows[2][7] != "Fall 2025 Internship" {
		t.Fatalf("row 2 = %v", rows[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Job Title,Company,Location,Description,Apply Link,Job Type,Posting Date,QueryFlag,Tags\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"ml jobs":         "ml jobs",
		`a<b>c:d"e/f\g`:   "a_b_c_d_e_f_g",
		"??report**":      "report",
		"":                "jobs",
		"///":             "jobs",
		"saved__jobs.csv": "saved_jobs.csv",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
