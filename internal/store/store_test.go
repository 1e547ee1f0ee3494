package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"jobfinder-engine/internal/domain"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sub", "jobfinder.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTest(t)
	if err := Migrate(db.Pool); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var v int
	if err := db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		t.Fatal(err)
	}
	if v != SchemaVersion() {
		t.Fatalf("user_version = %d, want %d", v, SchemaVersion())
	}
}

func TestSavedJobs(t *testing.T) {
	ctx := context.Background()
	s := NewSavedJobs(openTest(t).Pool)

	a := domain.JobRecord{Title: "ML Intern", Company: "Acme", Location: "Austin", Tags: []string{"Machine Learning"}}
	b := domain.JobRecord{Title: "Analyst", Company: "Beta"}

	for _, tc := range []struct {
		rec  domain.JobRecord
		want bool
	}{{a, true}, {b, true}, {a, false}} {
		added, err := s.Add(ctx, tc.rec)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if added != tc.want {
			t.Fatalf("Add(%q) = %v, want %v", tc.rec.Title, added, tc.want)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Title != "ML Intern" || list[0].Tags[0] != "Machine Learning" || list[1].Tags == nil {
		t.Fatalf("List = %+v", list)
	}

	removed, err := s.RemoveAt(ctx, 0)
	if err != nil || removed.Title != "ML Intern" {
		t.Fatalf("RemoveAt = %+v, %v", removed, err)
	}
	if _, err := s.RemoveAt(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("RemoveAt out of range: %v", err)
	}
	list, _ = s.List(ctx)
	if len(list) != 1 || list[0].Title != "Analyst" {
		t.Fatalf("after remove: %+v", list)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if list, _ = s.List(ctx); len(list) != 0 {
		t.Fatalf("after clear: %+v", list)
	}
}

func TestSheetRows(t *testing.T) {
	ctx := context.Background()
	s := NewSheetRows(openTest(t).Pool)

	ok, err := s.Insert(ctx, "k1", map[string]any{"Title": "A", "Status": "PENDING"})
	if err != nil || !ok {
		t.Fatalf("Insert: %v %v", ok, err)
	}
	if ok, _ := s.Insert(ctx, "k1", map[string]any{"Title": "B"}); ok {
		t.Fatal("duplicate key inserted")
	}
	rows, err := s.List(ctx)
	if err != nil || len(rows) != 1 {
		t.Fatalf("List: %v %v", rows, err)
	}
	if rows[0].Fields["Title"] != "A" || rows[0].CreatedAt.IsZero() {
		t.Fatalf("row = %+v", rows[0])
	}
}
