package scheduler

import (
	"context"
	"testing"
)

func TestSpec(t *testing.T) {
	tests := []struct {
		freq, at string
		want     string
		wantErr  bool
	}{
		{"Daily", "08:30", "30 8 * * *", false},
		{"weekly", "", "0 8 * * 1", false},
		{"", "23:59", "59 23 * * *", false},
		{"Monthly", "08:00", "", true},
		{"Daily", "25:00", "", true},
		{"Daily", "0800", "", true},
	}
	for _, tt := range tests {
		got, err := Spec(tt.freq, tt.at)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Spec(%q, %q) = %q, %v", tt.freq, tt.at, got, err)
		}
	}
}

func TestAdd(t *testing.T) {
	s := New(nil)
	noop := func(context.Context) error { return nil }
	if err := s.Add(context.Background(), "@daily", "digest", noop); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(context.Background(), "not a spec", "bad", noop); err == nil {
		t.Fatal("expected error for bad spec")
	}
	if s.Len() != 1 {
		t.Fatalf("entries = %d", s.Len())
	}
	s.Start()
	s.Stop(context.Background())
}
