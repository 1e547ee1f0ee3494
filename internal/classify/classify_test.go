package classify

import (
	"reflect"
	"testing"

	"jobfinder-engine/internal/domain"
)

func TestClassifyDefaultTable(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		name string
		rec  domain.JobRecord
		want []string
	}{
		{
			name: "ml intern",
			rec:  domain.JobRecord{Title: "Machine Learning Intern", Company: "Acme", Description: "Build ML models"},
			want: []string{"Machine Learning"},
		},
		{
			name: "fallback",
			rec:  domain.JobRecord{Title: "Barista", Company: "Beans", Description: "Pour coffee"},
			want: []string{Fallback},
		},
		{
			name: "capped at three in table order",
			rec: domain.JobRecord{
				Title:       "Research Engineer",
				Company:     "Lab Co",
				Description: "computer vision, nlp, generative ai and machine learning with pandas",
			},
			want: []string{"Computer Vision", "Natural Language Processing", "Generative AI"},
		},
		{
			name: "company text counts",
			rec:  domain.JobRecord{Title: "Engineer", Company: "Kubernetes Inc", Description: "x"},
			want: []string{"Cloud & DevOps"},
		},
		{
			name: "case insensitive",
			rec:  domain.JobRecord{Title: "PYTORCH developer", Company: "Z"},
			want: []string{"Machine Learning"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.rec, table)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Classify() = %v, want %v", got, tt.want)
			}
			if again := Classify(tt.rec, table); !reflect.DeepEqual(got, again) {
				t.Fatalf("non-deterministic: %v vs %v", got, again)
			}
		})
	}
}

func TestTagBounds(t *testing.T) {
	recs := []domain.JobRecord{
		{Title: "a"},
		{Title: "deep learning robotics fintech cloud research", Company: "x"},
		{Title: "SQL analyst", Company: "y"},
	}
	tagged := Tag(recs, DefaultTable())
	for i, r := range tagged {
		if n := len(r.Tags); n < 1 || n > MaxTags {
			t.Fatalf("record %d has %d tags", i, n)
		}
		if recs[i].Tags != nil {
			t.Fatalf("input record %d mutated", i)
		}
	}
}

func TestNewTableValidation(t *testing.T) {
	tests := []struct {
		name string
		cats []Category
	}{
		{"empty", nil},
		{"blank label", []Category{{Label: " ", Keywords: []string{"a"}}}},
		{"no keywords", []Category{{Label: "A", Keywords: []string{"  "}}}},
		{"duplicate", []Category{{Label: "A", Keywords: []string{"a"}}, {Label: "a", Keywords: []string{"b"}}}},
	}
	for _, tt := range tests {
		if _, err := NewTable(tt.cats); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestCustomTableOrderAndLowercase(t *testing.T) {
	table := MustTable([]Category{
		{Label: "Second", Keywords: []string{"Go"}},
		{Label: "First", Keywords: []string{"golang"}},
	})
	got := Classify(domain.JobRecord{Title: "Golang dev"}, table)
	if !reflect.DeepEqual(got, []string{"Second", "First"}) {
		t.Fatalf("got %v", got)
	}
	cats := table.Categories()
	cats[0].Label = "mutated"
	if table.Labels()[0] != "Second" {
		t.Fatal("table mutated through Categories()")
	}
}

func TestDefaultTableShape(t *testing.T) {
	table := DefaultTable()
	if table.Len() != 10 {
		t.Fatalf("got %d categories", table.Len())
	}
	if table.Labels()[0] != "Computer Vision" || table.Labels()[9] != "Research" {
		t.Fatalf("unexpected order: %v", table.Labels())
	}
}
