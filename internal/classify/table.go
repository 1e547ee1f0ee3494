package classify

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one theme: a label and the keywords that trigger it.
type Category struct {
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Table is an ordered, immutable list of categories. Order decides which
// labels win the limited tag slots.
type Table struct {
	cats []Category
}

// NewTable validates and copies cats. Keywords are lower-cased once here.
func NewTable(cats []Category) (Table, error) {
	if len(cats) == 0 {
		return Table{}, errors.New("category table is empty")
	}
	seen := map[string]bool{}
	out := make([]Category, 0, len(cats))
	for i, c := range cats {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			return Table{}, fmt.Errorf("category %d: label is empty", i)
		}
		k := strings.ToLower(label)
		if seen[k] {
			return Table{}, fmt.Errorf("category %q: duplicate label", label)
		}
		seen[k] = true

		kws := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) == 0 {
			return Table{}, fmt.Errorf("category %q: no keywords", label)
		}
		out = append(out, Category{Label: label, Keywords: kws})
	}
	return Table{cats: out}, nil
}

func MustTable(cats []Category) Table {
	t, err := NewTable(cats)
	if err != nil {
		panic(err)
	}
	return t
}

// Categories returns a copy of the table in order.
func (t Table) Categories() []Category {
	out := make([]Category, len(t.cats))
	for i, c := range t.cats {
		out[i] = Category{Label: c.Label, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

func (t Table) Len() int { return len(t.cats) }

func (t Table) Labels() []string {
	out := make([]string, len(t.cats))
	for i, c := range t.cats {
		out[i] = c.Label
	}
	return out
}

var defaultCategories = []Category{
	{"Computer Vision", []string{"computer vision", "cv", "image processing", "opencv", "image recognition", "object detection", "facial recognition", "medical imaging", "autonomous", "lidar", "camera", "visual", "perception"}},
	{"Natural Language Processing", []string{"nlp", "natural language", "language model", "text processing", "chatbot", "sentiment analysis", "speech recognition", "translation", "linguistics", "transformer", "bert", "gpt", "llm"}},
	{"Generative AI", []string{"generative ai", "genai", "gpt", "llm", "large language model", "diffusion", "stable diffusion", "dall-e", "midjourney", "text generation", "ai art", "prompt engineering", "fine-tuning", "rag", "retrieval augmented"}},
	{"Machine Learning", []string{"machine learning", "ml", "deep learning", "neural network", "tensorflow", "pytorch", "scikit-learn", "keras", "model training", "feature engineering", "regression", "classification", "clustering", "supervised", "unsupervised"}},
	{"Data Science", []string{"data science", "data scientist", "data analysis", "statistics", "pandas", "numpy", "jupyter", "visualization", "tableau", "power bi", "sql", "database", "etl", "data pipeline", "analytics"}},
	{"Robotics", []string{"robotics", "robot", "ros", "autonomous", "drone", "manipulation", "control systems", "embedded", "sensors", "actuators", "path planning"}},
	{"Healthcare AI", []string{"healthcare", "medical", "biotech", "pharmaceutical", "clinical", "health tech", "telemedicine", "medical device", "fda", "hipaa", "radiology", "pathology", "genomics"}},
	{"FinTech", []string{"fintech", "financial", "banking", "trading", "cryptocurrency", "blockchain", "payments", "fraud detection", "risk management", "algorithmic trading", "quantitative", "portfolio"}},
	{"Cloud & DevOps", []string{"cloud", "aws", "azure", "gcp", "kubernetes", "docker", "devops", "ci/cd", "infrastructure", "terraform", "microservices", "serverless"}},
	{"Research", []string{"research", "phd", "academic", "publication", "conference", "arxiv", "experimental", "theoretical", "university", "lab", "postdoc"}},
}

// DefaultTable returns the built-in ten-category table.
func DefaultTable() Table {
	return MustTable(defaultCategories)
}
