// Package greenhouse scrapes public Greenhouse job boards.
package greenhouse

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
)

const (
	DefaultBaseURL = "https://boards.greenhouse.io"
	DefaultMaxJobs = 50
)

type Config struct {
	BaseURL   string
	Companies []Company
	MaxJobs   int // job pages hydrated per board
}

type Company struct {
	Slug string `yaml:"slug"` // boards.greenhouse.io/<slug>
	Name string `yaml:"name"`
}

var Fields = normalize.FieldMap{
	Title:       "title",
	Company:     "company",
	City:        "location",
	Description: "content",
	ApplyLink:   "url",
	Remote:      "remote",
	PostedAt:    []string{"updated_at"},
}

type Provider struct {
	cfg     Config
	hc      *http.Client
	limiter *source.HostLimiter
	log     *slog.Logger
}

func New(cfg Config, limiter *source.HostLimiter, logger *slog.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = DefaultMaxJobs
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		log:     logger.With("component", "greenhouse"),
	}
}

func (p *Provider) Name() string { return "greenhouse" }

func (p *Provider) Fields() normalize.FieldMap { return Fields }

type lead struct {
	title, url, location, content, updated string
}

// Search walks the boards in order. A board that cannot be read fails the
// search; a job page that cannot be read keeps its board entry.
func (p *Provider) Search(ctx context.Context, q source.Query) ([]domain.RawPosting, error) {
	var out []domain.RawPosting
	for _, co := range p.cfg.Companies {
		leads, err := p.fetchBoard(ctx, co)
		if err != nil {
			p.log.Warn("board fetch failed", "company", co.Name, "slug", co.Slug, "error", err)
			return nil, &domain.TransportError{Provider: p.Name(), Err: err}
		}
		for _, l := range leads {
			if !q.Matches(l.title, normalize.StripTags(l.content), l.location) {
				continue
			}
			raw := domain.RawPosting{
				"title":    l.title,
				"company":  co.Name,
				"location": l.location,
				"content":  l.content,
				"url":      l.url,
				"remote":   strings.Contains(strings.ToLower(l.location), "remote"),
			}
			if l.updated != "" {
				raw["updated_at"] = l.updated
			}
			out = append(out, raw)
		}
	}
	p.log.Info("search done", "boards", len(p.cfg.Companies), "matched", len(out))
	return out, nil
}

func (p *Provider) fetchBoard(ctx context.Context, co Company) ([]lead, error) {
	base := strings.TrimRight(p.cfg.BaseURL, "/")
	boardURL := fmt.Sprintf("%s/%s", base, co.Slug)
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("greenhouse base url: %w", err)
	}

	doc, err := p.getDoc(ctx, boardURL)
	if err != nil {
		return nil, fmt.Errorf("greenhouse board: %w", err)
	}

	// boards link to /<slug>/jobs/<id> or absolute .../jobs/<id>
	seen := map[string]bool{}
	var leads []lead
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if len(leads) >= p.cfg.MaxJobs {
			return
		}
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := baseURL.ResolveReference(ref)
		if abs.Host != baseURL.Host || !strings.Contains(abs.Path, "/jobs/") {
			return
		}
		id := extractJobID(abs.Path)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true

		title := normalize.CleanText(a.Text())
		if looksLikeJunkTitle(title) {
			title = ""
		}
		leads = append(leads, lead{title: title, url: abs.String()})
	})

	for i := range leads {
		if err := p.hydrate(ctx, &leads[i]); err != nil {
			p.log.Debug("job page skipped", "url", leads[i].url, "error", err)
		}
	}
	return leads, nil
}

func (p *Provider) hydrate(ctx context.Context, l *lead) error {
	doc, err := p.getDoc(ctx, l.url)
	if err != nil {
		return err
	}
	if l.title == "" {
		l.title = normalize.CleanText(doc.Find("h1").First().Text())
	}
	l.location = normalize.CleanText(doc.Find(".location").First().Text())
	if sel := doc.Find("#content").First(); sel.Length() > 0 {
		if h, err := sel.Html(); err == nil {
			l.content = h
		}
	}
	if t, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		l.updated = strings.TrimSpace(t)
	}
	return nil
}

func (p *Provider) getDoc(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", source.UserAgent)
	if err := p.limiter.WaitURL(ctx, pageURL); err != nil {
		return nil, err
	}
	res, err := p.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}
	return goquery.NewDocumentFromReader(res.Body)
}

// extractJobID takes the run of digits after /jobs/.
func extractJobID(path string) string {
	_, tail, ok := strings.Cut(path, "/jobs/")
	if !ok {
		return ""
	}
	end := 0
	for end < len(tail) && tail[end] >= '0' && tail[end] <= '9' {
		end++
	}
	return tail[:end]
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return strings.Contains(l, "view") || strings.Contains(l, "apply")
}
