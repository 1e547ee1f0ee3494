// Package lever reads public Lever postings for a configured set of companies.
package lever

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
)

const DefaultBaseURL = "https://api.lever.co"

type Config struct {
	BaseURL   string
	Companies []Company
}

type Company struct {
	Slug string `yaml:"slug"` // api.lever.co/v0/postings/<slug>
	Name string `yaml:"name"`
}

// Fields maps the flattened postings built by Search.
var Fields = normalize.FieldMap{
	Title:          "text",
	Company:        "company",
	City:           "location",
	Description:    "description",
	ApplyLink:      "hostedUrl",
	EmploymentType: "commitment",
	Remote:         "remote",
	PostedAt:       []string{"createdAt"},
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
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		log:     logger.With("component", "lever"),
	}
}

func (p *Provider) Name() string { return "lever" }

func (p *Provider) Fields() normalize.FieldMap { return Fields }

type posting struct {
	ID               string `json:"id"`
	Text             string `json:"text"` // title
	HostedURL        string `json:"hostedUrl"`
	CreatedAt        int64  `json:"createdAt"` // ms epoch
	WorkplaceType    string `json:"workplaceType"`
	Description      string `json:"description"` // html
	DescriptionPlain string `json:"descriptionPlain"`
	Categories       struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
}

// Search fetches every company concurrently and keeps the postings matching q.
// One failing company fails the whole search.
func (p *Provider) Search(ctx context.Context, q source.Query) ([]domain.RawPosting, error) {
	const workers = 8

	batches := make([][]domain.RawPosting, len(p.cfg.Companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, co := range p.cfg.Companies {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, 10*time.Second)
			defer cancel()
			raws, err := p.fetchCompany(cctx, co, q)
			if err != nil {
				p.log.Warn("company fetch failed", "company", co.Name, "slug", co.Slug, "error", err)
				return err
			}
			batches[i] = raws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &domain.TransportError{Provider: p.Name(), Err: err}
	}

	var out []domain.RawPosting
	for _, b := range batches {
		out = append(out, b...)
	}
	p.log.Info("search done", "companies", len(p.cfg.Companies), "matched", len(out))
	return out, nil
}

func (p *Provider) fetchCompany(ctx context.Context, co Company, q source.Query) ([]domain.RawPosting, error) {
	apiURL := fmt.Sprintf("%s/v0/postings/%s?mode=json", strings.TrimRight(p.cfg.BaseURL, "/"), co.Slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", source.UserAgent)

	if err := p.limiter.WaitURL(ctx, apiURL); err != nil {
		return nil, err
	}
	res, err := p.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("lever status %d", res.StatusCode)
	}

	var postings []posting
	if err := json.NewDecoder(res.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("lever decode: %w", err)
	}

	out := make([]domain.RawPosting, 0, len(postings))
	for _, lp := range postings {
		if lp.ID == "" || lp.HostedURL == "" || strings.TrimSpace(lp.Text) == "" {
			continue
		}
		loc := normalize.CleanText(lp.Categories.Location)
		if loc == "" {
			loc = p.hydrateLocation(ctx, lp.HostedURL)
		}
		desc := lp.Description
		if desc == "" {
			desc = lp.DescriptionPlain
		}
		if !q.Matches(lp.Text, normalize.StripTags(desc), loc) {
			continue
		}
		remote := strings.EqualFold(lp.WorkplaceType, "remote") ||
			strings.Contains(strings.ToLower(loc), "remote")

		raw := domain.RawPosting{
			"text":        strings.TrimSpace(lp.Text),
			"company":     co.Name,
			"location":    loc,
			"description": desc,
			"hostedUrl":   lp.HostedURL,
			"commitment":  lp.Categories.Commitment,
			"remote":      remote,
		}
		if lp.CreatedAt > 0 {
			raw["createdAt"] = lp.CreatedAt
		}
		out = append(out, raw)
	}
	return out, nil
}

// hydrateLocation reads the hosted job page when the API left location empty.
// Failures yield "".
func (p *Provider) hydrateLocation(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", source.UserAgent)
	if err := p.limiter.WaitURL(ctx, pageURL); err != nil {
		return ""
	}
	res, err := p.hc.Do(req)
	if err != nil {
		return ""
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return ""
	}
	candidates := []string{
		"[itemprop='jobLocation']",
		"[data-qa='location']",
		".posting-categories .location",
		".location",
	}
	for _, sel := range candidates {
		if t := normalize.CleanText(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}
