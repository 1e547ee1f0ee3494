// Package smartrecruiters reads the public SmartRecruiters postings API.
package smartrecruiters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
)

const (
	DefaultBaseURL = "https://api.smartrecruiters.com"
	pageSize       = 100
	maxOffset      = 1000
)

type Config struct {
	BaseURL   string
	Companies []Company
}

type Company struct {
	// Slug is the company identifier used in URLs, e.g.
	// https://jobs.smartrecruiters.com/<slug>
	Slug string
	Name string
}

var Fields = normalize.FieldMap{
	Title:          "name",
	Company:        "company",
	City:           "city",
	State:          "region",
	Country:        "country",
	ApplyLink:      "url",
	EmploymentType: "typeOfEmployment",
	Remote:         "remote",
	PostedAt:       []string{"releasedDate"},
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
		hc:      &http.Client{Timeout: 25 * time.Second},
		limiter: limiter,
		log:     logger.With("component", "smartrecruiters"),
	}
}

func (p *Provider) Name() string { return "smartrecruiters" }

func (p *Provider) Fields() normalize.FieldMap { return Fields }

type postingsResponse struct {
	Content    []posting `json:"content"`
	TotalFound int       `json:"totalFound"`
}

type posting struct {
	ID           string `json:"id"`
	UUID         string `json:"uuid"`
	Ref          string `json:"ref"`
	Name         string `json:"name"`
	ReleasedDate string `json:"releasedDate"`
	Location     struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Remote  bool   `json:"remote"`
	} `json:"location"`
	TypeOfEmployment struct {
		Label string `json:"label"`
	} `json:"typeOfEmployment"`
}

// Search queries every company with the keyword; the API does the text match
// and the location check is applied locally. One failing company fails the
// whole search.
func (p *Provider) Search(ctx context.Context, q source.Query) ([]domain.RawPosting, error) {
	const workers = 8

	batches := make([][]domain.RawPosting, len(p.cfg.Companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, co := range p.cfg.Companies {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, 20*time.Second)
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
	slug := strings.TrimSpace(co.Slug)
	if slug == "" {
		return nil, fmt.Errorf("empty slug")
	}
	base := fmt.Sprintf("%s/v1/companies/%s/postings", strings.TrimRight(p.cfg.BaseURL, "/"), url.PathEscape(slug))

	// The keyword already went to the API, which also searches descriptions.
	locq := q
	locq.Keyword = ""

	var out []domain.RawPosting
	for offset := 0; offset <= maxOffset; offset += pageSize {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageSize))
		params.Set("offset", strconv.Itoa(offset))
		if kw := strings.TrimSpace(q.Keyword); kw != "" {
			params.Set("q", kw)
		}
		pr, err := p.page(ctx, base+"?"+params.Encode())
		if err != nil {
			return nil, err
		}

		for _, sp := range pr.Content {
			title := strings.TrimSpace(sp.Name)
			id := firstNonEmpty(sp.ID, sp.UUID, sp.Ref)
			if title == "" || id == "" {
				continue
			}
			loc := strings.Join(nonEmpty(sp.Location.City, sp.Location.Region, sp.Location.Country), ", ")
			if sp.Location.Remote {
				loc = strings.TrimSpace(loc + " Remote")
			}
			if !locq.Matches(title, "", loc) {
				continue
			}
			out = append(out, domain.RawPosting{
				"name":             title,
				"company":          co.Name,
				"city":             sp.Location.City,
				"region":           sp.Location.Region,
				"country":          sp.Location.Country,
				"url":              fmt.Sprintf("https://jobs.smartrecruiters.com/%s/%s", slug, id),
				"typeOfEmployment": sp.TypeOfEmployment.Label,
				"remote":           sp.Location.Remote,
				"releasedDate":     sp.ReleasedDate,
			})
		}

		if len(pr.Content) < pageSize || (pr.TotalFound > 0 && offset+pageSize >= pr.TotalFound) {
			break
		}
	}
	return out, nil
}

func (p *Provider) page(ctx context.Context, u string) (postingsResponse, error) {
	var pr postingsResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return pr, err
	}
	req.Header.Set("User-Agent", source.UserAgent)
	req.Header.Set("Accept", "application/json")

	if err := p.limiter.WaitURL(ctx, u); err != nil {
		return pr, err
	}
	res, err := p.hc.Do(req)
	if err != nil {
		return pr, fmt.Errorf("smartrecruiters get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return pr, fmt.Errorf("smartrecruiters status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(&pr); err != nil {
		return pr, fmt.Errorf("smartrecruiters decode: %w", err)
	}
	return pr, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
