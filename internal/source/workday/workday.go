// Package workday reads Workday career sites through their CXS jobs endpoint.
package workday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
)

const (
	pageSize  = 20
	maxOffset = 1000
)

// ErrBlocked is returned once a host answers with a bot challenge. The host is
// skipped for the rest of the provider's life.
var ErrBlocked = errors.New("workday host blocked")

type Config struct {
	Companies []Company
}

type Company struct {
	// URL is the public career site, locale segment optional.
	URL  string
	Name string
}

var Fields = normalize.FieldMap{
	Title:     "title",
	Company:   "company",
	City:      "location",
	ApplyLink: "url",
	Remote:    "remote",
	PostedAt:  []string{"postedOnDate"},
}

type Provider struct {
	cfg     Config
	limiter *source.HostLimiter
	log     *slog.Logger

	mu      sync.Mutex
	blocked map[string]bool
}

func New(cfg Config, limiter *source.HostLimiter, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:     cfg,
		limiter: limiter,
		log:     logger.With("component", "workday"),
		blocked: map[string]bool{},
	}
}

func (p *Provider) Name() string { return "workday" }

func (p *Provider) Fields() normalize.FieldMap { return Fields }

type jobsRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type jobsResponse struct {
	Total       int       `json:"total"`
	JobPostings []posting `json:"jobPostings"`
}

type posting struct {
	Title         string `json:"title"`
	ExternalPath  string `json:"externalPath"`
	ExternalURL   string `json:"externalUrl"`
	LocationsText string `json:"locationsText"`
	Location      string `json:"location"`
	RemoteType    string `json:"remoteType"`
	PostedOnDate  string `json:"postedOnDate"`
}

func (p *Provider) Search(ctx context.Context, q source.Query) ([]domain.RawPosting, error) {
	const workers = 8

	batches := make([][]domain.RawPosting, len(p.cfg.Companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, co := range p.cfg.Companies {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, 30*time.Second)
			defer cancel()
			raws, err := p.fetchCompany(cctx, co, q)
			if err != nil {
				p.log.Warn("company fetch failed", "company", co.Name, "url", co.URL, "error", err)
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

func (p *Provider) isBlocked(host string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocked[host]
}

func (p *Provider) block(host string) {
	p.mu.Lock()
	p.blocked[host] = true
	p.mu.Unlock()
}

func (p *Provider) fetchCompany(ctx context.Context, co Company, q source.Query) ([]domain.RawPosting, error) {
	b, err := parseBoardURL(co.URL)
	if err != nil {
		return nil, err
	}
	if p.isBlocked(b.Host) {
		return nil, ErrBlocked
	}

	// Cookies carry the CSRF session between bootstrap and the jobs calls.
	jar, _ := cookiejar.New(nil)
	hc := &http.Client{Jar: jar, Timeout: 20 * time.Second}
	csrf := ""
	bootstrapped := false

	// The keyword goes to searchText; location is checked locally.
	locq := q
	locq.Keyword = ""

	var out []domain.RawPosting
	for offset := 0; offset <= maxOffset; offset += pageSize {
		body, _ := json.Marshal(jobsRequest{
			AppliedFacets: map[string]any{},
			Limit:         pageSize,
			Offset:        offset,
			SearchText:    strings.TrimSpace(q.Keyword),
		})

		status, data, err := p.post(ctx, hc, b, co.URL, csrf, body)
		if err != nil {
			return nil, err
		}
		if status >= 400 && !bootstrapped {
			bootstrapped = true
			csrf, err = p.bootstrap(ctx, hc, co.URL)
			if errors.Is(err, ErrBlocked) {
				p.block(b.Host)
			}
			if err != nil {
				return nil, err
			}
			if status, data, err = p.post(ctx, hc, b, co.URL, csrf, body); err != nil {
				return nil, err
			}
		}
		if status >= 400 {
			return nil, fmt.Errorf("workday status %d body=%s", status, truncate(string(data), 240))
		}

		var jr jobsResponse
		if err := json.Unmarshal(data, &jr); err != nil {
			return nil, fmt.Errorf("workday decode: %w", err)
		}
		for _, wp := range jr.JobPostings {
			title := strings.TrimSpace(wp.Title)
			link := b.jobURL(wp)
			if title == "" || link == "" {
				continue
			}
			loc := strings.TrimSpace(firstNonEmpty(wp.LocationsText, wp.Location))
			remote := strings.Contains(strings.ToLower(wp.RemoteType+" "+loc), "remote")
			matchLoc := loc
			if remote {
				matchLoc += " Remote"
			}
			if !locq.Matches(title, "", matchLoc) {
				continue
			}
			out = append(out, domain.RawPosting{
				"title":        title,
				"company":      co.Name,
				"location":     loc,
				"url":          link,
				"remote":       remote,
				"postedOnDate": wp.PostedOnDate,
			})
		}

		if len(jr.JobPostings) < pageSize || (jr.Total > 0 && offset+pageSize >= jr.Total) {
			break
		}
	}
	return out, nil
}

func (p *Provider) post(ctx context.Context, hc *http.Client, b board, referer, csrf string, body []byte) (int, []byte, error) {
	endpoint := b.jobsEndpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", source.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", b.origin())
	req.Header.Set("Referer", strings.TrimRight(referer, "/"))
	req.Header.Set("Accept-Language", firstNonEmpty(b.Locale, "en-US"))
	if csrf != "" {
		req.Header.Set("X-Calypso-Csrf-Token", csrf)
	}

	if err := p.limiter.WaitURL(ctx, endpoint); err != nil {
		return 0, nil, err
	}
	res, err := hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("workday post jobs: %w", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("workday read: %w", err)
	}
	return res.StatusCode, data, nil
}

// bootstrap loads the career site so the jar picks up CALYPSO_CSRF_TOKEN,
// which some tenants require on the jobs endpoint.
func (p *Provider) bootstrap(ctx context.Context, hc *http.Client, siteURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", source.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	if err := p.limiter.WaitURL(ctx, siteURL); err != nil {
		return "", err
	}
	res, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("workday bootstrap: %w", err)
	}
	defer res.Body.Close()
	preview, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	_, _ = io.Copy(io.Discard, res.Body)

	if looksBlocked(res, string(preview)) {
		return "", ErrBlocked
	}

	u, _ := url.Parse(siteURL)
	for _, c := range hc.Jar.Cookies(u) {
		if c.Name == "CALYPSO_CSRF_TOKEN" && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("workday bootstrap: no CALYPSO_CSRF_TOKEN cookie (status=%d)", res.StatusCode)
}

func looksBlocked(res *http.Response, preview string) bool {
	if res.StatusCode == http.StatusForbidden || res.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if strings.Contains(strings.ToLower(res.Header.Get("Server")), "cloudflare") && res.Header.Get("CF-RAY") != "" {
		return true
	}
	low := strings.ToLower(preview)
	return strings.Contains(low, "/cdn-cgi/") ||
		strings.Contains(low, "checking your browser")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
