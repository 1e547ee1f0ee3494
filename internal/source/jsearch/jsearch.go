// Package jsearch queries the JSearch job API on RapidAPI.
package jsearch

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

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
)

const (
	DefaultBaseURL = "https://jsearch.p.rapidapi.com"
	DefaultHost    = "jsearch.p.rapidapi.com"
	DefaultTimeout = 15 * time.Second

	KeySetting = "RAPIDAPI_KEY"
)

type Config struct {
	BaseURL string
	Host    string // X-RapidAPI-Host
	APIKey  string
	Timeout time.Duration
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
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		log:     logger.With("component", "jsearch"),
	}
}

func (p *Provider) Name() string { return "jsearch" }

func (p *Provider) Fields() normalize.FieldMap { return normalize.JSearchFields }

type envelope struct {
	Status string `json:"status"`
	Data   []any  `json:"data"`
}

// Search issues one GET /search. A non-OK status or empty data is an empty
// batch, not an error.
func (p *Provider) Search(ctx context.Context, q source.Query) ([]domain.RawPosting, error) {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return nil, &domain.ConfigurationError{Setting: KeySetting}
	}
	q = q.WithDefaults()

	u, err := url.Parse(strings.TrimRight(p.cfg.BaseURL, "/") + "/search")
	if err != nil {
		return nil, &domain.ConfigurationError{Setting: "jsearch base url", Reason: err.Error()}
	}
	vals := url.Values{}
	vals.Set("query", q.Text())
	vals.Set("page", strconv.Itoa(q.Page))
	vals.Set("num_pages", strconv.Itoa(q.NumPages))
	vals.Set("date_posted", q.DatePosted)
	u.RawQuery = vals.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, p.transport(0, err)
	}
	req.Header.Set("X-RapidAPI-Key", p.cfg.APIKey)
	req.Header.Set("X-RapidAPI-Host", p.cfg.Host)
	req.Header.Set("User-Agent", source.UserAgent)

	if err := p.limiter.WaitURL(ctx, u.String()); err != nil {
		return nil, p.transport(0, err)
	}

	start := time.Now()
	res, err := p.hc.Do(req)
	if err != nil {
		return nil, p.transport(0, fmt.Errorf("jsearch get: %w", err))
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, p.transport(res.StatusCode, fmt.Errorf("jsearch status %d", res.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, p.transport(0, fmt.Errorf("jsearch decode: %w", err))
	}
	p.log.Info("search done", "query", q.Text(), "status", env.Status, "count", len(env.Data), "took_ms", time.Since(start).Milliseconds())

	if env.Status != "OK" || len(env.Data) == 0 {
		return nil, nil
	}
	out := make([]domain.RawPosting, len(env.Data))
	for i, d := range env.Data {
		// non-object entries stay nil and are skipped by the normalizer
		if m, ok := d.(map[string]any); ok {
			out[i] = m
		}
	}
	return out, nil
}

func (p *Provider) transport(status int, err error) error {
	return &domain.TransportError{Provider: p.Name(), StatusCode: status, Err: err}
}
