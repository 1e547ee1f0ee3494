package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobfinder-engine/internal/domain"
)

const (
	DefaultAirtableURL = "https://api.airtable.com/v0"
	DefaultTable       = "Jobs"
)

type AirtableConfig struct {
	BaseURL string
	APIKey  string // AIRTABLE_API_KEY
	BaseID  string // AIRTABLE_BASE_ID
	Table   string // AIRTABLE_TABLE_NAME
}

type Airtable struct {
	cfg AirtableConfig
	hc  *http.Client
	log *slog.Logger
}

// NewAirtable checks credentials up front so a sync fails before any call.
func NewAirtable(cfg AirtableConfig, logger *slog.Logger) (*Airtable, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &domain.ConfigurationError{Setting: "AIRTABLE_API_KEY"}
	}
	if strings.TrimSpace(cfg.BaseID) == "" {
		return nil, &domain.ConfigurationError{Setting: "AIRTABLE_BASE_ID"}
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAirtableURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Airtable{
		cfg: cfg,
		hc:  &http.Client{Timeout: 20 * time.Second},
		log: logger.With("component", "airtable"),
	}, nil
}

func (a *Airtable) Name() string { return "airtable" }

func (a *Airtable) tableURL() string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(a.cfg.BaseURL, "/"),
		url.PathEscape(a.cfg.BaseID), url.PathEscape(a.cfg.Table))
}

type listResponse struct {
	Records []struct {
		ID     string         `json:"id"`
		Fields map[string]any `json:"fields"`
	} `json:"records"`
	Offset string `json:"offset"`
}

// ExistingRows pages through the whole table.
func (a *Airtable) ExistingRows(ctx context.Context) ([]Row, error) {
	var out []Row
	offset := ""
	for page := 0; ; page++ {
		q := url.Values{}
		q.Set("pageSize", "100")
		if offset != "" {
			q.Set("offset", offset)
		}
		var resp listResponse
		if err := a.do(ctx, http.MethodGet, a.tableURL()+"?"+q.Encode(), nil, &resp); err != nil {
			return nil, fmt.Errorf("airtable list page %d: %w", page, err)
		}
		for _, r := range resp.Records {
			out = append(out, RowFromFields(r.Fields))
		}
		if resp.Offset == "" {
			break
		}
		offset = resp.Offset
	}
	a.log.Info("existing rows", "table", a.cfg.Table, "count", len(out))
	return out, nil
}

func (a *Airtable) Create(ctx context.Context, r Row) error {
	body := map[string]any{"fields": r.Fields(), "typecast": true}
	return a.do(ctx, http.MethodPost, a.tableURL(), body, nil)
}

func (a *Airtable) do(ctx context.Context, method, u string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := a.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("airtable status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("airtable decode: %w", err)
	}
	return nil
}
