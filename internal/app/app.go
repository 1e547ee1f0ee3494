// Package app wires config, credentials and the domain packages into the
// services the commands run.
package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"jobfinder-engine/internal/classify"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/digest"
	"jobfinder-engine/internal/search"
	"jobfinder-engine/internal/secrets"
	"jobfinder-engine/internal/source"
	"jobfinder-engine/internal/source/greenhouse"
	"jobfinder-engine/internal/source/jsearch"
	"jobfinder-engine/internal/source/lever"
	"jobfinder-engine/internal/source/smartrecruiters"
	"jobfinder-engine/internal/source/workday"
)

const DBFile = "jobfinder.db"

// Secrets resolves a credential by name. secrets.Lookup is the default.
type Secrets func(name string) string

func (s Secrets) get(name string) string {
	if s == nil {
		return secrets.Lookup(name)
	}
	return s(name)
}

// DBPath is where the SQLite store lives for cfg.
func DBPath(cfg config.Config) string {
	dir := cfg.App.DataDir
	if dir == "" {
		dir = config.DataDir()
	}
	return filepath.Join(dir, DBFile)
}

// Providers builds the enabled providers sharing one host limiter.
func Providers(cfg config.Config, sec Secrets, logger *slog.Logger) []source.Provider {
	limiter := source.NewHostLimiter(cfg.Search.RateLimitPerSecond, cfg.Search.RateBurst)
	timeout := time.Duration(cfg.Search.ProviderTimeoutSeconds) * time.Second

	var out []source.Provider
	if js := cfg.Sources.JSearch; js.Enabled {
		out = append(out, jsearch.New(jsearch.Config{
			BaseURL: js.BaseURL,
			Host:    js.Host,
			APIKey:  sec.get(secrets.RapidAPIKey),
			Timeout: timeout,
		}, limiter, logger))
	}
	if lv := cfg.Sources.Lever; lv.Enabled && len(lv.Companies) > 0 {
		cos := make([]lever.Company, len(lv.Companies))
		for i, c := range lv.Companies {
			cos[i] = lever.Company{Slug: c.Slug, Name: c.Name}
		}
		out = append(out, lever.New(lever.Config{Companies: cos}, limiter, logger))
	}
	if gh := cfg.Sources.Greenhouse; gh.Enabled && len(gh.Companies) > 0 {
		cos := make([]greenhouse.Company, len(gh.Companies))
		for i, c := range gh.Companies {
			cos[i] = greenhouse.Company{Slug: c.Slug, Name: c.Name}
		}
		out = append(out, greenhouse.New(greenhouse.Config{Companies: cos, MaxJobs: gh.MaxJobs}, limiter, logger))
	}
	if sr := cfg.Sources.SmartRecruiters; sr.Enabled && len(sr.Companies) > 0 {
		cos := make([]smartrecruiters.Company, len(sr.Companies))
		for i, c := range sr.Companies {
			cos[i] = smartrecruiters.Company{Slug: c.Slug, Name: c.Name}
		}
		out = append(out, smartrecruiters.New(smartrecruiters.Config{Companies: cos}, limiter, logger))
	}
	if wd := cfg.Sources.Workday; wd.Enabled && len(wd.Sites) > 0 {
		cos := make([]workday.Company, len(wd.Sites))
		for i, s := range wd.Sites {
			cos[i] = workday.Company{URL: s.URL, Name: s.Name}
		}
		out = append(out, workday.New(workday.Config{Companies: cos}, limiter, logger))
	}
	return out
}

// NewSearch builds the search service for cfg.
func NewSearch(cfg config.Config, sec Secrets, logger *slog.Logger) (*search.Service, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, fmt.Errorf("category table: %w", err)
	}
	return search.NewService(search.Options{
		Providers:       Providers(cfg, sec, logger),
		Table:           table,
		Buckets:         cfg.Search.Buckets,
		ProviderTimeout: time.Duration(cfg.Search.ProviderTimeoutSeconds) * time.Second,
		Logger:          logger,
	}), nil
}

// NewMailer builds the digest mailer, archiving over IMAP when configured.
func NewMailer(cfg config.Config, sec Secrets, logger *slog.Logger) *digest.Mailer {
	from := sec.get(secrets.GmailEmail)
	pass := sec.get(secrets.GmailAppPassword)
	var opts []digest.Option
	if a := cfg.Digest.Archive; a.Enabled {
		opts = append(opts, digest.WithArchiver(&digest.IMAPArchiver{
			Addr:      a.IMAPAddr,
			Username:  from,
			Password:  pass,
			Mailbox:   a.Mailbox,
			TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		}))
	}
	return digest.NewMailer(digest.Config{
		From:     from,
		Password: pass,
		SMTPAddr: cfg.Digest.SMTPAddr,
		Timeout:  30 * time.Second,
	}, logger, opts...)
}

// Engine is a search service that can be swapped when the config changes.
type Engine struct {
	cur atomic.Pointer[search.Service]
	sec Secrets
	log *slog.Logger
}

func NewEngine(cfg config.Config, sec Secrets, logger *slog.Logger) (*Engine, error) {
	e := &Engine{sec: sec, log: logger}
	if err := e.Apply(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Apply rebuilds providers and tables from cfg.
func (e *Engine) Apply(cfg config.Config) error {
	svc, err := NewSearch(cfg, e.sec, e.log)
	if err != nil {
		return err
	}
	e.cur.Store(svc)
	return nil
}

func (e *Engine) Search(ctx context.Context, req search.Request) (search.Result, error) {
	return e.cur.Load().Search(ctx, req)
}

func (e *Engine) Buckets() []search.Bucket { return e.cur.Load().Buckets() }

func (e *Engine) Table() classify.Table { return e.cur.Load().Table() }
