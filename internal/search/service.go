// Package search runs a validated request across buckets and providers and
// produces one tagged, filtered batch.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"jobfinder-engine/internal/classify"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/normalize"
	"jobfinder-engine/internal/source"
	"jobfinder-engine/internal/stats"
)

const DefaultProviderTimeout = 30 * time.Second

type Options struct {
	Providers       []source.Provider
	Table           classify.Table
	Buckets         []Bucket
	ProviderTimeout time.Duration
	Logger          *slog.Logger
	Now             func() time.Time
}

type Service struct {
	providers []source.Provider
	table     classify.Table
	buckets   []Bucket
	timeout   time.Duration
	log       *slog.Logger
	now       func() time.Time
}

func NewService(opts Options) *Service {
	s := &Service{
		providers: opts.Providers,
		table:     opts.Table,
		buckets:   opts.Buckets,
		timeout:   opts.ProviderTimeout,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.table.Len() == 0 {
		s.table = classify.DefaultTable()
	}
	if len(s.buckets) == 0 {
		s.buckets = DefaultBuckets
	}
	if s.timeout <= 0 {
		s.timeout = DefaultProviderTimeout
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("component", "search")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type Result struct {
	Request Request            `json:"request"`
	Records []domain.JobRecord `json:"records"`
	Summary string             `json:"summary"`
	At      time.Time          `json:"at"`
}

func (s *Service) Buckets() []Bucket { return append([]Bucket(nil), s.buckets...) }

func (s *Service) Table() classify.Table { return s.table }

// Search queries every selected bucket on every provider concurrently. Results
// merge in bucket order then provider order; the first bucket wins a
// duplicate. Any provider failure fails the whole search with no records.
func (s *Service) Search(ctx context.Context, req Request) (Result, error) {
	req, err := req.Validate(s.buckets)
	if err != nil {
		return Result{}, err
	}
	if len(s.providers) == 0 {
		return Result{}, &domain.ConfigurationError{Setting: "providers", Reason: "no job provider is enabled"}
	}

	buckets := make([]Bucket, len(req.Buckets))
	for i, name := range req.Buckets {
		buckets[i], _ = findBucket(s.buckets, name)
	}

	start := s.now()
	batches := make([][][]domain.JobRecord, len(buckets))
	g, gctx := errgroup.WithContext(ctx)
	for bi, b := range buckets {
		batches[bi] = make([][]domain.JobRecord, len(s.providers))
		for pi, p := range s.providers {
			g.Go(func() error {
				pctx, cancel := context.WithTimeout(gctx, s.timeout)
				defer cancel()

				q := source.Query{
					Keyword:    req.Keyword,
					Terms:      b.Terms,
					Location:   req.Location,
					Remote:     req.LocationMode == filter.RemoteOnly,
					DatePosted: req.DatePosted,
				}
				raws, err := p.Search(pctx, q)
				if err != nil {
					return fmt.Errorf("%s %q: %w", p.Name(), b.Name, err)
				}
				recs := normalize.New(p.Fields(), s.log).Normalize(raws)
				for i := range recs {
					recs[i].QueryFlag = b.Name
				}
				batches[bi][pi] = recs
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		s.log.Error("search failed", "keyword", req.Keyword, "error", err)
		return Result{Request: req, At: start}, unwrapCanceled(ctx, err)
	}

	var merged []domain.JobRecord
	for _, perProvider := range batches {
		for _, recs := range perProvider {
			merged = append(merged, recs...)
		}
	}
	merged = normalize.Dedup(merged)
	merged = filter.ApplyLocationMode(merged, req.LocationMode)
	merged = filter.Sort(merged, req.SortBy)
	merged = classify.Tag(merged, s.table)
	merged = filter.Limit(merged, req.MaxResults)

	s.log.Info("search done",
		"keyword", req.Keyword, "buckets", len(buckets), "providers", len(s.providers),
		"count", len(merged), "took_ms", s.now().Sub(start).Milliseconds())

	return Result{
		Request: req,
		Records: merged,
		Summary: stats.SearchSummary(req.Keyword, req.Location, len(merged), start),
		At:      start,
	}, nil
}

// unwrapCanceled reports the caller's cancellation as a transport failure so
// the HTTP layer has one shape to map.
func unwrapCanceled(ctx context.Context, err error) error {
	if ctx.Err() != nil && !domain.IsTransport(err) && !domain.IsConfiguration(err) {
		return &domain.TransportError{Provider: "search", Err: errors.Join(ctx.Err(), err)}
	}
	return err
}
