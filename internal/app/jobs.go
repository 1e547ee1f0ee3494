package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/digest"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/scheduler"
	"jobfinder-engine/internal/search"
	"jobfinder-engine/internal/secrets"
	"jobfinder-engine/internal/sheet"
	"jobfinder-engine/internal/store"
)

type Searcher interface {
	Search(ctx context.Context, req search.Request) (search.Result, error)
}

// Sink picks the spreadsheet sink named in cfg.
func Sink(cfg config.Config, db *sql.DB, sec Secrets, logger *slog.Logger) (sheet.Sink, error) {
	key, err := sheet.ParseKey(cfg.Sheet.Key)
	if err != nil {
		return nil, &domain.ConfigurationError{Setting: "sheet.key", Reason: err.Error()}
	}
	switch cfg.Sheet.Sink {
	case "sqlite":
		if db == nil {
			return nil, &domain.ConfigurationError{Setting: "sheet.sink", Reason: "sqlite sink needs the local database"}
		}
		return sheet.NewSQLiteSink(store.NewSheetRows(db), key), nil
	case "", "airtable":
		return sheet.NewAirtable(sheet.AirtableConfig{
			APIKey: sec.get(secrets.AirtableAPIKey),
			BaseID: sec.get(secrets.AirtableBaseID),
			Table:  sec.get(secrets.AirtableTableName),
		}, logger)
	}
	return nil, &domain.ConfigurationError{Setting: "sheet.sink", Reason: fmt.Sprintf("unknown sink %q", cfg.Sheet.Sink)}
}

// Sync runs the configured sheet search and uploads the new rows.
func Sync(ctx context.Context, cfg config.Config, searcher Searcher, sink sheet.Sink, logger *slog.Logger, now time.Time) (sheet.Report, error) {
	key, err := sheet.ParseKey(cfg.Sheet.Key)
	if err != nil {
		return sheet.Report{}, &domain.ConfigurationError{Setting: "sheet.key", Reason: err.Error()}
	}
	since, err := sheet.ParseSince(cfg.Sheet.Since, now)
	if err != nil {
		return sheet.Report{}, &domain.ConfigurationError{Setting: "sheet.since", Reason: err.Error()}
	}

	res, err := searcher.Search(ctx, cfg.Sheet.Search.Request())
	if err != nil {
		return sheet.Report{}, fmt.Errorf("sync search: %w", err)
	}

	dir := cfg.App.DataDir
	if dir == "" {
		dir = config.DataDir()
	}
	return sheet.Upload(ctx, sink, res.Records, sheet.Options{
		Key:     key,
		Since:   since,
		Limit:   cfg.Sheet.Limit,
		Source:  cfg.Sheet.Source,
		LockDir: dir,
		Logger:  logger,
	})
}

// ScheduleDigest registers the configured digest on sch. A disabled digest
// registers nothing.
func ScheduleDigest(ctx context.Context, sch *scheduler.Scheduler, cfg config.Config, mailer *digest.Mailer, searcher digest.Searcher) error {
	if !cfg.Digest.Enabled {
		return nil
	}
	sub := digest.Subscription{
		To:        cfg.Digest.To,
		Request:   cfg.Digest.Search.Request(),
		Frequency: cfg.Digest.Frequency,
		At:        cfg.Digest.At,
		Spec:      cfg.Digest.Spec,
	}
	spec, err := sub.CronSpec()
	if err != nil {
		return fmt.Errorf("digest schedule: %w", err)
	}
	return sch.Add(ctx, spec, "digest", mailer.Task(searcher, sub))
}

// ErrSyncRunning is returned by a scheduled sync that found another one in
// progress.
var ErrSyncRunning = errors.New("sync already running")

// ScheduleSync registers the unattended spreadsheet sync. trigger starts a run
// in the background and reports false when one is already going.
func ScheduleSync(ctx context.Context, sch *scheduler.Scheduler, cfg config.Config, trigger func() bool) error {
	if cfg.Sheet.Spec == "" {
		return nil
	}
	return sch.Add(ctx, cfg.Sheet.Spec, "sheet-sync", func(context.Context) error {
		if !trigger() {
			return ErrSyncRunning
		}
		return nil
	})
}
