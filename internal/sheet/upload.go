package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"jobfinder-engine/internal/domain"
)

const LockFile = "sheet-sync.lock"

type Options struct {
	Key      KeyFunc
	Since    Since
	Limit    int    // rows considered after the date filter; 0 = all
	Source   string // value of the Source column
	LockDir  string // when set, the run holds an exclusive lock file here
	LockWait time.Duration
	Logger   *slog.Logger
}

type Report struct {
	Sink       string  `json:"sink"`
	Considered int     `json:"considered"`
	Filtered   int     `json:"filtered"`
	Skipped    int     `json:"skipped"`
	Uploaded   int     `json:"uploaded"`
	Failures   []error `json:"-"`
}

// Upload creates one row per record whose key is not already in the sink or
// earlier in the batch. Failing to read existing rows aborts the run; a failed
// create is recorded in the report and the run continues.
func Upload(ctx context.Context, sink Sink, records []domain.JobRecord, opts Options) (Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "sheet", "sink", sink.Name())
	key := opts.Key
	if key == nil {
		key = TitleCompanyLocation
	}
	rep := Report{Sink: sink.Name()}

	if opts.LockDir != "" {
		unlock, err := lock(ctx, filepath.Join(opts.LockDir, LockFile), opts.LockWait)
		if err != nil {
			return rep, err
		}
		defer unlock()
	}

	existing, err := sink.ExistingRows(ctx)
	if err != nil {
		return rep, fmt.Errorf("list existing rows: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[key(r)] = true
	}

	for _, rec := range records {
		if !opts.Since.Keep(rec) {
			rep.Filtered++
			continue
		}
		if opts.Limit > 0 && rep.Considered == opts.Limit {
			break
		}
		rep.Considered++

		row := RowFromRecord(rec, opts.Source)
		k := key(row)
		if seen[k] {
			rep.Skipped++
			log.Info("skipped duplicate", "title", row.Title, "company", row.Company)
			continue
		}
		seen[k] = true

		if err := sink.Create(ctx, row); err != nil {
			derr := &domain.DeliveryError{Channel: sink.Name(), Target: row.Title + " @ " + row.Company, Err: err}
			rep.Failures = append(rep.Failures, derr)
			log.Warn("row not created", "error", derr)
			continue
		}
		rep.Uploaded++
		log.Info("row created", "title", row.Title, "company", row.Company)
	}
	log.Info("sync done", "uploaded", rep.Uploaded, "skipped", rep.Skipped, "filtered", rep.Filtered, "failed", len(rep.Failures))
	return rep, nil
}

func lock(ctx context.Context, path string, wait time.Duration) (func(), error) {
	if wait <= 0 {
		wait = 5 * time.Second
	}
	fl := flock.New(path)
	lctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	ok, err := fl.TryLockContext(lctx, 100*time.Millisecond)
	if err != nil || !ok {
		if err == nil {
			err = lctx.Err()
		}
		return nil, fmt.Errorf("another sync holds %s: %w", path, err)
	}
	return func() { _ = fl.Unlock() }, nil
}
