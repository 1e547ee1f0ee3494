package httpapi

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"jobfinder-engine/internal/classify"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/digest"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/search"
	"jobfinder-engine/internal/session"
	"jobfinder-engine/internal/sheet"
)

// Searcher runs the search pipeline. *search.Service satisfies it.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (search.Result, error)
	Buckets() []search.Bucket
	Table() classify.Table
}

// Mailer delivers digests. *digest.Mailer satisfies it.
type Mailer interface {
	Configured() bool
	SendDigest(ctx context.Context, to string, records []domain.JobRecord, prefs digest.Preferences) (bool, string)
	SendTest(ctx context.Context, to string) (bool, string)
}

type Deps struct {
	Search  Searcher
	Session *session.Session
	Mailer  Mailer
	Hub     *events.Hub
	Logger  *slog.Logger

	// Atomic stores
	CfgVal     *atomic.Value // stores config.Config
	SyncStatus *atomic.Value // stores httpapi.SyncStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	// OnConfig runs after a saved config is reloaded, e.g. to rebuild providers.
	OnConfig func(config.Config) error

	// Sync entrypoint (inject for testability)
	RunSync func(ctx context.Context) (sheet.Report, error)

	Now func() time.Time
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Syncer returns the runner behind /sync/run. Scheduled syncs share it so both
// paths respect the single-run guard and report into the same status.
func (d Deps) Syncer() SyncHandler {
	if d.SyncStatus == nil {
		d.SyncStatus = &atomic.Value{}
	}
	// CompareAndSwap needs a stored value to compare against.
	d.SyncStatus.CompareAndSwap(nil, SyncStatus{})
	return SyncHandler{
		SyncStatus: d.SyncStatus,
		Hub:        d.Hub,
		RunSync:    d.RunSync,
		Log:        d.logger().With("component", "sync_api"),
	}
}
