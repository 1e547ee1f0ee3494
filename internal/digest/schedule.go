package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobfinder-engine/internal/scheduler"
	"jobfinder-engine/internal/search"
)

type Searcher interface {
	Search(ctx context.Context, req search.Request) (search.Result, error)
}

// Subscription is a saved search mailed on a schedule.
type Subscription struct {
	To        string
	Request   search.Request
	Frequency string // Daily, Weekly
	At        string // HH:MM
	Spec      string // explicit cron spec, wins over Frequency/At
}

func (s Subscription) CronSpec() (string, error) {
	if spec := strings.TrimSpace(s.Spec); spec != "" {
		return spec, nil
	}
	return scheduler.Spec(s.Frequency, s.At)
}

// Task runs the saved search and mails the result. Search failures and
// delivery failures are both reported as errors for the scheduler to log.
func (m *Mailer) Task(searcher Searcher, sub Subscription) scheduler.Task {
	return func(ctx context.Context) error {
		res, err := searcher.Search(ctx, sub.Request)
		if err != nil {
			return fmt.Errorf("digest search: %w", err)
		}
		prefs := Preferences{
			Keyword:      res.Request.Keyword,
			Location:     res.Request.Location,
			JobTypes:     res.Request.Buckets,
			LocationMode: string(res.Request.LocationMode),
			Frequency:    sub.Frequency,
		}
		if ok, msg := m.SendDigest(ctx, sub.To, res.Records, prefs); !ok {
			return errors.New(msg)
		}
		return nil
	}
}
