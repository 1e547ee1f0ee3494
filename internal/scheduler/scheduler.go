// Package scheduler runs named tasks on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

type Task func(ctx context.Context) error

type Scheduler struct {
	c   *cron.Cron
	log *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		c:   cron.New(),
		log: logger.With("component", "scheduler"),
	}
}

// Add registers task under spec (standard five-field cron or a descriptor
// such as "@daily"). Each run gets ctx; errors are logged, never fatal.
func (s *Scheduler) Add(ctx context.Context, spec, name string, task Task) error {
	_, err := s.c.AddFunc(spec, func() {
		s.log.Info("task start", "task", name)
		if err := task(ctx); err != nil {
			s.log.Error("task failed", "task", name, "error", err)
			return
		}
		s.log.Info("task done", "task", name)
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop waits for running tasks to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) Len() int { return len(s.c.Entries()) }

// Spec turns a digest frequency ("Daily", "Weekly") and a time of day
// ("08:00") into a cron spec. Weekly runs on Mondays.
func Spec(frequency, at string) (string, error) {
	h, m := 8, 0
	if at = strings.TrimSpace(at); at != "" {
		hh, mm, ok := strings.Cut(at, ":")
		if !ok {
			return "", fmt.Errorf("time %q: want HH:MM", at)
		}
		var err error
		if h, err = strconv.Atoi(hh); err != nil || h < 0 || h > 23 {
			return "", fmt.Errorf("time %q: bad hour", at)
		}
		if m, err = strconv.Atoi(mm); err != nil || m < 0 || m > 59 {
			return "", fmt.Errorf("time %q: bad minute", at)
		}
	}
	switch strings.ToLower(strings.TrimSpace(frequency)) {
	case "", "daily":
		return fmt.Sprintf("%d %d * * *", m, h), nil
	case "weekly":
		return fmt.Sprintf("%d %d * * 1", m, h), nil
	}
	return "", fmt.Errorf("frequency %q: want Daily or Weekly", frequency)
}

// Validate reports whether spec is a standard five-field cron spec.
func Validate(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}
