// Package session holds the state one dashboard user accumulates between
// requests: the latest search batch and the saved-jobs list.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/search"
	"jobfinder-engine/internal/store"
)

// ErrNoSuchSaved is returned for an out-of-range saved-list position.
var ErrNoSuchSaved = store.ErrNotFound

// ErrNoSuchResult is returned for an out-of-range position in the current batch.
var ErrNoSuchResult = errors.New("no such result")

// SavedStore persists saved jobs. store.SavedJobs implements it.
type SavedStore interface {
	Add(ctx context.Context, rec domain.JobRecord) (bool, error)
	List(ctx context.Context) ([]domain.JobRecord, error)
	RemoveAt(ctx context.Context, i int) (domain.JobRecord, error)
	Clear(ctx context.Context) error
}

type Session struct {
	mu      sync.RWMutex
	current search.Result
	has     bool
	saved   SavedStore
}

// New wraps saved; a nil saved keeps the list in memory.
func New(saved SavedStore) *Session {
	if saved == nil {
		saved = &memorySaved{}
	}
	return &Session{saved: saved}
}

// SetResult replaces the current batch.
func (s *Session) SetResult(res search.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = res
	s.has = true
}

// Current returns the latest batch. ok is false before the first search.
func (s *Session) Current() (res search.Result, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res = s.current
	res.Records = append([]domain.JobRecord(nil), s.current.Records...)
	return res, s.has
}

func (s *Session) Records() []domain.JobRecord {
	res, _ := s.Current()
	return res.Records
}

func (s *Session) SearchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.At
}

// Save adds rec unless the same (title, company) is already saved.
func (s *Session) Save(ctx context.Context, rec domain.JobRecord) (bool, error) {
	return s.saved.Add(ctx, rec)
}

// SaveAt saves the i-th record of the current batch.
func (s *Session) SaveAt(ctx context.Context, i int) (domain.JobRecord, bool, error) {
	recs := s.Records()
	if i < 0 || i >= len(recs) {
		return domain.JobRecord{}, false, ErrNoSuchResult
	}
	added, err := s.saved.Add(ctx, recs[i])
	return recs[i], added, err
}

func (s *Session) Saved(ctx context.Context) ([]domain.JobRecord, error) {
	return s.saved.List(ctx)
}

func (s *Session) Unsave(ctx context.Context, i int) (domain.JobRecord, error) {
	return s.saved.RemoveAt(ctx, i)
}

func (s *Session) ClearSaved(ctx context.Context) error {
	return s.saved.Clear(ctx)
}

type memorySaved struct {
	mu   sync.Mutex
	recs []domain.JobRecord
}

func (m *memorySaved) Add(_ context.Context, rec domain.JobRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.Key() == rec.Key() {
			return false, nil
		}
	}
	m.recs = append(m.recs, rec.WithTags(rec.Tags))
	return true, nil
}

func (m *memorySaved) List(context.Context) ([]domain.JobRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.JobRecord{}, m.recs...), nil
}

func (m *memorySaved) RemoveAt(_ context.Context, i int) (domain.JobRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.recs) {
		return domain.JobRecord{}, ErrNoSuchSaved
	}
	r := m.recs[i]
	m.recs = append(m.recs[:i:i], m.recs[i+1:]...)
	return r, nil
}

func (m *memorySaved) Clear(context.Context) error {
	m.mu.Lock()
	m.recs = nil
	m.mu.Unlock()
	return nil
}
