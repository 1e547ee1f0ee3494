package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobfinder-engine/internal/domain"
)

var ErrNotFound = errors.New("not found")

type SavedJobs struct {
	db *sql.DB
}

func NewSavedJobs(db *sql.DB) *SavedJobs { return &SavedJobs{db: db} }

// Add saves rec unless a job with the same (title, company) is already saved.
func (s *SavedJobs) Add(ctx context.Context, rec domain.JobRecord) (added bool, err error) {
	tags, err := json.Marshal(nonNil(rec.Tags))
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO saved_jobs
  (title, company, location, description, apply_link, job_type, posting_date, query_flag, tags, saved_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.Title, rec.Company, rec.Location, rec.Description, rec.ApplyLink,
		rec.JobType, rec.PostingDate, rec.QueryFlag, string(tags),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("save job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save job: %w", err)
	}
	return n > 0, nil
}

// List returns saved jobs in the order they were saved.
func (s *SavedJobs) List(ctx context.Context) ([]domain.JobRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT title, company, location, description, apply_link, job_type, posting_date, query_flag, tags
FROM saved_jobs
ORDER BY id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	defer rows.Close()

	out := []domain.JobRecord{}
	for rows.Next() {
		var r domain.JobRecord
		var tagsJSON string
		if err := rows.Scan(&r.Title, &r.Company, &r.Location, &r.Description, &r.ApplyLink,
			&r.JobType, &r.PostingDate, &r.QueryFlag, &tagsJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RemoveAt deletes the saved job at zero-based position i of List.
func (s *SavedJobs) RemoveAt(ctx context.Context, i int) (domain.JobRecord, error) {
	if i < 0 {
		return domain.JobRecord{}, ErrNotFound
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.JobRecord{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	var r domain.JobRecord
	var tagsJSON string
	err = tx.QueryRowContext(ctx, `
SELECT id, title, company, location, description, apply_link, job_type, posting_date, query_flag, tags
FROM saved_jobs
ORDER BY id ASC
LIMIT 1 OFFSET ?;`, i).Scan(&id, &r.Title, &r.Company, &r.Location, &r.Description, &r.ApplyLink,
		&r.JobType, &r.PostingDate, &r.QueryFlag, &tagsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.JobRecord{}, fmt.Errorf("find saved job %d: %w", i, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_jobs WHERE id = ?;`, id); err != nil {
		return domain.JobRecord{}, fmt.Errorf("remove saved job %d: %w", i, err)
	}
	_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
	return r, tx.Commit()
}

func (s *SavedJobs) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saved_jobs;`)
	return err
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
