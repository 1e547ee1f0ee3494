package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SheetRows is the local spreadsheet table: one JSON field set per dedup key.
type SheetRows struct {
	db *sql.DB
}

func NewSheetRows(db *sql.DB) *SheetRows { return &SheetRows{db: db} }

type SheetRow struct {
	Key       string
	Fields    map[string]any
	CreatedAt time.Time
}

// Insert adds a row. It reports false when the key already exists.
func (s *SheetRows) Insert(ctx context.Context, key string, fields map[string]any) (bool, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return false, fmt.Errorf("encode sheet row: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO sheet_rows (dedup_key, fields, created_at)
VALUES (?, ?, ?);`, key, string(b), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("insert sheet row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SheetRows) List(ctx context.Context) ([]SheetRow, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT dedup_key, fields, created_at
FROM sheet_rows
ORDER BY id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("list sheet rows: %w", err)
	}
	defer rows.Close()

	var out []SheetRow
	for rows.Next() {
		var r SheetRow
		var fieldsJSON, created string
		if err := rows.Scan(&r.Key, &fieldsJSON, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &r.Fields); err != nil {
			return nil, fmt.Errorf("decode sheet row %q: %w", r.Key, err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out, rows.Err()
}
