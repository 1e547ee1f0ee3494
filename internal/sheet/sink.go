package sheet

import (
	"context"

	"jobfinder-engine/internal/store"
)

// Sink is a remote or local table rows are synced into.
type Sink interface {
	Name() string
	ExistingRows(ctx context.Context) ([]Row, error)
	Create(ctx context.Context, r Row) error
}

// SQLiteSink writes to the local sheet_rows table, keyed by key.
type SQLiteSink struct {
	rows *store.SheetRows
	key  KeyFunc
}

func NewSQLiteSink(rows *store.SheetRows, key KeyFunc) *SQLiteSink {
	if key == nil {
		key = TitleCompanyLocation
	}
	return &SQLiteSink{rows: rows, key: key}
}

func (s *SQLiteSink) Name() string { return "sqlite" }

func (s *SQLiteSink) ExistingRows(ctx context.Context) ([]Row, error) {
	stored, err := s.rows.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(stored))
	for _, r := range stored {
		out = append(out, RowFromFields(r.Fields))
	}
	return out, nil
}

func (s *SQLiteSink) Create(ctx context.Context, r Row) error {
	_, err := s.rows.Insert(ctx, s.key(r), r.Fields())
	return err
}
