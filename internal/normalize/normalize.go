// Package normalize turns vendor postings into canonical job records.
package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cast"

	"jobfinder-engine/internal/domain"
)

type Normalizer struct {
	fields FieldMap
	log    *slog.Logger
}

func New(fields FieldMap, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{fields: fields, log: logger.With("component", "normalize")}
}

// Normalize extracts every posting, skipping the ones that cannot be coerced,
// and returns the cleaned batch.
func (n *Normalizer) Normalize(raws []domain.RawPosting) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(raws))
	for i, raw := range raws {
		rec, err := n.Extract(i, raw)
		if err != nil {
			n.log.Warn("skipping posting", "index", i, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return Clean(out)
}

// Extract builds one record. It does not drop blank titles; Clean does.
func (n *Normalizer) Extract(index int, raw domain.RawPosting) (domain.JobRecord, error) {
	if raw == nil {
		return domain.JobRecord{}, &domain.MalformedRecordError{Index: index, Field: "posting", Err: errors.New("nil posting")}
	}
	f := n.fields
	var firstErr error
	get := func(key string) string {
		s, err := stringField(raw, key)
		if err != nil && firstErr == nil {
			firstErr = &domain.MalformedRecordError{Index: index, Field: key, Err: err}
		}
		return s
	}

	title := strings.TrimSpace(get(f.Title))
	company := strings.TrimSpace(get(f.Company))
	city, state, country := get(f.City), get(f.State), get(f.Country)
	desc := get(f.Description)
	link := strings.TrimSpace(get(f.ApplyLink))
	empType := get(f.EmploymentType)
	if firstErr != nil {
		return domain.JobRecord{}, firstErr
	}
	remote := f.Remote != "" && Truthy(raw[f.Remote])

	return domain.JobRecord{
		Title:       title,
		Company:     company,
		Location:    FormatLocation(remote, city, state, country),
		Description: FormatDescription(desc),
		ApplyLink:   link,
		JobType:     FormatJobType(empType, remote),
		PostingDate: FormatPostingDate(raw, f.PostedAt),
	}, nil
}

// Clean drops blank titles, collapses whitespace and removes (title, company)
// duplicates keeping the first. Running it twice changes nothing.
func Clean(records []domain.JobRecord) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		r.Company = CleanText(r.Company)
		r.Location = CleanText(r.Location)
		r.Description = CleanText(r.Description)
		if _, dup := seen[r.Key()]; dup {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r.WithTags(r.Tags))
	}
	return out
}

// Dedup keeps the first record per (title, company) without touching fields.
func Dedup(records []domain.JobRecord) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.Key()]; dup {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r)
	}
	return out
}

func stringField(raw domain.RawPosting, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	switch v.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("unexpected %T", v)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", err
	}
	return s, nil
}

// Truthy reads a vendor flag the way loosely typed payloads mean it.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		s := strings.TrimSpace(t)
		if b, err := cast.ToBoolE(s); err == nil {
			return b
		}
		return s != ""
	default:
		if f, err := cast.ToFloat64E(t); err == nil {
			return f != 0
		}
		return true
	}
}
