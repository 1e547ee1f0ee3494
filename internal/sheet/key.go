package sheet

import (
	"fmt"
	"strings"
)

// KeyFunc derives the identity used to skip rows that already exist.
type KeyFunc func(Row) string

const (
	KeyTitleCompanyLocation = "title-company-location"
	KeyDedupField           = "dedup-key"
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func TitleCompanyLocation(r Row) string {
	return norm(r.Title) + "\x00" + norm(r.Company) + "\x00" + norm(r.Location)
}

// LinkKey is the value written to the Dedup Key column: the apply link when
// present, else title and company.
func LinkKey(r Row) string {
	if l := norm(r.Link); l != "" {
		return l
	}
	return norm(r.Title) + "|" + norm(r.Company)
}

// DedupField reads the explicit Dedup Key column, computing it for rows that
// predate the column.
func DedupField(r Row) string {
	if k := norm(r.DedupKey); k != "" {
		return k
	}
	return LinkKey(r)
}

func ParseKey(name string) (KeyFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", KeyTitleCompanyLocation:
		return TitleCompanyLocation, nil
	case KeyDedupField:
		return DedupField, nil
	}
	return nil, fmt.Errorf("unknown dedup key strategy %q", name)
}
