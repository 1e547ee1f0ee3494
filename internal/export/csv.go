// Package export writes record batches as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"jobfinder-engine/internal/domain"
)

var Header = []string{
	"Job Title", "Company", "Location", "Description", "Apply Link",
	"Job Type", "Posting Date", "QueryFlag", "Tags",
}

// WriteCSV writes the header and one row per record in input order.
func WriteCSV(w io.Writer, records []domain.JobRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range records {
		row := []string{
			r.Title, r.Company, r.Location, r.Description, r.ApplyLink,
			r.JobType, r.PostingDate, r.QueryFlag, strings.Join(r.Tags, ", "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var (
	reInvalid    = regexp.MustCompile(`[<>:"/\\|?*]`)
	reUnderscore = regexp.MustCompile(`_+`)
)

// SanitizeFilename makes name safe for a Content-Disposition filename.
func SanitizeFilename(name string) string {
	s := reInvalid.ReplaceAllString(name, "_")
	s = reUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "jobs"
	}
	return s
}
