package domain

import "strings"

// RawPosting is one vendor posting as decoded from the provider response.
// Keys and value shapes differ per provider; the normalizer owns the mapping.
type RawPosting map[string]any

const (
	NotSpecified  = "Not specified"
	NotAvailable  = "Not available"
	NoDescription = "No description available"
)

// JobRecord is the canonical posting every stage after normalization works on.
type JobRecord struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	ApplyLink   string   `json:"applyLink"`
	JobType     string   `json:"jobType"`
	PostingDate string   `json:"postingDate"`
	QueryFlag   string   `json:"queryFlag"`
	Tags        []string `json:"tags"`
}

// RemoteKeywords trigger the remote flag when found (case-insensitive) in the
// location, job type or title.
var RemoteKeywords = []string{
	"remote",
	"work from home",
	"wfh",
	"telecommute",
	"virtual",
	"anywhere",
}

func (j JobRecord) IsRemote() bool {
	blob := strings.ToLower(j.Location + "\n" + j.JobType + "\n" + j.Title)
	for _, kw := range RemoteKeywords {
		if strings.Contains(blob, kw) {
			return true
		}
	}
	return false
}

// Key is the (title, company) identity used for deduplication.
func (j JobRecord) Key() string {
	return j.Title + "\x00" + j.Company
}

// WithTags returns a copy carrying its own tag slice.
func (j JobRecord) WithTags(tags []string) JobRecord {
	out := j
	out.Tags = append([]string(nil), tags...)
	return out
}

func (j JobRecord) HasTag(label string) bool {
	for _, t := range j.Tags {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(label)) {
			return true
		}
	}
	return false
}
