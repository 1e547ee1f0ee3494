package httpapi

import (
	"jobfinder-engine/internal/classify"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/stats"
)

// SyncStatus tracks the background spreadsheet sync.
type SyncStatus struct {
	LastRunAt    string `json:"last_run_at"`
	LastOkAt     string `json:"last_ok_at"`
	LastError    string `json:"last_error"`
	LastUploaded int    `json:"last_uploaded"`
	LastSkipped  int    `json:"last_skipped"`
	LastFailed   int    `json:"last_failed"`
	Running      bool   `json:"running"`
}

type DigestStatus struct {
	To      string `json:"to"`
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

type SearchResponse struct {
	Summary  string              `json:"summary"`
	Count    int                 `json:"count"`
	Jobs     []domain.JobRecord  `json:"jobs"`
	Stats    stats.Summary       `json:"stats"`
	Tags     []classify.TagCount `json:"tags"`
	Digest   *DigestStatus       `json:"digest,omitempty"`
	Warning  string              `json:"warning,omitempty"`
	Searched string              `json:"searchedAt"`
}

type JobsResponse struct {
	Count    int                `json:"count"`
	Tag      string             `json:"tag"`
	Mode     string             `json:"mode"`
	Jobs     []domain.JobRecord `json:"jobs"`
	Searched string             `json:"searchedAt,omitempty"`
}
