// Package events fans out dashboard notifications to SSE subscribers.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypePing            = "ping"
	TypeSearchCompleted = "search_completed"
	TypeJobSaved        = "job_saved"
	TypeJobUnsaved      = "job_unsaved"
	TypeDigestSent      = "digest_sent"
	TypeConfigSaved     = "config_saved"
	TypeSyncFinished    = "sync_finished"
)

type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MakeEvent encodes an event envelope. Data that fails to marshal is dropped.
func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = b
		}
	}
	e := Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
