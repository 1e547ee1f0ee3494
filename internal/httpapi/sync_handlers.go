package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/sheet"
)

const syncTimeout = 5 * time.Minute

type SyncHandler struct {
	SyncStatus *atomic.Value // httpapi.SyncStatus
	Hub        *events.Hub
	RunSync    func(ctx context.Context) (sheet.Report, error)
	Log        *slog.Logger
}

func (h SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, _ := h.SyncStatus.Load().(SyncStatus)
	writeJSON(w, st)
}

// Run starts a sync in the background and returns at once.
func (h SyncHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.RunSync == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "sync_unavailable", "spreadsheet sync is not configured")
		return
	}
	if !h.Trigger(RequestIDFrom(r.Context())) {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// Trigger starts a background sync unless one is already running and reports
// whether it did. The outcome lands in SyncStatus and on the hub.
func (h SyncHandler) Trigger(reqID string) bool {
	if h.RunSync == nil {
		return false
	}
	st, _ := h.SyncStatus.Load().(SyncStatus)
	if st.Running {
		return false
	}
	next := st
	next.Running = true
	next.LastRunAt = time.Now().Format(time.RFC3339)
	next.LastError = ""
	if !h.SyncStatus.CompareAndSwap(st, next) {
		return false
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		rep, err := h.RunSync(ctx)

		now := time.Now().Format(time.RFC3339)
		done := h.SyncStatus.Load().(SyncStatus)
		done.Running = false
		done.LastRunAt = now
		done.LastUploaded = rep.Uploaded
		done.LastSkipped = rep.Skipped
		done.LastFailed = len(rep.Failures)
		if err != nil {
			done.LastError = err.Error()
			h.Log.Warn("sync failed", "request_id", reqID, "error", err)
		} else {
			done.LastError = ""
			done.LastOkAt = now
		}
		h.SyncStatus.Store(done)
		h.Hub.Emit(reqID, events.TypeSyncFinished, done)
	}()
	return true
}
