package httpapi

import (
	"net/http"
	"strings"
	"sync/atomic"
)

type DigestHandler struct {
	Mailer Mailer
	CfgVal *atomic.Value // stores config.Config
}

type testEmailReq struct {
	To string `json:"to"`
}

// Test sends the SMTP check message. Delivery problems are reported in the
// body with a 200, matching how search digests report them.
func (h DigestHandler) Test(w http.ResponseWriter, r *http.Request) {
	var in testEmailReq
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	to := strings.TrimSpace(in.To)
	if to == "" {
		to = currentConfig(h.CfgVal).Digest.To
	}
	if to == "" {
		writeErrorField(w, r, http.StatusBadRequest, "invalid_request", "recipient address is required", "to")
		return
	}
	if h.Mailer == nil {
		writeJSON(w, map[string]any{"ok": false, "warning": "Email digest is not available."})
		return
	}

	ok, msg := h.Mailer.SendTest(r.Context(), to)
	out := map[string]any{"ok": ok, "message": msg}
	if !ok {
		out["warning"] = msg
	}
	writeJSON(w, out)
}

func (h DigestHandler) Status(w http.ResponseWriter, r *http.Request) {
	cfg := currentConfig(h.CfgVal)
	writeJSON(w, map[string]any{
		"configured": h.Mailer != nil && h.Mailer.Configured(),
		"enabled":    cfg.Digest.Enabled,
		"to":         cfg.Digest.To,
		"frequency":  cfg.Digest.Frequency,
		"at":         cfg.Digest.At,
	})
}
