package httpapi

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/events"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	OnConfig    func(config.Config) error
	Hub         *events.Hub
	Log         *slog.Logger
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, currentConfig(h.CfgVal))
}

func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	var incoming config.Config
	if err := decodeJSON(r, &incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		// structured so the UI can list every problem
		WriteJSON(w, http.StatusBadRequest, vr)
		return
	}

	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		WriteError(w, r, http.StatusBadRequest, "save_failed", err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "reload_failed", "saved but reload failed: "+err.Error())
		return
	}
	saved, _ = config.NormalizeAndValidate(saved)
	if h.OnConfig != nil {
		if err := h.OnConfig(saved); err != nil {
			WriteError(w, r, http.StatusInternalServerError, "apply_failed", "saved but could not apply: "+err.Error())
			return
		}
	}
	h.CfgVal.Store(saved)
	h.Log.Info("config saved", "path", h.UserCfgPath, "warnings", len(vr.Warnings))
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeConfigSaved, map[string]any{"warnings": vr.Warnings})
	writeJSON(w, saved)
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	writeJSON(w, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(currentConfig(h.CfgVal))
	writeJSON(w, vr)
}
