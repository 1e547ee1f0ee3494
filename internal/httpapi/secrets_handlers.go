package httpapi

import (
	"net/http"
	"slices"
	"strings"

	"jobfinder-engine/internal/secrets"
)

type SecretsHandler struct{}

type setSecretReq struct {
	Value string `json:"value"`
}

// Status lists which credentials resolve. Values are never returned.
func (h SecretsHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, secrets.Status())
}

func (h SecretsHandler) name(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := strings.TrimPrefix(r.URL.Path, "/secrets/")
	if !slices.Contains(secrets.Known, name) {
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown secret "+name)
		return "", false
	}
	return name, true
}

func (h SecretsHandler) Set(w http.ResponseWriter, r *http.Request) {
	name, ok := h.name(w, r)
	if !ok {
		return
	}
	var req setSecretReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := secrets.Set(name, req.Value); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_error", "failed to store secret: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name, ok := h.name(w, r)
	if !ok {
		return
	}
	if err := secrets.Delete(name); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
