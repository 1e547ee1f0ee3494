package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/search"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Field     string `json:"field,omitempty"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

const retryHint = "The job search service could not be reached. Please try again in a moment."

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeErrorField(w, r, status, code, message, "")
}

func writeErrorField(w http.ResponseWriter, r *http.Request, status int, code, message, field string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.Field = field
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeSearchError maps pipeline failures onto HTTP statuses.
func writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *search.ValidationError
		cerr *domain.ConfigurationError
		terr *domain.TransportError
	)
	switch {
	case errors.As(err, &verr):
		writeErrorField(w, r, http.StatusBadRequest, "invalid_request", verr.Message, verr.Field)
	case errors.As(err, &cerr):
		WriteError(w, r, http.StatusInternalServerError, "configuration", cerr.Error())
	case errors.As(err, &terr):
		WriteError(w, r, http.StatusBadGateway, "upstream_unavailable", retryHint+" ("+terr.Error()+")")
	case errors.Is(err, context.DeadlineExceeded):
		WriteError(w, r, http.StatusGatewayTimeout, "timeout", retryHint)
	case errors.Is(err, context.Canceled):
		// client went away; nobody reads this
		WriteError(w, r, 499, "canceled", "request canceled")
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
