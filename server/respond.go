package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/spektr-org/marquee/dashboard"
	"github.com/spektr-org/marquee/dataset"
	"github.com/spektr-org/marquee/engine"
	"github.com/spektr-org/marquee/logging"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Status    string    `json:"status"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// APIError is the error half of an envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeBadRequest  = "BAD_REQUEST"
	CodeNotLoaded   = "DATASET_NOT_LOADED"
	CodeConflict    = "SCHEMA_CONFLICT"
	CodeInternal    = "INTERNAL_ERROR"
	CodeRateLimited = "RATE_LIMITED"
)

// errBadRequest marks query parsing failures.
var errBadRequest = errors.New("bad request")

func respondJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, &Envelope{Status: "ok", Data: data, Timestamp: time.Now().UTC()})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, &Envelope{
		Status:    "error",
		Error:     &APIError{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}

func writeEnvelope(w http.ResponseWriter, status int, env *Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondFailure maps a service error onto a status and error code.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, CodeInternal
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, engine.ErrUnknownPlotMode),
		errors.Is(err, dashboard.ErrUnknownPanel):
		status, code = http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, dataset.ErrNotLoaded):
		status, code = http.StatusServiceUnavailable, CodeNotLoaded
	case errors.Is(err, dataset.ErrSchemaMismatch):
		status, code = http.StatusConflict, CodeConflict
	}
	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	respondError(w, status, code, err.Error())
}
