package api

import (
	"encoding/json"
	"net/http"

	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps domain errors onto HTTP status codes. Internal detail is
// logged but only 4xx messages are echoed back to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, errors.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
		message = err.Error()
	case errors.Is(err, errors.ErrUnsupportedFormat),
		errors.Is(err, errors.ErrInvalidInput),
		errors.Is(err, errors.ErrSuspiciousContent),
		errors.Is(err, errors.ErrExtraction):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, errors.ErrRateLimitExceeded):
		status = http.StatusTooManyRequests
		message = err.Error()
	// Validation failures mean the model produced output we cannot trust,
	// which is an upstream fault, not a client one.
	case errors.Is(err, errors.ErrValidation):
		status = http.StatusBadGateway
		message = "model response failed validation"
	case errors.Is(err, errors.ErrRecordStore), errors.Is(err, errors.ErrModelFailure):
		status = http.StatusBadGateway
		message = "upstream service unavailable"
	}

	if status >= 500 {
		logger.Get().Errorw("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.Get().Debugw("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	respondJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid request body: %v", err)
	}
	return nil
}
