package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"ednaviz/internal/charts"
	"ednaviz/internal/dashboard"
	"ednaviz/internal/logger"
	"ednaviz/internal/projector"
	"ednaviz/internal/storage"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// EmptyState is the body returned when there is nothing to draw
const EmptyState = "No data available"

var errBadRequest = errors.New("bad request")

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, storage.ErrInvalidPath):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnknownChart),
		errors.Is(err, dashboard.ErrUnknownProject),
		errors.Is(err, dashboard.ErrSessionNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case isEmptyInput(err),
		errors.Is(err, dashboard.ErrOutOfRange),
		errors.Is(err, projector.ErrScaleOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func isEmptyInput(err error) bool {
	return errors.Is(err, projector.ErrEmptySeries) ||
		errors.Is(err, projector.ErrNoSeries) ||
		errors.Is(err, charts.ErrNoData)
}

// writeJSON encodes v before touching the response so an unencodable value
// becomes a 500 instead of a truncated body under the intended status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Component("server").Error("failed to encode response", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Component("server").Warn("failed to write response", logger.Fields{"error": err.Error()})
	}
}

// writeError writes a JSON error. Empty-input errors carry the empty-state
// message so clients can render a placeholder.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := map[string]interface{}{
		"error":  err.Error(),
		"status": status,
	}
	if isEmptyInput(err) {
		body["empty_state"] = EmptyState
	}
	if status == http.StatusInternalServerError {
		logger.Component("server").Error("request failed", err)
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errBadRequest, name, raw)
	}
	return v, nil
}
