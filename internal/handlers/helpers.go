package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/eodhd"
	"github.com/ternarybob/sticker/internal/interfaces"
	"github.com/ternarybob/sticker/internal/services/analysis"
	"github.com/ternarybob/sticker/internal/services/history"
	"github.com/ternarybob/sticker/internal/services/watchlist"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data. The body is
// encoded before the header is sent so an unencodable value becomes a 500.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		body = []byte(`{"status":"error","error":"Failed to encode response"}`)
		statusCode = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, writeErr := w.Write(append(body, '\n')); writeErr != nil {
		return writeErr
	}
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// DecodeJSON decodes the request body into v. On failure it writes a 400 and returns
// false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return false
	}
	return true
}

// PathParam returns the URL-decoded path segment following prefix, e.g. the id in
// /api/watchlist/{id}. Nested paths are rejected with an empty result.
func PathParam(r *http.Request, prefix string) string {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	if raw == r.URL.Path || raw == "" || strings.Contains(raw, "/") {
		return ""
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// WriteServiceError maps service and provider errors to HTTP responses.
func WriteServiceError(w http.ResponseWriter, logger arbor.ILogger, err error, action string) {
	var (
		apiErr  *eodhd.APIError
		rateErr *eodhd.RateLimitError
	)

	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, watchlist.ErrInvalidInput),
		errors.Is(err, history.ErrInvalidTicker),
		errors.Is(err, analysis.ErrInvalidTicker):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rateErr.RetryAfter.Seconds())))
		WriteError(w, http.StatusTooManyRequests, "Market data rate limit reached, try again later")
	case errors.As(err, &apiErr) && apiErr.NotFound():
		WriteError(w, http.StatusNotFound, "Ticker not found")
	case errors.As(err, &apiErr):
		logger.Warn().Err(err).Str("action", action).Msg("Market data provider error")
		WriteError(w, http.StatusBadGateway, "Market data provider unavailable")
	default:
		logger.Error().Err(err).Str("action", action).Msg("Request failed")
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to %s", action))
	}
}
