// Package eodhd provides a client for the EODHD (End of Day Historical Data) API.
// It covers the endpoints the valuation service reads: end-of-day bars,
// fundamentals and real-time quotes.
package eodhd

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const dateLayout = "2006-01-02"

// QueryOption adjusts an end-of-day bar query.
type QueryOption func(*eodQuery)

// eodQuery holds /eod parameters. Bars are always requested oldest first.
type eodQuery struct {
	from   time.Time
	to     time.Time
	period string // d, w or m
}

func (q eodQuery) encode() url.Values {
	v := url.Values{"order": {"a"}}
	if q.period != "" {
		v.Set("period", q.period)
	}
	if !q.from.IsZero() {
		v.Set("from", q.from.Format(dateLayout))
	}
	if !q.to.IsZero() {
		v.Set("to", q.to.Format(dateLayout))
	}
	return v
}

// WithDateRange bounds the bars returned. A zero time leaves that end open.
func WithDateRange(from, to time.Time) QueryOption {
	return func(q *eodQuery) {
		q.from = from
		q.to = to
	}
}

// WithPeriod selects bar granularity: "d", "w" or "m".
func WithPeriod(period string) QueryOption {
	return func(q *eodQuery) {
		q.period = period
	}
}

// APIError is a non-2xx answer from EODHD other than 429.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eodhd %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// NotFound reports whether the symbol is unknown to the provider.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// RateLimitError is returned when EODHD answers 429 on every attempt, or when the
// local limiter cannot admit the request before the context ends.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("eodhd rate limit exceeded, retry after %v", e.RetryAfter)
}
