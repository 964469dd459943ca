package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/cenkalti/backoff/v5"
	"github.com/ternarybob/arbor"
)

const (
	defaultMaxTries      = 3
	defaultRetryInterval = 2 * time.Second
)

// retryable reports whether a provider error is a rate limit or server failure.
func retryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	msg := err.Error()
	for _, marker := range []string{"429", "RESOURCE_EXHAUSTED", "quota", "500", "503", "UNAVAILABLE", "overloaded"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// generateWithRetry calls fn until it succeeds, fails permanently or runs out of tries.
func generateWithRetry(ctx context.Context, logger arbor.ILogger, provider string, interval time.Duration, fn func(context.Context) (string, error)) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = interval
	policy.MaxInterval = interval * 10

	text, err := backoff.Retry(ctx, func() (string, error) {
		text, err := fn(ctx)
		if err != nil && !retryable(err) {
			return "", backoff.Permanent(err)
		}
		return text, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(defaultMaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn().
				Err(err).
				Str("provider", provider).
				Dur("backoff", next).
				Msg("Retrying analysis request")
		}),
	)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return "", perm.Unwrap()
		}
		return "", err
	}
	return text, nil
}
