// Package httpretry provides an http.RoundTripper with automatic retry,
// exponential backoff, and jitter for polling external feeds.
package httpretry

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// Transport retries transient failures before giving up. It only retries
// requests without a body, which covers the GET polling it exists for.
type Transport struct {
	// Base performs the actual requests. http.DefaultTransport when nil.
	Base http.RoundTripper

	// MaxRetries is the number of attempts after the first (default 3).
	MaxRetries int

	// BaseDelay seeds the exponential backoff (default 1s).
	BaseDelay time.Duration

	// MaxDelay caps a single backoff wait (default 30s).
	MaxDelay time.Duration
}

// NewClient returns an http.Client that retries transient failures.
func NewClient(maxRetries int, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &Transport{MaxRetries: maxRetries},
	}
}

// RoundTrip implements http.RoundTripper. It retries on retryable status
// codes (429, 500, 502, 503, 504) and transient network errors. Client
// errors and context cancellation return immediately. The last response is
// returned as-is so the caller can inspect it.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	maxRetries := t.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if req.Body != nil && req.GetBody == nil {
		return base.RoundTrip(req)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("httpretry: reset request body: %w", err)
				}
				req.Body = body
			}

			delay := t.backoff(attempt)
			log.Printf("[HTTPRetry] Attempt %d/%d for %s %s (waiting %s)",
				attempt, maxRetries, req.Method, req.URL.Host, delay)

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-req.Context().Done():
				timer.Stop()
				if lastErr != nil {
					return nil, lastErr
				}
				return nil, req.Context().Err()
			}
		}

		resp, err := base.RoundTrip(req)
		if err != nil {
			lastErr = err
			if req.Context().Err() != nil {
				return nil, err
			}
			continue
		}
		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if attempt == maxRetries {
			return resp, nil
		}

		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("httpretry: retryable status %d", resp.StatusCode)
	}
	return nil, lastErr
}

// backoff returns the jittered delay for the given attempt: a random
// duration up to min(MaxDelay, BaseDelay * 2^(attempt-1)), never below
// 100ms.
func (t *Transport) backoff(attempt int) time.Duration {
	baseDelay := t.BaseDelay
	if baseDelay == 0 {
		baseDelay = time.Second
	}
	maxDelay := t.MaxDelay
	if maxDelay == 0 {
		maxDelay = 30 * time.Second
	}

	exp := float64(baseDelay) * math.Pow(2, float64(attempt-1))
	if exp > float64(maxDelay) {
		exp = float64(maxDelay)
	}
	jittered := time.Duration(rand.Float64() * exp)
	if jittered < 100*time.Millisecond {
		jittered = 100 * time.Millisecond
	}
	return jittered
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
