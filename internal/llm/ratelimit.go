package llm

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/floatai/internal/config"
	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"golang.org/x/time/rate"
)

// WaitInfo contains information about a rate limit wait
type WaitInfo struct {
	Duration    time.Duration // How long to wait
	Reason      string        // "request budget" or the retried error's code
	Attempt     int           // Current attempt number (1-based, 0 if not a retry)
	MaxAttempts int           // Maximum number of attempts (0 if not a retry)
}

// WaitCallback is called when the client needs to wait due to rate limiting.
// It should block for the specified duration or until context is cancelled.
// If nil, the default time.After behavior is used.
type WaitCallback func(ctx context.Context, info WaitInfo) error

// RequestBucket limits how many requests are sent per minute.
type RequestBucket struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	onWait  WaitCallback
}

// NewRequestBucket creates a limiter allowing requestsPerMinute requests with
// a burst of a tenth of that, at least one. A non-positive budget disables it.
func NewRequestBucket(requestsPerMinute int) *RequestBucket {
	if requestsPerMinute <= 0 {
		return &RequestBucket{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	burst := max(requestsPerMinute/10, 1)
	return &RequestBucket{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

// SetWaitCallback sets a callback to be invoked when waiting for budget
func (b *RequestBucket) SetWaitCallback(cb WaitCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onWait = cb
}

// Wait blocks until one request may be sent.
func (b *RequestBucket) Wait(ctx context.Context) error {
	b.mu.Lock()
	onWait := b.onWait
	b.mu.Unlock()

	reservation := b.limiter.Reserve()
	delay := reservation.Delay()
	if delay <= 0 {
		return nil
	}

	llmLog.Debug("rate limit: waiting %v for request budget", delay)

	if onWait != nil {
		if err := onWait(ctx, WaitInfo{Duration: delay, Reason: "request budget"}); err != nil {
			reservation.Cancel()
			return err
		}
		return nil
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		reservation.Cancel()
		return ctx.Err()
	}
}

// RateLimitedClient wraps a Client with a request budget and retries
// retryable backend errors with exponential backoff.
type RateLimitedClient struct {
	Client
	bucket *RequestBucket
	cfg    *config.RateLimitConfig
	onWait WaitCallback
}

// NewRateLimitedClient creates a new rate-limited client wrapper
func NewRateLimitedClient(client Client, cfg *config.RateLimitConfig) *RateLimitedClient {
	return &RateLimitedClient{
		Client: client,
		bucket: NewRequestBucket(cfg.RequestsPerMinute),
		cfg:    cfg,
	}
}

// SetWaitCallback sets a callback to be invoked when waiting due to rate limiting.
// The callback is called both for budget waits and retry waits.
func (c *RateLimitedClient) SetWaitCallback(cb WaitCallback) {
	c.onWait = cb
	c.bucket.SetWaitCallback(cb)
}

// Chat sends a message with rate limiting and returns the response
func (c *RateLimitedClient) Chat(ctx context.Context, messages []Message, systemPrompt string) (*Response, error) {
	if err := c.bucket.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			llmLog.Debug("rate limit: retry %d/%d, waiting %v", attempt, c.cfg.MaxRetries, delay)

			if err := c.wait(ctx, WaitInfo{
				Duration:    delay,
				Reason:      apperrors.GetCode(lastErr),
				Attempt:     attempt,
				MaxAttempts: c.cfg.MaxRetries,
			}); err != nil {
				return nil, err
			}
		}

		resp, err := c.Client.Chat(ctx, messages, systemPrompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil || !apperrors.IsRetryable(err) {
			return nil, err
		}

		llmLog.Warn("retryable backend error (attempt %d/%d): %v", attempt+1, c.cfg.MaxRetries+1, err)
	}

	return nil, lastErr
}

func (c *RateLimitedClient) wait(ctx context.Context, info WaitInfo) error {
	if c.onWait != nil {
		return c.onWait(ctx, info)
	}
	select {
	case <-time.After(info.Duration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// calculateBackoff calculates the backoff delay for a retry attempt
// Uses exponential backoff with jitter
func (c *RateLimitedClient) calculateBackoff(attempt int) time.Duration {
	// Exponential backoff: baseDelay * 2^attempt
	backoff := float64(c.cfg.BaseDelay) * math.Pow(2, float64(attempt-1))

	// Add jitter (0-25% of backoff)
	jitter := backoff * 0.25 * rand.Float64()
	backoff += jitter

	// Cap at maxDelay
	if backoff > float64(c.cfg.MaxDelay) {
		backoff = float64(c.cfg.MaxDelay)
	}

	return time.Duration(backoff)
}
