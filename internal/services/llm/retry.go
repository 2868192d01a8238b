package llm

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/onboarder/internal/common"
)

// Default retry constants, matching a single retry after a fixed 30s wait
const (
	DefaultMaxAttempts       = 2
	DefaultInitialDelay      = 30 * time.Second
	DefaultMaxDelay          = 2 * time.Minute
	DefaultBackoffMultiplier = 1.0
)

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryPolicy bounds the number of attempts for a generation call and
// decides how long to wait between them.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first (default: 2)
	MaxAttempts int

	// InitialDelay is the wait before the second attempt (default: 30s)
	InitialDelay time.Duration

	// MaxDelay caps any single wait (default: 2m)
	MaxDelay time.Duration

	// Multiplier is applied to the delay for each further attempt (default: 1.0)
	Multiplier float64

	// Sleep performs the wait; replaced in tests
	Sleep SleepFunc
}

// NewDefaultRetryPolicy returns a RetryPolicy with default values
func NewDefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Multiplier:   DefaultBackoffMultiplier,
		Sleep:        ContextSleep,
	}
}

// NewRetryPolicyFromConfig builds a policy from the [summarizer] config section
func NewRetryPolicyFromConfig(cfg common.SummarizerConfig) *RetryPolicy {
	p := NewDefaultRetryPolicy()
	if cfg.MaxAttempts > 0 {
		p.MaxAttempts = cfg.MaxAttempts
	}
	p.InitialDelay = common.ParseDurationOr(cfg.RetryDelay, DefaultInitialDelay)
	p.MaxDelay = common.ParseDurationOr(cfg.MaxRetryDelay, DefaultMaxDelay)
	if cfg.BackoffFactor >= 1 {
		p.Multiplier = cfg.BackoffFactor
	}
	return p
}

// Backoff computes the wait after the given failed attempt (1-based).
// If apiDelay > 0 (from ExtractRetryDelay) it is used as the base instead of InitialDelay.
// The result is capped at MaxDelay.
func (p *RetryPolicy) Backoff(attempt int, apiDelay time.Duration) time.Duration {
	base := p.InitialDelay
	if apiDelay > 0 {
		// Use API-provided delay plus small buffer
		base = apiDelay + 5*time.Second
	}

	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= p.Multiplier
	}

	backoff := time.Duration(float64(base) * multiplier)
	if p.MaxDelay > 0 && backoff > p.MaxDelay {
		backoff = p.MaxDelay
	}
	return backoff
}

// RetryHook is called before each wait with the failed attempt number, the wait and the error
type RetryHook func(attempt int, backoff time.Duration, err error)

// Do runs fn until it succeeds or MaxAttempts is reached, returning the last error.
// A cancelled context ends the wait early and returns the context error.
func (p *RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error, onRetry RetryHook) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		var apiDelay time.Duration
		if IsRateLimitError(err) {
			apiDelay = ExtractRetryDelay(err)
		}
		backoff := p.Backoff(attempt, apiDelay)

		if onRetry != nil {
			onRetry(attempt, backoff, err)
		}

		if sleepErr := sleep(ctx, backoff); sleepErr != nil {
			return sleepErr
		}
	}

	return err
}

// ContextSleep waits for d or until ctx is done
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRateLimitError checks if an error is a provider rate limit error.
// Matches 429 status codes, RESOURCE_EXHAUSTED and quota errors.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate_limit") ||
		strings.Contains(errStr, "quota")
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses the API-suggested retry delay from an error.
// Returns 0 if no delay is found in the error message.
//
// Example error message:
// "Error 429, Message: ... Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED"
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}

	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}
