// Package ratelimit provides mechanisms for controlling the rate of operations
// such as API requests to external services. Exchange APIs throttle or ban
// clients that exceed their request budgets, so every REST client in the SDK
// routes its requests through a limiter from this package.
//
// The package wraps Uber's token bucket limiter behind a small interface so a
// different strategy can be substituted without touching call sites.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/ratelimit"
)

// Rate represents a rate limit configuration: Limit operations per Interval.
//
// For example Rate{Limit: 120, Interval: time.Minute} allows 120 operations
// per minute, which the limiter converts to 2 operations per second.
type Rate struct {
	// Limit specifies the maximum number of operations allowed within the interval
	Limit int

	// Interval defines the time duration over which the limit applies
	Interval time.Duration
}

// RateLimiter defines the interface for rate limiting functionality.
// Implementations control the pace of operations by forcing callers to wait
// when necessary to comply with the configured rate.
type RateLimiter interface {
	// Wait blocks until an operation is permitted or the context is cancelled.
	// It should be called before each rate-limited operation.
	Wait(ctx context.Context) error

	// SetLimit updates the rate limiting configuration at runtime.
	// Returns an error if the provided rate is invalid (non-positive limit
	// or interval).
	SetLimit(limit Rate) error
}

// uberLimiter implements RateLimiter using Uber's token bucket limiter.
type uberLimiter struct {
	limiter ratelimit.Limiter
	rate    Rate
}

// NewTokenBucketLimiter creates a new rate limiter using a token bucket
// with the specified rate.
//
// Example:
//
//	limiter := NewTokenBucketLimiter(Rate{Limit: 100, Interval: time.Minute})
//	if err := limiter.Wait(ctx); err != nil {
//		return err
//	}
//	// proceed with the API call
func NewTokenBucketLimiter(rate Rate) RateLimiter {
	rps := float64(rate.Limit) / rate.Interval.Seconds()
	return &uberLimiter{
		limiter: ratelimit.New(int(rps)),
		rate:    rate,
	}
}

// Wait implements the RateLimiter interface
func (l *uberLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limit wait cancelled: %w", ctx.Err())
	default:
		l.limiter.Take()
		return nil
	}
}

// SetLimit implements the RateLimiter interface
func (l *uberLimiter) SetLimit(rate Rate) error {
	if rate.Limit <= 0 || rate.Interval <= 0 {
		return fmt.Errorf("invalid rate limit: %+v", rate)
	}
	rps := float64(rate.Limit) / rate.Interval.Seconds()
	l.limiter = ratelimit.New(int(rps))
	l.rate = rate
	return nil
}
