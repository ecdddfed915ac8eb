package server

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter manages request rate limiting and daily data quotas.
type RateLimiter struct {
	mu sync.RWMutex

	requestsPerMinute int
	maxDataPerDay     int64 // in bytes

	userRequests map[string]*UserUsage
}

// UserUsage tracks usage for a specific user/IP.
type UserUsage struct {
	requestsLastMinute int
	dataToday          int64 // bytes uploaded today

	lastRequestTime time.Time
	dayStartTime    time.Time
}

// NewRateLimiter creates a new rate limiter with the given limits.
func NewRateLimiter(requestsPerMinute int, maxDataPerDay int64) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		maxDataPerDay:     maxDataPerDay,
		userRequests:      make(map[string]*UserUsage),
	}
}

// CheckRateLimit checks if a request from the given user/IP is allowed.
func (rl *RateLimiter) CheckRateLimit(userID string, dataSize int64) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	usage := rl.getOrCreateUserUsage(userID, now)

	rl.resetCountersIfNeeded(usage, now)

	if rl.requestsPerMinute > 0 && usage.requestsLastMinute >= rl.requestsPerMinute {
		return &RateLimitError{
			Type:       "minute",
			Limit:      rl.requestsPerMinute,
			RetryAfter: time.Minute - now.Sub(usage.lastRequestTime),
		}
	}

	if rl.maxDataPerDay > 0 && usage.dataToday+dataSize > rl.maxDataPerDay {
		return &QuotaExceededError{
			Type:   "data",
			Limit:  rl.maxDataPerDay,
			Used:   usage.dataToday,
			Resets: time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location()),
		}
	}

	usage.requestsLastMinute++
	usage.dataToday += dataSize
	usage.lastRequestTime = now

	return nil
}

// resetCountersIfNeeded resets usage counters when time periods change.
func (rl *RateLimiter) resetCountersIfNeeded(usage *UserUsage, now time.Time) {
	if now.Day() != usage.dayStartTime.Day() || now.Month() != usage.dayStartTime.Month() {
		usage.dataToday = 0
		usage.dayStartTime = now
	}

	if now.Sub(usage.lastRequestTime) >= time.Minute {
		usage.requestsLastMinute = 0
	}
}

// getOrCreateUserUsage gets or creates usage tracking for a user.
func (rl *RateLimiter) getOrCreateUserUsage(userID string, now time.Time) *UserUsage {
	usage, exists := rl.userRequests[userID]
	if !exists {
		usage = &UserUsage{
			lastRequestTime: now,
			dayStartTime:    now,
		}
		rl.userRequests[userID] = usage
	}
	return usage
}

// GetUsage returns current usage statistics for a user.
func (rl *RateLimiter) GetUsage(userID string) *UserUsage {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	if usage, exists := rl.userRequests[userID]; exists {
		// Return a copy to avoid race conditions
		return &UserUsage{
			requestsLastMinute: usage.requestsLastMinute,
			dataToday:          usage.dataToday,
			lastRequestTime:    usage.lastRequestTime,
			dayStartTime:       usage.dayStartTime,
		}
	}
	return &UserUsage{}
}

// RateLimitError represents a rate limit violation.
type RateLimitError struct {
	Type       string        // "minute"
	Limit      int           // the limit that was exceeded
	RetryAfter time.Duration // how long to wait before retrying
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s (limit: %d, retry after: %v)", e.Type, e.Limit, e.RetryAfter)
}

// QuotaExceededError represents a quota violation.
type QuotaExceededError struct {
	Type   string    // "data"
	Limit  int64     // the limit that was exceeded
	Used   int64     // current usage
	Resets time.Time // when the quota resets
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s (used: %d, limit: %d, resets: %s)",
		e.Type, e.Used, e.Limit, e.Resets.Format(time.RFC3339))
}
