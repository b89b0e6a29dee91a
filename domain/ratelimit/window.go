// Package ratelimit provides a pure fixed-window limiter for invocations.
// All functions are deterministic - same input always produces same output.
package ratelimit

import "time"

// WindowState is the current state of one key's window (value type).
type WindowState struct {
	Count     int       // invocations in current window
	WindowEnd time.Time // when current window ends
	BurstUsed int       // burst tokens used
}

// CheckResult is the outcome of a rate limit check (value type).
type CheckResult struct {
	Allowed   bool
	Remaining int       // invocations remaining in window
	ResetAt   time.Time // when the limit resets
	Reason    string    // if not allowed, why
}

// Config holds limiter configuration (value type).
type Config struct {
	Limit       int           // invocations per window
	Window      time.Duration // window duration
	BurstTokens int           // extra tokens for bursts
}

// ReasonLimitExceeded is the denial reason.
const ReasonLimitExceeded = "rate_limit_exceeded"

// Check performs a rate limit check.
// This is a PURE function - no side effects; the caller persists newState.
func Check(state WindowState, cfg Config, now time.Time) (CheckResult, WindowState) {
	windowStart := now.Truncate(cfg.Window)
	windowEnd := windowStart.Add(cfg.Window)

	if now.After(state.WindowEnd) || state.WindowEnd.IsZero() {
		state = WindowState{WindowEnd: windowEnd}
	}

	if state.Count < cfg.Limit {
		state.Count++
		return CheckResult{
			Allowed:   true,
			Remaining: cfg.Limit - state.Count,
			ResetAt:   state.WindowEnd,
		}, state
	}

	if cfg.BurstTokens-state.BurstUsed > 0 {
		state.Count++
		state.BurstUsed++
		return CheckResult{
			Allowed: true,
			ResetAt: state.WindowEnd,
		}, state
	}

	return CheckResult{
		Allowed: false,
		ResetAt: state.WindowEnd,
		Reason:  ReasonLimitExceeded,
	}, state
}

// RetryAfter returns how long to wait before retrying a denied check.
// This is a PURE function.
func RetryAfter(result CheckResult, now time.Time) time.Duration {
	if result.Allowed {
		return 0
	}
	delay := result.ResetAt.Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}
