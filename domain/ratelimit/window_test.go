package ratelimit_test

import (
	"testing"
	"time"

	"github.com/esmc/chaos/domain/ratelimit"
)

var (
	baseTime = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	cfg      = ratelimit.Config{
		Limit:       5,
		Window:      time.Minute,
		BurstTokens: 2,
	}
)

func TestCheck_AllowsWithinLimit(t *testing.T) {
	state := ratelimit.WindowState{
		Count:     2,
		WindowEnd: baseTime.Add(30 * time.Second),
	}

	result, newState := ratelimit.Check(state, cfg, baseTime)

	if !result.Allowed {
		t.Error("expected invocation to be allowed")
	}
	if result.Remaining != 2 { // 5 - 3
		t.Errorf("remaining = %d, want 2", result.Remaining)
	}
	if newState.Count != 3 {
		t.Errorf("count = %d, want 3", newState.Count)
	}
}

func TestCheck_UsesBurstTokens(t *testing.T) {
	state := ratelimit.WindowState{
		Count:     5,
		WindowEnd: baseTime.Add(30 * time.Second),
	}

	result, newState := ratelimit.Check(state, cfg, baseTime)

	if !result.Allowed {
		t.Error("expected burst token to allow invocation")
	}
	if result.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", result.Remaining)
	}
	if newState.BurstUsed != 1 {
		t.Errorf("burstUsed = %d, want 1", newState.BurstUsed)
	}
}

func TestCheck_DeniesOverLimit(t *testing.T) {
	state := ratelimit.WindowState{
		Count:     7,
		WindowEnd: baseTime.Add(30 * time.Second),
		BurstUsed: 2,
	}

	result, newState := ratelimit.Check(state, cfg, baseTime)

	if result.Allowed {
		t.Error("expected invocation to be denied")
	}
	if result.Reason != ratelimit.ReasonLimitExceeded {
		t.Errorf("reason = %q, want %q", result.Reason, ratelimit.ReasonLimitExceeded)
	}
	if newState.Count != 7 {
		t.Errorf("count = %d, want unchanged 7", newState.Count)
	}
}

func TestCheck_ResetsExpiredWindow(t *testing.T) {
	state := ratelimit.WindowState{
		Count:     7,
		WindowEnd: baseTime.Add(-time.Second),
		BurstUsed: 2,
	}

	result, newState := ratelimit.Check(state, cfg, baseTime)

	if !result.Allowed {
		t.Error("expected fresh window to allow invocation")
	}
	if newState.Count != 1 {
		t.Errorf("count = %d, want 1", newState.Count)
	}
	if newState.BurstUsed != 0 {
		t.Errorf("burstUsed = %d, want 0", newState.BurstUsed)
	}
}

func TestRetryAfter(t *testing.T) {
	denied := ratelimit.CheckResult{
		Allowed: false,
		ResetAt: baseTime.Add(20 * time.Second),
	}
	if d := ratelimit.RetryAfter(denied, baseTime); d != 20*time.Second {
		t.Errorf("delay = %v, want 20s", d)
	}

	allowed := ratelimit.CheckResult{Allowed: true}
	if d := ratelimit.RetryAfter(allowed, baseTime); d != 0 {
		t.Errorf("delay = %v, want 0 for allowed result", d)
	}

	past := ratelimit.CheckResult{Allowed: false, ResetAt: baseTime.Add(-time.Second)}
	if d := ratelimit.RetryAfter(past, baseTime); d != 0 {
		t.Errorf("delay = %v, want 0 when reset already passed", d)
	}
}
