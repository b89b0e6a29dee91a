// Package envelope defines the canonical result shape returned by every
// component operation. All functions are pure and deterministic given a clock
// reading.
package envelope

import "time"

// Status values carried by an envelope.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Envelope is the uniform result of a component operation (value type).
// Timestamp is unix milliseconds, taken at dispatch time.
type Envelope struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
	Reason    string `json:"reason,omitempty"` // set only when Status is "error"
}

// OK builds a success envelope echoing data.
func OK(now time.Time, data any) Envelope {
	return Envelope{
		Status:    StatusOK,
		Timestamp: now.UnixMilli(),
		Data:      data,
	}
}

// Fail builds an error envelope with a machine-readable reason.
// Data is omitted; a failed operation echoes nothing.
func Fail(now time.Time, reason string) Envelope {
	return Envelope{
		Status:    StatusError,
		Timestamp: now.UnixMilli(),
		Reason:    reason,
	}
}

// IsOK reports whether the envelope represents success.
func (e Envelope) IsOK() bool {
	return e.Status == StatusOK
}

// At returns the envelope timestamp as a time.Time (UTC).
func (e Envelope) At() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}
