// Package processor implements the validate/process/serialize contract shared
// by every component operation. All functions are pure - no side effects,
// deterministic given a clock reading.
package processor

import (
	"encoding/json"
	"time"

	"github.com/esmc/chaos/domain/envelope"
)

// MaxPayloadBytes bounds the serialized size of an operation input.
const MaxPayloadBytes = 1 << 20 // 1MB

// Rejection reasons.
const (
	ReasonNotJSON  = "not_json"
	ReasonTooLarge = "payload_too_large"
)

// ValidationResult reports the outcome of input validation (value type).
type ValidationResult struct {
	Valid  bool
	Reason string // set when Valid is false
	Size   int    // serialized size in bytes when valid
}

// Validate checks that input can travel through an envelope: it must be
// JSON-representable and within the payload bound. Nil input is valid; the
// corpus echoes it unchanged.
func Validate(input any) ValidationResult {
	b, err := json.Marshal(input)
	if err != nil {
		return ValidationResult{Reason: ReasonNotJSON}
	}
	if len(b) > MaxPayloadBytes {
		return ValidationResult{Reason: ReasonTooLarge}
	}
	return ValidationResult{Valid: true, Size: len(b)}
}

// Process validates input and wraps it into an envelope. The transform is the
// identity: the operation echoes its input, stamped with the dispatch time.
func Process(now time.Time, input any) envelope.Envelope {
	if v := Validate(input); !v.Valid {
		return envelope.Fail(now, v.Reason)
	}
	return envelope.OK(now, input)
}

// Serialize renders an envelope as canonical JSON bytes.
func Serialize(e envelope.Envelope) ([]byte, error) {
	return json.Marshal(e)
}
