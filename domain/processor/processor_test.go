package processor_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/esmc/chaos/domain/envelope"
	"github.com/esmc/chaos/domain/processor"
)

var baseTime = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func TestValidate_AcceptsJSONValues(t *testing.T) {
	for _, input := range []any{nil, "x", 42, []int{1, 2}, map[string]any{"k": "v"}} {
		v := processor.Validate(input)
		if !v.Valid {
			t.Errorf("Validate(%#v) rejected with %q", input, v.Reason)
		}
	}
}

func TestValidate_RejectsNonJSON(t *testing.T) {
	v := processor.Validate(make(chan int))
	if v.Valid {
		t.Fatal("channel input should be rejected")
	}
	if v.Reason != processor.ReasonNotJSON {
		t.Errorf("reason = %q, want %q", v.Reason, processor.ReasonNotJSON)
	}
}

func TestValidate_RejectsOversized(t *testing.T) {
	big := strings.Repeat("a", processor.MaxPayloadBytes)
	v := processor.Validate(big) // +2 quote bytes when serialized
	if v.Valid {
		t.Fatal("oversized input should be rejected")
	}
	if v.Reason != processor.ReasonTooLarge {
		t.Errorf("reason = %q, want %q", v.Reason, processor.ReasonTooLarge)
	}
}

func TestProcess_EchoesInput(t *testing.T) {
	e := processor.Process(baseTime, "param")

	if !e.IsOK() {
		t.Fatalf("status = %q, want ok", e.Status)
	}
	if e.Data != "param" {
		t.Errorf("data = %#v, want input echoed", e.Data)
	}
	if e.Timestamp != baseTime.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", e.Timestamp, baseTime.UnixMilli())
	}
}

func TestProcess_InvalidInputFails(t *testing.T) {
	e := processor.Process(baseTime, make(chan int))
	if e.IsOK() {
		t.Fatal("invalid input should produce an error envelope")
	}
	if e.Reason != processor.ReasonNotJSON {
		t.Errorf("reason = %q, want %q", e.Reason, processor.ReasonNotJSON)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	b, err := processor.Serialize(envelope.OK(baseTime, map[string]any{"k": "v"}))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var e envelope.Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !e.IsOK() || e.Timestamp != baseTime.UnixMilli() {
		t.Errorf("round trip lost fields: %+v", e)
	}
}
