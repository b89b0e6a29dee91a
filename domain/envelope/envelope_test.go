package envelope_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/esmc/chaos/domain/envelope"
)

var baseTime = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func TestOK_EchoesData(t *testing.T) {
	e := envelope.OK(baseTime, map[string]any{"n": 42})

	if e.Status != envelope.StatusOK {
		t.Errorf("status = %q, want %q", e.Status, envelope.StatusOK)
	}
	if e.Timestamp != baseTime.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", e.Timestamp, baseTime.UnixMilli())
	}
	data, ok := e.Data.(map[string]any)
	if !ok || data["n"] != 42 {
		t.Errorf("data = %#v, want input echoed back", e.Data)
	}
	if !e.IsOK() {
		t.Error("IsOK() = false, want true")
	}
}

func TestOK_NilDataStillOK(t *testing.T) {
	e := envelope.OK(baseTime, nil)
	if !e.IsOK() {
		t.Error("nil data should still produce an ok envelope")
	}
	if e.Data != nil {
		t.Errorf("data = %#v, want nil", e.Data)
	}
}

func TestFail_CarriesReason(t *testing.T) {
	e := envelope.Fail(baseTime, "invalid_input")

	if e.Status != envelope.StatusError {
		t.Errorf("status = %q, want %q", e.Status, envelope.StatusError)
	}
	if e.Reason != "invalid_input" {
		t.Errorf("reason = %q, want %q", e.Reason, "invalid_input")
	}
	if e.Data != nil {
		t.Errorf("data = %#v, want nil on failure", e.Data)
	}
	if e.IsOK() {
		t.Error("IsOK() = true, want false")
	}
}

func TestAt_RoundTripsTimestamp(t *testing.T) {
	e := envelope.OK(baseTime, "x")
	if got := e.At(); !got.Equal(baseTime) {
		t.Errorf("At() = %v, want %v", got, baseTime)
	}
}

func TestJSON_WireShape(t *testing.T) {
	e := envelope.OK(baseTime, "payload")
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["status"] != "ok" {
		t.Errorf("status = %v, want ok", m["status"])
	}
	if m["data"] != "payload" {
		t.Errorf("data = %v, want payload", m["data"])
	}
	if _, ok := m["reason"]; ok {
		t.Error("reason should be omitted on success")
	}
}
