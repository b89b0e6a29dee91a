package key_test

import (
	"strings"
	"testing"
	"time"

	"github.com/esmc/chaos/domain/key"
	"golang.org/x/crypto/bcrypt"
)

var baseTime = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func TestGenerate_Shape(t *testing.T) {
	raw, k := key.Generate("ci", baseTime)

	if !strings.HasPrefix(raw, key.Prefix) {
		t.Errorf("raw key %q missing prefix %q", raw, key.Prefix)
	}
	if len(raw) != len(key.Prefix)+64 {
		t.Errorf("raw key length = %d, want %d", len(raw), len(key.Prefix)+64)
	}
	if k.Prefix != raw[:key.PrefixLen] {
		t.Errorf("stored prefix = %q, want %q", k.Prefix, raw[:key.PrefixLen])
	}
	if k.Name != "ci" {
		t.Errorf("name = %q, want ci", k.Name)
	}
	if !strings.HasPrefix(k.ID, "key_") {
		t.Errorf("id = %q, want key_ prefix", k.ID)
	}
	if err := bcrypt.CompareHashAndPassword(k.Hash, []byte(raw)); err != nil {
		t.Errorf("stored hash does not match raw key: %v", err)
	}
}

func TestGenerate_Unique(t *testing.T) {
	a, _ := key.Generate("a", baseTime)
	b, _ := key.Generate("b", baseTime)
	if a == b {
		t.Error("two generated keys are identical")
	}
}

func TestValidateFormat(t *testing.T) {
	raw, _ := key.Generate("x", baseTime)

	prefix, ok := key.ValidateFormat(raw)
	if !ok {
		t.Fatalf("valid key rejected: %q", raw)
	}
	if prefix != raw[:key.PrefixLen] {
		t.Errorf("prefix = %q, want %q", prefix, raw[:key.PrefixLen])
	}

	bad := []string{
		"",
		"wrongprefix" + strings.Repeat("0", 64),
		key.Prefix + "short",
		key.Prefix + strings.Repeat("0", 63) + "Z", // non-hex tail
		raw + "0", // too long
	}
	for _, rawKey := range bad {
		if _, ok := key.ValidateFormat(rawKey); ok {
			t.Errorf("ValidateFormat(%q) accepted, want reject", rawKey)
		}
	}
}

func TestValidate_Revoked(t *testing.T) {
	_, k := key.Generate("x", baseTime)

	if res := key.Validate(k); !res.Valid {
		t.Fatalf("fresh key invalid: %q", res.Reason)
	}

	at := baseTime.Add(time.Hour)
	k.RevokedAt = &at
	res := key.Validate(k)
	if res.Valid {
		t.Fatal("revoked key validated")
	}
	if res.Reason != key.ReasonRevoked {
		t.Errorf("reason = %q, want %q", res.Reason, key.ReasonRevoked)
	}
}
