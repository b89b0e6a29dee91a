package key

import "strings"

// ValidateFormat checks the shape of a raw key without touching storage.
// Returns the lookup prefix and whether the shape is plausible.
// This is a PURE function.
func ValidateFormat(rawKey string) (prefix string, valid bool) {
	if !strings.HasPrefix(rawKey, Prefix) {
		return "", false
	}
	if len(rawKey) != len(Prefix)+64 {
		return "", false
	}
	for _, r := range rawKey[len(Prefix):] {
		if !isHex(r) {
			return "", false
		}
	}
	return rawKey[:PrefixLen], true
}

// Validate checks whether a stored key is usable.
// This is a PURE function - the bcrypt comparison against the raw key happens
// in the adapter layer.
func Validate(k Key) ValidationResult {
	if k.RevokedAt != nil {
		return ValidationResult{Reason: ReasonRevoked}
	}
	return ValidationResult{Valid: true, Key: k}
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}
