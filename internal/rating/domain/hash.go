package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// CanonicalJSON serializes a value deterministically: struct fields in
// declaration order, map keys sorted (encoding/json guarantees both). The
// same RateInput always yields the same bytes, which is what makes
// InputHash usable as a reproducibility check.
func CanonicalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// InputHash returns the hex SHA-256 of the canonical input serialization.
func InputHash(input RateInput) (string, error) {
	payload, err := CanonicalJSON(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
