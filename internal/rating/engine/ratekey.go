// Package engine implements the product-agnostic parts of the rating
// pipeline: base-rate resolution with wildcard fallback and the shared
// factor, rider, fee, and modal stages. Every function here is pure over
// (snapshot, input, running premium).
package engine

import (
	"fmt"
	"strconv"
	"strings"

	ratingdomain "github.com/michelevens/insureflow/internal/rating/domain"
	ratetabledomain "github.com/michelevens/insureflow/internal/ratetable/domain"
)

// Wildcard is the segment placeholder accepted in stored rate keys.
const Wildcard = "*"

// KeySeparator joins rate key segments.
const KeySeparator = "|"

// BuildKey joins segments into a lookup key.
func BuildKey(segments []string) string {
	return strings.Join(segments, KeySeparator)
}

// WithWildcards returns a copy of segments with the given indexes replaced
// by the wildcard.
func WithWildcards(segments []string, indexes ...int) []string {
	out := make([]string, len(segments))
	copy(out, segments)
	for _, i := range indexes {
		if i >= 0 && i < len(out) {
			out[i] = Wildcard
		}
	}
	return out
}

// DedupeKeys drops consecutive duplicates produced when a wildcarded
// dimension was already empty in the exact key.
func DedupeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// BaseRate is the resolved base entry for a run.
type BaseRate struct {
	Key           string
	Value         float64
	FallbackDepth int
}

// ResolveBaseRate tries each candidate key in order against the snapshot.
// A miss on every candidate returns (nil, nil); the caller reports the last
// attempted key as the ineligibility reason. A matching entry whose stored
// value does not parse as a decimal is a system error.
func ResolveBaseRate(snap *ratetabledomain.Snapshot, candidates []string) (*BaseRate, error) {
	for depth, key := range candidates {
		entry := snap.EntryFor(key)
		if entry == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(entry.RateValue), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: rate_key %q value %q", ratingdomain.ErrMalformedRate, key, entry.RateValue)
		}
		return &BaseRate{Key: key, Value: value, FallbackDepth: depth}, nil
	}
	return nil, nil
}
