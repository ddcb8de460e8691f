// Package canon provides the deterministic primitives every other package in
// the engine builds on: canonical JSON, content-addressed IDs, timestamp
// normalization, sorted-unique string sets, and an injectable clock. Every
// piece of state the engine hands out or hashes flows through here first so
// that two independent engine instances fed the same request stream produce
// byte-identical results.
package canon

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"
)

// JSON marshals v after round-tripping it through a generic representation,
// which forces every object's keys into alphabetical order regardless of the
// original struct field order or map iteration order. Arrays keep their
// input order. This is the single canonicalization point used for both ID
// fingerprints and snapshot export, per the "one implementation for both"
// design note.
func JSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon: marshal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canon: decode: %w", err)
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canon: re-marshal: %w", err)
	}
	return out, nil
}

// MustJSON is JSON but panics on error. Reserved for call sites where the
// input is already known-valid (e.g. re-serializing a value this package
// just produced); never used on caller-supplied request bodies.
func MustJSON(v any) []byte {
	out, err := JSON(v)
	if err != nil {
		panic(err)
	}
	return out
}

// ByteLen returns the canonical UTF-8 byte length of v, used by the payload
// guardrail to measure recall packs and write payloads against budgets.
func ByteLen(v any) (int, error) {
	data, err := JSON(v)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Sha256Hex returns the lowercase hex SHA-256 digest of data.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RequestDigest computes the requestDigest field every operation response
// carries: hex(sha256(canonicalJson(request))).
func RequestDigest(request any) (string, error) {
	data, err := JSON(request)
	if err != nil {
		return "", err
	}
	return Sha256Hex(data), nil
}

// ID computes a content-addressed entity identifier: prefix + "_" +
// first 16 hex chars of sha256(canonicalJson(fingerprint)). Fingerprints
// must never include wall-clock-derived fields unless time is itself part
// of the entity's semantic key.
func ID(prefix string, fingerprint any) (string, error) {
	data, err := JSON(fingerprint)
	if err != nil {
		return "", fmt.Errorf("canon: id fingerprint for %s: %w", prefix, err)
	}
	digest := Sha256Hex(data)
	return prefix + "_" + digest[:16], nil
}

// SortedUnique trims, drops empty strings, deduplicates, and ASCII-sorts a
// string list. Used for every list attribute that participates in an ID
// fingerprint or a bounded payload, so that input ordering never affects
// the resulting identifier or serialized form.
func SortedUnique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, raw := range items {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// NormalizeTime renders t as an ISO-8601 UTC timestamp. Callers supplying
// no timestamp should obtain one from an injected Clock, not from this
// function, which never reads the wall clock itself.
func NormalizeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime is the inverse of NormalizeTime, tolerant of plain RFC3339 too
// (snapshots written by an earlier minor version may lack sub-second
// precision).
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}

// HashToUnit derives a deterministic value in [0, 1) from seed and parts,
// used as the keyword index's tie-breaker term: tieBreaker = hashToUnit(...)
// * 0.01. FNV-1a gives a stable, allocation-free mix without pulling in a
// general hashing dependency for a single internal tie-break.
func HashToUnit(seed string, parts ...string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	for _, p := range parts {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	sum := h.Sum64()
	// Mask to 53 bits so the integer-to-float64 conversion below is exact.
	const mask = (uint64(1) << 53) - 1
	return float64(sum&mask) / float64(mask+1)
}

// DeepClone returns an independent copy of v by round-tripping it through
// canonical JSON. Repositories use this to hand callers frozen views that
// cannot alias the engine's owned state.
func DeepClone[T any](v T) (T, error) {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("canon: clone marshal: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("canon: clone unmarshal: %w", err)
	}
	return out, nil
}

// Clock supplies the current time. The engine never reads time.Now()
// directly outside of SystemClock, so tests can inject a FixedClock and get
// fully deterministic timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock is a Clock that always returns the same instant. Useful in
// tests that need byte-identical snapshots across runs.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (f FixedClock) Now() time.Time { return f.At.UTC() }
