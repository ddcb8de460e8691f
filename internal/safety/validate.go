// Package safety centralizes the identifier-validation guards the engine
// applies before any operation touches the bucket tree.
//
// # Threat model
//
// T1 - Cross-store confusion: a storeId or profile value containing path
// separators, ".." segments, or control characters could be crafted to
// collide with another store's bucket key if an implementation ever maps
// identifiers onto filesystem paths (as cmd/ums's snapshot file naming
// does). ValidateStoreID and ValidateProfile reject any identifier that
// is not a bounded run of printable, separator-free characters, so a
// malformed identifier fails fast at the engine boundary instead of
// surfacing as a corrupted snapshot file or a cross-store leak.
//
// T2 - Oversized identifiers: an unbounded storeId or profile string can
// be used to inflate canonical JSON fingerprints and defeat the payload
// guardrails in internal/guardrail, which budget on total response bytes
// but not on any single field. MaxIdentifierLength bounds both fields
// before they ever reach an entity factory.
//
// Everything else — evidence requirements, unsafe-instruction filtering,
// payload budgets, secret redaction — lives in internal/guardrail; this
// package only guards the two identifiers that gate which bucket a
// request lands in.
package safety

import (
	"strings"

	"github.com/bleedingdev/ums/internal/umserr"
)

// MaxIdentifierLength bounds storeId and profile length.
const MaxIdentifierLength = 200

// ValidateStoreID rejects empty, oversized, or path-traversal-shaped
// store identifiers.
func ValidateStoreID(storeID string) error {
	return validateIdentifier("storeId", storeID)
}

// ValidateProfile rejects empty, oversized, or path-traversal-shaped
// profile identifiers.
func ValidateProfile(profile string) error {
	return validateIdentifier("profile", profile)
}

func validateIdentifier(field, value string) error {
	if value == "" {
		return umserr.ValidationFailed(field+" is required", map[string]any{"field": field})
	}
	if len(value) > MaxIdentifierLength {
		return umserr.ValidationFailed(field+" exceeds maximum length", map[string]any{
			"field":  field,
			"length": len(value),
			"max":    MaxIdentifierLength,
		})
	}
	if !isSafeIdentifier(value) {
		return umserr.ValidationFailed(field+" contains unsafe characters", map[string]any{"field": field, "value": value})
	}
	return nil
}

// isSafeIdentifier reports whether value is free of path separators,
// parent-directory segments, and control characters.
func isSafeIdentifier(value string) bool {
	if strings.ContainsAny(value, "/\\\x00") {
		return false
	}
	if value == "." || value == ".." || strings.Contains(value, "..") {
		return false
	}
	for _, r := range value {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
