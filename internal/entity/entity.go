// Package entity constructs and validates the ten memory-substrate entity
// kinds (Episode, WorkingEntry, ProceduralRule, AntiPattern, LearnerProfile,
// IdentityEdge, Misconception, CurriculumPlanItem, ReviewScheduleEntry,
// PolicyDecision). Each factory validates required fields, normalizes
// optional ones, enforces evidence requirements, computes a deterministic
// content-addressed ID, and returns a value the caller may treat as frozen:
// nothing in this package mutates a returned entity in place.
package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// ID prefixes, fixed per entity kind (spec §4.1).
const (
	PrefixEpisode        = "ep"
	PrefixWorking        = "wm"
	PrefixRule           = "rule"
	PrefixAntiPattern    = "anti"
	PrefixLearnerProfile = "lp"
	PrefixIdentityEdge   = "edge"
	PrefixMisconception  = "mis"
	PrefixCurriculumItem = "cp"
	PrefixReviewSchedule = "srs"
	PrefixPolicyDecision = "pol"
	PrefixAudit          = "audit"
)

// PolicyExceptionKey is the metadata key a caller sets to bypass the
// evidence-required guardrail for an entity that would otherwise need at
// least one evidence pointer.
const PolicyExceptionKey = "policyException"

// HasPolicyException reports whether metadata carries a structured
// policyException object, per spec §4.5.
func HasPolicyException(metadata map[string]any) bool {
	if metadata == nil {
		return false
	}
	v, ok := metadata[PolicyExceptionKey]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// RequireEvidence enforces the evidence-required guardrail shared by every
// entity kind that needs it: the evidence list must be non-empty unless a
// policy exception is attached.
func RequireEvidence(kind string, evidenceIDs []string, metadata map[string]any) error {
	if len(evidenceIDs) > 0 {
		return nil
	}
	if HasPolicyException(metadata) {
		return nil
	}
	return umserr.EvidenceRequired(kind+" requires at least one evidence pointer (evidenceEventIds)", map[string]any{"kind": kind})
}

// requireStoreID validates the single field every entity kind needs.
func requireStoreID(storeID string) error {
	if storeID == "" {
		return umserr.ValidationFailed("storeId is required", nil)
	}
	return nil
}

// mergeMetadataPreferByUpdatedAt implements the repository merge rule for
// metadata maps: the record with the later updatedAt wins on key conflicts,
// ties broken by canonical-JSON lexical order of the whole map.
func mergeMetadataPreferByUpdatedAt(existing, incoming map[string]any, existingUpdatedAt, incomingUpdatedAt string) map[string]any {
	if existing == nil && incoming == nil {
		return nil
	}
	merged := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}

	winnerIsIncoming := incomingUpdatedAt > existingUpdatedAt
	if incomingUpdatedAt == existingUpdatedAt {
		existingJSON, _ := canon.JSON(existing)
		incomingJSON, _ := canon.JSON(incoming)
		winnerIsIncoming = string(incomingJSON) > string(existingJSON)
	}

	for k, v := range incoming {
		if _, conflict := merged[k]; conflict && !winnerIsIncoming {
			continue
		}
		merged[k] = v
	}
	return merged
}

// MergeMetadata is the exported entry point for the metadata merge rule
// (spec §4.3), used by repositories for every entity kind that carries
// free-form metadata.
func MergeMetadata(existing, incoming map[string]any, existingUpdatedAt, incomingUpdatedAt string) map[string]any {
	return mergeMetadataPreferByUpdatedAt(existing, incoming, existingUpdatedAt, incomingUpdatedAt)
}

// clampFloat bounds a value to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// maxString returns the lexicographically (and, for ISO-8601 timestamps,
// chronologically) greater of two strings, treating an empty string as
// absent.
func maxString(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a > b {
		return a
	}
	return b
}

// minString is maxString's dual, treating an empty string as absent too.
func minString(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a < b {
		return a
	}
	return b
}

// maxInt returns the greater of two ints.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
