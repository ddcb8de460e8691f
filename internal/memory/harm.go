package memory

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/entity"
)

// harmEscalationConfidenceFloor is the floor applied to harm-escalation
// anti-pattern artifacts, distinct from the general anti-pattern floor of
// 0.2 (spec §4.6).
const harmEscalationConfidenceFloor = 0.05

// ShouldEscalate reports whether harmfulCount is exactly one of the
// escalation thresholds (2, 3, 5): escalation fires once per threshold
// crossed, not on every subsequent signal above it.
func ShouldEscalate(harmfulCount int) bool {
	for _, t := range entity.HarmEscalationThresholds {
		if harmfulCount == t {
			return true
		}
	}
	return false
}

// EscalateHarm builds the anti-pattern artifact for a misconception that
// just crossed a harmful-signal threshold. The artifact's confidence
// anchors at 1.0 (full severity) and applies the threshold's decay band
// plus severity*0.08, floored at 0.05 — the spec gives decay bands but not
// an explicit base to decay from, so this package treats 1.0 as that base,
// matching how Reinforce treats a fresh rule's starting confidence as the
// full range before signals erode it.
//
// The artifact's ID is deterministic over (misconceptionId, threshold), so
// re-escalating the same misconception at the same threshold is a
// replay-safe upsert rather than a duplicate.
func EscalateHarm(misc *entity.Misconception, severity float64, now string) (*entity.AntiPattern, error) {
	threshold := misc.HarmfulSignalCount
	decay := entity.DecayForHarmfulCount(threshold)
	confidence := 1.0 + decay + severity*0.08

	id, err := canon.ID(entity.PrefixAntiPattern, map[string]any{
		"misconceptionId": misc.ID,
		"threshold":       threshold,
	})
	if err != nil {
		return nil, err
	}

	return entity.NewAntiPattern(entity.NewAntiPatternInput{
		StoreID:            misc.StoreID,
		Statement:          entity.InvertedStatement(misc.MisconceptionKey),
		Confidence:         confidence,
		EvidenceEpisodeIDs: misc.EvidenceEpisodeIDs,
		CreatedAt:          now,
		ExplicitID:         id,
		ConfidenceFloor:    harmEscalationConfidenceFloor,
	})
}
