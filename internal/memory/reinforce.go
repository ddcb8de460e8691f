package memory

import "github.com/bleedingdev/ums/internal/entity"

// ReinforceDelta is the fixed confidence adjustment per signal kind
// (spec §4.6).
const (
	HelpfulDelta = 0.08
	HarmfulDelta = -0.18
)

// Reinforce applies a helpful and/or harmful signal to rule, returning an
// updated copy. If the resulting confidence falls at or below
// entity.TombstoneConfidenceFloor, the rule is tombstoned. now is the
// caller-supplied normalized timestamp, written to both updatedAt and
// lastValidatedAt.
func Reinforce(rule *entity.ProceduralRule, helpful, harmful bool, now string) *entity.ProceduralRule {
	next := *rule

	delta := 0.0
	if helpful {
		delta += HelpfulDelta
	}
	if harmful {
		delta += HarmfulDelta
	}
	confidence := next.Confidence + delta
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	next.Confidence = confidence
	next.UpdatedAt = now
	next.LastValidatedAt = now

	if confidence <= entity.TombstoneConfidenceFloor {
		next.Status = entity.RuleStatusTombstoned
	}
	return &next
}

// Tombstone explicitly retires rule, recording reason and the tombstone
// timestamp in metadata (spec §4.6).
func Tombstone(rule *entity.ProceduralRule, reason, now string) *entity.ProceduralRule {
	next := *rule
	next.Status = entity.RuleStatusTombstoned
	next.UpdatedAt = now

	metadata := make(map[string]any, len(rule.Metadata)+2)
	for k, v := range rule.Metadata {
		metadata[k] = v
	}
	metadata["tombstoneReason"] = reason
	metadata["tombstonedAt"] = now
	next.Metadata = metadata
	return &next
}

// Invert produces an AntiPattern from a rule, carrying its evidence over
// unchanged and flooring confidence at the standard anti-pattern floor of
// 0.2 (spec §4.6).
func Invert(rule *entity.ProceduralRule, now string) (*entity.AntiPattern, error) {
	return entity.NewAntiPattern(entity.NewAntiPatternInput{
		StoreID:            rule.StoreID,
		Statement:          entity.InvertedStatement(rule.Statement),
		Confidence:         rule.Confidence,
		EvidenceEpisodeIDs: rule.EvidenceEpisodeIDs,
		SourceRuleID:       rule.ID,
		CreatedAt:          now,
	})
}
