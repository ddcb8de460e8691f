package entity

import "github.com/bleedingdev/ums/internal/canon"

// mergeStringSlice implements the "set-valued fields union+sort" merge rule
// (spec §4.3).
func mergeStringSlice(existing, incoming []string) []string {
	combined := make([]string, 0, len(existing)+len(incoming))
	combined = append(combined, existing...)
	combined = append(combined, incoming...)
	return canon.SortedUnique(combined)
}

// MergeRule implements the repository merge rule for ProceduralRule upserts
// (re-curating an already-known statement). Reinforcement (confidence decay
// on feedback) is a distinct operation in package memory; this merge only
// reconciles two upserts of the same statement, e.g. from repeated curate
// calls over overlapping evidence.
func MergeRule(existing, incoming *ProceduralRule) *ProceduralRule {
	merged := *existing
	merged.EvidenceEpisodeIDs = mergeStringSlice(existing.EvidenceEpisodeIDs, incoming.EvidenceEpisodeIDs)
	if incoming.Confidence > merged.Confidence {
		merged.Confidence = incoming.Confidence
	}
	merged.CreatedAt = minString(existing.CreatedAt, incoming.CreatedAt)
	merged.UpdatedAt = maxString(existing.UpdatedAt, incoming.UpdatedAt)
	merged.LastValidatedAt = maxString(existing.LastValidatedAt, incoming.LastValidatedAt)
	if incoming.Supersedes != "" {
		merged.Supersedes = incoming.Supersedes
	}
	if incoming.SupersededBy != "" {
		merged.SupersededBy = incoming.SupersededBy
	}
	merged.Metadata = MergeMetadata(existing.Metadata, incoming.Metadata, existing.UpdatedAt, incoming.UpdatedAt)
	return &merged
}

// MergeWorkingEntry merges two regenerations of the same (storeId, kind,
// content) working entry.
func MergeWorkingEntry(existing, incoming *WorkingEntry) *WorkingEntry {
	merged := *existing
	merged.EvidenceEpisodeIDs = mergeStringSlice(existing.EvidenceEpisodeIDs, incoming.EvidenceEpisodeIDs)
	merged.CreatedAt = minString(existing.CreatedAt, incoming.CreatedAt)
	return &merged
}

// MergeAntiPattern merges two upserts of the same anti-pattern statement.
func MergeAntiPattern(existing, incoming *AntiPattern) *AntiPattern {
	merged := *existing
	merged.EvidenceEpisodeIDs = mergeStringSlice(existing.EvidenceEpisodeIDs, incoming.EvidenceEpisodeIDs)
	if incoming.Confidence > merged.Confidence {
		merged.Confidence = incoming.Confidence
	}
	merged.CreatedAt = minString(existing.CreatedAt, incoming.CreatedAt)
	if incoming.SourceRuleID != "" {
		merged.SourceRuleID = incoming.SourceRuleID
	}
	merged.Metadata = MergeMetadata(existing.Metadata, incoming.Metadata, existing.CreatedAt, incoming.CreatedAt)
	return &merged
}

// MergeLearnerProfile merges two upserts of the same learner profile.
// goals/interestTags union+sort; version takes max; confidence takes max.
func MergeLearnerProfile(existing, incoming *LearnerProfile) *LearnerProfile {
	merged := *existing
	merged.Goals = mergeStringSlice(existing.Goals, incoming.Goals)
	merged.InterestTags = mergeStringSlice(existing.InterestTags, incoming.InterestTags)
	merged.Version = maxInt(existing.Version, incoming.Version)
	if incoming.Version <= existing.Version && len(incoming.IdentityRefs) > 0 {
		// An upsert carrying new refs without bumping version still needs to
		// merge refs; increment version so the bump is visible to readers.
		merged.Version = existing.Version + 1
	}
	merged.IdentityRefs = mergeIdentityRefs(existing.IdentityRefs, incoming.IdentityRefs)
	if incoming.ProfileConfidence > merged.ProfileConfidence {
		merged.ProfileConfidence = incoming.ProfileConfidence
	}
	merged.CreatedAt = minString(existing.CreatedAt, incoming.CreatedAt)
	merged.UpdatedAt = maxString(existing.UpdatedAt, incoming.UpdatedAt)
	merged.Metadata = MergeMetadata(existing.Metadata, incoming.Metadata, existing.UpdatedAt, incoming.UpdatedAt)
	return &merged
}

// mergeIdentityRefs unions identity refs by (namespace, value), preserving
// at most one isPrimary.
func mergeIdentityRefs(existing, incoming []IdentityRef) []IdentityRef {
	type key struct{ ns, val string }
	seen := map[key]IdentityRef{}
	order := []key{}
	add := func(refs []IdentityRef) {
		for _, r := range refs {
			k := key{r.Namespace, r.Value}
			if prev, ok := seen[k]; ok {
				if r.IsPrimary {
					prev.IsPrimary = true
					seen[k] = prev
				}
				continue
			}
			seen[k] = r
			order = append(order, k)
		}
	}
	add(existing)
	add(incoming)

	out := make([]IdentityRef, 0, len(order))
	primarySeen := false
	for _, k := range order {
		r := seen[k]
		if r.IsPrimary {
			if primarySeen {
				r.IsPrimary = false
			}
			primarySeen = true
		}
		out = append(out, r)
	}
	if !primarySeen && len(out) > 0 {
		out[0].IsPrimary = true
	}
	return out
}

// MergeIdentityEdge merges two upserts of the same (profileId, relation,
// fromRef, toRef) edge.
func MergeIdentityEdge(existing, incoming *IdentityEdge) *IdentityEdge {
	merged := *existing
	merged.EvidenceEpisodeIDs = mergeStringSlice(existing.EvidenceEpisodeIDs, incoming.EvidenceEpisodeIDs)
	if incoming.Confidence > merged.Confidence {
		merged.Confidence = incoming.Confidence
	}
	merged.CreatedAt = minString(existing.CreatedAt, incoming.CreatedAt)
	merged.Metadata = MergeMetadata(existing.Metadata, incoming.Metadata, existing.CreatedAt, incoming.CreatedAt)
	return &merged
}

// MergeMisconception merges two signals for the same misconception key.
// Harmful/correction counts are monotonic non-decreasing (spec §3: "counts
// monotonic non-decreasing on merge"), implemented as a sum of the two
// records' counts since each upsert represents one additional signal batch.
func MergeMisconception(existing, incoming *Misconception) *Misconception {
	merged := *existing
	merged.EvidenceEpisodeIDs = mergeStringSlice(existing.EvidenceEpisodeIDs, incoming.EvidenceEpisodeIDs)
	merged.SourceSignalIDs = mergeStringSlice(existing.SourceSignalIDs, incoming.SourceSignalIDs)
	merged.HarmfulSignalCount = existing.HarmfulSignalCount + incoming.HarmfulSignalCount
	merged.CorrectionSignalCount = existing.CorrectionSignalCount + incoming.CorrectionSignalCount
	if incoming.Confidence > merged.Confidence {
		merged.Confidence = incoming.Confidence
	}
	merged.CreatedAt = minString(existing.CreatedAt, incoming.CreatedAt)
	merged.UpdatedAt = maxString(existing.UpdatedAt, incoming.UpdatedAt)
	merged.LastSignalAt = maxString(existing.LastSignalAt, incoming.LastSignalAt)
	merged.Metadata = MergeMetadata(existing.Metadata, incoming.Metadata, existing.UpdatedAt, incoming.UpdatedAt)
	return &merged
}

// MergeCurriculumPlanItem merges two upserts of the same curriculum item.
func MergeCurriculumPlanItem(existing, incoming *CurriculumPlanItem) *CurriculumPlanItem {
	merged := *existing
	merged.EvidenceEpisodeIDs = mergeStringSlice(existing.EvidenceEpisodeIDs, incoming.EvidenceEpisodeIDs)
	merged.CreatedAt = minString(existing.CreatedAt, incoming.CreatedAt)
	merged.UpdatedAt = maxString(existing.UpdatedAt, incoming.UpdatedAt)
	if incoming.DueAt != "" {
		merged.DueAt = incoming.DueAt
	}
	if incoming.Window != nil {
		merged.Window = incoming.Window
	}
	merged.Metadata = MergeMetadata(existing.Metadata, incoming.Metadata, existing.UpdatedAt, incoming.UpdatedAt)
	return &merged
}

// MergeReviewScheduleEntry merges two upserts of the same schedule entry.
func MergeReviewScheduleEntry(existing, incoming *ReviewScheduleEntry) *ReviewScheduleEntry {
	merged := *existing
	merged.SourceEventIDs = mergeStringSlice(existing.SourceEventIDs, incoming.SourceEventIDs)
	merged.CreatedAt = minString(existing.CreatedAt, incoming.CreatedAt)
	merged.UpdatedAt = maxString(existing.UpdatedAt, incoming.UpdatedAt)
	if incoming.DueAt != "" {
		merged.DueAt = incoming.DueAt
	}
	merged.IntervalDays = maxInt(existing.IntervalDays, incoming.IntervalDays)
	merged.Metadata = MergeMetadata(existing.Metadata, incoming.Metadata, existing.UpdatedAt, incoming.UpdatedAt)
	return &merged
}

// MergePolicyDecision merges two evaluations of the same (storeId,
// profileId, policyKey) decision. Outcome may only escalate
// (allow < review < deny), per SPEC_FULL §7, unless the incoming request
// explicitly sets Downgrade.
func MergePolicyDecision(existing, incoming *PolicyDecision, allowDowngrade bool) *PolicyDecision {
	merged := *existing
	merged.ProvenanceEventIDs = mergeStringSlice(existing.ProvenanceEventIDs, incoming.ProvenanceEventIDs)
	merged.ReasonCodes = mergeStringSlice(existing.ReasonCodes, incoming.ReasonCodes)
	if allowDowngrade || incoming.Outcome.Rank() > existing.Outcome.Rank() {
		merged.Outcome = incoming.Outcome
	}
	if incoming.AuditID != "" {
		merged.AuditID = incoming.AuditID
	}
	merged.CreatedAt = minString(existing.CreatedAt, incoming.CreatedAt)
	merged.EvaluatedAt = maxString(existing.EvaluatedAt, incoming.EvaluatedAt)
	merged.UpdatedAt = maxString(existing.UpdatedAt, incoming.UpdatedAt)
	merged.Metadata = MergeMetadata(existing.Metadata, incoming.Metadata, existing.UpdatedAt, incoming.UpdatedAt)
	return &merged
}
