package entity

import (
	"errors"
	"testing"

	"github.com/bleedingdev/ums/internal/umserr"
)

const now = "2026-07-31T00:00:00Z"

func TestNewEpisodeRequiresFields(t *testing.T) {
	_, err := NewEpisode(NewEpisodeInput{StoreID: "s1", CreatedAt: now})
	if err == nil {
		t.Fatalf("expected error for missing type/content")
	}

	ep, err := NewEpisode(NewEpisodeInput{StoreID: "s1", Type: "note", Source: "codex", Content: "hello", CreatedAt: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.ID == "" || ep.ID[:3] != "ep_" {
		t.Fatalf("unexpected id: %s", ep.ID)
	}
}

func TestNewEpisodeIDIgnoresCreatedAt(t *testing.T) {
	a, _ := NewEpisode(NewEpisodeInput{StoreID: "s1", Type: "note", Source: "x", Content: "same", CreatedAt: now})
	b, _ := NewEpisode(NewEpisodeInput{StoreID: "s1", Type: "note", Source: "x", Content: "same", CreatedAt: "2030-01-01T00:00:00Z"})
	if a.ID != b.ID {
		t.Fatalf("expected ids to match regardless of createdAt, got %s vs %s", a.ID, b.ID)
	}
}

func TestNewRuleRequiresEvidence(t *testing.T) {
	_, err := NewRule(NewRuleInput{StoreID: "s1", Statement: "do X", CreatedAt: now})
	if !errors.Is(err, umserr.Sentinel(umserr.CodeEvidenceRequired)) {
		t.Fatalf("expected EVIDENCE_REQUIRED, got %v", err)
	}

	r, err := NewRule(NewRuleInput{StoreID: "s1", Statement: "do X", Confidence: 1.5, EvidenceEpisodeIDs: []string{"ep_a"}, CreatedAt: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Confidence != 1 {
		t.Fatalf("expected confidence clamped to 1, got %v", r.Confidence)
	}
	if r.Status != RuleStatusActive {
		t.Fatalf("expected active status, got %v", r.Status)
	}
}

func TestNewRuleEvidencePolicyException(t *testing.T) {
	_, err := NewRule(NewRuleInput{
		StoreID:   "s1",
		Statement: "do X",
		CreatedAt: now,
		Metadata:  map[string]any{"policyException": map[string]any{"approvedBy": "ops"}},
	})
	if err != nil {
		t.Fatalf("expected policy exception to bypass evidence requirement, got %v", err)
	}
}

func TestNewAntiPatternConfidenceFloor(t *testing.T) {
	a, err := NewAntiPattern(NewAntiPatternInput{
		StoreID:            "s1",
		Statement:          InvertedStatement("do X"),
		Confidence:         0.0,
		EvidenceEpisodeIDs: []string{"ep_a"},
		CreatedAt:          now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Confidence != 0.2 {
		t.Fatalf("expected confidence floor 0.2, got %v", a.Confidence)
	}
	if a.Statement != "Avoid: do X" {
		t.Fatalf("unexpected statement: %s", a.Statement)
	}
}

func TestNewLearnerProfileExactlyOnePrimary(t *testing.T) {
	_, err := NewLearnerProfile(NewLearnerProfileInput{
		StoreID:   "s1",
		LearnerID: "learner-1",
		IdentityRefs: []IdentityRef{
			{Namespace: "email", Value: "a@example.com", IsPrimary: true},
			{Namespace: "email", Value: "b@example.com", IsPrimary: true},
		},
		CreatedAt: now,
	})
	if !errors.Is(err, umserr.Sentinel(umserr.CodeIdentityInvariant)) {
		t.Fatalf("expected IDENTITY_INVARIANT for two primaries, got %v", err)
	}

	lp, err := NewLearnerProfile(NewLearnerProfileInput{
		StoreID:      "s1",
		LearnerID:    "learner-1",
		IdentityRefs: []IdentityRef{{Namespace: "email", Value: "a@example.com"}},
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lp.IdentityRefs[0].IsPrimary {
		t.Fatalf("expected sole ref to be promoted to primary")
	}
}

func TestNewIdentityEdgeDistinctEndpoints(t *testing.T) {
	_, err := NewIdentityEdge(NewIdentityEdgeInput{
		StoreID: "s1", ProfileID: "lp_1", Relation: "related_to",
		FromRef: "a", ToRef: "a", CreatedAt: now,
	})
	if !errors.Is(err, umserr.Sentinel(umserr.CodeIdentityInvariant)) {
		t.Fatalf("expected IDENTITY_INVARIANT for equal endpoints, got %v", err)
	}
}

func TestNewIdentityEdgeMisconceptionOfRequiresEvidence(t *testing.T) {
	_, err := NewIdentityEdge(NewIdentityEdgeInput{
		StoreID: "s1", ProfileID: "lp_1", Relation: RelationMisconceptionOf,
		FromRef: "a", ToRef: "b", CreatedAt: now,
	})
	if !errors.Is(err, umserr.Sentinel(umserr.CodeEvidenceRequired)) {
		t.Fatalf("expected EVIDENCE_REQUIRED, got %v", err)
	}
}

func TestNewMisconceptionRequiresEvidence(t *testing.T) {
	_, err := NewMisconception(NewMisconceptionInput{
		StoreID: "s1", ProfileID: "lp_1", MisconceptionKey: "off-by-one", CreatedAt: now,
	})
	if !errors.Is(err, umserr.Sentinel(umserr.CodeEvidenceRequired)) {
		t.Fatalf("expected EVIDENCE_REQUIRED, got %v", err)
	}
}

func TestNewCurriculumPlanItemWindowOrdering(t *testing.T) {
	_, err := NewCurriculumPlanItem(NewCurriculumPlanItemInput{
		StoreID: "s1", ProfileID: "lp_1", ObjectiveID: "obj-1",
		RecommendationRank: 1, EvidenceEpisodeIDs: []string{"ep_a"},
		Window:    &Window{Start: "2026-02-01", End: "2026-01-01"},
		CreatedAt: now,
	})
	if err == nil {
		t.Fatalf("expected error for inverted window")
	}
}

func TestNewReviewScheduleEntryBoundsEaseFactor(t *testing.T) {
	e, err := NewReviewScheduleEntry(NewReviewScheduleEntryInput{
		StoreID: "s1", ProfileID: "lp_1", TargetID: "rule_1",
		DueAt: now, IntervalDays: 1, EaseFactor: 10,
		SourceEventIDs: []string{"ev_1"}, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.EaseFactor != MaxEaseFactor {
		t.Fatalf("expected ease factor clamped to max, got %v", e.EaseFactor)
	}
}

func TestNewPolicyDecisionDenyRequiresReasonCodes(t *testing.T) {
	_, err := NewPolicyDecision(NewPolicyDecisionInput{
		StoreID: "s1", ProfileID: "lp_1", PolicyKey: "pk",
		Outcome: PolicyOutcomeDeny, ProvenanceEventIDs: []string{"ev_1"}, CreatedAt: now,
	})
	if !errors.Is(err, umserr.Sentinel(umserr.CodeValidationFailed)) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestPolicyOutcomeRankOrdering(t *testing.T) {
	if !(PolicyOutcomeAllow.Rank() < PolicyOutcomeReview.Rank() && PolicyOutcomeReview.Rank() < PolicyOutcomeDeny.Rank()) {
		t.Fatalf("expected allow < review < deny")
	}
}

func TestMergeMetadataPrefersLaterUpdatedAt(t *testing.T) {
	existing := map[string]any{"a": 1, "b": 1}
	incoming := map[string]any{"b": 2, "c": 2}
	merged := MergeMetadata(existing, incoming, "2026-01-01T00:00:00Z", "2026-02-01T00:00:00Z")
	if merged["a"] != 1 || merged["b"] != 2 || merged["c"] != 2 {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}
