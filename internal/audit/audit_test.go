package audit

import (
	"testing"

	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/repo"
)

func newTestProfile(t *testing.T) *repo.Profile {
	t.Helper()
	return repo.NewTree().Store("store-1").Profile("learner-1")
}

func mustRule(t *testing.T, statement string, evidence []string) *entity.ProceduralRule {
	t.Helper()
	r, err := entity.NewRule(entity.NewRuleInput{
		StoreID:            "store-1",
		Statement:          statement,
		Confidence:         0.8,
		EvidenceEpisodeIDs: evidence,
		CreatedAt:          "2026-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	return r
}

func TestRunAllChecksPassOnCleanProfile(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "write tests first", []string{"ep_0000000000000001"})
	r.LastValidatedAt = "2026-01-02T00:00:00Z"
	p.Rules.Put(r)

	results := Run(p, "2026-01-03T00:00:00Z")
	if len(results) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(results))
	}
	for _, res := range results {
		if res.Status != StatusPass {
			t.Errorf("check %s = %s, want pass; details: %v", res.Name, res.Status, res.Details)
		}
	}
}

func TestCheckEvidencePresenceFlagsMissingEvidence(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "never skip review", []string{"ep_0000000000000001"})
	r.EvidenceEpisodeIDs = nil // simulate drift after construction
	p.Rules.Put(r)

	result := checkEvidencePresence(p)
	if result.Status != StatusFail {
		t.Fatalf("expected fail, got %s", result.Status)
	}
	if len(result.Details) != 1 {
		t.Fatalf("expected 1 detail, got %d: %v", len(result.Details), result.Details)
	}
}

func TestCheckEvidencePresenceAllowsPolicyException(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "allow without evidence", []string{"ep_0000000000000001"})
	r.EvidenceEpisodeIDs = nil
	r.Metadata = map[string]any{"policyException": map[string]any{"approvedBy": "reviewer"}}
	p.Rules.Put(r)

	result := checkEvidencePresence(p)
	if result.Status != StatusPass {
		t.Fatalf("expected pass with policy exception, got %s: %v", result.Status, result.Details)
	}
}

func TestCheckTombstoneVisibilityFlagsMissingReason(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "deprecated rule", []string{"ep_0000000000000001"})
	r.Status = entity.RuleStatusTombstoned
	r.Confidence = 0.5 // above the floor, so a reason is required
	p.Rules.Put(r)

	result := checkTombstoneVisibility(p)
	if result.Status != StatusFail {
		t.Fatalf("expected fail, got %s", result.Status)
	}
}

func TestCheckTombstoneVisibilityPassesAtConfidenceFloor(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "confidence floor rule", []string{"ep_0000000000000001"})
	r.Status = entity.RuleStatusTombstoned
	r.Confidence = entity.TombstoneConfidenceFloor
	p.Rules.Put(r)

	result := checkTombstoneVisibility(p)
	if result.Status != StatusPass {
		t.Fatalf("expected pass at confidence floor, got %s: %v", result.Status, result.Details)
	}
}

func TestCheckConflictChronologyFlagsInvertedTimestamps(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "backwards rule", []string{"ep_0000000000000001"})
	r.UpdatedAt = "2025-01-01T00:00:00Z"
	r.CreatedAt = "2026-01-01T00:00:00Z"
	p.Rules.Put(r)

	result := checkConflictChronology(p)
	if result.Status != StatusFail {
		t.Fatalf("expected fail, got %s", result.Status)
	}
}

func TestCheckFreshnessFlagsNeverValidatedRule(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "never revisited", []string{"ep_0000000000000001"})
	p.Rules.Put(r)

	result := checkFreshness(p)
	if result.Status != StatusFail {
		t.Fatalf("expected fail, got %s", result.Status)
	}
}

func TestCheckFreshnessIgnoresTombstonedRules(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "tombstoned and stale", []string{"ep_0000000000000001"})
	r.Status = entity.RuleStatusTombstoned
	p.Rules.Put(r)

	result := checkFreshness(p)
	if result.Status != StatusPass {
		t.Fatalf("expected pass, tombstoned rules are exempt: %v", result.Details)
	}
}

func TestCheckReviewScheduleConsistencyFlagsOverdueEntry(t *testing.T) {
	p := newTestProfile(t)
	entry, err := entity.NewReviewScheduleEntry(entity.NewReviewScheduleEntryInput{
		StoreID:        "store-1",
		ProfileID:      "learner-1",
		TargetID:       "rule_0000000000000001",
		DueAt:          "2026-01-01T00:00:00Z",
		IntervalDays:   1,
		SourceEventIDs: []string{"ep_0000000000000001"},
		CreatedAt:      "2025-12-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("NewReviewScheduleEntry: %v", err)
	}
	p.ReviewSchedules.Put(entry)

	result := checkReviewScheduleConsistency(p, "2026-01-02T00:00:00Z")
	if result.Status != StatusFail {
		t.Fatalf("expected fail for overdue entry, got %s", result.Status)
	}
}

func TestCheckReviewScheduleConsistencyPassesBeforeDue(t *testing.T) {
	p := newTestProfile(t)
	entry, err := entity.NewReviewScheduleEntry(entity.NewReviewScheduleEntryInput{
		StoreID:        "store-1",
		ProfileID:      "learner-1",
		TargetID:       "rule_0000000000000001",
		DueAt:          "2026-02-01T00:00:00Z",
		IntervalDays:   1,
		SourceEventIDs: []string{"ep_0000000000000001"},
		CreatedAt:      "2025-12-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("NewReviewScheduleEntry: %v", err)
	}
	p.ReviewSchedules.Put(entry)

	result := checkReviewScheduleConsistency(p, "2026-01-02T00:00:00Z")
	if result.Status != StatusPass {
		t.Fatalf("expected pass, entry is not yet due: %v", result.Details)
	}
}
