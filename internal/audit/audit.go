// Package audit implements the invariant sweeps the engine's audit/doctor
// operations run over a profile's bucket tree: evidence presence, tombstone
// visibility, conflict chronology, freshness, and review-schedule
// consistency (spec §4.7, §8). Each check is a pure read over already-
// validated entities — nothing here mutates the tree or re-validates what
// the entity factories already enforced at write time; a failing check
// means stored state has drifted from an invariant the write path is
// supposed to guarantee, which is itself a signal worth surfacing.
package audit

import (
	"fmt"

	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/repo"
)

// Status is one check's pass/fail outcome.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// CheckResult is one invariant sweep's outcome.
type CheckResult struct {
	Name    string   `json:"name"`
	Status  Status   `json:"status"`
	Details []string `json:"details,omitempty"`
}

// Run executes every invariant sweep over profileBucket as of now and
// returns one CheckResult per sweep, in a fixed order.
func Run(profileBucket *repo.Profile, now string) []CheckResult {
	return []CheckResult{
		checkEvidencePresence(profileBucket),
		checkTombstoneVisibility(profileBucket),
		checkConflictChronology(profileBucket),
		checkFreshness(profileBucket),
		checkReviewScheduleConsistency(profileBucket, now),
	}
}

// checkEvidencePresence confirms every rule, anti-pattern, and
// misconception still carries at least one evidence pointer or a policy
// exception, matching the guardrail enforced at write time.
func checkEvidencePresence(p *repo.Profile) CheckResult {
	var details []string

	for _, r := range p.Rules.List(repo.RuleLess, 0) {
		if err := entity.RequireEvidence("rule", r.EvidenceEpisodeIDs, r.Metadata); err != nil {
			details = append(details, fmt.Sprintf("rule %s has no evidence", r.ID))
		}
	}
	for _, a := range p.AntiPatterns.List(repo.AntiPatternLess, 0) {
		if err := entity.RequireEvidence("anti-pattern", a.EvidenceEpisodeIDs, a.Metadata); err != nil {
			details = append(details, fmt.Sprintf("anti-pattern %s has no evidence", a.ID))
		}
	}
	for _, m := range p.Misconceptions.List(repo.MisconceptionLess, 0) {
		if err := entity.RequireEvidence("misconception", m.EvidenceEpisodeIDs, m.Metadata); err != nil {
			details = append(details, fmt.Sprintf("misconception %s has no evidence", m.ID))
		}
	}

	return result("evidence_presence", details)
}

// checkTombstoneVisibility confirms every tombstoned rule carries a
// tombstoneReason (set by memory.Tombstone or implied by the confidence
// floor in memory.Reinforce) so that audits can explain why it left
// default recall.
func checkTombstoneVisibility(p *repo.Profile) CheckResult {
	var details []string
	for _, r := range p.Rules.List(repo.RuleLess, 0) {
		if r.Status != entity.RuleStatusTombstoned {
			continue
		}
		if r.Confidence <= entity.TombstoneConfidenceFloor {
			continue
		}
		if _, ok := r.Metadata["tombstoneReason"]; !ok {
			details = append(details, fmt.Sprintf("rule %s is tombstoned without a recorded reason", r.ID))
		}
	}
	return result("tombstone_visibility", details)
}

// checkConflictChronology confirms every entity's updatedAt is not earlier
// than its createdAt, the ordering merges are supposed to preserve.
func checkConflictChronology(p *repo.Profile) CheckResult {
	var details []string
	for _, r := range p.Rules.List(repo.RuleLess, 0) {
		if r.UpdatedAt < r.CreatedAt {
			details = append(details, fmt.Sprintf("rule %s updatedAt precedes createdAt", r.ID))
		}
	}
	for _, l := range p.LearnerProfiles.List(repo.LearnerProfileLess, 0) {
		if l.UpdatedAt < l.CreatedAt {
			details = append(details, fmt.Sprintf("learner profile %s updatedAt precedes createdAt", l.ID))
		}
	}
	for _, m := range p.Misconceptions.List(repo.MisconceptionLess, 0) {
		if m.UpdatedAt < m.CreatedAt || m.LastSignalAt < m.CreatedAt {
			details = append(details, fmt.Sprintf("misconception %s timestamp order violated", m.ID))
		}
	}
	for _, d := range p.PolicyDecisions.List(repo.PolicyDecisionLess, 0) {
		if d.EvaluatedAt < d.CreatedAt || d.UpdatedAt < d.CreatedAt {
			details = append(details, fmt.Sprintf("policy decision %s timestamp order violated", d.ID))
		}
	}
	return result("conflict_chronology", details)
}

// checkFreshness flags active rules that have gone stale: reinforced
// neither helpfully nor harmfully in a very long time is not itself
// checkable without a staleness horizon input, so this sweep instead flags
// every non-tombstoned rule whose lastValidatedAt is empty, whatever its
// evidence set.
func checkFreshness(p *repo.Profile) CheckResult {
	var details []string
	for _, r := range p.Rules.List(repo.RuleLess, 0) {
		if r.Tombstoned() {
			continue
		}
		if r.LastValidatedAt == "" {
			details = append(details, fmt.Sprintf("rule %s has never been revalidated", r.ID))
		}
	}
	return result("freshness", details)
}

// checkReviewScheduleConsistency flags scheduled entries whose dueAt has
// already passed as of now but were not transitioned to due, meaning a
// caller skipped review_schedule_clock.
func checkReviewScheduleConsistency(p *repo.Profile, now string) CheckResult {
	var details []string
	for _, entry := range p.ReviewSchedules.List(repo.ReviewScheduleLess, 0) {
		if entry.Status == entity.ReviewStatusScheduled && entry.IsDue(now) {
			details = append(details, fmt.Sprintf("review schedule %s is overdue but not yet marked due", entry.ID))
		}
	}
	return result("review_schedule_consistency", details)
}

func result(name string, details []string) CheckResult {
	status := StatusPass
	if len(details) > 0 {
		status = StatusFail
	}
	return CheckResult{Name: name, Status: status, Details: details}
}
