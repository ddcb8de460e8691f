package engine

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/guardrail"
	"github.com/bleedingdev/ums/internal/repo"
)

// handlePolicyDecisionUpdate upserts a policy evaluation record. Outcome
// only escalates (allow<review<deny) on a normal upsert; setting
// "downgrade":true on the request allows an explicit de-escalation.
func handlePolicyDecisionUpdate(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	now := e.now()
	incoming, err := entity.NewPolicyDecision(entity.NewPolicyDecisionInput{
		AuditID:            getString(req, "auditId", ""),
		StoreID:            storeID,
		ProfileID:          getString(req, "profileId", ""),
		PolicyKey:          getString(req, "policyKey", ""),
		Outcome:            entity.PolicyOutcome(getString(req, "outcome", "")),
		ReasonCodes:        getStringSlice(req, "reasonCodes"),
		ProvenanceEventIDs: getStringSlice(req, "provenanceEventIds"),
		CreatedAt:          now,
		Metadata:           getMap(req, "metadata"),
	})
	if err != nil {
		return nil, "", err
	}

	bucket := e.tree.Store(storeID).Profile(profile).PolicyDecisions
	downgrade := getBool(req, "downgrade", false)
	if !downgrade {
		stored, action, err := bucket.Upsert(incoming)
		if err != nil {
			return nil, "", err
		}
		return map[string]any{"policyDecision": stored}, string(action), nil
	}

	existing, ok := bucket.Get(incoming.ID)
	if !ok {
		bucket.Put(incoming)
		return map[string]any{"policyDecision": incoming}, "created", nil
	}
	merged := entity.MergePolicyDecision(existing, incoming, true)
	existingJSON, err := canon.JSON(existing)
	if err != nil {
		return nil, "", err
	}
	mergedJSON, err := canon.JSON(merged)
	if err != nil {
		return nil, "", err
	}
	if string(existingJSON) == string(mergedJSON) {
		return map[string]any{"policyDecision": existing}, "noop", nil
	}
	bucket.Put(merged)
	return map[string]any{"policyDecision": merged}, "updated", nil
}

// handleRecallAuthorization looks up the latest policy decision for
// (storeId, profileId, policyKey) and reports whether recall is authorized.
// No recorded decision defaults to allow: the absence of a policy record is
// not itself a denial.
func handleRecallAuthorization(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	profileID := getString(req, "profileId", "")
	policyKey := getString(req, "policyKey", "")

	id, err := canon.ID(entity.PrefixPolicyDecision, map[string]any{
		"storeId":   storeID,
		"profileId": profileID,
		"policyKey": policyKey,
	})
	if err != nil {
		return nil, "", err
	}

	bucket := e.tree.Store(storeID).Profile(profile).PolicyDecisions
	decision, ok := bucket.Get(id)
	if !ok {
		return map[string]any{
			"authorized": true,
			"outcome":    string(entity.PolicyOutcomeAllow),
		}, "noop", nil
	}

	return map[string]any{
		"authorized":     decision.Outcome != entity.PolicyOutcomeDeny,
		"outcome":        string(decision.Outcome),
		"reasonCodes":    decision.ReasonCodes,
		"policyDecision": decision,
	}, "noop", nil
}

// handlePolicyAuditExport exports the profile's policy decisions, newest
// first, bounded by the same payload guardrail export/context use.
func handlePolicyAuditExport(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	maxItems := getInt(req, "maxItems", e.config.DefaultMaxItems)
	maxBytes := getInt(req, "maxBytes", e.config.DefaultMaxBytes)

	all := e.tree.Store(storeID).Profile(profile).PolicyDecisions.List(repo.PolicyDecisionLess, 0)
	if maxItems > 0 && maxItems < len(all) {
		all = all[:maxItems]
	}

	truncated := false
	err := guardrail.Fit(maxBytes, 0, func() (int, int, error) {
		b, err := canon.ByteLen(all)
		return b, 0, err
	}, func() bool {
		if len(all) == 0 {
			return false
		}
		all = all[:len(all)-1]
		truncated = true
		return true
	})
	if err != nil {
		return nil, "", err
	}

	return map[string]any{
		"policyDecisions": all,
		"truncated":       truncated,
	}, "noop", nil
}
