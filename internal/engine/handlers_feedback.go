package engine

import (
	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/memory"
	"github.com/bleedingdev/ums/internal/resolver"
	"github.com/bleedingdev/ums/internal/umserr"
)

// handleFeedback applies a helpful/harmful signal to a target rule via
// memory.Reinforce, tombstoning it if confidence falls to the floor, and
// optionally inverts it into an anti-pattern when "invert" is set on a
// harmful-only signal.
func handleFeedback(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	profileBucket := e.tree.Store(storeID).Profile(profile)

	ruleID := getString(req, "targetRuleId", "")
	rule, ok := profileBucket.Rules.Get(ruleID)
	if !ok {
		if match, err := resolver.New(profileBucket).Resolve(ruleID); err == nil && match.Kind == "rule" {
			rule, ok = profileBucket.Rules.Get(match.ID)
		}
	}
	if !ok {
		return nil, "", umserr.NotFound("rule not found", map[string]any{"ruleId": ruleID})
	}

	helpful := getBool(req, "helpful", false)
	harmful := getBool(req, "harmful", false)
	now := e.now()

	updated := memory.Reinforce(rule, helpful, harmful, now)
	profileBucket.Rules.Put(updated)

	data := map[string]any{"rule": updated}

	if harmful && !helpful && getBool(req, "invert", false) {
		antiPattern, err := memory.Invert(updated, now)
		if err != nil {
			return nil, "", err
		}
		stored, _, err := profileBucket.AntiPatterns.Upsert(antiPattern)
		if err != nil {
			return nil, "", err
		}
		data["antiPattern"] = stored
	}

	return data, "updated", nil
}

// handleOutcome records a task outcome: an implicit reinforcement signal on
// every rule the task used, and, on failure with a misconceptionKey
// supplied, an implicit harmful misconception signal tagged
// mappingSource=outcome_failure (spec §4.7).
func handleOutcome(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	profileBucket := e.tree.Store(storeID).Profile(profile)
	now := e.now()
	success := getBool(req, "success", false)

	reinforced := make([]*entity.ProceduralRule, 0)
	for _, ruleID := range getStringSlice(req, "usedRuleIds") {
		rule, ok := profileBucket.Rules.Get(ruleID)
		if !ok {
			continue
		}
		updated := memory.Reinforce(rule, success, !success, now)
		profileBucket.Rules.Put(updated)
		reinforced = append(reinforced, updated)
	}

	data := map[string]any{
		"taskId":     getString(req, "taskId", ""),
		"success":    success,
		"reinforced": reinforced,
	}

	misconceptionKey := getString(req, "misconceptionKey", "")
	if !success && misconceptionKey != "" {
		metadata := map[string]any{}
		for k, v := range getMap(req, "metadata") {
			metadata[k] = v
		}
		metadata["mappingSource"] = "outcome_failure"

		misc, err := entity.NewMisconception(entity.NewMisconceptionInput{
			StoreID:            storeID,
			ProfileID:          getString(req, "profileId", ""),
			MisconceptionKey:   misconceptionKey,
			Confidence:         0.3,
			Harmful:            true,
			EvidenceEpisodeIDs: getStringSlice(req, "evidenceEpisodeIds"),
			SourceSignalIDs:    []string{getString(req, "taskId", "")},
			CreatedAt:          now,
			Metadata:           metadata,
		})
		if err != nil {
			return nil, "", err
		}

		stored, _, err := profileBucket.Misconceptions.Upsert(misc)
		if err != nil {
			return nil, "", err
		}
		data["misconception"] = stored

		if escalated, ok, err := escalateIfDue(profileBucket, stored, 0.5, now); err != nil {
			return nil, "", err
		} else if ok {
			data["escalatedAntiPattern"] = escalated
		}
	}

	return data, "updated", nil
}
