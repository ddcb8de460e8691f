package engine

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/guardrail"
	"github.com/bleedingdev/ums/internal/repo"
)

// candidateMaxContentRunes bounds the statement snippet reflect derives
// from an episode type's most recent content.
const candidateMaxContentRunes = 140

// handleReflect scans recent episodes grouped by type and emits candidate
// rule statements with provisional confidence and evidence pointers. It
// never writes to any bucket (spec §4.7: "never writes").
func handleReflect(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	maxCandidates := getInt(req, "maxCandidates", 10)

	episodes := e.tree.Store(storeID).Profile(profile).Episodes.List(0)
	if len(episodes) == 0 {
		return map[string]any{"candidates": []any{}}, "noop", nil
	}

	byType := map[string][]*entity.Episode{}
	var types []string
	for _, ep := range episodes {
		if _, seen := byType[ep.Type]; !seen {
			types = append(types, ep.Type)
		}
		byType[ep.Type] = append(byType[ep.Type], ep)
	}
	// Iteration over byType must not leak map order; types already reflects
	// first-seen insertion order, which is itself derived from the already
	// chronologically sorted episode list.

	candidates := make([]map[string]any, 0, len(types))
	for _, t := range types {
		group := byType[t]
		last := group[len(group)-1]
		snippet := last.Content
		if r := []rune(snippet); len(r) > candidateMaxContentRunes {
			snippet = string(r[:candidateMaxContentRunes])
		}

		evidence := make([]string, 0, len(group))
		for _, ep := range group {
			evidence = append(evidence, ep.ID)
		}

		confidence := float64(len(group)) / float64(len(episodes))
		if confidence > 0.9 {
			confidence = 0.9
		}

		candidates = append(candidates, map[string]any{
			"statement":          "Pattern observed in " + t + " events: " + snippet,
			"confidence":         confidence,
			"evidenceEpisodeIds": canon.SortedUnique(evidence),
			"sourceType":         t,
		})
		if len(candidates) >= maxCandidates {
			break
		}
	}

	return map[string]any{"candidates": candidates}, "noop", nil
}

// handleValidate confirms each candidate's evidence pointers resolve to an
// existing episode in the same bucket and flags candidates that contradict
// an existing anti-pattern (an anti-pattern whose statement is this
// candidate's inverted form already exists).
func handleValidate(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	profileBucket := e.tree.Store(storeID).Profile(profile)

	results := make([]map[string]any, 0)
	for _, c := range getMapSlice(req, "candidates") {
		statement := getString(c, "statement", "")
		evidenceIDs := getStringSlice(c, "evidenceEpisodeIds")

		missing := make([]string, 0)
		for _, id := range evidenceIDs {
			if _, ok := profileBucket.Episodes.Get(id); !ok {
				missing = append(missing, id)
			}
		}

		contradicted := false
		invertedID, err := canon.ID(entity.PrefixAntiPattern, map[string]any{
			"storeId":   storeID,
			"statement": entity.InvertedStatement(statement),
		})
		if err != nil {
			return nil, "", err
		}
		if _, ok := profileBucket.AntiPatterns.Get(invertedID); ok {
			contradicted = true
		}

		valid := len(evidenceIDs) > 0 && len(missing) == 0 && !contradicted

		results = append(results, map[string]any{
			"statement":          statement,
			"confidence":         getFloat(c, "confidence", 0),
			"evidenceEpisodeIds": evidenceIDs,
			"valid":              valid,
			"missingEvidenceIds": missing,
			"contradicted":       contradicted,
		})
	}

	return map[string]any{"results": results}, "noop", nil
}

// handleCurate upserts one rule per valid candidate.
func handleCurate(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	return curateCandidates(e, storeID, profile, req, false)
}

// handleCurateGuarded is handleCurate plus two extra gates: a candidate
// whose statement matches an unsafe-instruction pattern is rejected outright
// (rather than curated and filtered only at recall time), and the resulting
// rule set must fit the configured payload budget.
func handleCurateGuarded(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	return curateCandidates(e, storeID, profile, req, true)
}

func curateCandidates(e *Engine, storeID, profile string, req map[string]any, guarded bool) (map[string]any, string, error) {
	now := e.now()
	bucket := e.tree.Store(storeID).Profile(profile).Rules

	curated := make([]map[string]any, 0)
	rejected := make([]map[string]any, 0)
	createdCount, updatedCount := 0, 0

	for _, c := range getMapSlice(req, "candidates") {
		statement := getString(c, "statement", "")

		if guarded && guardrail.IsUnsafeInstruction(statement) {
			rejected = append(rejected, map[string]any{"statement": statement, "reason": "unsafe instruction"})
			continue
		}

		rule, err := entity.NewRule(entity.NewRuleInput{
			StoreID:            storeID,
			Statement:          statement,
			Confidence:         getFloat(c, "confidence", 0.3),
			EvidenceEpisodeIDs: getStringSlice(c, "evidenceEpisodeIds"),
			CreatedAt:          now,
			Metadata:           getMap(c, "metadata"),
		})
		if err != nil {
			rejected = append(rejected, map[string]any{"statement": statement, "reason": err.Error()})
			continue
		}

		stored, ruleAction, err := bucket.Upsert(rule)
		if err != nil {
			return nil, "", err
		}
		switch ruleAction {
		case repo.ActionCreated:
			createdCount++
		case repo.ActionUpdated:
			updatedCount++
		}
		curated = append(curated, map[string]any{"rule": stored, "action": string(ruleAction)})
	}

	if guarded {
		maxBytes := getInt(req, "maxBytes", e.config.DefaultMaxBytes)
		if err := guardrail.Fit(maxBytes, 0, func() (int, int, error) {
			b, err := canon.ByteLen(curated)
			return b, 0, err
		}, func() bool {
			if len(curated) == 0 {
				return false
			}
			curated = curated[:len(curated)-1]
			return true
		}); err != nil {
			return nil, "", err
		}
	}

	action := "noop"
	switch {
	case createdCount > 0:
		action = "created"
	case updatedCount > 0:
		action = "updated"
	}
	data := map[string]any{"curated": curated}
	if len(rejected) > 0 {
		data["rejected"] = rejected
	}
	return data, action, nil
}
