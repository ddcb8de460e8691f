package engine

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/guardrail"
	"github.com/bleedingdev/ums/internal/index"
	"github.com/bleedingdev/ums/internal/repo"
)

// handleContext builds a recall pack: episodes, active rules, and
// anti-patterns ranked against query, respecting maxItems per category and
// the configured byte/token budget (spec §4.4, §4.5). Truncation order on
// overflow is episodes, then antiPatterns, then rules, per the bounded
// payload guardrail's evidencePointers→antiPatterns→topRules priority
// (episodes are the recall pack's evidence pointers).
func handleContext(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	return buildRecallPack(e, storeID, profile, req, false)
}

// handleTutorDegraded serves a reduced recall pack for a downstream
// consumer operating without full context capacity: half the byte budget
// and no anti-patterns, core rules and episodes only.
func handleTutorDegraded(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	return buildRecallPack(e, storeID, profile, req, true)
}

func buildRecallPack(e *Engine, storeID, profile string, req map[string]any, degraded bool) (map[string]any, string, error) {
	targetStoreID := getString(req, "targetStoreId", storeID)
	if err := repo.CheckIsolation(e.config.CrossStoreAllowlist, storeID, targetStoreID, getBool(req, "allowCrossSpaceRead", false)); err != nil {
		return nil, "", err
	}

	profileBucket := e.tree.Store(targetStoreID).Profile(profile)
	query := getString(req, "query", "")
	includeUnsafe := getBool(req, "includeUnsafe", false)
	maxItems := getInt(req, "maxItems", e.config.DefaultMaxItems)
	maxBytes := getInt(req, "maxBytes", e.config.DefaultMaxBytes)
	tokenBudget := getInt(req, "tokenBudget", e.config.DefaultTokenBudget)
	if degraded {
		maxBytes = maxBytes / 2
		tokenBudget = tokenBudget / 2
	}
	seed := storeID + "|" + profile

	episodeDocs := episodeDocuments(profileBucket.Episodes.List(0), includeUnsafe)
	episodeRank := index.Rank(seed, query, episodeDocs, maxItems)
	episodes := resolveEpisodes(profileBucket, episodeRank)

	ruleDocs := ruleDocuments(profileBucket.Rules.List(repo.RuleLess, 0))
	ruleRank := index.Rank(seed, query, ruleDocs, maxItems)
	rules := resolveRules(profileBucket, ruleRank)

	var antiPatterns []*entity.AntiPattern
	if !degraded {
		antiDocs := antiPatternDocuments(profileBucket.AntiPatterns.List(repo.AntiPatternLess, 0))
		antiRank := index.Rank(seed, query, antiDocs, maxItems)
		antiPatterns = resolveAntiPatterns(profileBucket, antiRank)
	}

	truncated := false
	err := guardrail.Fit(maxBytes, tokenBudget, func() (int, int, error) {
		payload := map[string]any{"episodes": episodes, "rules": rules, "antiPatterns": antiPatterns}
		b, err := canon.ByteLen(payload)
		if err != nil {
			return 0, 0, err
		}
		return b, guardrail.EstimateTokens(string(canon.MustJSON(payload))), nil
	},
		func() bool {
			if len(episodes) == 0 {
				return false
			}
			episodes = episodes[:len(episodes)-1]
			truncated = true
			return true
		},
		func() bool {
			if len(antiPatterns) == 0 {
				return false
			}
			antiPatterns = antiPatterns[:len(antiPatterns)-1]
			truncated = true
			return true
		},
		func() bool {
			if len(rules) == 0 {
				return false
			}
			rules = rules[:len(rules)-1]
			truncated = true
			return true
		},
	)
	if err != nil {
		return nil, "", err
	}

	return map[string]any{
		"episodes":     episodes,
		"rules":        rules,
		"antiPatterns": antiPatterns,
		"truncated":    truncated,
	}, "noop", nil
}

// resolveEpisodes materializes ranked document IDs back into their episodes,
// preserving rank order.
func resolveEpisodes(profileBucket *repo.Profile, scored []index.Scored) []*entity.Episode {
	out := make([]*entity.Episode, 0, len(scored))
	for _, s := range scored {
		if ep, ok := profileBucket.Episodes.Get(s.Document.ID); ok {
			out = append(out, ep)
		}
	}
	return out
}

// resolveRules is resolveEpisodes for rules.
func resolveRules(profileBucket *repo.Profile, scored []index.Scored) []*entity.ProceduralRule {
	out := make([]*entity.ProceduralRule, 0, len(scored))
	for _, s := range scored {
		if r, ok := profileBucket.Rules.Get(s.Document.ID); ok {
			out = append(out, r)
		}
	}
	return out
}

// resolveAntiPatterns is resolveEpisodes for anti-patterns.
func resolveAntiPatterns(profileBucket *repo.Profile, scored []index.Scored) []*entity.AntiPattern {
	out := make([]*entity.AntiPattern, 0, len(scored))
	for _, s := range scored {
		if a, ok := profileBucket.AntiPatterns.Get(s.Document.ID); ok {
			out = append(out, a)
		}
	}
	return out
}
