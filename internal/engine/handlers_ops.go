package engine

import (
	"sort"

	"github.com/bleedingdev/ums/internal/audit"
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/context"
	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/guardrail"
	"github.com/bleedingdev/ums/internal/repo"
	"github.com/bleedingdev/ums/internal/taxonomy"
)

// handleAudit runs the full invariant sweep and reports an overall status:
// pass only if every individual check passed.
func handleAudit(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	profileBucket := e.tree.Store(storeID).Profile(profile)
	checks := audit.Run(profileBucket, e.now())

	overall := "pass"
	for _, c := range checks {
		if c.Status == audit.StatusFail {
			overall = "fail"
			break
		}
	}

	return map[string]any{"checks": checks, "status": overall}, "noop", nil
}

// handleExport produces a bounded playbook: the highest-confidence active
// rules and anti-patterns, plus per-kind counts, truncated to fit the
// payload budget the same way handleContext does.
func handleExport(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	profileBucket := e.tree.Store(storeID).Profile(profile)
	maxItems := getInt(req, "maxItems", e.config.DefaultMaxItems)
	maxBytes := getInt(req, "maxBytes", e.config.DefaultMaxBytes)

	topRules := topActiveRules(profileBucket, maxItems)
	antiPatterns := topAntiPatterns(profileBucket, maxItems)

	truncated := false
	err := guardrail.Fit(maxBytes, 0, func() (int, int, error) {
		payload := map[string]any{"topRules": topRules, "antiPatterns": antiPatterns}
		b, err := canon.ByteLen(payload)
		return b, 0, err
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
			if len(topRules) == 0 {
				return false
			}
			topRules = topRules[:len(topRules)-1]
			truncated = true
			return true
		},
	)
	if err != nil {
		return nil, "", err
	}

	return map[string]any{
		"topRules":     tierRules(topRules),
		"antiPatterns": antiPatterns,
		"counts":       bucketCounts(profileBucket),
		"truncated":    truncated,
	}, "noop", nil
}

// handleDoctor reports bucket sizes, guardrail configuration, and the
// outcome of a quick audit pass, for a single at-a-glance health snapshot.
func handleDoctor(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	profileBucket := e.tree.Store(storeID).Profile(profile)
	checks := audit.Run(profileBucket, e.now())

	status := "ok"
	for _, c := range checks {
		if c.Status == audit.StatusFail {
			status = "degraded"
			break
		}
	}

	return map[string]any{
		"status": status,
		"counts": bucketCounts(profileBucket),
		"guardrails": map[string]any{
			"defaultMaxItems":         e.config.DefaultMaxItems,
			"defaultTokenBudget":      e.config.DefaultTokenBudget,
			"defaultMaxBytes":         e.config.DefaultMaxBytes,
			"maxWorkingEpisodeWindow": e.config.MaxWorkingEpisodeWindow,
		},
		"contextBudget": profileBudgetReport(profileBucket, e.config.DefaultTokenBudget),
		"checks":        checks,
	}, "noop", nil
}

// profileBudgetReport estimates standing token pressure across a profile's
// active rules, anti-patterns, and working-memory entries against the
// engine's default token budget.
func profileBudgetReport(p *repo.Profile, tokenBudget int) context.Report {
	tracker := context.NewTracker(tokenBudget)
	for _, r := range p.Rules.List(repo.RuleLess, 0) {
		if !r.Tombstoned() {
			tracker.AddText(r.Statement)
		}
	}
	for _, a := range p.AntiPatterns.List(repo.AntiPatternLess, 0) {
		tracker.AddText(a.Statement)
	}
	for _, w := range p.Working.List(repo.WorkingLess, 0) {
		tracker.AddText(w.Content)
	}
	return tracker.GetReport()
}

func bucketCounts(p *repo.Profile) map[string]int {
	return map[string]int{
		"episodes":        p.Episodes.Count(),
		"working":         p.Working.Count(),
		"rules":           p.Rules.Count(),
		"antiPatterns":    p.AntiPatterns.Count(),
		"learnerProfiles": p.LearnerProfiles.Count(),
		"identityEdges":   p.IdentityEdges.Count(),
		"misconceptions":  p.Misconceptions.Count(),
		"curriculumItems": p.CurriculumItems.Count(),
		"reviewSchedules": p.ReviewSchedules.Count(),
		"policyDecisions": p.PolicyDecisions.Count(),
	}
}

// tierRules annotates each rule with the taxonomy confidence tier its
// current confidence falls into, for export's at-a-glance playbook view.
func tierRules(rules []*entity.ProceduralRule) []map[string]any {
	out := make([]map[string]any, 0, len(rules))
	for _, r := range rules {
		out = append(out, map[string]any{
			"rule": r,
			"tier": taxonomy.AssignTier(r.Confidence),
		})
	}
	return out
}

// topActiveRules returns up to limit active rules ordered by confidence
// descending, ties broken by the default RuleLess ordering.
func topActiveRules(p *repo.Profile, limit int) []*entity.ProceduralRule {
	all := p.Rules.List(repo.RuleLess, 0)
	active := make([]*entity.ProceduralRule, 0, len(all))
	for _, r := range all {
		if !r.Tombstoned() {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Confidence != active[j].Confidence {
			return active[i].Confidence > active[j].Confidence
		}
		return repo.RuleLess(active[i], active[j])
	})
	if limit > 0 && limit < len(active) {
		active = active[:limit]
	}
	return active
}

// topAntiPatterns returns up to limit anti-patterns ordered by confidence
// descending, ties broken by the default AntiPatternLess ordering.
func topAntiPatterns(p *repo.Profile, limit int) []*entity.AntiPattern {
	all := p.AntiPatterns.List(repo.AntiPatternLess, 0)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Confidence != all[j].Confidence {
			return all[i].Confidence > all[j].Confidence
		}
		return repo.AntiPatternLess(all[i], all[j])
	})
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
