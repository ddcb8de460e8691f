package repo

import "github.com/bleedingdev/ums/internal/entity"

// Default List orderings per entity kind (spec §4.3/§4.4). Each is a total
// order: ties on the primary key fall through to id, which is unique.

func RuleLess(a, b *entity.ProceduralRule) bool {
	if a.UpdatedAt != b.UpdatedAt {
		return a.UpdatedAt > b.UpdatedAt
	}
	return a.ID < b.ID
}

func WorkingLess(a, b *entity.WorkingEntry) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return a.ID < b.ID
}

func AntiPatternLess(a, b *entity.AntiPattern) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return a.ID < b.ID
}

func LearnerProfileLess(a, b *entity.LearnerProfile) bool {
	if a.UpdatedAt != b.UpdatedAt {
		return a.UpdatedAt > b.UpdatedAt
	}
	return a.ID < b.ID
}

func IdentityEdgeLess(a, b *entity.IdentityEdge) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return a.ID < b.ID
}

func MisconceptionLess(a, b *entity.Misconception) bool {
	if a.UpdatedAt != b.UpdatedAt {
		return a.UpdatedAt > b.UpdatedAt
	}
	return a.ID < b.ID
}

func CurriculumItemLess(a, b *entity.CurriculumPlanItem) bool {
	if a.RecommendationRank != b.RecommendationRank {
		return a.RecommendationRank < b.RecommendationRank
	}
	if a.UpdatedAt != b.UpdatedAt {
		return a.UpdatedAt > b.UpdatedAt
	}
	return a.ID < b.ID
}

func ReviewScheduleLess(a, b *entity.ReviewScheduleEntry) bool {
	if a.DueAt != b.DueAt {
		return a.DueAt < b.DueAt
	}
	if a.UpdatedAt != b.UpdatedAt {
		return a.UpdatedAt > b.UpdatedAt
	}
	return a.ID < b.ID
}

func PolicyDecisionLess(a, b *entity.PolicyDecision) bool {
	if a.EvaluatedAt != b.EvaluatedAt {
		return a.EvaluatedAt > b.EvaluatedAt
	}
	return a.ID < b.ID
}
