package engine

import (
	"github.com/bleedingdev/ums/internal/entity"
)

// handleLearnerProfileUpdate upserts a learner profile by (storeId,
// learnerId). A request carrying identityRefs without an isPrimary flag on
// any of them promotes the first ref, matching entity.NewLearnerProfile.
func handleLearnerProfileUpdate(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	refs := make([]entity.IdentityRef, 0)
	for _, r := range getMapSlice(req, "identityRefs") {
		refs = append(refs, entity.IdentityRef{
			Namespace: getString(r, "namespace", ""),
			Value:     getString(r, "value", ""),
			IsPrimary: getBool(r, "isPrimary", false),
		})
	}

	lp, err := entity.NewLearnerProfile(entity.NewLearnerProfileInput{
		StoreID:           storeID,
		LearnerID:         getString(req, "learnerId", ""),
		IdentityRefs:      refs,
		Goals:             getStringSlice(req, "goals"),
		InterestTags:      getStringSlice(req, "interestTags"),
		ProfileConfidence: getFloat(req, "profileConfidence", 0.5),
		CreatedAt:         e.now(),
		Metadata:          getMap(req, "metadata"),
	})
	if err != nil {
		return nil, "", err
	}

	bucket := e.tree.Store(storeID).Profile(profile).LearnerProfiles
	stored, action, err := bucket.Upsert(lp)
	if err != nil {
		return nil, "", err
	}
	return map[string]any{"learnerProfile": stored}, string(action), nil
}

// handleIdentityGraphUpdate upserts a typed relation between two identity
// refs within a learner profile's identity graph.
func handleIdentityGraphUpdate(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	edge, err := entity.NewIdentityEdge(entity.NewIdentityEdgeInput{
		StoreID:            storeID,
		ProfileID:          getString(req, "profileId", ""),
		Relation:           getString(req, "relation", ""),
		FromRef:            getString(req, "fromRef", ""),
		ToRef:              getString(req, "toRef", ""),
		EvidenceEpisodeIDs: getStringSlice(req, "evidenceEpisodeIds"),
		Confidence:         getFloat(req, "confidence", 0.5),
		CreatedAt:          e.now(),
		Metadata:           getMap(req, "metadata"),
	})
	if err != nil {
		return nil, "", err
	}

	bucket := e.tree.Store(storeID).Profile(profile).IdentityEdges
	stored, action, err := bucket.Upsert(edge)
	if err != nil {
		return nil, "", err
	}
	return map[string]any{"identityEdge": stored}, string(action), nil
}

// handleMisconceptionUpdate records a harmful or correction signal against
// a misconception key, escalating a harm anti-pattern artifact when the
// harmful signal count crosses a threshold (spec §4.6).
func handleMisconceptionUpdate(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	now := e.now()
	misc, err := entity.NewMisconception(entity.NewMisconceptionInput{
		StoreID:            storeID,
		ProfileID:          getString(req, "profileId", ""),
		MisconceptionKey:   getString(req, "misconceptionKey", ""),
		Confidence:         getFloat(req, "confidence", 0.2),
		Harmful:            getBool(req, "harmful", false),
		Correction:         getBool(req, "correction", false),
		EvidenceEpisodeIDs: getStringSlice(req, "evidenceEpisodeIds"),
		SourceSignalIDs:    getStringSlice(req, "sourceSignalIds"),
		CreatedAt:          now,
		Metadata:           getMap(req, "metadata"),
	})
	if err != nil {
		return nil, "", err
	}

	profileBucket := e.tree.Store(storeID).Profile(profile)
	stored, action, err := profileBucket.Misconceptions.Upsert(misc)
	if err != nil {
		return nil, "", err
	}

	data := map[string]any{"misconception": stored}

	if escalated, ok, escErr := escalateIfDue(profileBucket, stored, getFloat(req, "severity", 0.5), now); escErr != nil {
		return nil, "", escErr
	} else if ok {
		data["escalatedAntiPattern"] = escalated
	}
	return data, string(action), nil
}

// handleCurriculumPlanUpdate upserts one recommended objective in a
// learner's curriculum plan.
func handleCurriculumPlanUpdate(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	var window *entity.Window
	if w := getMap(req, "window"); w != nil {
		window = &entity.Window{Start: getString(w, "start", ""), End: getString(w, "end", "")}
	}

	item, err := entity.NewCurriculumPlanItem(entity.NewCurriculumPlanItemInput{
		StoreID:            storeID,
		ProfileID:          getString(req, "profileId", ""),
		ObjectiveID:        getString(req, "objectiveId", ""),
		RecommendationRank: getInt(req, "recommendationRank", 1),
		EvidenceEpisodeIDs: getStringSlice(req, "evidenceEpisodeIds"),
		DueAt:              getString(req, "dueAt", ""),
		Window:             window,
		CreatedAt:          e.now(),
		Metadata:           getMap(req, "metadata"),
	})
	if err != nil {
		return nil, "", err
	}

	bucket := e.tree.Store(storeID).Profile(profile).CurriculumItems
	stored, action, err := bucket.Upsert(item)
	if err != nil {
		return nil, "", err
	}
	return map[string]any{"curriculumItem": stored}, string(action), nil
}

// handleReviewScheduleUpdate upserts one spaced-repetition schedule entry.
func handleReviewScheduleUpdate(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	now := e.now()
	entry, err := entity.NewReviewScheduleEntry(entity.NewReviewScheduleEntryInput{
		StoreID:        storeID,
		ProfileID:      getString(req, "profileId", ""),
		TargetID:       getString(req, "targetId", ""),
		DueAt:          getString(req, "dueAt", now),
		IntervalDays:   getInt(req, "intervalDays", 1),
		EaseFactor:     getFloat(req, "easeFactor", entity.MinEaseFactor),
		SourceEventIDs: getStringSlice(req, "sourceEventIds"),
		CreatedAt:      now,
		Metadata:       getMap(req, "metadata"),
	})
	if err != nil {
		return nil, "", err
	}

	bucket := e.tree.Store(storeID).Profile(profile).ReviewSchedules
	stored, action, err := bucket.Upsert(entry)
	if err != nil {
		return nil, "", err
	}
	return map[string]any{"reviewSchedule": stored}, string(action), nil
}
