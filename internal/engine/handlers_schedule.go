package engine

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/repo"
)

// handleReviewScheduleClock advances every scheduled entry whose dueAt has
// passed (as of "asOf", defaulting to the engine clock) to status=due. It
// never touches completed or suspended entries.
func handleReviewScheduleClock(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	asOf := getString(req, "asOf", e.now())

	bucket := e.tree.Store(storeID).Profile(profile).ReviewSchedules
	transitioned := 0
	for _, entry := range bucket.List(repo.ReviewScheduleLess, 0) {
		if entry.Status != entity.ReviewStatusScheduled || !entry.IsDue(asOf) {
			continue
		}
		next := *entry
		next.Status = entity.ReviewStatusDue
		next.UpdatedAt = asOf
		bucket.Put(&next)
		transitioned++
	}

	action := "noop"
	if transitioned > 0 {
		action = "updated"
	}
	return map[string]any{"transitioned": transitioned, "asOf": asOf}, action, nil
}

// handleReviewSetRebalance recomputes ease factor and interval for a batch
// of review outcomes, SM-2 style: a correct recall widens the interval and
// nudges ease factor up; an incorrect one resets the interval to one day
// and pulls ease factor down. Each adjusted entry is re-upserted, so the
// usual merge contract (interval takes max, dueAt takes the incoming value)
// still governs the stored interval and dueAt; the recomputed ease factor
// then replaces the stored one.
func handleReviewSetRebalance(e *Engine, storeID, profile string, req map[string]any) (map[string]any, string, error) {
	now := e.now()
	bucket := e.tree.Store(storeID).Profile(profile).ReviewSchedules
	profileID := getString(req, "profileId", "")

	rebalanced := make([]map[string]any, 0)
	anyChange := false

	for _, r := range getMapSlice(req, "results") {
		targetID := getString(r, "targetId", "")
		if targetID == "" {
			continue
		}
		correct := getBool(r, "correct", false)

		existing, err := findScheduleByTarget(bucket, storeID, profileID, targetID)
		if err != nil {
			return nil, "", err
		}

		easeFactor := entity.MinEaseFactor
		intervalDays := 1
		if existing != nil {
			easeFactor = existing.EaseFactor
			intervalDays = existing.IntervalDays
		}

		if correct {
			easeFactor += 0.1
			intervalDays = intervalDays * int(easeFactor+0.5)
			if intervalDays < 1 {
				intervalDays = 1
			}
		} else {
			easeFactor -= 0.2
			intervalDays = 1
		}
		if easeFactor < entity.MinEaseFactor {
			easeFactor = entity.MinEaseFactor
		}
		if easeFactor > entity.MaxEaseFactor {
			easeFactor = entity.MaxEaseFactor
		}

		dueAt, err := addDays(now, intervalDays)
		if err != nil {
			return nil, "", err
		}

		entry, err := entity.NewReviewScheduleEntry(entity.NewReviewScheduleEntryInput{
			StoreID:        storeID,
			ProfileID:      profileID,
			TargetID:       targetID,
			DueAt:          dueAt,
			IntervalDays:   intervalDays,
			EaseFactor:     easeFactor,
			SourceEventIDs: getStringSlice(r, "sourceEventIds"),
			CreatedAt:      now,
		})
		if err != nil {
			return nil, "", err
		}

		stored, action, err := bucket.Upsert(entry)
		if err != nil {
			return nil, "", err
		}
		if stored.EaseFactor != easeFactor {
			next := *stored
			next.EaseFactor = easeFactor
			bucket.Put(&next)
			stored, action = &next, repo.ActionUpdated
		}
		if action != "noop" {
			anyChange = true
		}
		rebalanced = append(rebalanced, map[string]any{"reviewSchedule": stored, "action": string(action)})
	}

	action := "noop"
	if anyChange {
		action = "updated"
	}
	return map[string]any{"rebalanced": rebalanced}, action, nil
}

// findScheduleByTarget locates an existing schedule entry for (storeId,
// profileId, targetId) by recomputing its deterministic ID.
func findScheduleByTarget(bucket interface {
	Get(string) (*entity.ReviewScheduleEntry, bool)
}, storeID, profileID, targetID string) (*entity.ReviewScheduleEntry, error) {
	id, err := canon.ID(entity.PrefixReviewSchedule, map[string]any{
		"storeId":   storeID,
		"profileId": profileID,
		"targetId":  targetID,
	})
	if err != nil {
		return nil, err
	}
	entry, ok := bucket.Get(id)
	if !ok {
		return nil, nil
	}
	return entry, nil
}

// addDays adds n days to the ISO-8601 instant in, returning a normalized
// ISO-8601 result.
func addDays(in string, n int) (string, error) {
	t, err := canon.ParseTime(in)
	if err != nil {
		return "", err
	}
	return canon.NormalizeTime(t.AddDate(0, 0, n)), nil
}
