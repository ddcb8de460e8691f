package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// ReviewStatus is a ReviewScheduleEntry's lifecycle state (spec §4.8).
type ReviewStatus string

const (
	ReviewStatusScheduled ReviewStatus = "scheduled"
	ReviewStatusDue       ReviewStatus = "due"
	ReviewStatusCompleted ReviewStatus = "completed"
	ReviewStatusSuspended ReviewStatus = "suspended"
)

// Ease factor bounds for a ReviewScheduleEntry (spaced-repetition style).
const (
	MinEaseFactor = 1.3
	MaxEaseFactor = 3.0
)

// ReviewScheduleEntry schedules a spaced-repetition style review of a
// target (rule, objective, etc.) for a learner profile.
type ReviewScheduleEntry struct {
	ID              string         `json:"id"`
	StoreID         string         `json:"storeId"`
	ProfileID       string         `json:"profileId"`
	TargetID        string         `json:"targetId"`
	Status          ReviewStatus   `json:"status"`
	DueAt           string         `json:"dueAt"`
	IntervalDays    int            `json:"intervalDays"`
	EaseFactor      float64        `json:"easeFactor"`
	SourceEventIDs  []string       `json:"sourceEventIds"`
	CreatedAt       string         `json:"createdAt"`
	UpdatedAt       string         `json:"updatedAt"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	SchemaVersion   int            `json:"schemaVersion"`
}

// NewReviewScheduleEntryInput carries the fields needed to build a
// ReviewScheduleEntry.
type NewReviewScheduleEntryInput struct {
	StoreID        string
	ProfileID      string
	TargetID       string
	DueAt          string
	IntervalDays   int
	EaseFactor     float64
	SourceEventIDs []string
	CreatedAt      string
	Metadata       map[string]any
}

// NewReviewScheduleEntry validates and constructs a ReviewScheduleEntry.
func NewReviewScheduleEntry(in NewReviewScheduleEntryInput) (*ReviewScheduleEntry, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.ProfileID == "" {
		return nil, umserr.ValidationFailed("review schedule profileId is required", nil)
	}
	if in.TargetID == "" {
		return nil, umserr.ValidationFailed("review schedule targetId is required", nil)
	}
	if in.DueAt == "" {
		return nil, umserr.ValidationFailed("review schedule dueAt is required", nil)
	}
	if in.IntervalDays < 1 {
		return nil, umserr.ValidationFailed("intervalDays must be >= 1", map[string]any{"intervalDays": in.IntervalDays})
	}
	sourceIDs := canon.SortedUnique(in.SourceEventIDs)
	if len(sourceIDs) == 0 {
		return nil, umserr.EvidenceRequired("review schedule entry requires at least one sourceEventId", nil)
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("review schedule createdAt is required", nil)
	}

	id, err := canon.ID(PrefixReviewSchedule, map[string]any{
		"storeId":   in.StoreID,
		"profileId": in.ProfileID,
		"targetId":  in.TargetID,
	})
	if err != nil {
		return nil, err
	}

	return &ReviewScheduleEntry{
		ID:             id,
		StoreID:        in.StoreID,
		ProfileID:      in.ProfileID,
		TargetID:       in.TargetID,
		Status:         ReviewStatusScheduled,
		DueAt:          in.DueAt,
		IntervalDays:   in.IntervalDays,
		EaseFactor:     clampFloat(in.EaseFactor, MinEaseFactor, MaxEaseFactor),
		SourceEventIDs: sourceIDs,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.CreatedAt,
		Metadata:       in.Metadata,
		SchemaVersion:  1,
	}, nil
}

// IsDue reports whether the entry's dueAt has passed as of now (ISO-8601
// comparison is safe because both sides are UTC RFC3339).
func (e *ReviewScheduleEntry) IsDue(nowISO string) bool {
	return e.DueAt <= nowISO
}
