package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// CurriculumStatus is a CurriculumPlanItem's lifecycle state (spec §4.8).
type CurriculumStatus string

const (
	CurriculumStatusProposed  CurriculumStatus = "proposed"
	CurriculumStatusCommitted CurriculumStatus = "committed"
	CurriculumStatusCompleted CurriculumStatus = "completed"
	CurriculumStatusBlocked   CurriculumStatus = "blocked"
)

// Window is a time range with an inclusive start and end, used for
// curriculum item scheduling windows.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Valid reports whether the window's end is not before its start.
func (w Window) Valid() bool {
	if w.Start == "" || w.End == "" {
		return true
	}
	return w.End >= w.Start
}

// CurriculumPlanItem is one recommended objective in a learner's curriculum
// plan, upserted by the planner.
type CurriculumPlanItem struct {
	ID                 string           `json:"id"`
	StoreID            string           `json:"storeId"`
	ProfileID          string           `json:"profileId"`
	ObjectiveID        string           `json:"objectiveId"`
	RecommendationRank int              `json:"recommendationRank"`
	EvidenceEpisodeIDs []string         `json:"evidenceEpisodeIds"`
	Status             CurriculumStatus `json:"status"`
	DueAt              string           `json:"dueAt,omitempty"`
	Window             *Window          `json:"window,omitempty"`
	CreatedAt          string           `json:"createdAt"`
	UpdatedAt          string           `json:"updatedAt"`
	Metadata           map[string]any   `json:"metadata,omitempty"`
	SchemaVersion      int              `json:"schemaVersion"`
}

// NewCurriculumPlanItemInput carries the fields needed to build a
// CurriculumPlanItem.
type NewCurriculumPlanItemInput struct {
	StoreID            string
	ProfileID          string
	ObjectiveID        string
	RecommendationRank int
	EvidenceEpisodeIDs []string
	DueAt              string
	Window             *Window
	CreatedAt          string
	Metadata           map[string]any
}

// NewCurriculumPlanItem validates and constructs a CurriculumPlanItem.
func NewCurriculumPlanItem(in NewCurriculumPlanItemInput) (*CurriculumPlanItem, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.ProfileID == "" {
		return nil, umserr.ValidationFailed("curriculum item profileId is required", nil)
	}
	if in.ObjectiveID == "" {
		return nil, umserr.ValidationFailed("curriculum item objectiveId is required", nil)
	}
	if in.RecommendationRank < 1 {
		return nil, umserr.ValidationFailed("recommendationRank must be >= 1", map[string]any{"recommendationRank": in.RecommendationRank})
	}
	evidence := canon.SortedUnique(in.EvidenceEpisodeIDs)
	if err := RequireEvidence("curriculum plan item", evidence, in.Metadata); err != nil {
		return nil, err
	}
	if in.Window != nil && !in.Window.Valid() {
		return nil, umserr.ValidationFailed("curriculum item window end must be >= start", map[string]any{"window": in.Window})
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("curriculum item createdAt is required", nil)
	}

	id, err := canon.ID(PrefixCurriculumItem, map[string]any{
		"storeId":     in.StoreID,
		"profileId":   in.ProfileID,
		"objectiveId": in.ObjectiveID,
	})
	if err != nil {
		return nil, err
	}

	return &CurriculumPlanItem{
		ID:                 id,
		StoreID:            in.StoreID,
		ProfileID:          in.ProfileID,
		ObjectiveID:        in.ObjectiveID,
		RecommendationRank: in.RecommendationRank,
		EvidenceEpisodeIDs: evidence,
		Status:             CurriculumStatusProposed,
		DueAt:              in.DueAt,
		Window:             in.Window,
		CreatedAt:          in.CreatedAt,
		UpdatedAt:          in.CreatedAt,
		Metadata:           in.Metadata,
		SchemaVersion:      1,
	}, nil
}
