package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// MisconceptionStatus is a Misconception's lifecycle state (spec §4.8).
type MisconceptionStatus string

const (
	MisconceptionStatusActive     MisconceptionStatus = "active"
	MisconceptionStatusResolved   MisconceptionStatus = "resolved"
	MisconceptionStatusSuppressed MisconceptionStatus = "suppressed"
)

// Misconception tracks a recurring error pattern for a learner, accumulating
// harmful and correction signals over time.
type Misconception struct {
	ID                     string              `json:"id"`
	StoreID                string              `json:"storeId"`
	ProfileID              string              `json:"profileId"`
	MisconceptionKey       string              `json:"misconceptionKey"`
	Status                 MisconceptionStatus `json:"status"`
	Confidence             float64             `json:"confidence"`
	HarmfulSignalCount     int                 `json:"harmfulSignalCount"`
	CorrectionSignalCount  int                 `json:"correctionSignalCount"`
	EvidenceEpisodeIDs     []string            `json:"evidenceEpisodeIds"`
	SourceSignalIDs        []string            `json:"sourceSignalIds,omitempty"`
	CreatedAt              string              `json:"createdAt"`
	UpdatedAt              string              `json:"updatedAt"`
	LastSignalAt           string              `json:"lastSignalAt"`
	Metadata               map[string]any      `json:"metadata,omitempty"`
	SchemaVersion          int                 `json:"schemaVersion"`
}

// NewMisconceptionInput carries the fields needed to build a Misconception.
type NewMisconceptionInput struct {
	StoreID           string
	ProfileID         string
	MisconceptionKey  string
	Confidence        float64
	Harmful           bool
	Correction        bool
	EvidenceEpisodeIDs []string
	SourceSignalIDs   []string
	CreatedAt         string
	Metadata          map[string]any
}

// NewMisconception validates and constructs a Misconception. A single
// signal (harmful or correction) initializes the corresponding counter.
func NewMisconception(in NewMisconceptionInput) (*Misconception, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.ProfileID == "" {
		return nil, umserr.ValidationFailed("misconception profileId is required", nil)
	}
	if in.MisconceptionKey == "" {
		return nil, umserr.ValidationFailed("misconceptionKey is required", nil)
	}
	evidence := canon.SortedUnique(in.EvidenceEpisodeIDs)
	if err := RequireEvidence("misconception", evidence, in.Metadata); err != nil {
		return nil, err
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("misconception createdAt is required", nil)
	}

	harmfulCount := 0
	correctionCount := 0
	if in.Harmful {
		harmfulCount = 1
	}
	if in.Correction {
		correctionCount = 1
	}

	id, err := canon.ID(PrefixMisconception, map[string]any{
		"storeId":          in.StoreID,
		"profileId":        in.ProfileID,
		"misconceptionKey": in.MisconceptionKey,
	})
	if err != nil {
		return nil, err
	}

	return &Misconception{
		ID:                    id,
		StoreID:               in.StoreID,
		ProfileID:             in.ProfileID,
		MisconceptionKey:      in.MisconceptionKey,
		Status:                MisconceptionStatusActive,
		Confidence:            clampFloat(in.Confidence, 0.05, 1),
		HarmfulSignalCount:    harmfulCount,
		CorrectionSignalCount: correctionCount,
		EvidenceEpisodeIDs:    evidence,
		SourceSignalIDs:       canon.SortedUnique(in.SourceSignalIDs),
		CreatedAt:             in.CreatedAt,
		UpdatedAt:             in.CreatedAt,
		LastSignalAt:          in.CreatedAt,
		Metadata:              in.Metadata,
		SchemaVersion:         1,
	}, nil
}

// HarmEscalationThresholds are the harmful-signal counts at which an
// anti-pattern artifact is emitted (spec §4.6).
var HarmEscalationThresholds = []int{2, 3, 5}

// DecayForHarmfulCount returns the confidence decay to apply to a
// misconception-derived anti-pattern at a given harmful signal count,
// per spec §4.6's decay bands.
func DecayForHarmfulCount(count int) float64 {
	switch {
	case count <= 1:
		return -0.18
	case count == 2:
		return -0.24
	case count <= 4:
		return -0.32
	default:
		return -0.42
	}
}
