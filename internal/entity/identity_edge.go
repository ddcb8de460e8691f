package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// Relations requiring evidence per spec §3: "misconception_of/evidence_of
// require evidence".
const (
	RelationMisconceptionOf = "misconception_of"
	RelationEvidenceOf      = "evidence_of"
)

// IdentityEdge upserts a typed relation between two identity refs within a
// learner profile's graph.
type IdentityEdge struct {
	ID                 string         `json:"id"`
	StoreID            string         `json:"storeId"`
	ProfileID          string         `json:"profileId"`
	Relation           string         `json:"relation"`
	FromRef            string         `json:"fromRef"`
	ToRef              string         `json:"toRef"`
	EvidenceEpisodeIDs []string       `json:"evidenceEpisodeIds,omitempty"`
	Confidence         float64        `json:"confidence"`
	CreatedAt          string         `json:"createdAt"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	SchemaVersion      int            `json:"schemaVersion"`
}

// NewIdentityEdgeInput carries the fields needed to build an IdentityEdge.
type NewIdentityEdgeInput struct {
	StoreID            string
	ProfileID          string
	Relation           string
	FromRef            string
	ToRef              string
	EvidenceEpisodeIDs []string
	Confidence         float64
	CreatedAt          string
	Metadata           map[string]any
}

// relationRequiresEvidence reports whether the given relation kind must
// carry at least one evidence pointer.
func relationRequiresEvidence(relation string) bool {
	return relation == RelationMisconceptionOf || relation == RelationEvidenceOf
}

// NewIdentityEdge validates and constructs an IdentityEdge.
func NewIdentityEdge(in NewIdentityEdgeInput) (*IdentityEdge, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.ProfileID == "" {
		return nil, umserr.ValidationFailed("identity edge profileId is required", nil)
	}
	if in.Relation == "" {
		return nil, umserr.ValidationFailed("identity edge relation is required", nil)
	}
	if in.FromRef == "" || in.ToRef == "" {
		return nil, umserr.IdentityInvariant("identity edge requires fromRef and toRef", nil)
	}
	if in.FromRef == in.ToRef {
		return nil, umserr.IdentityInvariant("identity edge endpoints must be distinct", map[string]any{"ref": in.FromRef})
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("identity edge createdAt is required", nil)
	}

	evidence := canon.SortedUnique(in.EvidenceEpisodeIDs)
	if relationRequiresEvidence(in.Relation) {
		if err := RequireEvidence("identity edge ("+in.Relation+")", evidence, in.Metadata); err != nil {
			return nil, err
		}
	}

	id, err := canon.ID(PrefixIdentityEdge, map[string]any{
		"storeId":   in.StoreID,
		"profileId": in.ProfileID,
		"relation":  in.Relation,
		"fromRef":   in.FromRef,
		"toRef":     in.ToRef,
	})
	if err != nil {
		return nil, err
	}

	return &IdentityEdge{
		ID:                 id,
		StoreID:            in.StoreID,
		ProfileID:          in.ProfileID,
		Relation:           in.Relation,
		FromRef:            in.FromRef,
		ToRef:              in.ToRef,
		EvidenceEpisodeIDs: evidence,
		Confidence:         clampFloat(in.Confidence, 0, 1),
		CreatedAt:          in.CreatedAt,
		Metadata:           in.Metadata,
		SchemaVersion:      1,
	}, nil
}
