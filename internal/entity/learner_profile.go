package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// IdentityRef is one namespaced identity reference a learner profile links
// to (e.g. {namespace: "email", value: "x@example.com"}).
type IdentityRef struct {
	Namespace string `json:"namespace"`
	Value     string `json:"value"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

// ProfileStatus is a LearnerProfile's lifecycle state.
type ProfileStatus string

const (
	ProfileStatusActive   ProfileStatus = "active"
	ProfileStatusInactive ProfileStatus = "inactive"
)

// LearnerProfile tracks one learner's identity, goals, and interests across
// sessions within a store.
type LearnerProfile struct {
	ID                string         `json:"id"`
	StoreID           string         `json:"storeId"`
	LearnerID         string         `json:"learnerId"`
	IdentityRefs      []IdentityRef  `json:"identityRefs"`
	Goals             []string       `json:"goals,omitempty"`
	InterestTags      []string       `json:"interestTags,omitempty"`
	Status            ProfileStatus  `json:"status"`
	Version           int            `json:"version"`
	ProfileConfidence float64        `json:"profileConfidence"`
	CreatedAt         string         `json:"createdAt"`
	UpdatedAt         string         `json:"updatedAt"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	SchemaVersion     int            `json:"schemaVersion"`
}

// NewLearnerProfileInput carries the fields needed to build a LearnerProfile.
type NewLearnerProfileInput struct {
	StoreID           string
	LearnerID         string
	IdentityRefs      []IdentityRef
	Goals             []string
	InterestTags      []string
	ProfileConfidence float64
	CreatedAt         string
	Metadata          map[string]any
}

// NewLearnerProfile validates and constructs a LearnerProfile. Exactly one
// identity ref must be marked primary; if none is, the first ref is
// promoted to primary so the invariant always holds for callers that omit
// the flag on a single-ref submission.
func NewLearnerProfile(in NewLearnerProfileInput) (*LearnerProfile, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.LearnerID == "" {
		return nil, umserr.ValidationFailed("learnerId is required", nil)
	}
	if len(in.IdentityRefs) == 0 {
		return nil, umserr.IdentityInvariant("learner profile requires at least one identityRef", nil)
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("learner profile createdAt is required", nil)
	}

	refs := make([]IdentityRef, len(in.IdentityRefs))
	copy(refs, in.IdentityRefs)

	primaryCount := 0
	for _, r := range refs {
		if r.Namespace == "" || r.Value == "" {
			return nil, umserr.IdentityInvariant("identityRef requires namespace and value", nil)
		}
		if r.IsPrimary {
			primaryCount++
		}
	}
	if primaryCount == 0 {
		refs[0].IsPrimary = true
		primaryCount = 1
	}
	if primaryCount != 1 {
		return nil, umserr.IdentityInvariant("exactly one identityRef must be isPrimary", map[string]any{"primaryCount": primaryCount})
	}

	id, err := canon.ID(PrefixLearnerProfile, map[string]any{
		"storeId":   in.StoreID,
		"learnerId": in.LearnerID,
	})
	if err != nil {
		return nil, err
	}

	return &LearnerProfile{
		ID:                id,
		StoreID:           in.StoreID,
		LearnerID:         in.LearnerID,
		IdentityRefs:      refs,
		Goals:             canon.SortedUnique(in.Goals),
		InterestTags:      canon.SortedUnique(in.InterestTags),
		Status:            ProfileStatusActive,
		Version:           1,
		ProfileConfidence: clampFloat(in.ProfileConfidence, 0, 1),
		CreatedAt:         in.CreatedAt,
		UpdatedAt:         in.CreatedAt,
		Metadata:          in.Metadata,
		SchemaVersion:     1,
	}, nil
}
