package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// RuleStatus is a ProceduralRule's lifecycle state.
type RuleStatus string

const (
	RuleStatusActive      RuleStatus = "active"
	RuleStatusTombstoned  RuleStatus = "tombstoned"
)

// TombstoneConfidenceFloor is the confidence at or below which a rule is
// tombstoned automatically (spec §4.6 Reinforce).
const TombstoneConfidenceFloor = 0.05

// ProceduralRule is distilled actionable guidance with confidence and
// evidence, promoted from a validated candidate and reinforced or
// tombstoned over time.
type ProceduralRule struct {
	ID                 string     `json:"id"`
	StoreID            string     `json:"storeId"`
	Statement          string     `json:"statement"`
	Confidence         float64    `json:"confidence"`
	EvidenceEpisodeIDs []string   `json:"evidenceEpisodeIds"`
	Status             RuleStatus `json:"status"`
	CreatedAt          string     `json:"createdAt"`
	UpdatedAt          string     `json:"updatedAt"`
	LastValidatedAt    string     `json:"lastValidatedAt,omitempty"`
	Supersedes         string     `json:"supersedes,omitempty"`
	SupersededBy       string     `json:"supersededBy,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	SchemaVersion      int        `json:"schemaVersion"`
}

// NewRuleInput carries the fields needed to build a ProceduralRule.
type NewRuleInput struct {
	StoreID            string
	Statement          string
	Confidence         float64
	EvidenceEpisodeIDs []string
	CreatedAt          string
	Metadata           map[string]any
}

// NewRule validates and constructs a ProceduralRule. The fingerprint is
// storeId + statement: two candidates with the same statement in the same
// store are the same rule, so curating an already-known statement is a
// replay-safe upsert rather than a duplicate.
func NewRule(in NewRuleInput) (*ProceduralRule, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.Statement == "" {
		return nil, umserr.ValidationFailed("rule statement is required", nil)
	}
	evidence := canon.SortedUnique(in.EvidenceEpisodeIDs)
	if err := RequireEvidence("procedural rule", evidence, in.Metadata); err != nil {
		return nil, err
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("rule createdAt is required", nil)
	}

	id, err := canon.ID(PrefixRule, map[string]any{
		"storeId":   in.StoreID,
		"statement": in.Statement,
	})
	if err != nil {
		return nil, err
	}

	return &ProceduralRule{
		ID:                 id,
		StoreID:            in.StoreID,
		Statement:          in.Statement,
		Confidence:         clampFloat(in.Confidence, 0, 1),
		EvidenceEpisodeIDs: evidence,
		Status:             RuleStatusActive,
		CreatedAt:          in.CreatedAt,
		UpdatedAt:          in.CreatedAt,
		Metadata:           in.Metadata,
		SchemaVersion:      1,
	}, nil
}

// Tombstoned reports whether the rule is excluded from default recall.
func (r *ProceduralRule) Tombstoned() bool {
	return r.Status == RuleStatusTombstoned
}
