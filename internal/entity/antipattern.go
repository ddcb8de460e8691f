package entity

import (
	"strings"

	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// AntiPattern is an inverse rule ("avoid X") derived from harm signals or
// from inverting a reinforced-negative ProceduralRule.
type AntiPattern struct {
	ID                 string         `json:"id"`
	StoreID            string         `json:"storeId"`
	Statement          string         `json:"statement"`
	Confidence         float64        `json:"confidence"`
	EvidenceEpisodeIDs []string       `json:"evidenceEpisodeIds"`
	SourceRuleID       string         `json:"sourceRuleId,omitempty"`
	CreatedAt          string         `json:"createdAt"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	SchemaVersion      int            `json:"schemaVersion"`
}

// NewAntiPatternInput carries the fields needed to build an AntiPattern.
type NewAntiPatternInput struct {
	StoreID            string
	Statement          string
	Confidence         float64
	EvidenceEpisodeIDs []string
	SourceRuleID       string
	CreatedAt          string
	Metadata           map[string]any

	// ExplicitID overrides the computed ID, used by the harm-escalation path
	// which mints deterministic ids keyed by (misconceptionId, threshold)
	// rather than by statement.
	ExplicitID string

	// ConfidenceFloor overrides the default 0.2 confidence floor. The
	// harm-escalation path uses 0.05 (spec §4.6) since those artifacts track
	// a decaying severity signal rather than a reinforced rule inversion.
	ConfidenceFloor float64
}

// NewAntiPattern validates and constructs an AntiPattern. When derived from
// a rule inversion, Statement must already carry the "Avoid: " prefix
// (spec §3); this factory does not add it so that harm-escalation-derived
// anti-patterns (which may phrase things differently) are not forced into
// that shape.
func NewAntiPattern(in NewAntiPatternInput) (*AntiPattern, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.Statement == "" {
		return nil, umserr.ValidationFailed("anti-pattern statement is required", nil)
	}
	evidence := canon.SortedUnique(in.EvidenceEpisodeIDs)
	if err := RequireEvidence("anti-pattern", evidence, in.Metadata); err != nil {
		return nil, err
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("anti-pattern createdAt is required", nil)
	}

	id := in.ExplicitID
	if id == "" {
		var err error
		id, err = canon.ID(PrefixAntiPattern, map[string]any{
			"storeId":   in.StoreID,
			"statement": in.Statement,
		})
		if err != nil {
			return nil, err
		}
	}

	floor := in.ConfidenceFloor
	if floor == 0 {
		floor = 0.2
	}

	return &AntiPattern{
		ID:                 id,
		StoreID:            in.StoreID,
		Statement:          in.Statement,
		Confidence:         clampFloat(in.Confidence, floor, 1),
		EvidenceEpisodeIDs: evidence,
		SourceRuleID:       in.SourceRuleID,
		CreatedAt:          in.CreatedAt,
		Metadata:           in.Metadata,
		SchemaVersion:      1,
	}, nil
}

// InvertedStatement renders the "Avoid: " phrasing a rule inversion uses.
func InvertedStatement(ruleStatement string) string {
	return "Avoid: " + strings.TrimSpace(ruleStatement)
}
