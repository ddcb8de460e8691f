package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// PolicyOutcome is the result of a policy evaluation. Outcomes form a total
// order allow < review < deny so that later upserts may escalate but never
// silently de-escalate a decision (spec §4.8, supplemented per SPEC_FULL §7).
type PolicyOutcome string

const (
	PolicyOutcomeAllow  PolicyOutcome = "allow"
	PolicyOutcomeReview PolicyOutcome = "review"
	PolicyOutcomeDeny   PolicyOutcome = "deny"
)

// outcomeRank orders outcomes for escalation comparisons.
var outcomeRank = map[PolicyOutcome]int{
	PolicyOutcomeAllow:  0,
	PolicyOutcomeReview: 1,
	PolicyOutcomeDeny:   2,
}

// Rank returns the escalation rank of an outcome (higher is stricter).
func (o PolicyOutcome) Rank() int {
	return outcomeRank[o]
}

// PolicyDecision is a single-state policy evaluation record: an outcome
// plus provenance.
type PolicyDecision struct {
	ID                   string         `json:"id"`
	AuditID              string         `json:"auditId,omitempty"`
	StoreID              string         `json:"storeId"`
	ProfileID            string         `json:"profileId"`
	PolicyKey            string         `json:"policyKey"`
	Outcome              PolicyOutcome  `json:"outcome"`
	ReasonCodes          []string       `json:"reasonCodes,omitempty"`
	ProvenanceEventIDs   []string       `json:"provenanceEventIds"`
	CreatedAt            string         `json:"createdAt"`
	EvaluatedAt          string         `json:"evaluatedAt"`
	UpdatedAt            string         `json:"updatedAt"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	SchemaVersion        int            `json:"schemaVersion"`
}

// NewPolicyDecisionInput carries the fields needed to build a PolicyDecision.
type NewPolicyDecisionInput struct {
	AuditID            string
	StoreID            string
	ProfileID          string
	PolicyKey          string
	Outcome            PolicyOutcome
	ReasonCodes        []string
	ProvenanceEventIDs []string
	CreatedAt          string
	Metadata           map[string]any
}

// NewPolicyDecision validates and constructs a PolicyDecision.
func NewPolicyDecision(in NewPolicyDecisionInput) (*PolicyDecision, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.ProfileID == "" {
		return nil, umserr.ValidationFailed("policy decision profileId is required", nil)
	}
	if in.PolicyKey == "" {
		return nil, umserr.ValidationFailed("policyKey is required", nil)
	}
	if _, ok := outcomeRank[in.Outcome]; !ok {
		return nil, umserr.ValidationFailed("outcome must be one of allow, review, deny", map[string]any{"outcome": in.Outcome})
	}
	reasonCodes := canon.SortedUnique(in.ReasonCodes)
	if in.Outcome == PolicyOutcomeDeny && len(reasonCodes) == 0 {
		return nil, umserr.ValidationFailed("deny outcome requires at least one reasonCode", nil)
	}
	provenance := canon.SortedUnique(in.ProvenanceEventIDs)
	if len(provenance) == 0 {
		return nil, umserr.EvidenceRequired("policy decision requires at least one provenanceEventId", nil)
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("policy decision createdAt is required", nil)
	}

	id, err := canon.ID(PrefixPolicyDecision, map[string]any{
		"storeId":   in.StoreID,
		"profileId": in.ProfileID,
		"policyKey": in.PolicyKey,
	})
	if err != nil {
		return nil, err
	}

	return &PolicyDecision{
		ID:                 id,
		AuditID:            in.AuditID,
		StoreID:            in.StoreID,
		ProfileID:          in.ProfileID,
		PolicyKey:          in.PolicyKey,
		Outcome:            in.Outcome,
		ReasonCodes:        reasonCodes,
		ProvenanceEventIDs: provenance,
		CreatedAt:          in.CreatedAt,
		EvaluatedAt:        in.CreatedAt,
		UpdatedAt:          in.CreatedAt,
		Metadata:           in.Metadata,
		SchemaVersion:      1,
	}, nil
}
