package guardrail

import "github.com/bleedingdev/ums/internal/entity"

// ExceptionGranted reports whether metadata carries the structured
// policyException object that bypasses the evidence-required guardrail
// (G1), re-exported here so every write path checks the same predicate
// entity.RequireEvidence uses internally.
func ExceptionGranted(metadata map[string]any) bool {
	return entity.HasPolicyException(metadata)
}
