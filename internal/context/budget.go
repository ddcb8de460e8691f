// Package context tracks how close a profile's stored content sits to the
// engine's recall token budget, independent of any single request's
// guardrail.Fit truncation (spec.md §4.5). Where guardrail.Fit bounds one
// response payload, Tracker estimates standing pressure across a whole
// profile's active rules, anti-patterns, and working-memory entries, so
// doctor can warn before a recall actually needs to truncate anything.
package context

import (
	"github.com/bleedingdev/ums/internal/guardrail"
)

// Status bands for a profile's estimated token usage against its budget.
type Status string

const (
	StatusOptimal  Status = "optimal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Thresholds for the usage ratio (estimated tokens / max tokens).
const (
	WarningThreshold  = 0.60
	CriticalThreshold = 0.85
)

// Tracker estimates a profile's standing usage against a token budget.
type Tracker struct {
	MaxTokens      int
	EstimatedUsage int
}

// NewTracker builds a tracker against the given token budget.
func NewTracker(maxTokens int) *Tracker {
	return &Tracker{MaxTokens: maxTokens}
}

// AddText folds text's estimated token cost into the running usage.
func (t *Tracker) AddText(text string) {
	t.EstimatedUsage += guardrail.EstimateTokens(text)
}

// UsagePercent returns the current usage ratio, 0 if no budget is set.
func (t *Tracker) UsagePercent() float64 {
	if t.MaxTokens <= 0 {
		return 0
	}
	return float64(t.EstimatedUsage) / float64(t.MaxTokens)
}

// GetStatus bands the current usage ratio.
func (t *Tracker) GetStatus() Status {
	switch usage := t.UsagePercent(); {
	case usage >= CriticalThreshold:
		return StatusCritical
	case usage >= WarningThreshold:
		return StatusWarning
	default:
		return StatusOptimal
	}
}

// Recommendation gives a one-line, human-readable reading of GetStatus.
func (t *Tracker) Recommendation() string {
	switch t.GetStatus() {
	case StatusCritical:
		return "recall pack is near the token budget; expect truncation on the next context call"
	case StatusWarning:
		return "recall pack is approaching the token budget"
	default:
		return "recall pack is comfortably within the token budget"
	}
}

// Report is the doctor/export-facing summary of a Tracker's state.
type Report struct {
	Status          Status  `json:"status"`
	UsagePercent    float64 `json:"usagePercent"`
	TokensUsed      int     `json:"tokensUsed"`
	TokensRemaining int     `json:"tokensRemaining"`
	Recommendation  string  `json:"recommendation"`
}

// GetReport snapshots the tracker's current state.
func (t *Tracker) GetReport() Report {
	remaining := t.MaxTokens - t.EstimatedUsage
	if remaining < 0 {
		remaining = 0
	}
	return Report{
		Status:          t.GetStatus(),
		UsagePercent:    t.UsagePercent(),
		TokensUsed:      t.EstimatedUsage,
		TokensRemaining: remaining,
		Recommendation:  t.Recommendation(),
	}
}
