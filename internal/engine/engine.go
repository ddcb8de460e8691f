// Package engine implements the single executeOperation dispatch point
// (spec.md §6): one handler per recognized operation name, each performing
// request normalization, validation, a deterministic repository mutation
// or read, and response assembly. The engine holds no internal lock — it
// is single-threaded and cooperative by design (spec.md §5); callers that
// need concurrent access serialize through their own mutex or advisory
// file lock around a single Engine instance.
package engine

import (
	"sort"
	"strings"

	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/repo"
	"github.com/bleedingdev/ums/internal/safety"
	"github.com/bleedingdev/ums/internal/snapshot"
	"github.com/bleedingdev/ums/internal/umserr"
)

// Config holds the engine's guardrail defaults, overridable per request
// where the operation's schema allows it.
type Config struct {
	DefaultMaxItems         int
	DefaultTokenBudget      int
	DefaultMaxBytes         int
	MaxWorkingEpisodeWindow int
	CrossStoreAllowlist     repo.CrossStoreAllowlist
}

// DefaultConfig returns the engine's out-of-the-box guardrail defaults.
func DefaultConfig() Config {
	return Config{
		DefaultMaxItems:         20,
		DefaultTokenBudget:      2000,
		DefaultMaxBytes:         65536,
		MaxWorkingEpisodeWindow: 50,
		CrossStoreAllowlist:     repo.CrossStoreAllowlist{},
	}
}

// Engine dispatches named operations against a bucket tree.
type Engine struct {
	tree   *repo.Tree
	clock  canon.Clock
	config Config
}

// New constructs an Engine with an empty tree.
func New(clock canon.Clock, config Config) *Engine {
	if clock == nil {
		clock = canon.SystemClock{}
	}
	return &Engine{tree: repo.NewTree(), clock: clock, config: config}
}

// Reset discards all engine state.
func (e *Engine) Reset() {
	e.tree.Reset()
}

// Tree exposes the engine's bucket tree for read-only tooling (entity
// resolution, ad hoc inspection) that sits outside the operation dispatch
// path and has no business going through Execute.
func (e *Engine) Tree() *repo.Tree {
	return e.tree
}

// Export renders the engine's full bucket tree as a Snapshot, for the CLI
// shell to persist between invocations (spec.md §6).
func (e *Engine) Export() snapshot.Snapshot {
	return snapshot.Export(e.tree)
}

// Import replaces the engine's bucket tree with the snapshot encoded in
// data, discarding whatever state was previously loaded.
func (e *Engine) Import(data []byte) error {
	return snapshot.Import(e.tree, data)
}

// now returns the engine's current normalized timestamp.
func (e *Engine) now() string {
	return canon.NormalizeTime(e.clock.Now())
}

// handlerFunc implements one operation. It returns the operation-specific
// response fields and the action taken; Execute wraps both in the fixed
// response envelope.
type handlerFunc func(e *Engine, storeID, profile string, req map[string]any) (data map[string]any, action string, err error)

var handlers = map[string]handlerFunc{
	"ingest":                  handleIngest,
	"context":                 handleContext,
	"tutor_degraded":          handleTutorDegraded,
	"reflect":                 handleReflect,
	"validate":                handleValidate,
	"curate":                  handleCurate,
	"curate_guarded":          handleCurateGuarded,
	"feedback":                handleFeedback,
	"outcome":                 handleOutcome,
	"audit":                   handleAudit,
	"export":                  handleExport,
	"doctor":                  handleDoctor,
	"learner_profile_update":  handleLearnerProfileUpdate,
	"identity_graph_update":   handleIdentityGraphUpdate,
	"misconception_update":    handleMisconceptionUpdate,
	"curriculum_plan_update":  handleCurriculumPlanUpdate,
	"review_schedule_update":  handleReviewScheduleUpdate,
	"review_schedule_clock":   handleReviewScheduleClock,
	"review_set_rebalance":    handleReviewSetRebalance,
	"policy_decision_update":  handlePolicyDecisionUpdate,
	"recall_authorization":    handleRecallAuthorization,
	"policy_audit_export":     handlePolicyAuditExport,
}

// Execute normalizes request, resolves the (storeId, profile) bucket,
// dispatches to the named operation's handler, and assembles the fixed
// response envelope. Unknown operation names fail VALIDATION_FAILED with
// the fixed "Unsupported operation" message (spec.md §7).
func (e *Engine) Execute(operation string, request map[string]any) (map[string]any, error) {
	if request == nil {
		request = map[string]any{}
	}

	storeID := getString(request, "storeId", "default")
	profile := strings.TrimSpace(getString(request, "profile", ""))
	if profile == "" {
		return nil, umserr.ValidationFailed("profile is required", map[string]any{"operation": operation})
	}
	if err := safety.ValidateStoreID(storeID); err != nil {
		return nil, err
	}
	if err := safety.ValidateProfile(profile); err != nil {
		return nil, err
	}

	handler, ok := handlers[operation]
	if !ok {
		return nil, umserr.UnsupportedOperation(operation)
	}

	requestDigest, err := canon.RequestDigest(request)
	if err != nil {
		return nil, err
	}

	data, action, err := handler(e, storeID, profile, request)
	if err != nil {
		return nil, err
	}
	if action == "" {
		action = "noop"
	}

	response := map[string]any{
		"operation":     operation,
		"storeId":       storeID,
		"profile":       profile,
		"action":        action,
		"deterministic": true,
		"requestDigest": requestDigest,
	}
	if _, ok := data["observability"]; !ok {
		data = withObservability(data)
	}
	for k, v := range data {
		response[k] = v
	}
	return response, nil
}

// withObservability ensures every response carries an observability map,
// defaulting to empty rather than omitted.
func withObservability(data map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	data["observability"] = map[string]any{}
	return data
}

// sortedStringsFrom builds a sorted copy of a string set's keys, used by
// handlers that need deterministic iteration over a map built during
// request processing.
func sortedStringsFrom(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
