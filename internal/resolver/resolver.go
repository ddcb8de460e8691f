// Package resolver locates an entity by a short or partial ID fragment
// across every bucket kind in a profile, so callers (the CLI in
// particular) don't need to carry a full content-addressed ID around.
// Resolution runs three stages in order — exact match, unique prefix
// match, unique substring match — and fails with CONFLICT if more than
// one candidate survives a stage, rather than silently picking one.
package resolver

import (
	"sort"
	"strings"

	"github.com/bleedingdev/ums/internal/repo"
	"github.com/bleedingdev/ums/internal/umserr"
)

// Match identifies the full ID and entity kind a fragment resolved to.
type Match struct {
	ID   string
	Kind string
}

// EntityResolver resolves ID fragments against one profile's buckets.
type EntityResolver struct {
	profile *repo.Profile
}

// New builds a resolver scoped to profile.
func New(profile *repo.Profile) *EntityResolver {
	return &EntityResolver{profile: profile}
}

// Resolve finds the entity whose ID fragment uniquely matches. It tries an
// exact match first, then a unique prefix match, then a unique substring
// match; ties at any stage are a CONFLICT, and no match at all is NOT_FOUND.
func (r *EntityResolver) Resolve(fragment string) (Match, error) {
	if strings.TrimSpace(fragment) == "" {
		return Match{}, umserr.ValidationFailed("id fragment is required", nil)
	}

	candidates := r.candidates()

	if kind, ok := candidates[fragment]; ok {
		return Match{ID: fragment, Kind: kind}, nil
	}

	if m, err := uniqueMatch(candidates, fragment, strings.HasPrefix); m != nil || err != nil {
		if err != nil {
			return Match{}, err
		}
		return *m, nil
	}

	if m, err := uniqueMatch(candidates, fragment, strings.Contains); m != nil || err != nil {
		if err != nil {
			return Match{}, err
		}
		return *m, nil
	}

	return Match{}, umserr.NotFound("no entity matches id fragment", map[string]any{"fragment": fragment})
}

// uniqueMatch returns the single candidate satisfying test(id, fragment),
// or a CONFLICT error naming every tied candidate, or (nil, nil) if none
// matched at all (so the caller can fall through to the next stage).
func uniqueMatch(candidates map[string]string, fragment string, test func(id, fragment string) bool) (*Match, error) {
	var matched []Match
	for id, kind := range candidates {
		if test(id, fragment) {
			matched = append(matched, Match{ID: id, Kind: kind})
		}
	}
	switch len(matched) {
	case 0:
		return nil, nil
	case 1:
		return &matched[0], nil
	default:
		ids := make([]string, 0, len(matched))
		for _, m := range matched {
			ids = append(ids, m.ID)
		}
		sort.Strings(ids)
		return nil, umserr.Conflict("id fragment matches more than one entity", map[string]any{
			"fragment":   fragment,
			"candidates": ids,
		})
	}
}

// candidates builds the id -> kind map spanning every bucket in the profile.
func (r *EntityResolver) candidates() map[string]string {
	out := make(map[string]string)
	for id := range r.profile.Episodes.All() {
		out[id] = "episode"
	}
	for id := range r.profile.Working.All() {
		out[id] = "working"
	}
	for id := range r.profile.Rules.All() {
		out[id] = "rule"
	}
	for id := range r.profile.AntiPatterns.All() {
		out[id] = "antiPattern"
	}
	for id := range r.profile.LearnerProfiles.All() {
		out[id] = "learnerProfile"
	}
	for id := range r.profile.IdentityEdges.All() {
		out[id] = "identityEdge"
	}
	for id := range r.profile.Misconceptions.All() {
		out[id] = "misconception"
	}
	for id := range r.profile.CurriculumItems.All() {
		out[id] = "curriculumItem"
	}
	for id := range r.profile.ReviewSchedules.All() {
		out[id] = "reviewSchedule"
	}
	for id := range r.profile.PolicyDecisions.All() {
		out[id] = "policyDecision"
	}
	return out
}
