// Package snapshot implements the engine's bit-exact export/import
// contract: a single canonical JSON document capturing every store,
// profile, and entity bucket, such that import(export(state)) == state
// (spec.md §6). Like the teacher's provenance.Graph.load(), import is
// tolerant of one legacy shape (a top-level "spaces" array) rather than
// hard-failing on it; unlike the teacher's JSONL log, this is a single
// JSON document, not a line-delimited stream, since core state is not
// incrementally appended to disk.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/repo"
)

// SchemaVersion is the current snapshot format version.
const SchemaVersion = 1

// ProfileSnapshot is one profile's full bucket contents.
type ProfileSnapshot struct {
	Profile         string                        `json:"profile"`
	Episodes        []*entity.Episode             `json:"episodes"`
	Working         []*entity.WorkingEntry        `json:"working"`
	Rules           []*entity.ProceduralRule      `json:"rules"`
	AntiPatterns    []*entity.AntiPattern         `json:"antiPatterns"`
	LearnerProfiles []*entity.LearnerProfile      `json:"learnerProfiles"`
	IdentityEdges   []*entity.IdentityEdge        `json:"identityEdges"`
	Misconceptions  []*entity.Misconception       `json:"misconceptions"`
	CurriculumItems []*entity.CurriculumPlanItem  `json:"curriculumItems"`
	ReviewSchedules []*entity.ReviewScheduleEntry `json:"reviewSchedules"`
	PolicyDecisions []*entity.PolicyDecision      `json:"policyDecisions"`
	Counters        map[string]int                `json:"counters"`
}

// StoreSnapshot is one store's profiles.
type StoreSnapshot struct {
	StoreID  string            `json:"storeId"`
	Profiles []ProfileSnapshot `json:"profiles"`
}

// Totals summarizes a snapshot for quick inspection without walking it.
type Totals struct {
	StoreCount int `json:"storeCount"`
	EventCount int `json:"eventCount"`
}

// Snapshot is the full exported engine state.
type Snapshot struct {
	SchemaVersion int             `json:"schemaVersion"`
	Stores        []StoreSnapshot `json:"stores"`
	Totals        Totals          `json:"totals"`
}

// Export walks tree in sorted (storeId, profile) order and renders a
// Snapshot. Sorted iteration order is what makes canonical-JSON export
// byte-identical across runs over the same logical state.
func Export(tree *repo.Tree) Snapshot {
	snap := Snapshot{SchemaVersion: SchemaVersion}
	eventCount := 0

	for _, storeID := range tree.StoreIDs() {
		store, _ := tree.LookupStore(storeID)
		storeSnap := StoreSnapshot{StoreID: storeID}

		for _, profileID := range store.ProfileIDs() {
			profile, _ := store.LookupProfile(profileID)
			eventCount += profile.Episodes.Count()

			storeSnap.Profiles = append(storeSnap.Profiles, ProfileSnapshot{
				Profile:         profileID,
				Episodes:        profile.Episodes.List(0),
				Working:         profile.Working.List(repo.WorkingLess, 0),
				Rules:           profile.Rules.List(repo.RuleLess, 0),
				AntiPatterns:    profile.AntiPatterns.List(repo.AntiPatternLess, 0),
				LearnerProfiles: profile.LearnerProfiles.List(repo.LearnerProfileLess, 0),
				IdentityEdges:   profile.IdentityEdges.List(repo.IdentityEdgeLess, 0),
				Misconceptions:  profile.Misconceptions.List(repo.MisconceptionLess, 0),
				CurriculumItems: profile.CurriculumItems.List(repo.CurriculumItemLess, 0),
				ReviewSchedules: profile.ReviewSchedules.List(repo.ReviewScheduleLess, 0),
				PolicyDecisions: profile.PolicyDecisions.List(repo.PolicyDecisionLess, 0),
				Counters:        profile.Counters,
			})
		}
		snap.Stores = append(snap.Stores, storeSnap)
	}

	snap.Totals = Totals{StoreCount: len(snap.Stores), EventCount: eventCount}
	return snap
}

// legacyEnvelope detects the pre-store "spaces" shape: a flat array of
// profile-shaped objects with no storeId wrapper, imported as a single
// "default" store (spec.md §6).
type legacyEnvelope struct {
	Spaces []ProfileSnapshot `json:"spaces"`
}

// Import replaces tree's contents with the snapshot encoded in data. It
// recognizes both the current {"stores": [...]} shape and the legacy
// {"spaces": [...]} shape.
func Import(tree *repo.Tree, data []byte) error {
	var current Snapshot
	if err := json.Unmarshal(data, &current); err != nil {
		return fmt.Errorf("snapshot: decode: %w", err)
	}

	tree.Reset()

	if len(current.Stores) > 0 {
		for _, s := range current.Stores {
			importStore(tree, s.StoreID, s.Profiles)
		}
		return nil
	}

	var legacy legacyEnvelope
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("snapshot: decode legacy: %w", err)
	}
	if len(legacy.Spaces) > 0 {
		importStore(tree, "default", legacy.Spaces)
	}
	return nil
}

func importStore(tree *repo.Tree, storeID string, profiles []ProfileSnapshot) {
	store := tree.Store(storeID)
	for _, ps := range profiles {
		profile := store.Profile(ps.Profile)
		for _, ep := range ps.Episodes {
			profile.Episodes.Put(ep)
		}
		for _, w := range ps.Working {
			profile.Working.Put(w)
		}
		for _, r := range ps.Rules {
			profile.Rules.Put(r)
		}
		for _, a := range ps.AntiPatterns {
			profile.AntiPatterns.Put(a)
		}
		for _, l := range ps.LearnerProfiles {
			profile.LearnerProfiles.Put(l)
		}
		for _, e := range ps.IdentityEdges {
			profile.IdentityEdges.Put(e)
		}
		for _, m := range ps.Misconceptions {
			profile.Misconceptions.Put(m)
		}
		for _, c := range ps.CurriculumItems {
			profile.CurriculumItems.Put(c)
		}
		for _, r := range ps.ReviewSchedules {
			profile.ReviewSchedules.Put(r)
		}
		for _, p := range ps.PolicyDecisions {
			profile.PolicyDecisions.Put(p)
		}
		for k, v := range ps.Counters {
			profile.Counters[k] = v
		}
	}
}
