package repo

import "github.com/bleedingdev/ums/internal/entity"

// Profile is one (storeId, profile) bucket tree: one typed Bucket per
// entity kind that is scoped to a learner profile or conversational
// namespace, plus the episode/working-memory buckets that are scoped the
// same way. All cross-entity isolation is enforced one level up, by Store.
type Profile struct {
	ID string

	Episodes        *EpisodeBucket
	Working         *Bucket[*entity.WorkingEntry]
	Rules           *Bucket[*entity.ProceduralRule]
	AntiPatterns    *Bucket[*entity.AntiPattern]
	LearnerProfiles *Bucket[*entity.LearnerProfile]
	IdentityEdges   *Bucket[*entity.IdentityEdge]
	Misconceptions  *Bucket[*entity.Misconception]
	CurriculumItems *Bucket[*entity.CurriculumPlanItem]
	ReviewSchedules *Bucket[*entity.ReviewScheduleEntry]
	PolicyDecisions *Bucket[*entity.PolicyDecision]

	// Counters seeds keyword-index tie-breaking (canon.HashToUnit) and
	// audit/export sequencing; it increments once per operation that
	// touches this profile, never per entity.
	Counters map[string]int
}

func newProfile(id string) *Profile {
	return &Profile{
		ID:       id,
		Episodes: NewEpisodeBucket(),
		Working:  NewBucket(func(e *entity.WorkingEntry) string { return e.ID }, entity.MergeWorkingEntry),
		Rules:    NewBucket(func(r *entity.ProceduralRule) string { return r.ID }, entity.MergeRule),
		AntiPatterns: NewBucket(func(a *entity.AntiPattern) string { return a.ID }, entity.MergeAntiPattern),
		LearnerProfiles: NewBucket(func(l *entity.LearnerProfile) string { return l.ID }, entity.MergeLearnerProfile),
		IdentityEdges:   NewBucket(func(e *entity.IdentityEdge) string { return e.ID }, entity.MergeIdentityEdge),
		Misconceptions:  NewBucket(func(m *entity.Misconception) string { return m.ID }, entity.MergeMisconception),
		CurriculumItems: NewBucket(func(c *entity.CurriculumPlanItem) string { return c.ID }, entity.MergeCurriculumPlanItem),
		ReviewSchedules: NewBucket(func(r *entity.ReviewScheduleEntry) string { return r.ID }, entity.MergeReviewScheduleEntry),
		PolicyDecisions: NewBucket(func(p *entity.PolicyDecision) string { return p.ID }, func(existing, incoming *entity.PolicyDecision) *entity.PolicyDecision {
			return entity.MergePolicyDecision(existing, incoming, false)
		}),
		Counters: make(map[string]int),
	}
}

// NextCounter increments and returns the named sequence counter, used to
// mint request-scoped ordinals (e.g. audit sequence numbers) deterministically.
func (p *Profile) NextCounter(name string) int {
	p.Counters[name]++
	return p.Counters[name]
}

// Totals sums entity counts across every bucket in this profile.
func (p *Profile) Totals() int {
	return p.Episodes.Count() + p.Working.Count() + p.Rules.Count() + p.AntiPatterns.Count() +
		p.LearnerProfiles.Count() + p.IdentityEdges.Count() + p.Misconceptions.Count() +
		p.CurriculumItems.Count() + p.ReviewSchedules.Count() + p.PolicyDecisions.Count()
}
