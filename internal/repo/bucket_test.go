package repo

import (
	"testing"

	"github.com/bleedingdev/ums/internal/entity"
)

func TestBucketUpsertCreatedThenNoop(t *testing.T) {
	b := NewBucket(func(r *entity.ProceduralRule) string { return r.ID }, entity.MergeRule)

	r, err := entity.NewRule(entity.NewRuleInput{
		StoreID: "s1", Statement: "do X", Confidence: 0.6,
		EvidenceEpisodeIDs: []string{"ep_a"}, CreatedAt: "2026-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, action, err := b.Upsert(r)
	if err != nil || action != ActionCreated {
		t.Fatalf("expected created, got %v err=%v", action, err)
	}

	_, action, err = b.Upsert(r)
	if err != nil || action != ActionNoop {
		t.Fatalf("expected noop on identical re-upsert, got %v err=%v", action, err)
	}

	r2, err := entity.NewRule(entity.NewRuleInput{
		StoreID: "s1", Statement: "do X", Confidence: 0.9,
		EvidenceEpisodeIDs: []string{"ep_b"}, CreatedAt: "2026-01-02T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	merged, action, err := b.Upsert(r2)
	if err != nil || action != ActionUpdated {
		t.Fatalf("expected updated, got %v err=%v", action, err)
	}
	if merged.Confidence != 0.9 {
		t.Fatalf("expected merged confidence to take max, got %v", merged.Confidence)
	}
	if len(merged.EvidenceEpisodeIDs) != 2 {
		t.Fatalf("expected evidence union, got %v", merged.EvidenceEpisodeIDs)
	}
}

func TestBucketListOrdering(t *testing.T) {
	b := NewBucket(func(r *entity.ProceduralRule) string { return r.ID }, entity.MergeRule)
	mk := func(stmt, updatedAt string) *entity.ProceduralRule {
		r, err := entity.NewRule(entity.NewRuleInput{
			StoreID: "s1", Statement: stmt, EvidenceEpisodeIDs: []string{"ep_a"}, CreatedAt: updatedAt,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return r
	}
	a := mk("a", "2026-01-01T00:00:00Z")
	c := mk("c", "2026-01-03T00:00:00Z")
	bb := mk("b", "2026-01-02T00:00:00Z")
	for _, r := range []*entity.ProceduralRule{a, c, bb} {
		if _, _, err := b.Upsert(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list := b.List(RuleLess, 0)
	if len(list) != 3 || list[0].Statement != "c" || list[2].Statement != "a" {
		t.Fatalf("expected descending updatedAt order, got %v", list)
	}

	limited := b.List(RuleLess, 2)
	if len(limited) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestEpisodeBucketDetectsDuplicate(t *testing.T) {
	b := NewEpisodeBucket()
	ep, err := entity.NewEpisode(entity.NewEpisodeInput{StoreID: "s1", Type: "note", Source: "x", Content: "hi", CreatedAt: "2026-01-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, dup := b.Put(ep); dup {
		t.Fatalf("expected first put to not be a duplicate")
	}
	ep2, _ := entity.NewEpisode(entity.NewEpisodeInput{StoreID: "s1", Type: "note", Source: "x", Content: "hi", CreatedAt: "2030-01-01T00:00:00Z"})
	if _, dup := b.Put(ep2); !dup {
		t.Fatalf("expected second put of the same fingerprint to be a duplicate")
	}
	if b.Count() != 1 {
		t.Fatalf("expected count 1, got %d", b.Count())
	}
}

func TestTreeIsolation(t *testing.T) {
	allow := CrossStoreAllowlist{"jira": {"coding-agent"}}
	if err := CheckIsolation(allow, "jira", "jira", false); err != nil {
		t.Fatalf("same-store read must never fail: %v", err)
	}
	if err := CheckIsolation(allow, "jira", "coding-agent", false); err == nil {
		t.Fatalf("expected isolation violation without allowCrossSpaceRead")
	}
	if err := CheckIsolation(allow, "jira", "coding-agent", true); err != nil {
		t.Fatalf("expected allowlisted cross-store read to succeed: %v", err)
	}
	if err := CheckIsolation(allow, "jira", "other", true); err == nil {
		t.Fatalf("expected isolation violation for store not in allowlist")
	}
}

func TestTreeCreatesStoresAndProfilesLazily(t *testing.T) {
	tr := NewTree()
	p := tr.Store("s1").Profile("default")
	if p.ID != "default" {
		t.Fatalf("unexpected profile id: %s", p.ID)
	}
	if len(tr.StoreIDs()) != 1 || tr.StoreIDs()[0] != "s1" {
		t.Fatalf("unexpected store ids: %v", tr.StoreIDs())
	}
}
