package resolver

import (
	"errors"
	"testing"

	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/repo"
	"github.com/bleedingdev/ums/internal/umserr"
)

func newTestProfile(t *testing.T) *repo.Profile {
	t.Helper()
	tree := repo.NewTree()
	return tree.Store("default").Profile("learner-1")
}

func mustRule(t *testing.T, statement string) *entity.ProceduralRule {
	t.Helper()
	r, err := entity.NewRule(entity.NewRuleInput{
		StoreID:            "default",
		Statement:          statement,
		Confidence:         0.5,
		EvidenceEpisodeIDs: []string{"ep_0000000000000001"},
		CreatedAt:          "2026-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	return r
}

func TestResolveExactMatch(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "always write tests first")
	p.Rules.Put(r)

	resolver := New(p)
	m, err := resolver.Resolve(r.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.ID != r.ID || m.Kind != "rule" {
		t.Fatalf("unexpected match: %+v", m)
	}
}

func TestResolveUniquePrefix(t *testing.T) {
	p := newTestProfile(t)
	r := mustRule(t, "always write tests first")
	p.Rules.Put(r)

	resolver := New(p)
	m, err := resolver.Resolve(r.ID[:len(r.ID)-4])
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.ID != r.ID {
		t.Fatalf("expected %s, got %s", r.ID, m.ID)
	}
}

func TestResolveNotFound(t *testing.T) {
	p := newTestProfile(t)
	resolver := New(p)
	_, err := resolver.Resolve("rule_doesnotexist")
	var tagged *umserr.Error
	if !errors.As(err, &tagged) || tagged.Code != umserr.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestResolveAmbiguousConflict(t *testing.T) {
	p := newTestProfile(t)
	a := mustRule(t, "always write tests first")
	b := mustRule(t, "always run the linter before committing")
	p.Rules.Put(a)
	p.Rules.Put(b)

	resolver := New(p)
	_, err := resolver.Resolve("rule")
	var tagged *umserr.Error
	if !errors.As(err, &tagged) || tagged.Code != umserr.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestResolveEmptyFragment(t *testing.T) {
	p := newTestProfile(t)
	resolver := New(p)
	_, err := resolver.Resolve("")
	var tagged *umserr.Error
	if !errors.As(err, &tagged) || tagged.Code != umserr.CodeValidationFailed {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}
