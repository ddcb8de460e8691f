package memory

import (
	"testing"

	"github.com/bleedingdev/ums/internal/entity"
)

func mustRule(t *testing.T, confidence float64) *entity.ProceduralRule {
	t.Helper()
	r, err := entity.NewRule(entity.NewRuleInput{
		StoreID: "s1", Statement: "do X", Confidence: confidence,
		EvidenceEpisodeIDs: []string{"ep_a"}, CreatedAt: "2026-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestReinforceHelpfulIncreasesConfidence(t *testing.T) {
	r := mustRule(t, 0.5)
	next := Reinforce(r, true, false, "2026-01-02T00:00:00Z")
	if next.Confidence < 0.57 || next.Confidence > 0.59 {
		t.Fatalf("expected confidence near 0.58, got %v", next.Confidence)
	}
	if next.Status != entity.RuleStatusActive {
		t.Fatalf("expected rule to stay active")
	}
}

func TestReinforceHarmfulTombstonesAtFloor(t *testing.T) {
	r := mustRule(t, 0.2)
	next := Reinforce(r, false, true, "2026-01-02T00:00:00Z")
	if next.Status != entity.RuleStatusTombstoned {
		t.Fatalf("expected tombstoned status at confidence %v", next.Confidence)
	}
}

func TestInvertProducesAntiPatternWithFloor(t *testing.T) {
	r := mustRule(t, 0.05)
	ap, err := Invert(r, "2026-01-02T00:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.Confidence != 0.2 {
		t.Fatalf("expected floor 0.2, got %v", ap.Confidence)
	}
	if ap.Statement != "Avoid: do X" {
		t.Fatalf("unexpected statement: %s", ap.Statement)
	}
}

func TestShouldEscalateOnlyAtThresholds(t *testing.T) {
	for _, c := range []int{0, 1, 2, 3, 4, 5, 6} {
		got := ShouldEscalate(c)
		want := c == 2 || c == 3 || c == 5
		if got != want {
			t.Fatalf("ShouldEscalate(%d) = %v, want %v", c, got, want)
		}
	}
}

func TestEscalateHarmIsDeterministicPerThreshold(t *testing.T) {
	misc, err := entity.NewMisconception(entity.NewMisconceptionInput{
		StoreID: "s1", ProfileID: "lp_1", MisconceptionKey: "off-by-one",
		EvidenceEpisodeIDs: []string{"ep_a"}, CreatedAt: "2026-01-01T00:00:00Z",
		Harmful: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	misc.HarmfulSignalCount = 2

	a, err := EscalateHarm(misc, 0.5, "2026-01-02T00:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := EscalateHarm(misc, 0.5, "2026-01-03T00:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != b.ID {
		t.Fatalf("expected deterministic id across calls, got %s vs %s", a.ID, b.ID)
	}
	if a.Confidence < 0.05 {
		t.Fatalf("expected confidence floored at 0.05, got %v", a.Confidence)
	}
}

func TestBuildDiaryBoundsWindowAndSortsEvidence(t *testing.T) {
	episodes := make([]*entity.Episode, 0, 3)
	for i, content := range []string{"first", "second", "third"} {
		ep, err := entity.NewEpisode(entity.NewEpisodeInput{
			StoreID: "s1", Type: "note", Source: "x", Content: content,
			CreatedAt: "2026-01-0" + string(rune('1'+i)) + "T00:00:00Z",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		episodes = append(episodes, ep)
	}

	diary, err := BuildDiary("s1", episodes, 2, "2026-01-04T00:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diary.EvidenceEpisodeIDs) != 2 {
		t.Fatalf("expected window of 2 episodes, got %d", len(diary.EvidenceEpisodeIDs))
	}
}

func TestBuildDigestRecordsCountAndDistinctTypes(t *testing.T) {
	episodes := []*entity.Episode{}
	for i, typ := range []string{"note", "note", "error"} {
		ep, err := entity.NewEpisode(entity.NewEpisodeInput{
			StoreID: "s1", Type: typ, Source: "x", Content: typ + "-content-" + string(rune('1'+i)),
			CreatedAt: "2026-01-01T00:00:00Z",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		episodes = append(episodes, ep)
	}

	digest, err := BuildDigest("s1", episodes, "2026-01-02T00:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(digest.EvidenceEpisodeIDs) != 3 {
		t.Fatalf("expected all episode ids referenced, got %d", len(digest.EvidenceEpisodeIDs))
	}
	if digest.Content != "3 episode(s): error, note" {
		t.Fatalf("unexpected digest content: %s", digest.Content)
	}
}
