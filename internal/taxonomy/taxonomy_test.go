package taxonomy

import "testing"

func TestAssignTierBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Tier
	}{
		{0.95, TierGold},
		{0.85, TierGold},
		{0.84, TierSilver},
		{0.70, TierSilver},
		{0.69, TierBronze},
		{0.50, TierBronze},
		{0.49, TierDiscard},
		{0.0, TierDiscard},
		{1.0, TierGold},
	}
	for _, c := range cases {
		if got := AssignTier(c.score); got != c.want {
			t.Errorf("AssignTier(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestAssignTierWithCustomConfig(t *testing.T) {
	configs := map[Tier]TierConfig{
		TierGold:    {Tier: TierGold, MinScore: 0.9, MaxScore: 1.01},
		TierDiscard: {Tier: TierDiscard, MinScore: 0.0, MaxScore: 0.9},
	}
	if got := AssignTierWith(0.92, configs); got != TierGold {
		t.Fatalf("expected gold, got %v", got)
	}
	if got := AssignTierWith(0.5, configs); got != TierDiscard {
		t.Fatalf("expected discard, got %v", got)
	}
}
