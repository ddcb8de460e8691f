package index

import "testing"

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	got := Tokenize("Off-by-one Error: loops!")
	want := []string{"off", "by", "one", "error", "loops"}
	if len(got) != len(want) {
		t.Fatalf("unexpected tokens: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected tokens: %v", got)
		}
	}
}

func TestTokenizeKeepsUnderscoreWithinToken(t *testing.T) {
	got := Tokenize("word_with_underscore and a 1 b")
	want := []string{"word_with_underscore", "and"}
	if len(got) != len(want) {
		t.Fatalf("unexpected tokens: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected tokens: %v", got)
		}
	}
}

func TestTokenizeDropsSingleCharTokens(t *testing.T) {
	got := Tokenize("a bb c 1 22")
	want := []string{"bb", "22"}
	if len(got) != len(want) {
		t.Fatalf("unexpected tokens: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected tokens: %v", got)
		}
	}
}

func TestScoreEmptyQueryIsOneForEveryDoc(t *testing.T) {
	docs := []Document{
		{ID: "a", CreatedAt: "2026-01-01T00:00:00Z", Text: "off by one error"},
		{ID: "b", CreatedAt: "2026-01-02T00:00:00Z", Text: "unrelated content"},
	}
	for _, d := range docs {
		if got := Score("seed", "", d); got != 1 {
			t.Fatalf("expected score 1 for empty query, got %v for doc %s", got, d.ID)
		}
	}
}

func TestRankEmptyQueryFallsBackToRecencyOrder(t *testing.T) {
	docs := []Document{
		{ID: "b", CreatedAt: "2026-01-01T00:00:00Z", Text: "off by one error"},
		{ID: "a", CreatedAt: "2026-01-02T00:00:00Z", Text: "unrelated content"},
	}
	ranked := Rank("seed", "", docs, 0)
	if ranked[0].Document.ID != "a" || ranked[1].Document.ID != "b" {
		t.Fatalf("expected recency-ordered fallback, got order %+v", ranked)
	}
}

func TestRankOrdersByScoreThenCreatedAtThenID(t *testing.T) {
	docs := []Document{
		{ID: "b", CreatedAt: "2026-01-01T00:00:00Z", Text: "off by one error"},
		{ID: "a", CreatedAt: "2026-01-02T00:00:00Z", Text: "off by one error"},
		{ID: "c", CreatedAt: "2026-01-01T00:00:00Z", Text: "unrelated content"},
	}
	ranked := Rank("seed", "off by one", docs, 0)
	// a and b share their text, so their scores differ only by the hash
	// tie-breaker term; the higher-scoring one ranks first.
	top := map[string]bool{ranked[0].Document.ID: true, ranked[1].Document.ID: true}
	if !top["a"] || !top["b"] || ranked[0].Score <= ranked[1].Score {
		t.Fatalf("expected matching docs first in descending score order, got %+v", ranked)
	}
	if ranked[len(ranked)-1].Document.ID != "c" {
		t.Fatalf("expected unrelated doc to score lowest, got order %+v", ranked)
	}

	// An empty query scores every doc exactly 1, so createdAt desc and then
	// id asc decide the order.
	tied := Rank("seed", "", docs, 0)
	if tied[0].Document.ID != "a" || tied[1].Document.ID != "b" || tied[2].Document.ID != "c" {
		t.Fatalf("expected later createdAt, then lower id, to win equal-score ties, got %+v", tied)
	}
}

func TestRankIsDeterministicAcrossRuns(t *testing.T) {
	docs := []Document{
		{ID: "x", CreatedAt: "2026-01-01T00:00:00Z", Text: "hello world"},
		{ID: "y", CreatedAt: "2026-01-01T00:00:00Z", Text: "hello world"},
	}
	first := Rank("seed", "hello", docs, 0)
	second := Rank("seed", "hello", docs, 0)
	for i := range first {
		if first[i].Document.ID != second[i].Document.ID || first[i].Score != second[i].Score {
			t.Fatalf("expected deterministic ranking across runs")
		}
	}
}

func TestRankRespectsLimit(t *testing.T) {
	docs := []Document{
		{ID: "a", CreatedAt: "2026-01-01T00:00:00Z", Text: "match"},
		{ID: "b", CreatedAt: "2026-01-02T00:00:00Z", Text: "match"},
		{ID: "c", CreatedAt: "2026-01-03T00:00:00Z", Text: "match"},
	}
	ranked := Rank("seed", "match", docs, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected limit to truncate results, got %d", len(ranked))
	}
}
