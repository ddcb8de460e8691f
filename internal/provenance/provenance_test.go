package provenance

import (
	"path/filepath"
	"testing"
)

func TestNewGraphToleratesMissingFile(t *testing.T) {
	g, err := NewGraph(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if len(g.Records) != 0 {
		t.Fatalf("expected empty graph, got %d records", len(g.Records))
	}
}

func TestAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.jsonl")

	g, err := NewGraph(path)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	rec := Record{
		Operation:     "curate",
		StoreID:       "default",
		Profile:       "learner-1",
		RequestDigest: "abc123",
		ProducedIDs:   []string{"rule_0000000000000001"},
		Action:        "created",
		CreatedAt:     "2026-01-01T00:00:00Z",
	}
	if err := g.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	reloaded, err := NewGraph(path)
	if err != nil {
		t.Fatalf("reload NewGraph: %v", err)
	}
	if len(reloaded.Records) != 1 || reloaded.Records[0].Operation != "curate" {
		t.Fatalf("unexpected reloaded records: %+v", reloaded.Records)
	}
	if reloaded.Records[0].ID == "" {
		t.Fatal("expected Append to assign a record ID")
	}
}

func TestTraceFindsProducingRecords(t *testing.T) {
	g := &Graph{Records: []Record{
		{Operation: "curate", ProducedIDs: []string{"rule_a"}},
		{Operation: "feedback", ProducedIDs: []string{"anti_b"}},
		{Operation: "curate", ProducedIDs: []string{"rule_a", "rule_c"}},
	}}

	trace := g.Trace("rule_a")
	if len(trace) != 2 {
		t.Fatalf("expected 2 records tracing rule_a, got %d", len(trace))
	}
}

func TestGetStats(t *testing.T) {
	g := &Graph{Records: []Record{
		{Operation: "curate", StoreID: "default", Profile: "a"},
		{Operation: "curate", StoreID: "default", Profile: "b"},
		{Operation: "feedback", StoreID: "other", Profile: "a"},
	}}

	stats := g.GetStats()
	if stats.TotalRecords != 3 {
		t.Fatalf("expected 3 total records, got %d", stats.TotalRecords)
	}
	if stats.OperationCounts["curate"] != 2 {
		t.Fatalf("expected 2 curate records, got %d", stats.OperationCounts["curate"])
	}
	if stats.DistinctProfiles != 3 {
		t.Fatalf("expected 3 distinct (store,profile) pairs, got %d", stats.DistinctProfiles)
	}
}
