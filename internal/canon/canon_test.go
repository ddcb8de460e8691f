package canon

import (
	"testing"
	"time"
)

func TestJSONSortsKeysRegardlessOfInputOrder(t *testing.T) {
	a := map[string]any{"b": 1, "a": 2, "c": 3}
	b := map[string]any{"c": 3, "a": 2, "b": 1}

	outA, err := JSON(a)
	if err != nil {
		t.Fatalf("JSON(a): %v", err)
	}
	outB, err := JSON(b)
	if err != nil {
		t.Fatalf("JSON(b): %v", err)
	}
	if string(outA) != string(outB) {
		t.Fatalf("expected canonical forms to match, got %q vs %q", outA, outB)
	}
	if string(outA) != `{"a":2,"b":1,"c":3}` {
		t.Fatalf("unexpected canonical form: %s", outA)
	}
}

func TestJSONPreservesArrayOrder(t *testing.T) {
	v := map[string]any{"list": []any{3, 1, 2}}
	out, err := JSON(v)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if string(out) != `{"list":[3,1,2]}` {
		t.Fatalf("array order not preserved: %s", out)
	}
}

func TestIDDeterministicAcrossListOrdering(t *testing.T) {
	fp1 := map[string]any{"storeId": "s1", "tags": []string{"a", "b"}}
	fp2 := map[string]any{"tags": []string{"a", "b"}, "storeId": "s1"}

	id1, err := ID("ep", fp1)
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	id2, err := ID("ep", fp2)
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected matching ids, got %s vs %s", id1, id2)
	}
	if len(id1) != len("ep_")+16 {
		t.Fatalf("unexpected id length: %s", id1)
	}
}

func TestIDDiffersOnDifferentFingerprint(t *testing.T) {
	id1, _ := ID("ep", map[string]any{"a": 1})
	id2, _ := ID("ep", map[string]any{"a": 2})
	if id1 == id2 {
		t.Fatalf("expected different ids for different fingerprints")
	}
}

func TestSortedUnique(t *testing.T) {
	got := SortedUnique([]string{" b ", "a", "", "b", "a", "  "})
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestHashToUnitDeterministicAndBounded(t *testing.T) {
	v1 := HashToUnit("seed", "a", "b")
	v2 := HashToUnit("seed", "a", "b")
	if v1 != v2 {
		t.Fatalf("expected deterministic output, got %v vs %v", v1, v2)
	}
	if v1 < 0 || v1 >= 1 {
		t.Fatalf("expected value in [0,1), got %v", v1)
	}
	v3 := HashToUnit("seed", "a", "c")
	if v1 == v3 {
		t.Fatalf("expected different parts to hash differently")
	}
}

func TestNormalizeTimeRoundTrip(t *testing.T) {
	in := time.Date(2026, 7, 31, 12, 0, 0, 0, time.FixedZone("X", 3600))
	s := NormalizeTime(in)
	out, err := ParseTime(s)
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("expected round-trip to preserve instant, got %v vs %v", out, in)
	}
	if out.Location().String() != "UTC" {
		t.Fatalf("expected UTC location, got %v", out.Location())
	}
}

func TestDeepCloneIsIndependent(t *testing.T) {
	type inner struct {
		Tags []string `json:"tags"`
	}
	orig := inner{Tags: []string{"a", "b"}}
	clone, err := DeepClone(orig)
	if err != nil {
		t.Fatalf("DeepClone: %v", err)
	}
	clone.Tags[0] = "z"
	if orig.Tags[0] == "z" {
		t.Fatalf("expected clone mutation not to affect original")
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := FixedClock{At: at}
	if !c.Now().Equal(at) {
		t.Fatalf("expected fixed clock to return configured time")
	}
}
