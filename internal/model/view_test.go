package model

import (
	"reflect"
	"testing"
)

// ============================================================
// Key unification
// ============================================================

func TestTargetKeyPrefersPersistedID(t *testing.T) {
	tgt := Target{PersistedID: "abc", LocalID: "local-1"}
	if tgt.Key() != "abc" {
		t.Fatalf("expected persisted id, got %q", tgt.Key())
	}
}

func TestTargetKeyFallsBackToLocalID(t *testing.T) {
	tgt := Target{LocalID: "local-1"}
	if tgt.Key() != "local-1" {
		t.Fatalf("expected local id, got %q", tgt.Key())
	}
}

func TestLogKey(t *testing.T) {
	if (Log{PersistedID: "x", LocalID: "y"}).Key() != "x" {
		t.Fatal("expected persisted id preferred")
	}
	if (Log{LocalID: "y"}).Key() != "y" {
		t.Fatal("expected local id fallback")
	}
}

// ============================================================
// Visible: partition, filter, sort
// ============================================================

func TestVisiblePartitionsByArchiveFlag(t *testing.T) {
	targets := []Target{
		{PersistedID: "1", Title: "Active"},
		{PersistedID: "2", Title: "Old", Archived: true},
	}
	active := Visible(targets, false, "")
	if len(active) != 1 || active[0].Title != "Active" {
		t.Fatalf("active partition wrong: %+v", active)
	}
	archived := Visible(targets, true, "")
	if len(archived) != 1 || archived[0].Title != "Old" {
		t.Fatalf("archived partition wrong: %+v", archived)
	}
}

func TestVisibleSearchMatchesTitleOrTag(t *testing.T) {
	targets := []Target{
		{PersistedID: "1", Title: "Read Algorithms"},
		{PersistedID: "2", Title: "Practice", Tags: []string{"CP", "Contest"}},
		{PersistedID: "3", Title: "Gym"},
	}
	got := Visible(targets, false, "cp")
	if len(got) != 1 || got[0].PersistedID != "2" {
		t.Fatalf("expected the CP-tagged target, got %+v", got)
	}
	got = Visible(targets, false, "READ")
	if len(got) != 1 || got[0].PersistedID != "1" {
		t.Fatalf("expected title match, got %+v", got)
	}
}

func TestVisibleSortPinnedFirstThenDueDate(t *testing.T) {
	targets := []Target{
		{PersistedID: "a", DueDate: "2025-06-01"},
		{PersistedID: "b", DueDate: "2025-01-01", Pinned: true},
		{PersistedID: "c", DueDate: "2025-03-01"},
		{PersistedID: "d", DueDate: "2025-09-01", Pinned: true},
		{PersistedID: "e"}, // no due date, sorts last in its group
	}
	got := Visible(targets, false, "")
	want := []string{"b", "d", "c", "a", "e"}
	for i, id := range want {
		if got[i].Key() != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].Key())
		}
	}
}

func TestVisibleSortStable(t *testing.T) {
	// Equal pin status and due date keep input order.
	targets := []Target{
		{PersistedID: "first", DueDate: "2025-05-05"},
		{PersistedID: "second", DueDate: "2025-05-05"},
		{PersistedID: "third", DueDate: "2025-05-05"},
	}
	got := Visible(targets, false, "")
	for i, id := range []string{"first", "second", "third"} {
		if got[i].Key() != id {
			t.Fatalf("sort not stable: position %d is %s", i, got[i].Key())
		}
	}
}

func TestVisibleDoesNotMutateInput(t *testing.T) {
	targets := []Target{
		{PersistedID: "z", DueDate: "2025-12-01"},
		{PersistedID: "a", DueDate: "2025-01-01"},
	}
	Visible(targets, false, "")
	if targets[0].PersistedID != "z" {
		t.Fatal("input slice was reordered")
	}
}

// ============================================================
// TagSummary
// ============================================================

func TestTagSummaryCountsAndOrder(t *testing.T) {
	targets := []Target{
		{Tags: []string{"math", "cs"}},
		{Tags: []string{"cs"}},
		{Tags: []string{"cs", "math", "bio"}},
	}
	got := TagSummary(targets)
	want := []TagCount{{"cs", 3}, {"math", 2}, {"bio", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestTagSummaryTiesKeepEncounterOrder(t *testing.T) {
	targets := []Target{
		{Tags: []string{"alpha", "beta"}},
	}
	got := TagSummary(targets)
	if got[0].Tag != "alpha" || got[1].Tag != "beta" {
		t.Fatalf("tie order broken: %+v", got)
	}
}

func TestMostActiveTag(t *testing.T) {
	if MostActiveTag(nil) != "" {
		t.Fatal("expected empty sentinel for no tags")
	}
	targets := []Target{{Tags: []string{"a"}}, {Tags: []string{"b", "b"}}}
	if MostActiveTag(targets) != "b" {
		t.Fatalf("expected b, got %s", MostActiveTag(targets))
	}
}

func TestUniqueTags(t *testing.T) {
	targets := []Target{
		{Tags: []string{"x", "y"}},
		{Tags: []string{"y", "z"}},
	}
	got := UniqueTags(targets)
	if !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
}

// ============================================================
// Patch / ParseTags
// ============================================================

func TestPatchApply(t *testing.T) {
	pinned := true
	title := "New Title"
	orig := Target{PersistedID: "1", Title: "Old", Tags: []string{"a"}}
	got := TargetPatch{Title: &title, Pinned: &pinned}.Apply(orig)
	if got.Title != "New Title" || !got.Pinned {
		t.Fatalf("patch not applied: %+v", got)
	}
	if orig.Title != "Old" || orig.Pinned {
		t.Fatal("patch mutated the original")
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" math , cs ,, bio ")
	if !reflect.DeepEqual(got, []string{"math", "cs", "bio"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
	if ParseTags("") != nil {
		t.Fatal("expected nil for empty input")
	}
}
