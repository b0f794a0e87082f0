package state

import (
	"reflect"
	"testing"

	"github.com/sadopc/targetflow/internal/model"
)

func seed() []model.Target {
	return []model.Target{
		{
			PersistedID: "t1",
			Title:       "Read Book",
			DueDate:     "2025-01-01",
			Tags:        []string{"reading"},
			Logs:        []model.Log{{PersistedID: "l1", Completed: "50"}},
		},
		{
			PersistedID: "t2",
			Title:       "Practice",
			Pinned:      true,
			Tags:        []string{"CP", "Contest"},
		},
	}
}

// ============================================================
// Snapshot / Restore
// ============================================================

func TestRollbackRestoresExactState(t *testing.T) {
	c := NewCollection()
	c.SetAll(seed())
	before := append([]model.Target(nil), c.Targets()...)

	snap := c.Snapshot()

	// Optimistic apply that will "fail" remotely.
	pinned := false
	c.Patch("t2", model.TargetPatch{Pinned: &pinned})
	if got, _ := c.Get("t2"); got.Pinned {
		t.Fatal("optimistic apply did not take")
	}

	c.Restore(snap)
	if !reflect.DeepEqual(c.Targets(), before) {
		t.Fatalf("rollback not structurally identical:\nbefore %+v\nafter  %+v", before, c.Targets())
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	c := NewCollection()
	c.SetAll(seed())
	snap := c.Snapshot()

	// Mutate nested state after the snapshot.
	note := "changed"
	c.Patch("t1", model.TargetPatch{Description: &note})
	tgt, _ := c.Get("t1")
	tgt.Logs[0].Completed = "999"
	tgt.Tags[0] = "mutated"

	c.Restore(snap)
	restored, _ := c.Get("t1")
	if restored.Description != "" {
		t.Fatal("description mutation survived rollback")
	}
	if restored.Logs[0].Completed != "50" {
		t.Fatal("log mutation leaked into snapshot")
	}
	if restored.Tags[0] != "reading" {
		t.Fatal("tag mutation leaked into snapshot")
	}
}

func TestRollbackAfterOptimisticCreate(t *testing.T) {
	c := NewCollection()
	c.SetAll(seed())
	snap := c.Snapshot()

	c.Add(model.Target{LocalID: "local-1", Title: "New"})
	if len(c.Targets()) != 3 {
		t.Fatal("create did not apply")
	}

	c.Restore(snap)
	if len(c.Targets()) != 2 {
		t.Fatal("rollback did not remove the optimistic create")
	}
}

func TestRollbackAfterOptimisticDelete(t *testing.T) {
	c := NewCollection()
	c.SetAll(seed())
	snap := c.Snapshot()

	c.Remove("t1")
	c.Restore(snap)
	if _, ok := c.Get("t1"); !ok {
		t.Fatal("rollback did not restore the deleted target")
	}
}

// ============================================================
// Replace / Remove / Patch
// ============================================================

func TestReplaceWithServerEcho(t *testing.T) {
	c := NewCollection()
	c.SetAll(seed())

	echo := model.Target{
		PersistedID: "t1",
		Title:       "Read Book",
		Logs: []model.Log{
			{PersistedID: "l1", Completed: "50"},
			{PersistedID: "l2", Completed: "120"},
		},
	}
	if !c.Replace(echo) {
		t.Fatal("replace should find t1")
	}
	got, _ := c.Get("t1")
	if len(got.Logs) != 2 {
		t.Fatal("server echo not installed")
	}
}

func TestReplaceMatchesOnUnifiedKey(t *testing.T) {
	c := NewCollection()
	c.Add(model.Target{LocalID: "local-1", Title: "Draft"})

	// A record that only has a local id is matched by that id.
	if !c.Replace(model.Target{LocalID: "local-1", Title: "Synced"}) {
		t.Fatal("replace should match on local id fallback")
	}
	got, _ := c.Get("local-1")
	if got.Title != "Synced" {
		t.Fatalf("expected Synced, got %s", got.Title)
	}
}

func TestReplaceAfterCreateGainsServerID(t *testing.T) {
	c := NewCollection()
	c.Add(model.Target{LocalID: "local-1", Title: "Draft"})

	// The create echo carries both the client id and a fresh server id.
	echo := model.Target{PersistedID: "srv-9", LocalID: "local-1", Title: "Draft"}
	if !c.Replace(echo) {
		t.Fatal("replace should fall back to the client-generated id")
	}
	got, ok := c.Get("srv-9")
	if !ok || got.LocalID != "local-1" {
		t.Fatalf("server record not installed: %+v", got)
	}
	if len(c.Targets()) != 1 {
		t.Fatal("replace should not duplicate the target")
	}
}

func TestReplaceUnknownTarget(t *testing.T) {
	c := NewCollection()
	c.SetAll(seed())
	if c.Replace(model.Target{PersistedID: "nope"}) {
		t.Fatal("replace should report missing target")
	}
}

func TestRemoveReportsExistence(t *testing.T) {
	c := NewCollection()
	c.SetAll(seed())

	if !c.Remove("t1") {
		t.Fatal("expected removal of existing target")
	}
	if c.Remove("t1") {
		t.Fatal("second removal should report absence")
	}
	if len(c.Targets()) != 1 {
		t.Fatalf("expected 1 target left, got %d", len(c.Targets()))
	}
}

func TestPatchUnknownTarget(t *testing.T) {
	c := NewCollection()
	pinned := true
	if c.Patch("ghost", model.TargetPatch{Pinned: &pinned}) {
		t.Fatal("patch should report missing target")
	}
}

func TestArchiveForcesUnpin(t *testing.T) {
	c := NewCollection()
	c.SetAll(seed())

	// Archiving always clears the pin in the same patch.
	archived, pinned := true, false
	c.Patch("t2", model.TargetPatch{Archived: &archived, Pinned: &pinned})
	got, _ := c.Get("t2")
	if !got.Archived || got.Pinned {
		t.Fatalf("expected archived and unpinned, got %+v", got)
	}
}

func TestClear(t *testing.T) {
	c := NewCollection()
	c.SetAll(seed())
	c.Clear()
	if c.Targets() != nil {
		t.Fatal("expected empty collection after clear")
	}
}
