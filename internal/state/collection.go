// Package state holds the in-memory target collection and the snapshot
// discipline behind optimistic mutations: every mutation takes a Snapshot
// first, applies locally for zero-latency feedback, and is undone with
// Restore when the remote call fails. The same protocol covers field
// patches, target create/delete, and log mutations; no operation type is
// fire-and-forget.
package state

import "github.com/sadopc/targetflow/internal/model"

// Snapshot is a deep copy of the collection at one point in time.
type Snapshot struct {
	targets []model.Target
}

// Collection is the canonical in-memory target set. All identifier
// comparisons go through model.Target.Key.
type Collection struct {
	targets []model.Target
}

func NewCollection() *Collection {
	return &Collection{}
}

// Targets returns the live slice; callers must not mutate it.
func (c *Collection) Targets() []model.Target {
	return c.targets
}

// SetAll replaces the whole collection, e.g. after a fetch or an import.
func (c *Collection) SetAll(targets []model.Target) {
	c.targets = targets
}

// Clear drops everything, e.g. on logout.
func (c *Collection) Clear() {
	c.targets = nil
}

// Get looks a target up by its unified key.
func (c *Collection) Get(key string) (model.Target, bool) {
	for _, t := range c.targets {
		if t.Key() == key {
			return t, true
		}
	}
	return model.Target{}, false
}

// Snapshot deep-copies the current state. Restoring it later yields a
// collection structurally identical to this moment.
func (c *Collection) Snapshot() Snapshot {
	snap := Snapshot{targets: make([]model.Target, len(c.targets))}
	for i, t := range c.targets {
		snap.targets[i] = t.Clone()
	}
	return snap
}

// Restore rolls the collection back to a prior snapshot.
func (c *Collection) Restore(snap Snapshot) {
	c.targets = snap.targets
}

// Add appends a new target (optimistic create).
func (c *Collection) Add(t model.Target) {
	c.targets = append(c.targets, t)
}

// Patch applies a field patch to the target with the given key and reports
// whether it was found.
func (c *Collection) Patch(key string, patch model.TargetPatch) bool {
	for i, t := range c.targets {
		if t.Key() == key {
			c.targets[i] = patch.Apply(t)
			return true
		}
	}
	return false
}

// Replace swaps in the server's representation of a target, matched on the
// unified key. Used when a remote call echoes the authoritative record.
// A freshly persisted record gains a server id the local copy does not have
// yet, so the client-generated id is tried as a fallback.
func (c *Collection) Replace(updated model.Target) bool {
	for i, t := range c.targets {
		if t.Key() == updated.Key() {
			c.targets[i] = updated
			return true
		}
	}
	if updated.LocalID != "" {
		for i, t := range c.targets {
			if t.Key() == updated.LocalID {
				c.targets[i] = updated
				return true
			}
		}
	}
	return false
}

// Remove deletes the target with the given key from the collection and
// reports whether it existed, so the caller can close views keyed to it.
func (c *Collection) Remove(key string) bool {
	for i, t := range c.targets {
		if t.Key() == key {
			c.targets = append(c.targets[:i], c.targets[i+1:]...)
			return true
		}
	}
	return false
}
