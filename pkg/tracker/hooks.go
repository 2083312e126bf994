package tracker

import (
	"locksmith/pkg/lkerr"
	"locksmith/pkg/report"
)

// PreLock is called by a lock wrapper before the real acquisition of id.
//
// It registers the lock when this is its first observed operation, then runs
// the admission check: for every lock X the caller already holds, if the
// graph orders id before X, this acquisition would close a cycle X → … → id
// → X, and a BadOrdering (EDEADLK) diagnostic is emitted naming both locks.
//
// The diagnostic never aborts the acquisition; PreLock returns nil unless
// the registry itself failed. No edges are added here — that happens in
// PostLock, once the acquisition is known to have succeeded.
func (t *Tracker) PreLock(id uintptr, name string, kind Kind) error {
	if err := t.OptionalInit(id, name, kind); err != nil {
		return err
	}

	held := t.heldIDs()
	if len(held) == 0 {
		return nil
	}
	bad := t.inversions(id, held)
	if len(bad) == 0 {
		return nil
	}

	caller := t.callerLabel()
	target := t.recordName(id)
	for _, x := range bad {
		t.diagnostics.Add(1)
		report.Errorf(lkerr.CodeBadOrdering,
			"thread %s: acquiring %s while holding %s inverts the established lock order (potential deadlock)",
			caller, target, t.recordName(x))
	}
	return nil
}

// PostLock is called by a lock wrapper after the real acquisition of id
// returned realErr.
//
// On success it records an edge X → id for every lock X the caller held at
// that moment and appends id to the caller's held sequence. On failure
// (trylock losing the race, a timed lock expiring, EDEADLK from the
// error-checking mutex) it does nothing: neither the graph nor the held set
// changes.
func (t *Tracker) PostLock(id uintptr, realErr error) {
	if realErr != nil {
		return
	}
	t.addBeforeEdges(id, t.heldIDs())
	t.acquisitions.Add(1)
	t.push(id)
}

// PreUnlock is called by a lock wrapper before the real unlock of id. When
// the caller does not hold id, a NotOwned (EPERM) diagnostic is emitted and
// EPERM returned; the wrapper still runs the real unlock so the caller sees
// the underlying primitive's behavior. The held set is not touched here —
// removal happens in PostUnlock, so a failed real unlock leaves it intact.
func (t *Tracker) PreUnlock(id uintptr) error {
	if t.holds(id) {
		return nil
	}
	t.diagnostics.Add(1)
	report.Errorf(lkerr.CodeNotOwned,
		"thread %s: unlock of %s, which it does not hold", t.callerLabel(), t.recordName(id))
	return lkerr.EPERM
}

// PostUnlock is called by a lock wrapper after a successful real unlock of
// id. It removes id from the caller's held sequence. Edges recorded while id
// was held are kept.
func (t *Tracker) PostUnlock(id uintptr) {
	t.pop(id)
}
