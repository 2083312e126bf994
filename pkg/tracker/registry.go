package tracker

import (
	"fmt"

	"locksmith/pkg/lkerr"
	"locksmith/pkg/report"
)

// OptionalInit ensures a live record exists for id, creating one with an
// empty before-set when none does. Returning success for an existing record
// is what accommodates statically initialized locks: the wrappers cannot
// tell whether an explicit init ever ran, so the first operation on a lock
// registers it.
//
// Idempotent: calling it twice leaves the registry unchanged and succeeds
// both times.
func (t *Tracker) OptionalInit(id uintptr, name string, kind Kind) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.table[id]; ok {
		return nil
	}
	t.table[id] = newLockRecord(id, name, kind)
	return nil
}

// ExplicitInit registers a lock that is being initialized by an explicit
// init call. Unlike OptionalInit it diagnoses double-init: when a live
// record already exists for id, a CreateWhileInUse diagnostic is emitted.
// The init still proceeds — the existing record, with whatever ordering
// history it has accumulated, stays in place.
func (t *Tracker) ExplicitInit(id uintptr, name string, kind Kind) error {
	t.mu.Lock()
	rec, ok := t.table[id]
	if !ok {
		t.table[id] = newLockRecord(id, name, kind)
		t.mu.Unlock()
		return nil
	}
	prev := rec.name
	t.mu.Unlock()

	t.diagnostics.Add(1)
	report.Errorf(lkerr.CodeCreateWhileInUse,
		"init(%s): this %s has already been initialized as %s", name, kind, prev)
	return nil
}

// Destroy removes the record for id.
//
// Returns ENOENT when the tracker has never seen id — callers treat this as
// benign, since a statically initialized lock that saw no interaction has no
// record to remove. Returns EBUSY, with a diagnostic, when some goroutine
// still holds the lock; the record is kept in that case.
//
// Before-set entries naming id in other records are deliberately not pruned;
// recorded ordering evidence outlives the lock.
func (t *Tracker) Destroy(id uintptr) error {
	if holder, ok := t.findHolder(id); ok {
		t.diagnostics.Add(1)
		report.Errorf(lkerr.CodeDestroyWhileInUse,
			"destroy(%s): lock is still held by thread %s", t.recordName(id), holder)
		return lkerr.EBUSY
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.table[id]; !ok {
		return lkerr.ENOENT
	}
	delete(t.table, id)
	return nil
}

// Lookup returns a snapshot of the record for id, or ENOENT when the tracker
// has never seen it.
func (t *Tracker) Lookup(id uintptr) (RecordInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.table[id]
	if !ok {
		return RecordInfo{}, lkerr.ENOENT
	}

	info := RecordInfo{
		ID:        rec.id,
		Name:      rec.name,
		Kind:      rec.kind,
		CreatedAt: rec.createdAt,
		NLock:     rec.nlock,
		Before:    make([]uintptr, 0, len(rec.before)),
	}
	for b := range rec.before {
		info.Before = append(info.Before, b)
	}
	return info, nil
}

// recordName returns the diagnostic name for id, falling back to the address
// form when the record is gone.
func (t *Tracker) recordName(id uintptr) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.table[id]; ok {
		return rec.name
	}
	return fmt.Sprintf("lock@%#x", id)
}
