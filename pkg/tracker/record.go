package tracker

import (
	"fmt"
	"time"
)

// Kind distinguishes sleeping mutexes from spinlocks. It only affects
// diagnostic text; the order graph treats both identically.
type Kind int

const (
	// KindSleep is an ordinary (sleeping) mutex.
	KindSleep Kind = iota

	// KindSpin is a busy-waiting spinlock.
	KindSpin
)

func (k Kind) String() string {
	switch k {
	case KindSleep:
		return "mutex"
	case KindSpin:
		return "spinlock"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// lockRecord is the tracker's view of one distinct lock. The id is the
// address of the caller's lock object, used purely as an opaque token; the
// tracker never dereferences it.
//
// The before set holds the ids of every lock ever observed held at the
// moment this lock was acquired — the incoming edges of the order graph.
// Entries are added by PostLock and never removed, not even when the lock
// named by an entry is destroyed.
type lockRecord struct {
	id        uintptr
	name      string
	kind      Kind
	createdAt time.Time
	nlock     uint64
	before    map[uintptr]struct{}
}

func newLockRecord(id uintptr, name string, kind Kind) *lockRecord {
	if name == "" {
		name = fmt.Sprintf("%s@%#x", kind, id)
	}
	return &lockRecord{
		id:        id,
		name:      name,
		kind:      kind,
		createdAt: time.Now(),
		before:    make(map[uintptr]struct{}),
	}
}

// RecordInfo is a point-in-time snapshot of a lock record, as returned by
// Lookup. Before lists the ids in the record's before-set in no particular
// order.
type RecordInfo struct {
	ID        uintptr
	Name      string
	Kind      Kind
	CreatedAt time.Time
	NLock     uint64
	Before    []uintptr
}

// heldEntry is one element of a goroutine's held sequence. Depth is always 1
// for the lock types in scope; recursive locks are not modeled.
type heldEntry struct {
	id         uintptr
	depth      int
	acquiredAt time.Time
}
