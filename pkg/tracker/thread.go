package tracker

import (
	"fmt"
	"time"

	"github.com/petermattis/goid"
)

// threadState is the per-goroutine slice of tracker state: the ordered
// sequence of currently-held locks (most recently acquired last) and an
// optional diagnostic name. A state is only ever mutated by its owning
// goroutine, but it is discovered through the shared map, so all access
// happens under Tracker.threadMu.
type threadState struct {
	held []heldEntry
	name string
}

// state returns the calling goroutine's thread state, creating it when
// create is set. Caller must hold t.threadMu.
func (t *Tracker) state(gid int64, create bool) *threadState {
	ts, ok := t.threads[gid]
	if !ok && create {
		ts = &threadState{}
		t.threads[gid] = ts
	}
	return ts
}

// prune drops the goroutine's state once it holds nothing and has no name.
// Goroutine exit is invisible to a library, so an empty state is the
// teardown point. Caller must hold t.threadMu.
func (t *Tracker) prune(gid int64, ts *threadState) {
	if len(ts.held) == 0 && ts.name == "" {
		delete(t.threads, gid)
	}
}

// heldIDs snapshots the calling goroutine's held sequence in acquisition
// order.
func (t *Tracker) heldIDs() []uintptr {
	gid := goid.Get()

	t.threadMu.Lock()
	defer t.threadMu.Unlock()

	ts := t.state(gid, false)
	if ts == nil || len(ts.held) == 0 {
		return nil
	}
	ids := make([]uintptr, len(ts.held))
	for i, e := range ts.held {
		ids[i] = e.id
	}
	return ids
}

// HeldSnapshot returns the ids of the locks the calling goroutine currently
// holds, in acquisition order.
func (t *Tracker) HeldSnapshot() []uintptr {
	return t.heldIDs()
}

// push appends id to the calling goroutine's held sequence.
func (t *Tracker) push(id uintptr) {
	gid := goid.Get()

	t.threadMu.Lock()
	defer t.threadMu.Unlock()

	ts := t.state(gid, true)
	ts.held = append(ts.held, heldEntry{id: id, depth: 1, acquiredAt: time.Now()})
}

// holds reports whether the calling goroutine's held sequence contains id.
func (t *Tracker) holds(id uintptr) bool {
	gid := goid.Get()

	t.threadMu.Lock()
	defer t.threadMu.Unlock()

	ts := t.state(gid, false)
	if ts == nil {
		return false
	}
	for _, e := range ts.held {
		if e.id == id {
			return true
		}
	}
	return false
}

// pop removes id from the calling goroutine's held sequence. It is a no-op
// when the goroutine does not hold id.
func (t *Tracker) pop(id uintptr) {
	gid := goid.Get()

	t.threadMu.Lock()
	defer t.threadMu.Unlock()

	ts := t.state(gid, false)
	if ts == nil {
		return
	}
	for i := len(ts.held) - 1; i >= 0; i-- {
		if ts.held[i].id == id {
			ts.held = append(ts.held[:i], ts.held[i+1:]...)
			break
		}
	}
	t.prune(gid, ts)
}

// findHolder scans every goroutine's held sequence for id. Used by Destroy
// to refuse tearing down a lock that is still held somewhere.
func (t *Tracker) findHolder(id uintptr) (string, bool) {
	t.threadMu.Lock()
	defer t.threadMu.Unlock()

	for gid, ts := range t.threads {
		for _, e := range ts.held {
			if e.id == id {
				return threadLabel(gid, ts.name), true
			}
		}
	}
	return "", false
}

// SetThreadName attaches a diagnostic name to the calling goroutine. The
// name appears in inversion and ownership diagnostics in place of the bare
// goroutine id.
func (t *Tracker) SetThreadName(name string) {
	gid := goid.Get()

	t.threadMu.Lock()
	defer t.threadMu.Unlock()

	ts := t.state(gid, true)
	ts.name = name
	t.prune(gid, ts)
}

// ThreadName returns the calling goroutine's diagnostic name, or the empty
// string when none was set.
func (t *Tracker) ThreadName() string {
	gid := goid.Get()

	t.threadMu.Lock()
	defer t.threadMu.Unlock()

	ts := t.state(gid, false)
	if ts == nil {
		return ""
	}
	return ts.name
}

// callerLabel returns the calling goroutine's diagnostic label.
func (t *Tracker) callerLabel() string {
	gid := goid.Get()

	t.threadMu.Lock()
	defer t.threadMu.Unlock()

	ts := t.state(gid, false)
	if ts == nil {
		return threadLabel(gid, "")
	}
	return threadLabel(gid, ts.name)
}

func threadLabel(gid int64, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("goroutine-%d", gid)
}
