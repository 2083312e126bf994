package tracker

import (
	"sync"
	"sync/atomic"
)

// Tracker is one lock-tracking engine: a registry of lock records, the order
// graph stored in their before-sets, and the per-goroutine held sets.
//
// A process normally uses the package-level functions, which operate on a
// single shared instance. Separate instances exist so tests can run against
// a clean engine.
type Tracker struct {
	// mu guards table and the before-set of every record in it.
	// Operations under mu are short and CPU-only.
	mu    sync.Mutex
	table map[uintptr]*lockRecord

	// threadMu guards threads and the held sequence of every state in it.
	// Never held at the same time as mu.
	threadMu sync.Mutex
	threads  map[int64]*threadState

	acquisitions atomic.Uint64
	diagnostics  atomic.Uint64
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		table:   make(map[uintptr]*lockRecord),
		threads: make(map[int64]*threadState),
	}
}

// std is the process-wide engine used by the lock wrappers.
var std = New()

// OptionalInit registers a lock on the shared engine. See Tracker.OptionalInit.
func OptionalInit(id uintptr, name string, kind Kind) error {
	return std.OptionalInit(id, name, kind)
}

// ExplicitInit registers a lock on the shared engine. See Tracker.ExplicitInit.
func ExplicitInit(id uintptr, name string, kind Kind) error {
	return std.ExplicitInit(id, name, kind)
}

// Destroy removes a lock from the shared engine. See Tracker.Destroy.
func Destroy(id uintptr) error { return std.Destroy(id) }

// Lookup fetches a record snapshot from the shared engine. See Tracker.Lookup.
func Lookup(id uintptr) (RecordInfo, error) { return std.Lookup(id) }

// PreLock runs the admission check on the shared engine. See Tracker.PreLock.
func PreLock(id uintptr, name string, kind Kind) error {
	return std.PreLock(id, name, kind)
}

// PostLock records the outcome of a real acquisition on the shared engine.
// See Tracker.PostLock.
func PostLock(id uintptr, realErr error) { std.PostLock(id, realErr) }

// PreUnlock verifies ownership on the shared engine. See Tracker.PreUnlock.
func PreUnlock(id uintptr) error { return std.PreUnlock(id) }

// PostUnlock removes a lock from the caller's held set on the shared engine.
// See Tracker.PostUnlock.
func PostUnlock(id uintptr) { std.PostUnlock(id) }

// SetThreadName names the calling goroutine in diagnostics emitted by the
// shared engine.
func SetThreadName(name string) { std.SetThreadName(name) }

// ThreadName returns the calling goroutine's diagnostic name on the shared
// engine.
func ThreadName() string { return std.ThreadName() }

// HeldSnapshot returns the ids currently held by the calling goroutine on
// the shared engine, in acquisition order.
func HeldSnapshot() []uintptr { return std.HeldSnapshot() }

// GetStats returns counters for the shared engine.
func GetStats() Stats { return std.Stats() }
