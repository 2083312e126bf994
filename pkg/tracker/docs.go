// Package tracker implements the Locksmith lock-tracking engine.
//
// # Overview
//
// The tracker observes every acquisition made through the locksmith lock
// wrappers and maintains, per process, a directed graph whose nodes are
// locks and whose edges represent the "held-while-acquiring" relation: an
// edge A → B exists iff at some prior moment A was held by some goroutine
// while B was acquired. Any acquisition that would introduce a cycle in this
// graph is diagnosed as a potential deadlock (AB-BA inversion) before the
// real acquisition is attempted. The real acquisition always proceeds; the
// policy is observe-and-warn, not prevent.
//
// # Components
//
// The package coordinates three subsystems behind the hook entry points:
//
//   - registry    — process-wide table mapping each lock's address to its
//     lockRecord, including the record's before-set (the incoming edges of
//     the order graph). Supports create-on-first-use for statically
//     initialized locks, explicit init, destroy, and lookup.
//   - order graph — the union of all before-sets. Cycle detection is a
//     bounded depth-first reachability query over the before-sets. Edges are
//     never removed, so a transient inversion leaves permanent evidence.
//   - held sets   — per-goroutine ordered sequences of currently-held locks,
//     most recently acquired last, keyed by goroutine id.
//
// # Hook Contract
//
// The lock wrappers call, in order: [PreLock] (ensure a registry record,
// run the admission check against the caller's held set, emit a diagnostic
// if a cycle would form), the real acquisition, then [PostLock] (on success,
// add an edge X → L for every held X and push L onto the held sequence; on
// failure, nothing). Unlock mirrors this with [PreUnlock] (diagnose
// unlock-of-unheld) and [PostUnlock] (remove from the held sequence), so
// that a failed real unlock leaves the held set intact.
//
// # Locking
//
// Two internal mutexes are used: one guarding the registry table and every
// before-set, and one guarding the goroutine → held-set map. At most one of
// the two is ever held at a time, and neither is held across a real lock
// acquisition. Diagnostic callbacks may run while an internal mutex is held,
// so callbacks must never re-enter the tracker.
package tracker
