// Package locks provides the Locksmith lock types: drop-in mutex and
// spinlock implementations whose every operation is observed by the
// lock-ordering tracker.
//
// # Overview
//
// [Mutex] and [SpinLock] follow the classic wrapper contract: each operation
// calls the tracker's pre-hook, then the real primitive, then the tracker's
// post-hook, and returns exactly what the real primitive returned. The
// tracker diagnoses lock-order inversions, unlock-of-unheld and
// destroy-while-held through the report callback; it never changes the
// outcome of an operation.
//
// The zero value of a Mutex is usable without Init, like a statically
// initialized mutex: the first operation registers it with the tracker
// (optional-init) and initializes it as an error-checking mutex.
//
// # Type Promotion
//
// Before initializing a mutex, a requested type that is compatible with
// error checking (Normal, Default, Timed, Adaptive, Fast) is promoted to
// ErrorCheck for extra safety: self-deadlock then returns EDEADLK instead of
// hanging, and unlock by a non-owner returns EPERM. Recursive mutexes are
// not compatible and are rejected. When no attribute set is supplied, an
// error-checking mutex is created.
//
// # The Real Primitives
//
// The real implementations behind the wrappers are obtained by name through
// a single narrow lookup seam (see resolveNext), mirroring how an
// interposing build resolves the "next" symbol from the host loader.
// Failure to resolve an entry point is fatal at first use: continuing would
// silently disable tracking.
package locks
