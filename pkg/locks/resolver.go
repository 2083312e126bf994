package locks

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// handlers maps entry-point names to real primitive implementations. This
// table plays the role of the host loader in an interposing build: the
// wrappers never call the real primitives directly, they call whatever
// resolveNext handed them at load time.
var handlers = map[string]any{
	"mutex_init":      realMutexInit,
	"mutex_destroy":   realMutexDestroy,
	"mutex_lock":      realMutexLock,
	"mutex_trylock":   realMutexTrylock,
	"mutex_timedlock": realMutexTimedlock,
	"mutex_unlock":    realMutexUnlock,
	"spin_init":       realSpinInit,
	"spin_destroy":    realSpinDestroy,
	"spin_lock":       realSpinLock,
	"spin_trylock":    realSpinTrylock,
	"spin_unlock":     realSpinUnlock,
}

// resolveNext looks up the real entry point registered under name.
func resolveNext(name string) (any, error) {
	fn, ok := handlers[name]
	if !ok || fn == nil {
		return nil, fmt.Errorf("no real implementation of %q", name)
	}
	return fn, nil
}

// The resolved entry points. Populated once by loadHandlers.
var (
	rMutexInit      func(*realMutex, MutexType) error
	rMutexDestroy   func(*realMutex) error
	rMutexLock      func(*realMutex) error
	rMutexTrylock   func(*realMutex) error
	rMutexTimedlock func(*realMutex, time.Time) error
	rMutexUnlock    func(*realMutex) error
	rSpinInit       func(*realSpin, bool) error
	rSpinDestroy    func(*realSpin) error
	rSpinLock       func(*realSpin) error
	rSpinTrylock    func(*realSpin) error
	rSpinUnlock     func(*realSpin) error
)

var loadOnce sync.Once

// loadHandlers resolves every real entry point the wrappers need. Called on
// first use of any lock. An unresolvable entry point is fatal: continuing
// would silently disable tracking.
func loadHandlers() {
	loadOnce.Do(func() {
		rMutexInit = mustResolve[func(*realMutex, MutexType) error]("mutex_init")
		rMutexDestroy = mustResolve[func(*realMutex) error]("mutex_destroy")
		rMutexLock = mustResolve[func(*realMutex) error]("mutex_lock")
		rMutexTrylock = mustResolve[func(*realMutex) error]("mutex_trylock")
		rMutexTimedlock = mustResolve[func(*realMutex, time.Time) error]("mutex_timedlock")
		rMutexUnlock = mustResolve[func(*realMutex) error]("mutex_unlock")
		rSpinInit = mustResolve[func(*realSpin, bool) error]("spin_init")
		rSpinDestroy = mustResolve[func(*realSpin) error]("spin_destroy")
		rSpinLock = mustResolve[func(*realSpin) error]("spin_lock")
		rSpinTrylock = mustResolve[func(*realSpin) error]("spin_trylock")
		rSpinUnlock = mustResolve[func(*realSpin) error]("spin_unlock")
	})
}

func mustResolve[T any](name string) T {
	fn, err := resolveNext(name)
	if err != nil {
		fatalf("locksmith: %v", err)
	}
	typed, ok := fn.(T)
	if !ok {
		fatalf("locksmith: real implementation of %q has the wrong signature", name)
	}
	return typed
}

// fatalf reports an unrecoverable initialization failure and aborts the
// process.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
