package locks

import (
	"errors"
	"sync"
	"time"
	"unsafe"

	"locksmith/pkg/lkerr"
	"locksmith/pkg/tracker"
)

// Mutex is a tracked sleeping mutex. The zero value is ready to use and
// behaves like a statically initialized error-checking mutex; Init is only
// needed to pick a name or a non-default attribute set.
//
// A Mutex must not be copied after first use: its address is its identity
// in the order graph.
type Mutex struct {
	real realMutex
	name string
	once sync.Once
}

// id returns the opaque token identifying this mutex in the tracker: its
// address. The tracker never dereferences it.
func (m *Mutex) id() uintptr {
	return uintptr(unsafe.Pointer(m))
}

// ensure performs static initialization on first use: resolve the real
// entry points and set up the real mutex as error-checking. Registration
// with the tracker happens lazily in the pre-hooks (optional-init).
func (m *Mutex) ensure() {
	m.once.Do(func() {
		loadHandlers()
		if m.real.ch == nil {
			_ = rMutexInit(&m.real, MutexErrorCheck)
		}
	})
}

// Init initializes the mutex with a diagnostic name and an optional
// attribute set. A nil attr yields an error-checking mutex; a compatible
// requested type is promoted to error-checking (see promoteType).
//
// Initializing a mutex that is already live is diagnosed as double-init;
// the init still proceeds. When the real initialization fails, the tracker
// registration is rolled back.
func (m *Mutex) Init(name string, attr *MutexAttr) error {
	loadHandlers()

	ty, err := promoteType(attr)
	if err != nil {
		return err
	}

	// Mark static initialization as done so a later operation does not
	// re-initialize the real mutex underneath us.
	m.once.Do(func() {})
	m.name = name

	if err := tracker.ExplicitInit(m.id(), name, tracker.KindSleep); err != nil {
		return err
	}
	if err := rMutexInit(&m.real, ty); err != nil {
		_ = tracker.Destroy(m.id())
		return err
	}
	return nil
}

// Destroy tears the mutex down. Destroying a mutex some goroutine still
// holds fails with EBUSY and leaves both the tracker record and the real
// mutex intact. A mutex that was only ever statically initialized and never
// used has no tracker record; that is tolerated.
func (m *Mutex) Destroy() error {
	m.ensure()

	err := tracker.Destroy(m.id())
	if err != nil && !errors.Is(err, lkerr.ENOENT) {
		return err
	}
	return rMutexDestroy(&m.real)
}

// Lock acquires the mutex, sleeping until it is available. A lock-order
// inversion is diagnosed before the acquisition and does not prevent it.
// On an error-checking mutex, relocking from the owning goroutine returns
// EDEADLK.
func (m *Mutex) Lock() error {
	m.ensure()
	id := m.id()

	if err := tracker.PreLock(id, m.name, tracker.KindSleep); err != nil {
		return err
	}
	err := rMutexLock(&m.real)
	tracker.PostLock(id, err)
	return err
}

// TryLock acquires the mutex if it is free, and returns EBUSY otherwise.
// A failed trylock changes neither the order graph nor the held set.
func (m *Mutex) TryLock() error {
	m.ensure()
	id := m.id()

	if err := tracker.PreLock(id, m.name, tracker.KindSleep); err != nil {
		return err
	}
	err := rMutexTrylock(&m.real)
	tracker.PostLock(id, err)
	return err
}

// TimedLock acquires the mutex, giving up with ETIMEDOUT once deadline
// passes.
func (m *Mutex) TimedLock(deadline time.Time) error {
	m.ensure()
	id := m.id()

	if err := tracker.PreLock(id, m.name, tracker.KindSleep); err != nil {
		return err
	}
	err := rMutexTimedlock(&m.real, deadline)
	tracker.PostLock(id, err)
	return err
}

// Unlock releases the mutex. Unlocking a mutex the caller does not hold is
// diagnosed, but the real unlock still runs and its return value (EPERM on
// an error-checking mutex) is what the caller sees. The held set is only
// updated after the real unlock succeeds.
func (m *Mutex) Unlock() error {
	m.ensure()
	id := m.id()

	_ = tracker.PreUnlock(id)
	if err := rMutexUnlock(&m.real); err != nil {
		return err
	}
	tracker.PostUnlock(id)
	return nil
}

// Name returns the diagnostic name given at Init, or "" for a statically
// initialized mutex.
func (m *Mutex) Name() string {
	return m.name
}
