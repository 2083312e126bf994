package locks

import (
	"errors"
	"unsafe"

	"locksmith/pkg/lkerr"
	"locksmith/pkg/tracker"
)

// SpinLock is a tracked busy-waiting lock. Unlike Mutex it has no static
// initializer; Init must run before first use, as with the host thread
// library's spinlocks.
//
// A SpinLock must not be copied after first use: its address is its
// identity in the order graph.
type SpinLock struct {
	real realSpin
	name string
}

func (s *SpinLock) id() uintptr {
	return uintptr(unsafe.Pointer(s))
}

// Init initializes the spinlock. The shared flag mirrors the process-shared
// flag of the host library and is ignored inside a single process.
func (s *SpinLock) Init(name string, shared bool) error {
	loadHandlers()
	s.name = name

	if err := tracker.ExplicitInit(s.id(), name, tracker.KindSpin); err != nil {
		return err
	}
	if err := rSpinInit(&s.real, shared); err != nil {
		_ = tracker.Destroy(s.id())
		return err
	}
	return nil
}

// Destroy tears the spinlock down. EBUSY when still held; the record is
// kept in that case.
func (s *SpinLock) Destroy() error {
	loadHandlers()

	err := tracker.Destroy(s.id())
	if err != nil && !errors.Is(err, lkerr.ENOENT) {
		return err
	}
	return rSpinDestroy(&s.real)
}

// Lock spins until the lock is acquired.
func (s *SpinLock) Lock() error {
	loadHandlers()
	id := s.id()

	if err := tracker.PreLock(id, s.name, tracker.KindSpin); err != nil {
		return err
	}
	err := rSpinLock(&s.real)
	tracker.PostLock(id, err)
	return err
}

// TryLock makes a single acquisition attempt, returning EBUSY on contention.
func (s *SpinLock) TryLock() error {
	loadHandlers()
	id := s.id()

	if err := tracker.PreLock(id, s.name, tracker.KindSpin); err != nil {
		return err
	}
	err := rSpinTrylock(&s.real)
	tracker.PostLock(id, err)
	return err
}

// Unlock releases the spinlock. Unlock of a spinlock the caller does not
// hold is diagnosed; the real unlock's return value is propagated.
func (s *SpinLock) Unlock() error {
	loadHandlers()
	id := s.id()

	_ = tracker.PreUnlock(id)
	if err := rSpinUnlock(&s.real); err != nil {
		return err
	}
	tracker.PostUnlock(id)
	return nil
}

// Name returns the diagnostic name given at Init.
func (s *SpinLock) Name() string {
	return s.name
}
