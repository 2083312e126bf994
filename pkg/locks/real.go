package locks

import (
	"sync/atomic"
	"time"

	"github.com/petermattis/goid"

	"locksmith/pkg/lkerr"
)

// realMutex is the real sleeping-mutex primitive underneath a [Mutex]
// wrapper. It is a one-slot semaphore with owner tracking, which is what
// lets the error-checking type report EDEADLK on self-relock and EPERM on
// unlock by a non-owner instead of misbehaving silently.
//
// Destroying or re-initializing a realMutex while another goroutine is using
// it is caller error, exactly as with the host thread library.
type realMutex struct {
	ch    chan struct{}
	ty    MutexType
	owner atomic.Int64
}

func realMutexInit(m *realMutex, ty MutexType) error {
	if m.owner.Load() != 0 {
		return lkerr.EBUSY
	}
	m.ch = make(chan struct{}, 1)
	m.ty = ty
	m.owner.Store(0)
	return nil
}

func realMutexDestroy(m *realMutex) error {
	if m.ch == nil {
		return lkerr.EINVAL
	}
	if m.owner.Load() != 0 {
		return lkerr.EBUSY
	}
	m.ch = nil
	return nil
}

func realMutexLock(m *realMutex) error {
	if m.ch == nil {
		return lkerr.EINVAL
	}
	self := goid.Get()
	if m.ty == MutexErrorCheck && m.owner.Load() == self {
		return lkerr.EDEADLK
	}
	m.ch <- struct{}{}
	m.owner.Store(self)
	return nil
}

func realMutexTrylock(m *realMutex) error {
	if m.ch == nil {
		return lkerr.EINVAL
	}
	select {
	case m.ch <- struct{}{}:
		m.owner.Store(goid.Get())
		return nil
	default:
		return lkerr.EBUSY
	}
}

func realMutexTimedlock(m *realMutex, deadline time.Time) error {
	if m.ch == nil {
		return lkerr.EINVAL
	}
	self := goid.Get()
	if m.ty == MutexErrorCheck && m.owner.Load() == self {
		return lkerr.EDEADLK
	}

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case m.ch <- struct{}{}:
		m.owner.Store(self)
		return nil
	case <-timer.C:
		return lkerr.ETIMEDOUT
	}
}

func realMutexUnlock(m *realMutex) error {
	if m.ch == nil {
		return lkerr.EINVAL
	}
	if m.ty == MutexErrorCheck && m.owner.Load() != goid.Get() {
		return lkerr.EPERM
	}
	m.owner.Store(0)
	<-m.ch
	return nil
}

// spinBackoff is how long a contended spinlock sleeps between acquisition
// attempts.
const spinBackoff = 10 * time.Microsecond

// realSpin is the real spinlock primitive underneath a [SpinLock] wrapper:
// a compare-and-swap on a word, with a short sleep between attempts so a
// long-held lock does not burn a core.
type realSpin struct {
	val    atomic.Int32
	inited bool
}

func realSpinInit(s *realSpin, shared bool) error {
	// Process-shared spinlocks have no meaning inside a single process;
	// the flag is accepted and ignored.
	_ = shared
	s.val.Store(0)
	s.inited = true
	return nil
}

func realSpinDestroy(s *realSpin) error {
	if !s.inited {
		return lkerr.EINVAL
	}
	if s.val.Load() != 0 {
		return lkerr.EBUSY
	}
	s.inited = false
	return nil
}

func realSpinLock(s *realSpin) error {
	if !s.inited {
		return lkerr.EINVAL
	}
	for {
		if s.val.CompareAndSwap(0, 1) {
			return nil
		}
		time.Sleep(spinBackoff)
	}
}

func realSpinTrylock(s *realSpin) error {
	if !s.inited {
		return lkerr.EINVAL
	}
	if s.val.CompareAndSwap(0, 1) {
		return nil
	}
	return lkerr.EBUSY
}

func realSpinUnlock(s *realSpin) error {
	if !s.inited {
		return lkerr.EINVAL
	}
	if s.val.CompareAndSwap(1, 0) {
		return nil
	}
	return lkerr.EPERM
}
