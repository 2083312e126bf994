package locks

import (
	"errors"
	"testing"
	"time"

	"locksmith/pkg/lkerr"
	"locksmith/pkg/report"
	"locksmith/pkg/tracker"
)

func TestMutexInitTeardown(t *testing.T) {
	var m Mutex
	if err := m.Init("test_mutex_1", nil); err != nil {
		t.Fatalf("Init = %v", err)
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy = %v", err)
	}
}

func TestMutexStaticInitTeardown(t *testing.T) {
	// The zero value is the static initializer; destroying it without any
	// interaction must succeed even though the tracker never saw it.
	var m Mutex
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy of static mutex = %v", err)
	}
}

func TestMutexLockSimple(t *testing.T) {
	var m Mutex
	if err := m.Init("simple_mutex_1", nil); err != nil {
		t.Fatalf("Init = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := m.Lock(); err != nil {
			t.Fatalf("Lock #%d = %v", i, err)
		}
		if err := m.Unlock(); err != nil {
			t.Fatalf("Unlock #%d = %v", i, err)
		}
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy = %v", err)
	}
}

func TestMutexLockSimpleStatic(t *testing.T) {
	var m Mutex
	if err := m.Lock(); err != nil {
		t.Fatalf("Lock = %v", err)
	}
	if err := m.Unlock(); err != nil {
		t.Fatalf("Unlock = %v", err)
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy = %v", err)
	}
}

func TestMutexSelfDeadlockReturnsEDEADLK(t *testing.T) {
	rec := &report.Recorder{}
	report.SetCallback(rec.Record)
	defer report.SetCallback(nil)

	var m Mutex
	if err := m.Init("self_deadlock", &MutexAttr{Type: MutexDefault}); err != nil {
		t.Fatalf("Init = %v", err)
	}
	if err := m.Lock(); err != nil {
		t.Fatalf("Lock = %v", err)
	}

	// Promotion to error-checking turns the self-deadlock into an error
	// from the real mutex; the tracker emits nothing and the held set is
	// untouched.
	if err := m.Lock(); !errors.Is(err, lkerr.EDEADLK) {
		t.Fatalf("second Lock = %v, want EDEADLK", err)
	}
	if got := rec.Find(lkerr.EDEADLK); got != 0 {
		t.Errorf("tracker emitted %d EDEADLK diagnostics, want 0", got)
	}
	if held := tracker.HeldSnapshot(); len(held) != 1 {
		t.Errorf("held %d locks after failed relock, want 1", len(held))
	}

	if err := m.Unlock(); err != nil {
		t.Fatalf("Unlock = %v", err)
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy = %v", err)
	}
}

func TestMutexUnlockNotHeld(t *testing.T) {
	rec := &report.Recorder{}
	report.SetCallback(rec.Record)
	defer report.SetCallback(nil)

	var m Mutex
	if err := m.Init("unlock_not_held", nil); err != nil {
		t.Fatalf("Init = %v", err)
	}

	// The diagnostic fires and the real unlock's EPERM is what we get back.
	if err := m.Unlock(); !errors.Is(err, lkerr.EPERM) {
		t.Fatalf("Unlock = %v, want EPERM", err)
	}
	if got := rec.Find(lkerr.EPERM); got != 1 {
		t.Errorf("Find(EPERM) = %d, want 1", got)
	}

	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy = %v", err)
	}
}

func TestMutexTryLockBusy(t *testing.T) {
	var m Mutex
	if err := m.Init("trylock_busy", nil); err != nil {
		t.Fatalf("Init = %v", err)
	}

	locked := make(chan struct{})
	done := make(chan struct{})
	finished := make(chan error, 1)
	go func() {
		if err := m.Lock(); err != nil {
			finished <- err
			close(locked)
			return
		}
		close(locked)
		<-done
		finished <- m.Unlock()
	}()

	<-locked
	if err := m.TryLock(); !errors.Is(err, lkerr.EBUSY) {
		t.Errorf("TryLock while held elsewhere = %v, want EBUSY", err)
	}
	if held := tracker.HeldSnapshot(); len(held) != 0 {
		t.Errorf("failed trylock left held set %v", held)
	}

	close(done)
	if err := <-finished; err != nil {
		t.Fatalf("holder goroutine: %v", err)
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy = %v", err)
	}
}

func TestMutexTimedLock(t *testing.T) {
	var m Mutex
	if err := m.Init("timedlock", nil); err != nil {
		t.Fatalf("Init = %v", err)
	}

	locked := make(chan struct{})
	done := make(chan struct{})
	finished := make(chan error, 1)
	go func() {
		if err := m.Lock(); err != nil {
			finished <- err
			close(locked)
			return
		}
		close(locked)
		<-done
		finished <- m.Unlock()
	}()

	<-locked
	if err := m.TimedLock(time.Now().Add(20 * time.Millisecond)); !errors.Is(err, lkerr.ETIMEDOUT) {
		t.Errorf("TimedLock while held = %v, want ETIMEDOUT", err)
	}

	close(done)
	if err := <-finished; err != nil {
		t.Fatalf("holder goroutine: %v", err)
	}

	if err := m.TimedLock(time.Now().Add(time.Second)); err != nil {
		t.Fatalf("TimedLock on free mutex = %v", err)
	}
	if err := m.Unlock(); err != nil {
		t.Fatalf("Unlock = %v", err)
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy = %v", err)
	}
}

func TestMutexDestroyWhileLocked(t *testing.T) {
	rec := &report.Recorder{}
	report.SetCallback(rec.Record)
	defer report.SetCallback(nil)

	var m Mutex
	if err := m.Init("destroy_while_locked", nil); err != nil {
		t.Fatalf("Init = %v", err)
	}
	if err := m.Lock(); err != nil {
		t.Fatalf("Lock = %v", err)
	}

	if err := m.Destroy(); !errors.Is(err, lkerr.EBUSY) {
		t.Fatalf("Destroy while locked = %v, want EBUSY", err)
	}
	if got := rec.Find(lkerr.EBUSY); got != 1 {
		t.Errorf("Find(EBUSY) = %d, want 1", got)
	}

	if err := m.Unlock(); err != nil {
		t.Fatalf("Unlock = %v", err)
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy after unlock = %v", err)
	}
}

func TestMutexDoubleInitDiagnosed(t *testing.T) {
	rec := &report.Recorder{}
	report.SetCallback(rec.Record)
	defer report.SetCallback(nil)

	var m Mutex
	if err := m.Init("double_init", nil); err != nil {
		t.Fatalf("first Init = %v", err)
	}
	if err := m.Init("double_init", nil); err != nil {
		t.Fatalf("second Init = %v", err)
	}
	if got := rec.Find(lkerr.EINVAL); got != 1 {
		t.Errorf("Find(EINVAL) = %d, want 1", got)
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy = %v", err)
	}
}

func TestMutexRecursiveRejected(t *testing.T) {
	rec := &report.Recorder{}
	report.SetCallback(rec.Record)
	defer report.SetCallback(nil)

	var m Mutex
	err := m.Init("recursive", &MutexAttr{Type: MutexRecursive})
	if !errors.Is(err, lkerr.EINVAL) {
		t.Fatalf("Init(recursive) = %v, want EINVAL", err)
	}
	if got := rec.Find(lkerr.EINVAL); got != 1 {
		t.Errorf("Find(EINVAL) = %d, want 1", got)
	}
}

func TestPromoteType(t *testing.T) {
	rec := &report.Recorder{}
	report.SetCallback(rec.Record)
	defer report.SetCallback(nil)

	compatible := []MutexType{MutexNormal, MutexDefault, MutexTimed, MutexAdaptive, MutexFast}
	for _, ty := range compatible {
		got, err := promoteType(&MutexAttr{Type: ty})
		if err != nil || got != MutexErrorCheck {
			t.Errorf("promoteType(%s) = %v, %v; want errorcheck, nil", ty, got, err)
		}
	}

	if got, err := promoteType(nil); err != nil || got != MutexErrorCheck {
		t.Errorf("promoteType(nil) = %v, %v; want errorcheck, nil", got, err)
	}
	if got, err := promoteType(&MutexAttr{Type: MutexErrorCheck}); err != nil || got != MutexErrorCheck {
		t.Errorf("promoteType(errorcheck) = %v, %v; want errorcheck, nil", got, err)
	}
	if _, err := promoteType(&MutexAttr{Type: MutexRecursive}); !errors.Is(err, lkerr.EINVAL) {
		t.Errorf("promoteType(recursive) = %v, want EINVAL", err)
	}
}
