// Package lkerr defines the Locksmith diagnostic codes and the canonical
// errors the lock wrappers return.
//
// Every diagnostic delivered through the report callback carries one of the
// Code values below. The wrappers themselves return the canonical errno-style
// sentinel errors (EDEADLK, EBUSY, ...) so that callers can filter with
// errors.Is regardless of which layer produced the failure.
package lkerr

import (
	"errors"
	"fmt"
)

// Code is a numeric Locksmith diagnostic code. Codes are negative so they
// can never be confused with an errno value.
type Code int

const (
	// CodeOOM reports an out-of-memory error inside the tracker.
	CodeOOM Code = -1

	// CodeLockOperFailed reports that a real lock operation did not succeed.
	CodeLockOperFailed Code = -2

	// CodeBadOrdering reports that bad lock ordering was detected.
	// This may cause deadlocks in the future if it is not corrected.
	CodeBadOrdering Code = -3

	// CodeDestroyWhileInUse reports an attempt to destroy a lock while some
	// goroutine still held it.
	CodeDestroyWhileInUse Code = -4

	// CodeCreateWhileInUse reports an attempt to initialize a lock that is
	// already live.
	CodeCreateWhileInUse Code = -5

	// CodeMultipleDestroy reports an attempt to destroy a lock more than once.
	CodeMultipleDestroy Code = -6

	// CodeNotFound reports an operation on a lock the tracker has never seen.
	CodeNotFound Code = -7

	// CodeNotOwned reports an unlock of a lock the caller does not hold.
	CodeNotOwned Code = -8

	// CodeBadArgument reports an invalid argument, such as an unsupported
	// mutex type.
	CodeBadArgument Code = -9
)

// Canonical errors surfaced by the lock wrappers. Names follow the POSIX
// errno values the original thread library would return.
var (
	EDEADLK   = errors.New("resource deadlock avoided")
	EBUSY     = errors.New("device or resource busy")
	ENOENT    = errors.New("no such lock")
	EINVAL    = errors.New("invalid argument")
	EPERM     = errors.New("operation not permitted")
	ENOMEM    = errors.New("cannot allocate memory")
	ETIMEDOUT = errors.New("lock wait timed out")
	EIO       = errors.New("input/output error")
)

// ToErrno maps a Locksmith diagnostic code to the canonical error a caller
// of the wrapped primitive would observe.
func (c Code) ToErrno() error {
	switch c {
	case CodeOOM:
		return ENOMEM
	case CodeBadOrdering:
		return EDEADLK
	case CodeDestroyWhileInUse:
		return EBUSY
	case CodeNotFound:
		return ENOENT
	case CodeCreateWhileInUse, CodeBadArgument:
		return EINVAL
	case CodeNotOwned:
		return EPERM
	default:
		return EIO
	}
}

// String returns the human-readable description of a diagnostic code.
func (c Code) String() string {
	switch c {
	case CodeOOM:
		return "out of memory"
	case CodeLockOperFailed:
		return "a lock operation failed"
	case CodeBadOrdering:
		return "bad lock ordering was detected"
	case CodeDestroyWhileInUse:
		return "there was an attempt to destroy a lock while it was in use"
	case CodeCreateWhileInUse:
		return "there was an attempt to create a lock while the memory was still in use for a different lock"
	case CodeMultipleDestroy:
		return "there was an attempt to destroy a lock more than once"
	case CodeNotFound:
		return "the lock was never initialized"
	case CodeNotOwned:
		return "the caller does not hold the lock"
	case CodeBadArgument:
		return "invalid argument"
	default:
		return fmt.Sprintf("unknown error %d", int(c))
	}
}
