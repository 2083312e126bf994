package locks

import (
	"locksmith/pkg/lkerr"
	"locksmith/pkg/report"
)

// MutexType enumerates the mutex behaviors a caller can request, mirroring
// the host thread library's mutex types.
type MutexType int

const (
	// MutexNormal neither detects self-deadlock nor checks unlock ownership.
	MutexNormal MutexType = iota

	// MutexDefault is the type used when the caller expresses no preference.
	MutexDefault

	// MutexTimed supports timed acquisition; otherwise like MutexNormal.
	MutexTimed

	// MutexAdaptive spins briefly before sleeping; otherwise like MutexNormal.
	MutexAdaptive

	// MutexFast is a historical alias for the plain fast mutex.
	MutexFast

	// MutexErrorCheck returns EDEADLK on self-relock and EPERM when unlocked
	// by a goroutine that does not hold it.
	MutexErrorCheck

	// MutexRecursive permits nested acquisition by the owner. Not supported:
	// the tracker never models recursion.
	MutexRecursive
)

func (ty MutexType) String() string {
	switch ty {
	case MutexNormal:
		return "normal"
	case MutexDefault:
		return "default"
	case MutexTimed:
		return "timed"
	case MutexAdaptive:
		return "adaptive"
	case MutexFast:
		return "fast"
	case MutexErrorCheck:
		return "errorcheck"
	case MutexRecursive:
		return "recursive"
	default:
		return "unknown"
	}
}

// MutexAttr is the attribute set a caller may pass to [Mutex.Init].
type MutexAttr struct {
	Type MutexType
}

// compatibleWithErrCheck lists the mutex types whose contract does not
// require recursion or any other non-error-checking behavior, so they can be
// promoted to MutexErrorCheck. Recursive mutexes are NOT compatible.
var compatibleWithErrCheck = []MutexType{
	MutexTimed,
	MutexAdaptive,
	MutexFast,
	MutexNormal,
	MutexDefault,
}

func isCompatibleWithErrCheck(ty MutexType) bool {
	for _, c := range compatibleWithErrCheck {
		if ty == c {
			return true
		}
	}
	return false
}

// promoteType decides the type a mutex is really initialized with. A nil
// attribute set synthesizes an error-checking mutex; a compatible requested
// type is promoted to error-checking; ErrorCheck passes through unchanged.
// Recursive and unknown types are rejected with EINVAL and a diagnostic.
func promoteType(attr *MutexAttr) (MutexType, error) {
	if attr == nil {
		return MutexErrorCheck, nil
	}
	ty := attr.Type
	if ty == MutexErrorCheck {
		return MutexErrorCheck, nil
	}
	if isCompatibleWithErrCheck(ty) {
		return MutexErrorCheck, nil
	}
	report.Errorf(lkerr.CodeBadArgument, "mutex type %s is not supported", ty)
	return ty, lkerr.EINVAL
}
