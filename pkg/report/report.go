// Package report delivers Locksmith diagnostics.
//
// Diagnostics flow through a single process-wide callback. The host installs
// one with SetCallback; when none is installed, a default sink writes to the
// standard error stream (or wherever the LKSMITH_LOG environment variable
// points). Callbacks may be invoked while Locksmith internal locks are held,
// so a callback must never re-enter Locksmith by taking a tracked lock.
package report

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"locksmith/pkg/lkerr"
)

// maxMsgLen bounds the length of a formatted diagnostic message.
const maxMsgLen = 4096

// filePrefix selects a log file target in LKSMITH_LOG, e.g.
// LKSMITH_LOG=file:///tmp/locksmith.log.
const filePrefix = "file://"

// Callback is the signature of a diagnostic reporting callback.
//
// err is the canonical error for the condition (lkerr.EDEADLK for an
// ordering inversion, lkerr.EBUSY for destroy-while-held, and so on) and msg
// is the human-readable description.
type Callback func(err error, msg string)

var (
	cbMu sync.Mutex
	cb   Callback

	sinkOnce sync.Once
	sink     *logrus.Logger
)

// SetCallback installs the diagnostic callback. Passing nil restores the
// default sink. Safe to call from any goroutine.
func SetCallback(fn Callback) {
	cbMu.Lock()
	cb = fn
	cbMu.Unlock()
}

// Errorf formats a diagnostic and delivers it to the installed callback, or
// to the default sink when no callback is installed. The message is bounded
// to maxMsgLen bytes.
//
// The callback pointer is copied out under the internal lock and invoked
// after it is released, so a callback can itself call SetCallback without
// deadlocking.
func Errorf(code lkerr.Code, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if len(msg) > maxMsgLen {
		msg = msg[:maxMsgLen]
	}

	cbMu.Lock()
	fn := cb
	cbMu.Unlock()

	if fn != nil {
		fn(code.ToErrno(), msg)
		return
	}
	logger().WithField("code", int(code)).Error(msg)
}

// logger returns the default sink, selecting its target from LKSMITH_LOG on
// first use.
func logger() *logrus.Logger {
	sinkOnce.Do(func() {
		sink = logrus.New()
		sink.SetOutput(os.Stderr)

		target := os.Getenv("LKSMITH_LOG")
		switch {
		case target == "" || target == "stderr":
			// Already pointed at stderr.
		case target == "stdout":
			sink.SetOutput(os.Stdout)
		case strings.HasPrefix(target, filePrefix):
			name := target[len(filePrefix):]
			f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "locksmith: unable to open %q: %v; redirecting output to stderr\n", name, err)
				return
			}
			sink.SetOutput(f)
		default:
			fmt.Fprintf(os.Stderr, "locksmith: unable to understand log target %q; redirecting output to stderr\n", target)
		}
	})
	return sink
}
