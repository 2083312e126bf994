package report

import (
	"errors"
	"sync"
)

// Recorder is a Callback implementation that remembers every diagnostic it
// receives. Test code installs it with SetCallback(r.Record) and asserts on
// the recorded errors afterward.
type Recorder struct {
	mu   sync.Mutex
	errs []error
	msgs []string
}

// Record stores one diagnostic. It has the Callback signature.
func (r *Recorder) Record(err error, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
	r.msgs = append(r.msgs, msg)
}

// Find returns how many recorded diagnostics match target.
func (r *Recorder) Find(target error) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, err := range r.errs {
		if errors.Is(err, target) {
			n++
		}
	}
	return n
}

// Messages returns a copy of the recorded message texts, in arrival order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Clear forgets all recorded diagnostics.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = nil
	r.msgs = nil
}
