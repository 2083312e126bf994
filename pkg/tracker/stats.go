package tracker

// Stats is a point-in-time snapshot of the engine's counters.
type Stats struct {
	// LiveRecords is the number of locks currently registered.
	LiveRecords int

	// Edges is the total size of all before-sets.
	Edges int

	// Acquisitions counts successful tracked acquisitions.
	Acquisitions uint64

	// Diagnostics counts emitted diagnostics (inversions, bad unlocks,
	// destroy-while-held).
	Diagnostics uint64
}

// Stats returns the engine's current counters.
func (t *Tracker) Stats() Stats {
	s := Stats{
		Acquisitions: t.acquisitions.Load(),
		Diagnostics:  t.diagnostics.Load(),
	}

	t.mu.Lock()
	s.LiveRecords = len(t.table)
	for _, rec := range t.table {
		s.Edges += len(rec.before)
	}
	t.mu.Unlock()

	return s
}
