package tracker

// The order graph is stored across the lock records: an edge A → B ("A was
// held while B was acquired") lives as the entry A in B's before-set. The
// whole graph is guarded by Tracker.mu.
//
// Cycle detection is a reachability query. Acquiring target while x is held
// would close a cycle exactly when a path target → … → x already exists,
// which is the same as reaching target by walking backward from x through
// before-sets. The walk is a bounded depth-first search with a visited set,
// so its cost is linear in the size of x's transitive closure.

// orderedBefore reports whether the graph already orders target before x,
// i.e. whether a path target → … → x exists. Caller must hold t.mu.
func (t *Tracker) orderedBefore(target, x uintptr) bool {
	visited := map[uintptr]struct{}{x: {}}
	return t.searchBack(x, target, visited)
}

// searchBack walks backward from "from" through before-sets looking for
// target. Caller must hold t.mu.
func (t *Tracker) searchBack(from, target uintptr, visited map[uintptr]struct{}) bool {
	rec, ok := t.table[from]
	if !ok {
		return false
	}
	for pred := range rec.before {
		if pred == target {
			return true
		}
		if _, seen := visited[pred]; seen {
			continue
		}
		visited[pred] = struct{}{}
		if t.searchBack(pred, target, visited) {
			return true
		}
	}
	return false
}

// inversions runs the admission check for acquiring id with the given held
// set and returns the held ids whose established order the acquisition would
// invert. The graph is not modified.
func (t *Tracker) inversions(id uintptr, held []uintptr) []uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()

	var bad []uintptr
	for _, x := range held {
		if x == id {
			// Self-reentry is the error-checking mutex's problem,
			// not the graph's.
			continue
		}
		if t.orderedBefore(id, x) {
			bad = append(bad, x)
		}
	}
	return bad
}

// addBeforeEdges records that every lock in held was held at the moment id
// was acquired, and bumps id's acquisition count. Edges are added even when
// the admission check reported an inversion — the graph keeps the evidence.
func (t *Tracker) addBeforeEdges(id uintptr, held []uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.table[id]
	if !ok {
		return
	}
	for _, x := range held {
		if x == id {
			continue
		}
		rec.before[x] = struct{}{}
	}
	rec.nlock++
}
