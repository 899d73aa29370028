package resolver

// resolutionContext carries the per-request recursion state: the depth
// budget and the set of (directory, reference) pairs currently on the call
// stack. Entries are removed on return, so the same reference can legally be
// re-resolved in a sibling branch of the search; only true re-entry of a
// live frame counts as a cycle.
type resolutionContext struct {
	maxDepth int
	depth    int
	visited  map[visitKey]struct{}
}

type visitKey struct {
	dir string
	ref string
}

func newResolutionContext(maxDepth int) *resolutionContext {
	return &resolutionContext{
		maxDepth: maxDepth,
		visited:  make(map[visitKey]struct{}),
	}
}

// descend consumes one level of the depth budget. It returns false when the
// budget is exhausted; the caller treats that as not-found, never an error.
func (rc *resolutionContext) descend() bool {
	if rc.depth >= rc.maxDepth {
		return false
	}
	rc.depth++
	return true
}

// ascend gives back the level taken by descend. Always paired via defer.
func (rc *resolutionContext) ascend() {
	rc.depth--
}

// enter marks a (directory, reference) frame as live. It returns false when
// the frame is already on the stack, which is a cycle.
func (rc *resolutionContext) enter(dir, reference string) bool {
	k := visitKey{dir: dir, ref: reference}
	if _, ok := rc.visited[k]; ok {
		return false
	}
	rc.visited[k] = struct{}{}
	return true
}

// leave removes a frame marked by enter. Always paired via defer so an early
// return can never strand an entry.
func (rc *resolutionContext) leave(dir, reference string) {
	delete(rc.visited, visitKey{dir: dir, ref: reference})
}
