package bridge

import "sync"

// resolverSlot holds at most one pending continuation for a request kind.
// The worker reliably answers only the most recent query of a kind, so a
// newer request preempts the pending one: the old continuation completes
// with the empty result rather than being left pending or failed.
//
// Slots are owned by the bridge instance, not process globals, so multiple
// bridges (as in tests) never interfere.
type resolverSlot[T any] struct {
	mu      sync.Mutex
	pending chan T
	path    string
	empty   T
}

// begin installs a continuation for a request against path, preempting any
// pending one with the empty result. The returned channel receives exactly
// one value.
func (s *resolverSlot[T]) begin(path string) <-chan T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending <- s.empty
	}

	ch := make(chan T, 1)
	s.pending = ch
	s.path = path
	return ch
}

// resolve completes the pending continuation with result and clears the
// slot. Returns false, leaving the slot untouched, if nothing is pending.
func (s *resolverSlot[T]) resolve(result T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return false
	}
	s.pending <- result
	s.pending = nil
	s.path = ""
	return true
}

// pendingPath reports the file path of the pending request, if any.
func (s *resolverSlot[T]) pendingPath() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return "", false
	}
	return s.path, true
}

// resolveEmpty completes the pending continuation with the empty result.
func (s *resolverSlot[T]) resolveEmpty() bool {
	return s.resolve(s.empty)
}
