// Package selection keeps the client-side set of contact requests picked for
// a bulk action. It is not persisted; a new listing starts a new Selection.
package selection

import (
	"sort"
	"sync"
)

// Selection is a set of selected request ids plus a pending flag raised while
// a bulk action on the selection is in flight. Toggling is ignored while
// pending so the set cannot drift from what was submitted.
//
// The zero value is an empty, idle selection. Safe for concurrent use.
type Selection struct {
	mu      sync.Mutex
	ids     map[string]struct{}
	pending bool
}

// Toggle adds id if absent and removes it otherwise. It reports whether id is
// selected afterwards. While pending nothing changes.
func (s *Selection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, on := s.ids[id]
	if s.pending || id == "" {
		return on
	}
	if on {
		delete(s.ids, id)
		return false
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
	return true
}

// IsSelected reports whether id is in the selection.
func (s *Selection) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
}

// ClearItems drops the given ids, typically the ones a finished bulk action
// processed. Unknown ids are ignored.
func (s *Selection) ClearItems(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// SetPending raises or lowers the in-flight flag.
func (s *Selection) SetPending(p bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = p
}

// IsPending reports whether a bulk action is in flight.
func (s *Selection) IsPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
