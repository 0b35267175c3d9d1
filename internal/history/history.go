// Package history holds the clipboard history: a bounded, de-duplicated list
// of text snippets ordered newest first.
//
// Only the first sighting of a value places it at the front. Copying a value
// that is already somewhere in the history leaves it where it is; it is never
// promoted.
package history

import (
	"errors"
	"slices"
	"sync"
)

// DefaultCapacity is the number of entries kept when New is given a
// non-positive capacity.
const DefaultCapacity = 50

// ErrIndexOutOfRange is returned when an index does not address an entry.
var ErrIndexOutOfRange = errors.New("history: index out of range")

// ErrStale is returned when the entry at an index is not the one the caller
// expected, usually because a newer copy shifted the list.
var ErrStale = errors.New("history: entry at index changed")

// Observer is notified with a snapshot of the history after every change.
type Observer func(entries []string)

// Store is the clipboard history. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	capacity int
	entries  []string // newest first
	last     string   // last value passed to Observe

	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObs   int
}

// New returns an empty Store holding at most capacity entries.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity:  capacity,
		entries:   make([]string, 0, capacity+1),
		observers: make(map[int]Observer),
	}
}

// Observe records a value read from the pasteboard and reports whether the
// history changed. Empty values and immediate repeats are ignored.
func (s *Store) Observe(value string) bool {
	if value == "" {
		return false
	}

	s.mu.Lock()
	if value == s.last {
		s.mu.Unlock()
		return false
	}
	s.last = value
	if slices.Contains(s.entries, value) {
		s.mu.Unlock()
		return false
	}
	s.entries = slices.Insert(s.entries, 0, value)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
	snap := slices.Clone(s.entries)
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// Remove deletes the entry at index.
func (s *Store) Remove(index int) error {
	_, err := s.RemoveAt(index, "")
	return err
}

// RemoveAt deletes the entry at index if it still holds want and returns the
// removed text. The check and the delete happen under one lock. An empty want
// matches any entry.
func (s *Store) RemoveAt(index int, want string) (string, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.entries) {
		s.mu.Unlock()
		return "", ErrIndexOutOfRange
	}
	text := s.entries[index]
	if want != "" && text != want {
		s.mu.Unlock()
		return "", ErrStale
	}
	s.entries = slices.Delete(s.entries, index, index+1)
	snap := slices.Clone(s.entries)
	s.mu.Unlock()

	s.notify(snap)
	return text, nil
}

// TopN returns up to n of the newest entries.
func (s *Store) TopN(n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return []string{}
	}
	n = min(n, len(s.entries))
	return slices.Clone(s.entries[:n])
}

// At returns the entry at index.
func (s *Store) At(index int) (string, error) {
	return s.AtExpect(index, "")
}

// AtExpect returns the entry at index, or ErrStale if it is not want. An
// empty want matches any entry.
func (s *Store) AtExpect(index int, want string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.entries) {
		return "", ErrIndexOutOfRange
	}
	if want != "" && s.entries[index] != want {
		return "", ErrStale
	}
	return s.entries[index], nil
}

// All returns a copy of every entry, newest first.
func (s *Store) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Cap() int { return s.capacity }

// Subscribe registers fn to be called after every change. The returned func
// removes the registration. fn runs on the goroutine that made the change and
// must not block.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(snap []string) {
	s.obsMu.RLock()
	fns := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.RUnlock()

	for _, fn := range fns {
		fn(slices.Clone(snap))
	}
}
