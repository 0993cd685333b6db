package corpus

import "sync/atomic"

// Store holds the active corpus snapshot. Reloads replace the whole corpus
// (documents plus index) in a single atomic swap, so readers never observe a
// partially-built vocabulary.
type Store struct {
	current atomic.Pointer[Corpus]
}

// NewStore creates a Store with the given initial corpus.
func NewStore(c *Corpus) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Snapshot returns the active corpus. The returned value is read-only and
// stays valid after subsequent swaps.
func (s *Store) Snapshot() *Corpus {
	return s.current.Load()
}

// Swap replaces the active corpus.
func (s *Store) Swap(c *Corpus) {
	s.current.Store(c)
}
