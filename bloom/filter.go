// Package bloom provides URL sets fronted by Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Set is an exact string set with a Bloom filter in front of it.
// The filter is the fast path: a negative answer is definitive and skips the
// map, which is only consulted for keys the filter has probably seen. Stats
// reports how often each path answered. Set is safe for concurrent use.
type Set struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	keys   map[string]struct{}
	stats  SetStats
}

// SetStats counts how lookups on a Set were answered.
type SetStats struct {
	// Keys is the number of distinct keys added.
	Keys int
	// Duplicates counts Add calls for keys already present.
	Duplicates int
	// FilterNegatives counts lookups the filter answered alone.
	FilterNegatives int
	// FalsePositives counts lookups where the filter said maybe and the
	// exact map said no.
	FalsePositives int
}

// NewSet creates a Set sized for n expected keys with the given Bloom
// filter false positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter: bloom.NewWithEstimates(n, fpRate),
		keys:   make(map[string]struct{}),
	}
}

// Add inserts key and reports whether it was absent.
// Check and insert happen under one lock, so concurrent callers adding the
// same key see exactly one true result.
func (s *Set) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contains(key) {
		s.stats.Duplicates++
		return false
	}
	s.filter.AddString(key)
	s.keys[key] = struct{}{}
	return true
}

// Has reports whether key is in the set.
func (s *Set) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.contains(key)
}

// contains checks the filter first and the map only on a possible hit.
// Callers must hold s.mu.
func (s *Set) contains(key string) bool {
	if !s.filter.TestString(key) {
		s.stats.FilterNegatives++
		return false
	}
	if _, ok := s.keys[key]; ok {
		return true
	}
	s.stats.FalsePositives++
	return false
}

// Stats returns a snapshot of the set's counters.
func (s *Set) Stats() SetStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Keys = len(s.keys)
	return st
}

// Len returns the number of keys in the set.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
