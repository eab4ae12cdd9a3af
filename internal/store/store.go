package store

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for sequence numbers that were never
// assigned or whose line has been evicted.
var ErrNotFound = errors.New("line not found")

// Line is a single ingested line with its permanent sequence number.
// Lines are immutable once stored; the store is their only owner.
type Line struct {
	Seq  uint64
	Text string
}

// Store is a bounded, append-only holder of ingested lines backed by a
// ring buffer. Once capacity is exceeded the oldest line is evicted and
// its sequence number becomes permanently unresolvable.
//
// Append may be called concurrently with any of the read methods. All
// other callers are expected to live on a single goroutine.
type Store struct {
	mu      sync.RWMutex
	lines   []Line
	head    int // next write position
	count   int
	nextSeq uint64
}

// DefaultCapacity bounds memory for unbounded input streams.
const DefaultCapacity = 50000

// New creates a store holding at most capacity lines. Non-positive
// capacities fall back to DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		lines:   make([]Line, capacity),
		nextSeq: 1,
	}
}

// Append stores a line and returns its sequence number. If the store is
// full the oldest line is overwritten.
func (s *Store) Append(text string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.nextSeq
	s.nextSeq++
	s.lines[s.head] = Line{Seq: seq, Text: text}
	s.head = (s.head + 1) % len(s.lines)
	if s.count < len(s.lines) {
		s.count++
	}
	return seq
}

// Count returns the number of lines currently resolvable.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Capacity returns the maximum number of retained lines.
func (s *Store) Capacity() int {
	return len(s.lines)
}

// OldestSeq returns the sequence number of the oldest resolvable line,
// or 0 when the store is empty.
func (s *Store) OldestSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.count == 0 {
		return 0
	}
	return s.at(0).Seq
}

// NewestSeq returns the sequence number of the most recently appended
// line, or 0 when the store is empty.
func (s *Store) NewestSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.count == 0 {
		return 0
	}
	return s.at(s.count - 1).Seq
}

// At returns the line at index i, where 0 is the oldest resolvable line
// and Count()-1 the newest.
func (s *Store) At(i int) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= s.count {
		return Line{}, false
	}
	return s.at(i), true
}

// Get resolves a sequence number. Evicted and never-assigned sequence
// numbers report ErrNotFound.
func (s *Store) Get(seq uint64) (Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.count == 0 {
		return Line{}, ErrNotFound
	}
	oldest := s.at(0).Seq
	if seq < oldest || seq >= s.nextSeq {
		return Line{}, ErrNotFound
	}
	return s.at(int(seq - oldest)), nil
}

// Lines returns up to max lines starting at index start (0 = oldest).
func (s *Store) Lines(start, max int) []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if start < 0 {
		start = 0
	}
	if start >= s.count || max <= 0 {
		return nil
	}
	if start+max > s.count {
		max = s.count - start
	}
	out := make([]Line, max)
	for i := 0; i < max; i++ {
		out[i] = s.at(start + i)
	}
	return out
}

// at assumes the lock is held and i is in range.
func (s *Store) at(i int) Line {
	idx := (s.head - s.count + i) % len(s.lines)
	if idx < 0 {
		idx += len(s.lines)
	}
	return s.lines[idx]
}
