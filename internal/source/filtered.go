package source

import (
	"github.com/user/taillight/internal/match"
	"github.com/user/taillight/internal/pattern"
	"github.com/user/taillight/internal/store"
)

// FilteredProvider narrows the store to lines with at least one
// enabled-pattern match. When inactive it is the identity view.
//
// The index of passing sequence numbers is rebuilt lazily: appended
// lines extend it incrementally, a registry version change forces a full
// rescan, and evicted sequences are trimmed from the front.
type FilteredProvider struct {
	store    *store.Store
	registry *pattern.Registry
	engine   *match.Engine

	active bool

	seqs           []uint64
	scannedThrough uint64
	builtVersion   uint64
	built          bool
}

// NewFilteredProvider creates an inactive filter over the store.
func NewFilteredProvider(s *store.Store, reg *pattern.Registry, eng *match.Engine) *FilteredProvider {
	return &FilteredProvider{store: s, registry: reg, engine: eng}
}

// SetActive toggles filter mode. The store itself is never altered.
func (f *FilteredProvider) SetActive(active bool) {
	f.active = active
}

// Active reports whether filter mode is on.
func (f *FilteredProvider) Active() bool {
	return f.active
}

// LineCount returns the number of visible lines under the current
// filter state. With filtering active and no enabled patterns, the
// visible sequence is empty.
func (f *FilteredProvider) LineCount() int {
	if !f.active {
		return f.store.Count()
	}
	f.rebuild()
	return len(f.seqs)
}

// LineAt returns the visible line at index.
func (f *FilteredProvider) LineAt(index int) (store.Line, bool) {
	if !f.active {
		return f.store.At(index)
	}
	f.rebuild()
	if index < 0 || index >= len(f.seqs) {
		return store.Line{}, false
	}
	line, err := f.store.Get(f.seqs[index])
	if err != nil {
		// Evicted between rebuild and access.
		return store.Line{}, false
	}
	return line, true
}

func (f *FilteredProvider) rebuild() {
	version := f.registry.Version()
	oldest := f.store.OldestSeq()

	// Drop index entries for evicted lines.
	for len(f.seqs) > 0 && f.seqs[0] < oldest {
		f.seqs = f.seqs[1:]
	}

	if !f.built || version != f.builtVersion {
		f.seqs = f.seqs[:0]
		f.scannedThrough = 0
		f.builtVersion = version
		f.built = true
	}

	// Walk by sequence number, not index: the pump may evict lines
	// concurrently, which shifts index positions mid-iteration but
	// never renumbers sequences.
	next := f.scannedThrough + 1
	if next < oldest {
		next = oldest
	}
	newest := f.store.NewestSeq()
	for seq := next; seq <= newest; seq++ {
		line, err := f.store.Get(seq)
		if err != nil {
			// Evicted since the bounds were read; nothing to index.
			f.scannedThrough = seq
			continue
		}
		if f.engine.HasMatch(line) {
			f.seqs = append(f.seqs, line.Seq)
		}
		f.scannedThrough = seq
	}
}
