package match

import (
	"sort"

	"github.com/user/taillight/internal/pattern"
	"github.com/user/taillight/internal/store"
)

// Span is one pattern hit inside a line, as byte offsets into the text.
type Span struct {
	PatternID int
	Start     int
	End       int
}

type cacheEntry struct {
	version uint64
	spans   []Span
}

// Engine computes per-line match spans against the current registry
// state. Results are memoized per (sequence, registry version): lines
// are immutable, so registry changes are the only source of staleness.
//
// The engine lives on the render/input goroutine; it is not safe for
// concurrent use.
type Engine struct {
	registry *pattern.Registry
	cache    map[uint64]cacheEntry
}

// NewEngine creates an engine reading from the given registry.
func NewEngine(registry *pattern.Registry) *Engine {
	return &Engine{
		registry: registry,
		cache:    make(map[uint64]cacheEntry),
	}
}

// Matches returns the spans of every enabled pattern in the line,
// ordered by start offset, ties broken by pattern creation order.
// Overlapping spans from different patterns are all retained; precedence
// is a render-time concern.
func (e *Engine) Matches(line store.Line) []Span {
	version := e.registry.Version()
	if entry, ok := e.cache[line.Seq]; ok && entry.version == version {
		return entry.spans
	}

	var spans []Span
	for _, p := range e.registry.List() {
		if !p.Enabled {
			continue
		}
		for _, loc := range p.FindAllIndex(line.Text) {
			if loc[0] == loc[1] {
				continue
			}
			spans = append(spans, Span{PatternID: p.ID, Start: loc[0], End: loc[1]})
		}
	}
	// Patterns were visited in creation order, so a stable sort on start
	// keeps creation order as the tie-break.
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})

	e.cache[line.Seq] = cacheEntry{version: version, spans: spans}
	return spans
}

// HasMatch reports whether any enabled pattern matches the line.
func (e *Engine) HasMatch(line store.Line) bool {
	return len(e.Matches(line)) > 0
}

// DropBelow purges cache entries for sequence numbers below oldest.
// The store calls this indirectly via the UI whenever eviction moves the
// oldest resolvable sequence forward; entries for evicted lines are
// dropped, not recomputed.
func (e *Engine) DropBelow(oldest uint64) {
	for seq := range e.cache {
		if seq < oldest {
			delete(e.cache, seq)
		}
	}
}

// CacheLen reports the number of memoized lines.
func (e *Engine) CacheLen() int {
	return len(e.cache)
}
