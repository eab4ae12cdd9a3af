package source

import "github.com/user/taillight/internal/store"

// LineProvider is the core abstraction for accessing the visible line
// sequence. The viewport only interacts with this interface; it never
// holds its own copy of line content.
type LineProvider interface {
	// LineCount returns the number of lines currently visible.
	LineCount() int

	// LineAt returns the line at index (0 = oldest visible).
	LineAt(index int) (store.Line, bool)
}

// StoreProvider exposes the line store directly (filter inactive).
type StoreProvider struct {
	store *store.Store
}

// NewStoreProvider wraps a store as a LineProvider.
func NewStoreProvider(s *store.Store) *StoreProvider {
	return &StoreProvider{store: s}
}

// LineCount returns the number of resolvable lines.
func (p *StoreProvider) LineCount() int {
	return p.store.Count()
}

// LineAt returns the stored line at index.
func (p *StoreProvider) LineAt(index int) (store.Line, bool) {
	return p.store.At(index)
}
