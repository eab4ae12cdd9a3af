package pattern

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrUnknownPattern is returned when an operation targets an id that was
// never issued or has been deleted.
var ErrUnknownPattern = errors.New("unknown pattern")

// DefaultPalette mirrors the ten basic ANSI highlight colors, cycled in
// creation order.
var DefaultPalette = []string{"1", "2", "4", "3", "5", "6", "9", "10", "11", "12"}

// Pattern is a user-defined regex with display and matching state.
type Pattern struct {
	ID            int
	Source        string
	CaseSensitive bool
	Enabled       bool
	Color         string

	re *regexp.Regexp
}

// FindAllIndex returns all match byte ranges in text.
func (p Pattern) FindAllIndex(text string) [][]int {
	return p.re.FindAllStringIndex(text, -1)
}

// MatchString reports whether the pattern matches text.
func (p Pattern) MatchString(text string) bool {
	return p.re.MatchString(text)
}

// Registry holds patterns in creation order. Ids and palette slots are
// never reused, so deleting a pattern does not recolor survivors.
//
// The registry is not safe for concurrent use; all mutations happen on
// the input-handling goroutine.
type Registry struct {
	patterns []Pattern
	palette  []string
	nextID   int
	created  int
	version  uint64
}

// NewRegistry creates an empty registry using the given palette, or
// DefaultPalette when palette is empty.
func NewRegistry(palette []string) *Registry {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Registry{palette: palette, nextID: 1}
}

// Version increments on every structural or content change. Caches key
// match results on it to detect staleness cheaply.
func (r *Registry) Version() uint64 {
	return r.version
}

// Add validates and appends a new pattern. On compile failure the
// registry is unchanged.
func (r *Registry) Add(source string, caseSensitive bool) (Pattern, error) {
	re, err := compile(source, caseSensitive)
	if err != nil {
		return Pattern{}, err
	}
	p := Pattern{
		ID:            r.nextID,
		Source:        source,
		CaseSensitive: caseSensitive,
		Enabled:       true,
		Color:         r.palette[r.created%len(r.palette)],
		re:            re,
	}
	r.nextID++
	r.created++
	r.patterns = append(r.patterns, p)
	r.version++
	return p, nil
}

// Delete removes a pattern permanently. Its id is never reissued.
func (r *Registry) Delete(id int) error {
	i, err := r.index(id)
	if err != nil {
		return err
	}
	r.patterns = append(r.patterns[:i], r.patterns[i+1:]...)
	r.version++
	return nil
}

// SetCaseSensitive recompiles the pattern with the new case flag.
func (r *Registry) SetCaseSensitive(id int, caseSensitive bool) error {
	i, err := r.index(id)
	if err != nil {
		return err
	}
	re, err := compile(r.patterns[i].Source, caseSensitive)
	if err != nil {
		return err
	}
	r.patterns[i].CaseSensitive = caseSensitive
	r.patterns[i].re = re
	r.version++
	return nil
}

// SetEnabled toggles whether the pattern contributes highlights and
// filter inclusion. Disabled patterns keep their color and case flag.
func (r *Registry) SetEnabled(id int, enabled bool) error {
	i, err := r.index(id)
	if err != nil {
		return err
	}
	r.patterns[i].Enabled = enabled
	r.version++
	return nil
}

// UpdateSource replaces the regex source, validating before commit.
func (r *Registry) UpdateSource(id int, source string) error {
	i, err := r.index(id)
	if err != nil {
		return err
	}
	re, err := compile(source, r.patterns[i].CaseSensitive)
	if err != nil {
		return err
	}
	r.patterns[i].Source = source
	r.patterns[i].re = re
	r.version++
	return nil
}

// Get returns the pattern with the given id.
func (r *Registry) Get(id int) (Pattern, error) {
	i, err := r.index(id)
	if err != nil {
		return Pattern{}, err
	}
	return r.patterns[i], nil
}

// List returns the patterns in creation order.
func (r *Registry) List() []Pattern {
	out := make([]Pattern, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// Len returns the number of patterns.
func (r *Registry) Len() int {
	return len(r.patterns)
}

// EnabledCount returns how many patterns currently match and highlight.
func (r *Registry) EnabledCount() int {
	n := 0
	for _, p := range r.patterns {
		if p.Enabled {
			n++
		}
	}
	return n
}

func (r *Registry) index(id int) (int, error) {
	for i, p := range r.patterns {
		if p.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("pattern %d: %w", id, ErrUnknownPattern)
}

// compile builds the matcher for a source and case flag. Insensitive
// matching uses the (?i) flag prefix, so the same source may be compiled
// both ways by different patterns.
func compile(source string, caseSensitive bool) (*regexp.Regexp, error) {
	expr := source
	if !caseSensitive {
		expr = "(?i)" + source
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", source, err)
	}
	return re, nil
}
