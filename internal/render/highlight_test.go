package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/taillight/internal/match"
)

// marker styles that survive any color profile, so tests can assert on
// plain strings.
func markerStyles(ids ...int) Styles {
	styles := make(Styles, len(ids))
	for _, id := range ids {
		styles[id] = lipgloss.NewStyle()
	}
	return styles
}

func TestHighlightWithoutSpansIsIdentity(t *testing.T) {
	got := Highlight("plain text", nil, markerStyles())
	if got != "plain text" {
		t.Errorf("expected identity render, got %q", got)
	}
}

func TestHighlightPreservesAllText(t *testing.T) {
	spans := []match.Span{
		{PatternID: 1, Start: 0, End: 5},
		{PatternID: 2, Start: 3, End: 9},
	}
	got := Highlight("ERROR disk", spans, markerStyles(1, 2))
	if got != "ERROR disk" {
		t.Errorf("unstyled render lost text: %q", got)
	}
}

func TestHighlightClipsOutOfRangeSpans(t *testing.T) {
	spans := []match.Span{{PatternID: 1, Start: 2, End: 50}}
	got := Highlight("short", spans, markerStyles(1))
	if got != "short" {
		t.Errorf("expected clipped span render, got %q", got)
	}
}

func TestOwnershipEarliestCreationWins(t *testing.T) {
	// Pattern 2 starts earlier in the text but pattern 1 was created
	// first; the overlap belongs to pattern 1.
	text := "abcdef"
	spans := []match.Span{
		{PatternID: 2, Start: 0, End: 4},
		{PatternID: 1, Start: 2, End: 6},
	}

	owner := owners(len(text), spans)
	want := []int{2, 2, 1, 1, 1, 1}
	for i, id := range want {
		if owner[i] != id {
			t.Errorf("byte %d: expected owner %d, got %d", i, id, owner[i])
		}
	}
}

func TestOwnershipGapsStayUnowned(t *testing.T) {
	spans := []match.Span{
		{PatternID: 1, Start: 0, End: 2},
		{PatternID: 2, Start: 4, End: 6},
	}
	owner := owners(7, spans)
	want := []int{1, 1, 0, 0, 2, 2, 0}
	for i, id := range want {
		if owner[i] != id {
			t.Errorf("byte %d: expected owner %d, got %d", i, id, owner[i])
		}
	}
}

func TestSliceSpansRebasesOntoSegment(t *testing.T) {
	spans := []match.Span{
		{PatternID: 1, Start: 2, End: 8},
		{PatternID: 2, Start: 12, End: 14},
	}

	got := SliceSpans(spans, 5, 5) // segment covers bytes [5, 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 span on segment, got %v", got)
	}
	if got[0].Start != 0 || got[0].End != 3 {
		t.Errorf("expected rebased span [0,3), got [%d,%d)", got[0].Start, got[0].End)
	}
}

func TestSliceSpansDropsOutsideSpans(t *testing.T) {
	spans := []match.Span{{PatternID: 1, Start: 0, End: 4}}
	if got := SliceSpans(spans, 10, 5); len(got) != 0 {
		t.Errorf("expected no spans on disjoint segment, got %v", got)
	}
}

func TestHighlightHandlesAdjacentSpans(t *testing.T) {
	text := strings.Repeat("x", 6)
	spans := []match.Span{
		{PatternID: 1, Start: 0, End: 3},
		{PatternID: 2, Start: 3, End: 6},
	}
	got := Highlight(text, spans, markerStyles(1, 2))
	if got != text {
		t.Errorf("adjacent spans corrupted text: %q", got)
	}
}
