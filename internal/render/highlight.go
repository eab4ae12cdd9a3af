package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/taillight/internal/match"
)

// Styles maps pattern ids to their lipgloss styles for one frame.
type Styles map[int]lipgloss.Style

// PatternStyle builds the foreground style for a pattern color.
func PatternStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Highlight renders text with its match spans applied. Overlapping
// spans are resolved by pattern creation order: the earliest-created
// pattern's color wins for the overlapping sub-range. Pattern ids are
// issued monotonically, so ascending id order is creation order.
func Highlight(text string, spans []match.Span, styles Styles) string {
	if len(spans) == 0 || text == "" {
		return text
	}

	owner := owners(len(text), spans)

	var b strings.Builder
	runStart := 0
	for i := 1; i <= len(text); i++ {
		if i < len(text) && owner[i] == owner[runStart] {
			continue
		}
		chunk := text[runStart:i]
		if id := owner[runStart]; id != 0 {
			if style, ok := styles[id]; ok {
				chunk = style.Render(chunk)
			}
		}
		b.WriteString(chunk)
		runStart = i
	}
	return b.String()
}

// SliceSpans rebases line-level spans onto a segment of the line,
// dropping spans that fall entirely outside it. Offsets in the result
// are relative to the segment.
func SliceSpans(spans []match.Span, segStart, segLen int) []match.Span {
	var out []match.Span
	for _, s := range spans {
		start := s.Start - segStart
		end := s.End - segStart
		start, end = clip(start, end, segLen)
		if start < end {
			out = append(out, match.Span{PatternID: s.PatternID, Start: start, End: end})
		}
	}
	return out
}

// owners assigns each byte to the pattern coloring it, 0 for none.
// Patterns claim bytes in creation order, so an earlier-created pattern
// keeps any sub-range a later pattern also matched.
func owners(n int, spans []match.Span) []int {
	owner := make([]int, n)
	for _, id := range creationOrder(spans) {
		for _, s := range spans {
			if s.PatternID != id {
				continue
			}
			start, end := clip(s.Start, s.End, n)
			for i := start; i < end; i++ {
				if owner[i] == 0 {
					owner[i] = id
				}
			}
		}
	}
	return owner
}

// creationOrder returns the distinct pattern ids present, ascending.
func creationOrder(spans []match.Span) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, s := range spans {
		if !seen[s.PatternID] {
			seen[s.PatternID] = true
			ids = append(ids, s.PatternID)
		}
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

func clip(start, end, max int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > max {
		end = max
	}
	if start > end {
		start = end
	}
	return start, end
}
