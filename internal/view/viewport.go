package view

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/user/taillight/internal/source"
	"github.com/user/taillight/internal/store"
)

// Row is one terminal row handed to the renderer: the backing line, the
// segment of its text occupying this row, and where that segment starts
// so per-line match spans can be sliced per row.
type Row struct {
	Line         store.Line
	Text         string
	SegStart     int
	Continuation bool
}

// Viewport tracks the scroll position over a LineProvider. It knows
// nothing about patterns or filtering; it only maps the visible line
// sequence to the rows to render.
//
// The offset is line-indexed when wrap is off and row-indexed when wrap
// is on; ToggleWrap converts between the two so the topmost visible
// line does not change.
type Viewport struct {
	provider source.LineProvider

	width  int
	height int

	offset int
	follow bool
	wrap   bool
}

// NewViewport creates a viewport in tail-follow mode without wrapping.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:  width,
		height: height,
		follow: true,
	}
}

// SetProvider swaps the visible line sequence. The scroll position is
// re-clamped against the new provider.
func (v *Viewport) SetProvider(p source.LineProvider) {
	v.provider = p
	v.OnNewContent()
}

// SetSize updates the viewport dimensions.
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	if v.follow {
		v.offset = v.maxOffset()
	} else {
		v.clamp()
	}
}

// Width returns the viewport width in columns.
func (v *Viewport) Width() int { return v.width }

// Height returns the viewport height in rows.
func (v *Viewport) Height() int { return v.height }

// Offset returns the current scroll offset (line- or row-indexed
// depending on wrap mode).
func (v *Viewport) Offset() int { return v.offset }

// Follow reports whether tail-follow is on.
func (v *Viewport) Follow() bool { return v.follow }

// Wrap reports whether soft wrapping is on.
func (v *Viewport) Wrap() bool { return v.wrap }

// ScrollUp moves the view up by n rows. Any nonzero manual scroll
// disables tail-follow.
func (v *Viewport) ScrollUp(n int) {
	if n <= 0 {
		return
	}
	v.follow = false
	v.offset -= n
	v.clamp()
}

// ScrollDown moves the view down by n rows and disables tail-follow.
func (v *Viewport) ScrollDown(n int) {
	if n <= 0 {
		return
	}
	v.follow = false
	v.offset += n
	v.clamp()
}

// PageUp scrolls up half a screen.
func (v *Viewport) PageUp() {
	v.ScrollUp(v.pageStep())
}

// PageDown scrolls down half a screen.
func (v *Viewport) PageDown() {
	v.ScrollDown(v.pageStep())
}

func (v *Viewport) pageStep() int {
	step := v.height / 2
	if step < 1 {
		step = 1
	}
	return step
}

// JumpToTop scrolls to the beginning and disables tail-follow.
func (v *Viewport) JumpToTop() {
	v.follow = false
	v.offset = 0
}

// JumpToTail shows the last screenful and re-enables tail-follow.
func (v *Viewport) JumpToTail() {
	v.follow = true
	v.offset = v.maxOffset()
}

// OnNewContent must be called whenever the visible set grows or
// shrinks. With tail-follow on, the offset tracks the bottom; otherwise
// the user's place is left alone, only clamped to the new bounds.
func (v *Viewport) OnNewContent() {
	if v.follow {
		v.offset = v.maxOffset()
		return
	}
	v.clamp()
}

// ToggleWrap flips wrap mode, converting the offset between line and
// row indexing so the topmost visible line stays the same.
func (v *Viewport) ToggleWrap() {
	if v.wrap {
		line, _ := v.lineForRow(v.offset)
		v.wrap = false
		v.offset = line
	} else {
		line := v.offset
		v.wrap = true
		v.offset = v.rowOfLine(line)
	}
	if v.follow {
		v.offset = v.maxOffset()
	} else {
		v.clamp()
	}
}

// TopLine returns the index (into the visible sequence) of the topmost
// rendered line, plus the total visible line count.
func (v *Viewport) TopLine() (int, int) {
	if v.provider == nil {
		return 0, 0
	}
	total := v.provider.LineCount()
	if v.wrap {
		line, _ := v.lineForRow(v.offset)
		return line, total
	}
	line := v.offset
	if line > total {
		line = total
	}
	return line, total
}

// Position reports the one-based index of the bottommost visible line
// and the total visible line count, both in lines regardless of wrap
// mode.
func (v *Viewport) Position() (int, int) {
	if v.provider == nil {
		return 0, 0
	}
	total := v.provider.LineCount()
	rows := v.Rows()
	if len(rows) == 0 {
		return 0, total
	}
	if v.wrap {
		line, _ := v.lineForRow(v.offset + len(rows) - 1)
		return line + 1, total
	}
	bottom := v.offset + len(rows)
	if bottom > total {
		bottom = total
	}
	return bottom, total
}

// Rows returns the rows currently in view, at most Height of them.
// Without wrap each line yields one row truncated to the viewport
// width; with wrap a line yields one row per width-sized segment,
// breaking on rune boundaries.
func (v *Viewport) Rows() []Row {
	if v.provider == nil || v.height <= 0 {
		return nil
	}

	if !v.wrap {
		rows := make([]Row, 0, v.height)
		for i := v.offset; i < v.offset+v.height; i++ {
			line, ok := v.provider.LineAt(i)
			if !ok {
				break
			}
			rows = append(rows, Row{
				Line: line,
				Text: runewidth.Truncate(line.Text, v.width, ""),
			})
		}
		return rows
	}

	line, seg := v.lineForRow(v.offset)
	rows := make([]Row, 0, v.height)
	for len(rows) < v.height {
		l, ok := v.provider.LineAt(line)
		if !ok {
			break
		}
		segs := segments(l.Text, v.width)
		for ; seg < len(segs) && len(rows) < v.height; seg++ {
			rows = append(rows, Row{
				Line:         l,
				Text:         l.Text[segs[seg].start:segs[seg].end],
				SegStart:     segs[seg].start,
				Continuation: seg > 0,
			})
		}
		line++
		seg = 0
	}
	return rows
}

// totalRows counts rendered rows over the whole visible sequence.
func (v *Viewport) totalRows() int {
	if v.provider == nil {
		return 0
	}
	if !v.wrap {
		return v.provider.LineCount()
	}
	rows := 0
	count := v.provider.LineCount()
	for i := 0; i < count; i++ {
		line, ok := v.provider.LineAt(i)
		if !ok {
			break
		}
		rows += segmentCount(line.Text, v.width)
	}
	return rows
}

func (v *Viewport) maxOffset() int {
	max := v.totalRows() - v.height
	if max < 0 {
		max = 0
	}
	return max
}

func (v *Viewport) clamp() {
	if v.offset > v.maxOffset() {
		v.offset = v.maxOffset()
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// rowOfLine returns the row index of the first segment of the line.
func (v *Viewport) rowOfLine(line int) int {
	if !v.wrap || v.provider == nil {
		return line
	}
	rows := 0
	for i := 0; i < line; i++ {
		l, ok := v.provider.LineAt(i)
		if !ok {
			break
		}
		rows += segmentCount(l.Text, v.width)
	}
	return rows
}

// lineForRow maps a row offset back to (line index, segment index).
func (v *Viewport) lineForRow(row int) (int, int) {
	if !v.wrap || v.provider == nil {
		return row, 0
	}
	count := v.provider.LineCount()
	acc := 0
	for i := 0; i < count; i++ {
		l, ok := v.provider.LineAt(i)
		if !ok {
			break
		}
		n := segmentCount(l.Text, v.width)
		if row < acc+n {
			return i, row - acc
		}
		acc += n
	}
	if count == 0 {
		return 0, 0
	}
	return count - 1, 0
}

type segment struct {
	start, end int
}

// segments splits text into byte ranges of at most width display
// columns each, never splitting a multi-byte character. Every line has
// at least one segment so empty lines still occupy a row.
func segments(text string, width int) []segment {
	if width <= 0 || text == "" {
		return []segment{{0, len(text)}}
	}
	var out []segment
	start := 0
	cols := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		w := runewidth.RuneWidth(r)
		if cols > 0 && cols+w > width {
			out = append(out, segment{start, i})
			start = i
			cols = 0
		}
		cols += w
		i += size
	}
	out = append(out, segment{start, len(text)})
	return out
}

func segmentCount(text string, width int) int {
	return len(segments(text, width))
}
