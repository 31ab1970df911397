package scribe

import (
	"github.com/th3400l/scrawl/pkg/pen"
)

// layout walks a pen across the page: left to right within the content
// box, wrapping whole words at the right edge, advancing one line per
// wrap or newline. Words are never split; a word wider than the content
// box overflows to the right rather than breaking.
//
// Once the baseline passes the bottom margin the layout keeps consuming
// text without drawing, so progress accounting stays exact even for
// documents longer than the page.
type layout struct {
	pen pen.StrokeRenderer

	left, right  float64
	top, bottom  float64
	lineGap      float64
	tabWidth     float64

	x, baseline float64
	glyphs      int
	lines       int
	clipped     bool
}

func newLayout(p pen.StrokeRenderer, m Margins, spacing float64, width, height int) *layout {
	l := &layout{
		pen:      p,
		left:     m.Left,
		right:    float64(width) - m.Right,
		top:      m.Top,
		bottom:   float64(height) - m.Bottom,
		lineGap:  p.LineHeight() * spacing,
		tabWidth: 4 * p.Advance(' '),
	}
	l.x = l.left
	l.baseline = l.top + p.Ascent()
	l.lines = 1
	l.clipped = l.baseline > l.bottom
	return l
}

// word draws one word, wrapping first if it would cross the right edge.
func (l *layout) word(w string) {
	width := l.pen.MeasureWord(w)
	if l.x > l.left && l.x+width > l.right {
		l.newline()
	}
	for _, r := range w {
		if l.clipped {
			l.x += l.pen.Advance(r)
		} else {
			l.x += l.pen.DrawGlyph(l.glyphs, r, l.x, l.baseline)
		}
		l.glyphs++
	}
}

// space advances through a whitespace run. Newlines move to the next
// line; tabs advance by a fixed stop width; other whitespace advances
// by its own width. Runs may hang past the right edge.
func (l *layout) space(s string) {
	for _, r := range s {
		switch r {
		case '\n':
			l.newline()
		case '\r':
			// part of \r\n; the \n does the work
		case '\t':
			l.x += l.tabWidth
		default:
			l.x += l.pen.Advance(r)
		}
	}
}

func (l *layout) newline() {
	l.x = l.left
	l.baseline += l.lineGap
	l.lines++
	if l.baseline > l.bottom {
		l.clipped = true
	}
}
