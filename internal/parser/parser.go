// Package parser recognizes color-coded bracket spans inside page text.
//
// The grammar is deliberately flat: the first unmatched open glyph of any
// color opens a span, only that color's close glyph closes it, and every
// other glyph seen inside is ordinary content. Nested or overlapping
// spans of different colors are not supported; the legacy data depends on
// this first-opened-wins reading, so it is preserved as-is.
package parser

import "github.com/genrejinn/genrejinn/internal/domain"

// Span is one bracket-delimited highlight found in a text buffer.
// Start points at the open glyph; End points one past the close glyph.
// Positions are page-local (Page is left to the caller).
type Span struct {
	Start    domain.Position
	End      domain.Position
	Content  string // text strictly between the glyphs
	FullText string // text including both glyphs
	Color    domain.Color
}

// Parse scans text in a single pass and returns all complete spans in
// order of appearance (equivalently, sorted by start position). An open
// glyph with no matching close by end of buffer yields no span.
func Parse(text string) []Span {
	var spans []Span

	var (
		open      bool
		openColor domain.Color
		start     domain.Position
		startIdx  int
	)

	row, col := 0, 0
	runes := []rune(text)
	for i, r := range runes {
		switch {
		case r == '\n':
			row++
			col = 0
			continue
		case !open:
			if c, ok := colorForOpen(r); ok {
				open = true
				openColor = c
				start = domain.Position{Row: row, Col: col}
				startIdx = i
			}
		case r == closeGlyph(openColor):
			spans = append(spans, Span{
				Start:    start,
				End:      domain.Position{Row: row, Col: col + 1},
				Content:  string(runes[startIdx+1 : i]),
				FullText: string(runes[startIdx : i+1]),
				Color:    openColor,
			})
			open = false
		}
		col++
	}

	return spans
}

var (
	openGlyphs  = map[rune]domain.Color{}
	closeGlyphs = map[domain.Color]rune{}
)

func init() {
	for _, c := range domain.CycleOrder {
		b := domain.BracketsFor(c)
		openGlyphs[[]rune(b.Open)[0]] = c
		closeGlyphs[c] = []rune(b.Close)[0]
	}
}

func colorForOpen(r rune) (domain.Color, bool) {
	c, ok := openGlyphs[r]
	return c, ok
}

func closeGlyph(c domain.Color) rune {
	return closeGlyphs[c]
}
