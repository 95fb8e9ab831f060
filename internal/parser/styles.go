package parser

import "github.com/genrejinn/genrejinn/internal/domain"

// RangeKind names the sub-range of a span a style applies to.
type RangeKind string

const (
	RangeSpan    RangeKind = "span"    // whole span including glyphs
	RangeContent RangeKind = "content" // text between the glyphs
	RangeBracket RangeKind = "bracket" // a single glyph
)

// StyleRange is a styled region handed to the presentation layer. All
// sub-ranges of one span resolve to the same color hex.
type StyleRange struct {
	Start domain.Position `json:"start"`
	End   domain.Position `json:"end"`
	Kind  RangeKind       `json:"kind"`
	Color domain.Color    `json:"color"`
	Hex   string          `json:"hex"`
}

// StyleRanges expands spans into the per-span style ranges: the whole
// span, its inner content, and its two bracket glyphs.
func StyleRanges(spans []Span) []StyleRange {
	ranges := make([]StyleRange, 0, len(spans)*4)
	for _, s := range spans {
		hex := domain.HexFor(s.Color)
		emit := func(kind RangeKind, start, end domain.Position) {
			ranges = append(ranges, StyleRange{
				Start: start,
				End:   end,
				Kind:  kind,
				Color: s.Color,
				Hex:   hex,
			})
		}

		contentStart := domain.Position{Row: s.Start.Row, Col: s.Start.Col + 1}
		contentEnd := domain.Position{Row: s.End.Row, Col: s.End.Col - 1}

		emit(RangeSpan, s.Start, s.End)
		emit(RangeContent, contentStart, contentEnd)
		emit(RangeBracket, s.Start, contentStart)
		emit(RangeBracket, contentEnd, s.End)
	}
	return ranges
}
