package domain

import "strings"

// Color identifies one of the five highlight colors. Each color owns a
// unique pair of bracket glyphs used to wrap highlighted text inside the
// page buffer, and a hex value used for display.
type Color string

const (
	Yellow Color = "yellow"
	Red    Color = "red"
	Green  Color = "green"
	Blue   Color = "blue"
	White  Color = "white"
)

// Brackets is an open/close glyph pair. Glyphs are pairwise distinct
// across colors and are not escaped: by convention they do not occur as
// ordinary content in source text.
type Brackets struct {
	Open  string
	Close string
}

var colorBrackets = map[Color]Brackets{
	Yellow: {"[", "]"},
	Green:  {"{", "}"},
	Red:    {"<", ">"},
	Blue:   {"«", "»"},
	White:  {"⟨", "⟩"},
}

// Display hex values.
var colorHex = map[Color]string{
	Yellow: "#fbdda7",
	Red:    "#ff6a6e",
	Green:  "#6be28d",
	Blue:   "#b3e3f2",
	White:  "#ffffff",
}

var shortCodes = map[string]Color{
	"yel": Yellow,
	"red": Red,
	"grn": Green,
	"blu": Blue,
	"wht": White,
}

// CycleOrder is the fixed order the current-selection color control
// cycles through.
var CycleOrder = []Color{Yellow, Red, Green, Blue, White}

// BracketsFor returns the bracket pair for a color. Unknown colors fall
// back to yellow's brackets; legacy records carry arbitrary color strings
// and must keep loading.
func BracketsFor(c Color) Brackets {
	if b, ok := colorBrackets[c]; ok {
		return b
	}
	return colorBrackets[Yellow]
}

// HexFor returns the display hex value for a color, yellow's for unknown
// colors.
func HexFor(c Color) string {
	if h, ok := colorHex[c]; ok {
		return h
	}
	return colorHex[Yellow]
}

// FromShortCode converts a 3-letter code (YEL, RED, GRN, BLU, WHT,
// case-insensitive) to a Color. Unknown codes default to yellow.
func FromShortCode(code string) Color {
	if c, ok := shortCodes[strings.ToLower(code)]; ok {
		return c
	}
	return Yellow
}

// ShortCode returns the 3-letter uppercase code for a color.
func (c Color) ShortCode() string {
	for code, color := range shortCodes {
		if color == c {
			return strings.ToUpper(code)
		}
	}
	return "YEL"
}

// Wrap surrounds text with the color's bracket glyphs.
func Wrap(text string, c Color) string {
	b := BracketsFor(c)
	return b.Open + text + b.Close
}

// Strip removes exactly one leading open glyph and one trailing close
// glyph if present. Already-stripped input is returned unchanged.
func Strip(text string, c Color) string {
	b := BracketsFor(c)
	text = strings.TrimPrefix(text, b.Open)
	text = strings.TrimSuffix(text, b.Close)
	return text
}

var glyphCutset = func() string {
	var s strings.Builder
	for _, b := range colorBrackets {
		s.WriteString(b.Open)
		s.WriteString(b.Close)
	}
	return s.String()
}()

// StripAny removes every known glyph of any color from both ends of
// text, doubled or mismatched glyphs included. Used by the legacy
// migration, where the recorded wrapping is unreliable.
func StripAny(text string) string {
	return strings.Trim(text, glyphCutset)
}
