package domain

import "fmt"

// Highlight is a colored, bracket-wrapped span of page text with an
// optional note. Text always begins with the color's open glyph and ends
// with its close glyph. Start is unique within the highlight's page and
// acts as its primary key.
type Highlight struct {
	Start Position
	End   Position
	Text  string
	Note  string
	Color Color
}

// Content returns the highlighted text without its bracket glyphs.
func (h Highlight) Content() string {
	return Strip(h.Text, h.Color)
}

// Mark is a named, position-anchored section marker. Marks group the
// highlights that follow them (until the next mark) under one
// expandable entry.
type Mark struct {
	Position Position
	Label    string // verbatim selected text the mark was anchored on
	Name     string
	// CreatedAt disambiguates marks created at identical positions.
	// Unix nanoseconds; legacy records carry 0 or coarser values.
	CreatedAt int64
}

// Key returns the mark's identity key, used to track expand/collapse
// state: "mark_{page}_{row}_{col}_{timestamp}".
func (m Mark) Key() string {
	return fmt.Sprintf("mark_%d_%d_%d_%d", m.Position.Page, m.Position.Row, m.Position.Col, m.CreatedAt)
}

// ExpandState tracks which marks are currently expanded, keyed by
// Mark.Key(). It is transient: never persisted, and a mark absent from
// the map is collapsed.
type ExpandState map[string]bool

// Expanded reports whether the given mark is expanded.
func (s ExpandState) Expanded(m Mark) bool {
	return s[m.Key()]
}

// Toggle flips the expand state of the given mark and returns the new
// state.
func (s ExpandState) Toggle(m Mark) bool {
	k := m.Key()
	s[k] = !s[k]
	return s[k]
}

// Forget drops any state held for the given mark. Called when the mark
// is deleted.
func (s ExpandState) Forget(m Mark) {
	delete(s, m.Key())
}
