package domain

import "sort"

// EntryKind distinguishes items in the combined annotation list.
type EntryKind int

const (
	EntryMark EntryKind = iota
	EntryHighlight
)

// Entry is one row of the combined, position-sorted annotation list.
// Exactly one of Mark / Highlight is meaningful, per Kind.
type Entry struct {
	Kind      EntryKind
	Position  Position
	Highlight Highlight
	Mark      Mark

	// Highlight entries: key of the controlling mark ("" if none) and
	// whether the highlight is currently visible.
	ControlledBy string
	Visible      bool

	// Mark entries: number of highlights this mark controls, and the
	// mark's current expand state. A mark with zero notes has nothing
	// to expand.
	NoteCount int
	Expanded  bool
}

// Resolve builds the combined display list from all highlights (keyed by
// page), all marks, and the current expand state.
//
// Marks partition the position line into half-open intervals
// [mark_i, mark_{i+1}): each highlight belongs to the interval of its
// controlling mark, the nearest mark strictly before it. Highlights
// before the first mark have no controlling mark and are always visible;
// the rest are visible iff their controlling mark is expanded.
//
// Resolve is a pure function and is recomputed from scratch on every
// toggle; the result is deterministic for given inputs. Ties between a
// mark and a highlight at the same position order the mark first.
func Resolve(highlights map[int][]Highlight, marks []Mark, expand ExpandState) []Entry {
	entries := make([]Entry, 0, len(marks))

	for page, list := range highlights {
		for _, h := range list {
			pos := h.Start
			pos.Page = page
			entries = append(entries, Entry{
				Kind:      EntryHighlight,
				Position:  pos,
				Highlight: h,
			})
		}
	}
	for _, m := range marks {
		entries = append(entries, Entry{
			Kind:     EntryMark,
			Position: m.Position,
			Mark:     m,
			Expanded: expand.Expanded(m),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		c := entries[i].Position.Compare(entries[j].Position)
		if c != 0 {
			return c < 0
		}
		return entries[i].Kind == EntryMark && entries[j].Kind == EntryHighlight
	})

	// Single sweep: the last mark seen controls every highlight until
	// the next mark.
	var current *Entry
	counts := make(map[string]int, len(marks))
	for i := range entries {
		e := &entries[i]
		switch e.Kind {
		case EntryMark:
			current = e
		case EntryHighlight:
			if current == nil {
				e.Visible = true
				continue
			}
			key := current.Mark.Key()
			e.ControlledBy = key
			e.Visible = expand.Expanded(current.Mark)
			counts[key]++
		}
	}
	for i := range entries {
		if entries[i].Kind == EntryMark {
			entries[i].NoteCount = counts[entries[i].Mark.Key()]
		}
	}

	return entries
}

// VisibleHighlights filters a resolved list down to the highlights that
// should currently be rendered.
func VisibleHighlights(entries []Entry) []Highlight {
	out := make([]Highlight, 0, len(entries))
	for _, e := range entries {
		if e.Kind == EntryHighlight && e.Visible {
			out = append(out, e.Highlight)
		}
	}
	return out
}
