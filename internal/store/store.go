// Package store owns the canonical annotation collections: per-page
// highlight lists and the flat mark list. All mutations happen on one
// logical thread; persistence goes through a narrow Backend port and is
// best-effort: in-memory state stays authoritative when a write fails.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/genrejinn/genrejinn/internal/domain"
	"github.com/genrejinn/genrejinn/internal/logger"
)

// Backend is the persistence port. Highlights and marks are two
// independent durable resources; a crash between the two saves can leave
// them inconsistent, which is an accepted limitation.
type Backend interface {
	LoadHighlights(ctx context.Context) (PageRecords, error)
	SaveHighlights(ctx context.Context, pages PageRecords) error
	LoadMarks(ctx context.Context) ([]MarkRecord, error)
	SaveMarks(ctx context.Context, marks []MarkRecord) error
}

// ErrEmptySelection is returned by AddHighlight when start == end.
var ErrEmptySelection = errors.New("empty selection")

// NoteDeleteSentinel is the literal note value that deletes a highlight
// instead of setting its note. Part of the observable boundary contract;
// internal callers use the tagged NoteOp instead.
const NoteDeleteSentinel = "DELETE"

// NoteOp is a note update: either set the note text or delete the
// highlight.
type NoteOp struct {
	Delete bool
	Text   string
}

// SetNote builds the note-setting op. The literal sentinel is honored
// here so boundary callers keep their historical behavior.
func SetNote(text string) NoteOp {
	if text == NoteDeleteSentinel {
		return NoteOp{Delete: true}
	}
	return NoteOp{Text: text}
}

// DeleteNote builds the highlight-deleting op.
func DeleteNote() NoteOp {
	return NoteOp{Delete: true}
}

// Store holds the loaded annotation state for one document.
type Store struct {
	backend Backend
	log     logger.Logger
	now     func() time.Time

	highlights map[int][]domain.Highlight
	marks      []domain.Mark
	lastMarkTS int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source for mark creation. Tests use
// a monotonic counter for determinism.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(backend Backend, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		backend:    backend,
		log:        log,
		now:        time.Now,
		highlights: make(map[int][]domain.Highlight),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads both resources from the backend and applies the legacy
// migration. Missing or unreadable data degrades to empty collections;
// annotation loss is preferred over failing to start.
func (s *Store) Load(ctx context.Context) {
	pages, err := s.backend.LoadHighlights(ctx)
	if err != nil {
		s.log.Warn("failed to load highlights, starting empty",
			logger.Error(err))
		pages = PageRecords{}
	}
	migrateHighlights(pages, s.log)

	s.highlights = make(map[int][]domain.Highlight, len(pages))
	total := 0
	for page, recs := range pages {
		list := make([]domain.Highlight, 0, len(recs))
		for _, r := range recs {
			list = append(list, r.toHighlight(page))
		}
		sortHighlights(list)
		s.highlights[page] = list
		total += len(list)
	}

	marks, err := s.backend.LoadMarks(ctx)
	if err != nil {
		s.log.Warn("failed to load marks, starting empty",
			logger.Error(err))
		marks = nil
	}
	s.marks = make([]domain.Mark, 0, len(marks))
	for _, r := range marks {
		s.marks = append(s.marks, r.toMark())
	}

	s.log.Info("annotations loaded",
		logger.Int("pages", len(s.highlights)),
		logger.Int("highlights", total),
		logger.Int("marks", len(s.marks)))
}

// Save persists both resources. Failures are logged and swallowed;
// repeated saves are idempotent full overwrites.
func (s *Store) Save(ctx context.Context) {
	pages := make(PageRecords, len(s.highlights))
	for page, list := range s.highlights {
		recs := make([]HighlightRecord, 0, len(list))
		for _, h := range list {
			recs = append(recs, recordFromHighlight(h))
		}
		pages[page] = recs
	}
	if err := s.backend.SaveHighlights(ctx, pages); err != nil {
		s.log.Warn("failed to save highlights", logger.Error(err))
	}

	marks := make([]MarkRecord, 0, len(s.marks))
	for _, m := range s.marks {
		marks = append(marks, recordFromMark(m))
	}
	if err := s.backend.SaveMarks(ctx, marks); err != nil {
		s.log.Warn("failed to save marks", logger.Error(err))
	}
}

// AddHighlight wraps the selected text in the color's brackets and
// inserts the record with an empty note. Start and end are page-local.
func (s *Store) AddHighlight(page int, start, end domain.Position, selectedText string, color domain.Color) (domain.Highlight, error) {
	start.Page, end.Page = page, page
	if start == end {
		s.log.Debug("rejecting empty selection",
			logger.String("position", start.String()))
		return domain.Highlight{}, ErrEmptySelection
	}

	h := domain.Highlight{
		Start: start,
		End:   end,
		Text:  domain.Wrap(selectedText, color),
		Color: color,
	}
	list := s.highlights[page]
	// Start is the primary key: replace rather than duplicate.
	if i := indexByStart(list, start); i >= 0 {
		list[i] = h
	} else {
		list = append(list, h)
		sortHighlights(list)
	}
	s.highlights[page] = list
	return h, nil
}

// UpdateNote applies a note op to the highlight at (page, start). A
// position with no matching record is a silent no-op: stale UI state is
// normal, not an error.
func (s *Store) UpdateNote(page int, start domain.Position, op NoteOp) {
	if op.Delete {
		s.DeleteHighlight(page, start)
		return
	}
	start.Page = page
	list := s.highlights[page]
	if i := indexByStart(list, start); i >= 0 {
		list[i].Note = op.Text
	}
}

// UpdateColor strips the old color's brackets from the stored text,
// re-wraps it in the new color's, and updates the color field. No match
// is a silent no-op.
func (s *Store) UpdateColor(page int, start domain.Position, newColor domain.Color) {
	start.Page = page
	list := s.highlights[page]
	i := indexByStart(list, start)
	if i < 0 {
		return
	}
	h := list[i]
	h.Text = domain.Wrap(domain.Strip(h.Text, h.Color), newColor)
	h.Color = newColor
	list[i] = h
}

// DeleteHighlight removes the record at (page, start), dropping the page
// entry entirely when its list becomes empty.
func (s *Store) DeleteHighlight(page int, start domain.Position) {
	start.Page = page
	list := s.highlights[page]
	i := indexByStart(list, start)
	if i < 0 {
		return
	}
	list = append(list[:i], list[i+1:]...)
	if len(list) == 0 {
		delete(s.highlights, page)
		return
	}
	s.highlights[page] = list
}

// AddMark appends a mark anchored at the given position with a fresh
// timestamp. The timestamp disambiguates marks created at identical
// positions, so it must never repeat: nanosecond resolution plus a
// monotonic floor over the last issued value covers coarse clocks.
func (s *Store) AddMark(page int, pos domain.Position, text, name string) domain.Mark {
	pos.Page = page
	ts := s.now().UnixNano()
	if ts <= s.lastMarkTS {
		ts = s.lastMarkTS + 1
	}
	s.lastMarkTS = ts

	m := domain.Mark{
		Position:  pos,
		Label:     text,
		Name:      name,
		CreatedAt: ts,
	}
	s.marks = append(s.marks, m)
	return m
}

// DeleteMark removes the mark with the same identity key. Clearing any
// expand state for the mark is the caller's responsibility.
func (s *Store) DeleteMark(mark domain.Mark) {
	key := mark.Key()
	for i, m := range s.marks {
		if m.Key() == key {
			s.marks = append(s.marks[:i], s.marks[i+1:]...)
			return
		}
	}
}

// Highlights returns the per-page highlight lists. Iteration order
// within a page is always by start position.
func (s *Store) Highlights() map[int][]domain.Highlight {
	return s.highlights
}

// PageHighlights returns the highlights of one page sorted by start
// position.
func (s *Store) PageHighlights(page int) []domain.Highlight {
	return s.highlights[page]
}

// Marks returns the flat mark list.
func (s *Store) Marks() []domain.Mark {
	return s.marks
}

// FindMark locates a mark by its identity key.
func (s *Store) FindMark(key string) (domain.Mark, bool) {
	for _, m := range s.marks {
		if m.Key() == key {
			return m, true
		}
	}
	return domain.Mark{}, false
}

func indexByStart(list []domain.Highlight, start domain.Position) int {
	for i, h := range list {
		if h.Start == start {
			return i
		}
	}
	return -1
}

func sortHighlights(list []domain.Highlight) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Start.Before(list[j].Start)
	})
}
