package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/genrejinn/genrejinn/internal/domain"
	"github.com/genrejinn/genrejinn/internal/httpserver/deps"
	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/parser"
	"github.com/genrejinn/genrejinn/internal/session"
	"github.com/genrejinn/genrejinn/internal/store"
)

type sessionResponse struct {
	SessionID   string `json:"session_id"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	Color       string `json:"color"`
	ColorCode   string `json:"color_code"`
}

func sessionResponseFor(s *session.Session, total int) sessionResponse {
	return sessionResponse{
		SessionID:   s.ID,
		CurrentPage: s.CurrentPage,
		TotalPages:  total,
		Color:       string(s.CurrentColor()),
		ColorCode:   s.CurrentColor().ShortCode(),
	}
}

// SessionCreate opens a new reading session. Without an explicit page
// the session resumes at the persisted reading position.
func SessionCreate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := struct {
			Page int `json:"page"`
		}{Page: -1}
		if r.ContentLength > 0 && !decodeBody(w, r, &req) {
			return
		}

		s := d.Sessions.Create(req.Page)
		writeJSON(w, http.StatusCreated, sessionResponseFor(s, d.Book.Len()))
	}
}

// SessionInfo reports a session's current state.
func SessionInfo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.Get(chi.URLParam(r, "sessionID"))
		if sessionError(w, err) {
			return
		}
		writeJSON(w, http.StatusOK, sessionResponseFor(s, d.Book.Len()))
	}
}

// SessionClose discards a session.
func SessionClose(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Sessions.Close(chi.URLParam(r, "sessionID"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// PageSet changes a session's current page.
func PageSet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Page int `json:"page"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if _, ok := d.Book.Page(req.Page); !ok {
			writeError(w, http.StatusBadRequest, "page out of range")
			return
		}

		id := chi.URLParam(r, "sessionID")
		err := d.Sessions.With(id, func(s *session.Session, _ *store.Store) error {
			s.CurrentPage = req.Page
			return nil
		})
		if sessionError(w, err) {
			return
		}
		s, err := d.Sessions.Get(id)
		if sessionError(w, err) {
			return
		}
		writeJSON(w, http.StatusOK, sessionResponseFor(s, d.Book.Len()))
	}
}

type pageResponse struct {
	Page   int                 `json:"page"`
	Text   string              `json:"text"`
	Styles []parser.StyleRange `json:"styles"`
}

// PageGet returns one page's text with the style ranges for its stored
// highlights. The stored records are re-applied by inserting each
// highlight's bracket glyphs at its recorded positions before parsing.
func PageGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(chi.URLParam(r, "page"))
		if err != nil || page < 0 {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		text, ok := d.Book.Page(page)
		if !ok {
			writeError(w, http.StatusNotFound, "page out of range")
			return
		}

		id := chi.URLParam(r, "sessionID")
		var rendered string
		werr := d.Sessions.With(id, func(_ *session.Session, st *store.Store) error {
			rendered = renderPage(text, st, page)
			return nil
		})
		if sessionError(w, werr) {
			return
		}

		spans := parser.Parse(rendered)
		writeJSON(w, http.StatusOK, pageResponse{
			Page:   page,
			Text:   rendered,
			Styles: parser.StyleRanges(spans),
		})
	}
}

// renderPage inserts each stored highlight's bracket glyphs at its
// recorded start and end positions so the parser can recover spans and
// styling. Anchoring on positions keeps duplicated page content from
// bracketing the wrong occurrence.
func renderPage(text string, st *store.Store, page int) string {
	list := st.PageHighlights(page)
	if len(list) == 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	// Walk in reverse position order, close glyph before open glyph,
	// so each insertion leaves all earlier positions intact.
	for i := len(list) - 1; i >= 0; i-- {
		h := list[i]
		b := domain.BracketsFor(h.Color)
		insertGlyph(lines, h.End.Row, h.End.Col, b.Close)
		insertGlyph(lines, h.Start.Row, h.Start.Col, b.Open)
	}
	return strings.Join(lines, "\n")
}

// insertGlyph splices glyph into lines at (row, col), counting columns
// in runes. Stale positions clamp to the line end rather than fail.
func insertGlyph(lines []string, row, col int, glyph string) {
	if row < 0 || row >= len(lines) {
		return
	}
	runes := []rune(lines[row])
	if col < 0 || col > len(runes) {
		col = len(runes)
	}
	lines[row] = string(runes[:col]) + glyph + string(runes[col:])
}

// Save triggers an immediate persistence of the full store.
func Save(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if _, err := d.Sessions.Get(id); sessionError(w, err) {
			return
		}
		d.Autosaver.Save(r.Context())
		d.Logger.Info("manual save requested", logger.String("session_id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
