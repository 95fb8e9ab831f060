package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/genrejinn/genrejinn/internal/domain"
	"github.com/genrejinn/genrejinn/internal/httpserver/deps"
	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/session"
	"github.com/genrejinn/genrejinn/internal/store"
)

type pointPayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p pointPayload) position(page int) domain.Position {
	return domain.Position{Page: page, Row: p.Row, Col: p.Col}
}

type highlightPayload struct {
	Page    int          `json:"page"`
	Start   pointPayload `json:"start"`
	End     pointPayload `json:"end"`
	Text    string       `json:"text"`
	Note    string       `json:"note"`
	Color   string       `json:"color"`
	NoteID  string       `json:"note_id"`
	Visible bool         `json:"visible"`
}

func highlightPayloadFor(h domain.Highlight, visible bool) highlightPayload {
	return highlightPayload{
		Page:    h.Start.Page,
		Start:   pointPayload{Row: h.Start.Row, Col: h.Start.Col},
		End:     pointPayload{Row: h.End.Row, Col: h.End.Col},
		Text:    h.Text,
		Note:    h.Note,
		Color:   string(h.Color),
		NoteID:  domain.NoteID(h.Start),
		Visible: visible,
	}
}

type markPayload struct {
	Key       string       `json:"key"`
	Page      int          `json:"page"`
	Position  pointPayload `json:"position"`
	Label     string       `json:"label"`
	Name      string       `json:"name"`
	NoteCount int          `json:"note_count"`
	Expanded  bool         `json:"expanded"`
}

type entryPayload struct {
	Kind      string            `json:"kind"`
	Highlight *highlightPayload `json:"highlight,omitempty"`
	Mark      *markPayload      `json:"mark,omitempty"`
}

// Annotations returns the combined, position-sorted list of marks and
// highlights with per-session visibility resolved.
func Annotations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := d.Sessions.Resolve(chi.URLParam(r, "sessionID"))
		if sessionError(w, err) {
			return
		}

		out := make([]entryPayload, 0, len(entries))
		for _, e := range entries {
			switch e.Kind {
			case domain.EntryHighlight:
				h := highlightPayloadFor(e.Highlight, e.Visible)
				out = append(out, entryPayload{Kind: "highlight", Highlight: &h})
			case domain.EntryMark:
				m := markPayload{
					Key:       e.Mark.Key(),
					Page:      e.Mark.Position.Page,
					Position:  pointPayload{Row: e.Mark.Position.Row, Col: e.Mark.Position.Col},
					Label:     e.Mark.Label,
					Name:      e.Mark.Name,
					NoteCount: e.NoteCount,
					Expanded:  e.Expanded,
				}
				out = append(out, entryPayload{Kind: "mark", Mark: &m})
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"entries": out})
	}
}

// HighlightAdd creates a highlight from the current selection. When no
// color is given, the session's current color is used and then cycled,
// matching the reader's highlight button.
func HighlightAdd(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Page  int          `json:"page"`
			Start pointPayload `json:"start"`
			End   pointPayload `json:"end"`
			Text  string       `json:"text"`
			Color string       `json:"color"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		var created domain.Highlight
		err := d.Sessions.With(chi.URLParam(r, "sessionID"), func(s *session.Session, st *store.Store) error {
			color := domain.Color(req.Color)
			if req.Color == "" {
				color = s.CurrentColor()
				defer s.CycleColor()
			}
			var err error
			created, err = st.AddHighlight(req.Page, req.Start.position(req.Page), req.End.position(req.Page), req.Text, color)
			return err
		})
		if errors.Is(err, store.ErrEmptySelection) {
			writeError(w, http.StatusBadRequest, "empty selection")
			return
		}
		if sessionError(w, err) {
			return
		}

		h := highlightPayloadFor(created, true)
		writeJSON(w, http.StatusCreated, h)
	}
}

// NoteUpdate sets or clears a highlight's note. The literal note value
// "DELETE" deletes the highlight instead; this sentinel is part of the
// boundary contract. The target is addressed either by note_id
// ("note_{page}_{row}_{col}") or by explicit page/start fields.
func NoteUpdate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			NoteID string        `json:"note_id"`
			Page   *int          `json:"page"`
			Start  *pointPayload `json:"start"`
			Note   string        `json:"note"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		page, start, ok := resolveTarget(req.NoteID, req.Page, req.Start)
		if !ok {
			// Malformed identifiers fail soft: log and ignore.
			d.Logger.Warn("ignoring malformed note identifier",
				logger.String("note_id", req.NoteID))
			w.WriteHeader(http.StatusNoContent)
			return
		}

		err := d.Sessions.With(chi.URLParam(r, "sessionID"), func(_ *session.Session, st *store.Store) error {
			st.UpdateNote(page, start, store.SetNote(req.Note))
			return nil
		})
		if sessionError(w, err) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ColorUpdate re-wraps a highlight in a new color's brackets. Accepts a
// full color name or a 3-letter short code.
func ColorUpdate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			NoteID string        `json:"note_id"`
			Page   *int          `json:"page"`
			Start  *pointPayload `json:"start"`
			Color  string        `json:"color"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		page, start, ok := resolveTarget(req.NoteID, req.Page, req.Start)
		if !ok {
			d.Logger.Warn("ignoring malformed note identifier",
				logger.String("note_id", req.NoteID))
			w.WriteHeader(http.StatusNoContent)
			return
		}

		color := domain.Color(req.Color)
		if len(req.Color) == 3 {
			color = domain.FromShortCode(req.Color)
		}

		err := d.Sessions.With(chi.URLParam(r, "sessionID"), func(_ *session.Session, st *store.Store) error {
			st.UpdateColor(page, start, color)
			return nil
		})
		if sessionError(w, err) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HighlightDelete removes the highlight at ?page=&row=&col=.
func HighlightDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, perr := strconv.Atoi(r.URL.Query().Get("page"))
		row, rerr := strconv.Atoi(r.URL.Query().Get("row"))
		col, cerr := strconv.Atoi(r.URL.Query().Get("col"))
		if perr != nil || rerr != nil || cerr != nil {
			writeError(w, http.StatusBadRequest, "page, row and col are required")
			return
		}

		err := d.Sessions.With(chi.URLParam(r, "sessionID"), func(_ *session.Session, st *store.Store) error {
			st.DeleteHighlight(page, domain.Position{Page: page, Row: row, Col: col})
			return nil
		})
		if sessionError(w, err) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MarkAdd commits a mark at the captured position.
func MarkAdd(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Page     int          `json:"page"`
			Position pointPayload `json:"position"`
			Text     string       `json:"text"`
			Name     string       `json:"name"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		var created domain.Mark
		err := d.Sessions.With(chi.URLParam(r, "sessionID"), func(_ *session.Session, st *store.Store) error {
			created = st.AddMark(req.Page, req.Position.position(req.Page), req.Text, req.Name)
			return nil
		})
		if sessionError(w, err) {
			return
		}

		writeJSON(w, http.StatusCreated, markPayload{
			Key:      created.Key(),
			Page:     created.Position.Page,
			Position: pointPayload{Row: created.Position.Row, Col: created.Position.Col},
			Label:    created.Label,
			Name:     created.Name,
		})
	}
}

// MarkDelete removes a mark by identity key and clears its expand state
// everywhere.
func MarkDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		key := chi.URLParam(r, "markKey")

		var mark domain.Mark
		found := false
		err := d.Sessions.With(id, func(_ *session.Session, st *store.Store) error {
			mark, found = st.FindMark(key)
			return nil
		})
		if sessionError(w, err) {
			return
		}
		if !found {
			// Stale UI state; nothing to do.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if err := d.Sessions.DeleteMark(id, mark); sessionError(w, err) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MarkToggle flips a mark's expand state for this session and returns
// the new state.
func MarkToggle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "markKey")

		var expanded, found bool
		err := d.Sessions.With(chi.URLParam(r, "sessionID"), func(s *session.Session, st *store.Store) error {
			var mark domain.Mark
			mark, found = st.FindMark(key)
			if found {
				expanded = s.Expand.Toggle(mark)
			}
			return nil
		})
		if sessionError(w, err) {
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "unknown mark")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"expanded": expanded})
	}
}

// resolveTarget picks the highlight addressed by a note identifier or by
// explicit page/start fields.
func resolveTarget(noteID string, page *int, start *pointPayload) (int, domain.Position, bool) {
	if noteID != "" {
		pos, ok := domain.ParseNoteID(noteID)
		return pos.Page, pos, ok
	}
	if page == nil || start == nil {
		return 0, domain.Position{}, false
	}
	return *page, start.position(*page), true
}
