// Package session multiplexes independent single-user reading sessions
// over one document. Each session owns only transient view state
// (current page, expand state, selection color); the annotation store
// has a single logical owner, the Manager, which serializes every
// mutation behind one mutex. Sessions are not concurrent writers to
// separate stores.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/genrejinn/genrejinn/internal/domain"
	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/pages"
	"github.com/genrejinn/genrejinn/internal/store"
)

// ErrNoSession is returned when a session id is unknown or expired.
var ErrNoSession = errors.New("unknown session")

// Session is one user's transient reading state.
type Session struct {
	ID          string
	CurrentPage int
	Expand      domain.ExpandState
	colorIdx    int
	CreatedAt   time.Time
	LastSeen    time.Time
}

// CurrentColor returns the session's current selection color.
func (s *Session) CurrentColor() domain.Color {
	return domain.CycleOrder[s.colorIdx]
}

// CycleColor advances the selection color in the fixed
// YEL→RED→GRN→BLU→WHT order and returns the new color.
func (s *Session) CycleColor() domain.Color {
	s.colorIdx = (s.colorIdx + 1) % len(domain.CycleOrder)
	return s.CurrentColor()
}

// PageState persists the reading position between runs. The file
// backend implements it; deployments without one simply start at page 0.
type PageState interface {
	SaveCurrentPage(page int)
	LoadCurrentPage(totalPages int) int
}

// Manager owns the store and the live sessions.
type Manager struct {
	mu        sync.Mutex
	store     *store.Store
	book      *pages.Book
	log       logger.Logger
	sessions  map[string]*Session
	pageState PageState
}

// Option configures a Manager.
type Option func(*Manager)

// WithPageState wires a persisted reading position into session
// creation and save.
func WithPageState(ps PageState) Option {
	return func(m *Manager) { m.pageState = ps }
}

func NewManager(st *store.Store, book *pages.Book, log logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:    st,
		book:     book,
		log:      log,
		sessions: make(map[string]*Session),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Create opens a new session starting at the given page. A negative
// start page resumes at the persisted reading position when one is
// available.
func (m *Manager) Create(startPage int) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if startPage < 0 && m.pageState != nil {
		startPage = m.pageState.LoadCurrentPage(m.book.Len())
	}

	now := time.Now()
	s := &Session{
		ID:          uuid.NewString(),
		CurrentPage: clampPage(startPage, m.book.Len()),
		Expand:      make(domain.ExpandState),
		CreatedAt:   now,
		LastSeen:    now,
	}
	m.sessions[s.ID] = s
	m.log.Info("session created", logger.String("session_id", s.ID))
	return s
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	s.LastSeen = time.Now()
	return s, nil
}

// Close discards a session's transient state.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Book returns the immutable page source.
func (m *Manager) Book() *pages.Book {
	return m.book
}

// With runs fn with exclusive access to the store and the session.
// All store mutations from handlers funnel through here.
func (m *Manager) With(id string, fn func(s *Session, st *store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNoSession
	}
	s.LastSeen = time.Now()
	return fn(s, m.store)
}

// Resolve computes the combined annotation list for one session's
// expand state.
func (m *Manager) Resolve(id string) ([]domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return domain.Resolve(m.store.Highlights(), m.store.Marks(), s.Expand), nil
}

// DeleteMark removes a mark from the store and clears its expand state
// in every session. The expand cleanup is the cross-component half of
// mark deletion that the store itself does not own.
func (m *Manager) DeleteMark(id string, mark domain.Mark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNoSession
	}
	m.store.DeleteMark(mark)
	for _, s := range m.sessions {
		s.Expand.Forget(mark)
	}
	return nil
}

// Sweep drops sessions idle for longer than ttl. Returns the number
// removed.
func (m *Manager) Sweep(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info("swept idle sessions", logger.Int("removed", removed))
	}
	return removed
}

// Save persists the store. Implements scheduler.Saver so the autosaver
// and user-triggered saves share one serialization point. The most
// recently active session's page becomes the persisted reading
// position.
func (m *Manager) Save(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Save(ctx)

	if m.pageState == nil {
		return
	}
	var latest *Session
	for _, s := range m.sessions {
		if latest == nil || s.LastSeen.After(latest.LastSeen) {
			latest = s
		}
	}
	if latest != nil {
		m.pageState.SaveCurrentPage(latest.CurrentPage)
	}
}

func clampPage(page, total int) int {
	if page < 0 || page >= total {
		return 0
	}
	return page
}
