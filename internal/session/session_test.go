package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/genrejinn/genrejinn/internal/domain"
	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/pages"
	"github.com/genrejinn/genrejinn/internal/store"
	"github.com/genrejinn/genrejinn/internal/store/file"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	log := logger.New("error", false)
	backend, err := file.New(t.TempDir(), log)
	if err != nil {
		t.Fatal(err)
	}
	st := store.New(backend, log)
	st.Load(context.Background())
	book := &pages.Book{Title: "t", Pages: []string{"page zero", "page one", "page two"}}
	return NewManager(st, book, log)
}

func TestCreateAndGet(t *testing.T) {
	m := testManager(t)

	s := m.Create(1)
	if s.ID == "" {
		t.Fatal("empty session id")
	}
	if s.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", s.CurrentPage)
	}
	if s.CurrentColor() != domain.Yellow {
		t.Errorf("initial color = %s, want yellow", s.CurrentColor())
	}

	got, err := m.Get(s.ID)
	if err != nil || got.ID != s.ID {
		t.Fatalf("Get = %v, %v", got, err)
	}

	if _, err := m.Get("nope"); !errors.Is(err, ErrNoSession) {
		t.Errorf("unknown id err = %v, want ErrNoSession", err)
	}
}

func TestCreateClampsStartPage(t *testing.T) {
	m := testManager(t)
	if s := m.Create(99); s.CurrentPage != 0 {
		t.Errorf("out-of-range start page = %d, want 0", s.CurrentPage)
	}
	if s := m.Create(-1); s.CurrentPage != 0 {
		t.Errorf("negative start page = %d, want 0", s.CurrentPage)
	}
}

func TestCycleColorOrder(t *testing.T) {
	m := testManager(t)
	s := m.Create(0)

	want := []domain.Color{domain.Red, domain.Green, domain.Blue, domain.White, domain.Yellow}
	for i, w := range want {
		if got := s.CycleColor(); got != w {
			t.Errorf("cycle %d = %s, want %s", i, got, w)
		}
	}
}

func TestWithSerializesStoreAccess(t *testing.T) {
	m := testManager(t)
	s := m.Create(0)

	err := m.With(s.ID, func(sess *Session, st *store.Store) error {
		_, err := st.AddHighlight(0, domain.Position{Row: 0, Col: 0}, domain.Position{Row: 0, Col: 4}, "page", sess.CurrentColor())
		return err
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	entries, err := m.Resolve(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Kind != domain.EntryHighlight {
		t.Fatalf("entries = %v, want one highlight", entries)
	}

	if err := m.With("gone", func(*Session, *store.Store) error { return nil }); !errors.Is(err, ErrNoSession) {
		t.Errorf("With unknown id err = %v", err)
	}
}

func TestDeleteMarkClearsExpandEverywhere(t *testing.T) {
	m := testManager(t)
	a := m.Create(0)
	b := m.Create(0)

	var mark domain.Mark
	m.With(a.ID, func(_ *Session, st *store.Store) error {
		mark = st.AddMark(1, domain.Position{Row: 0, Col: 0}, "text", "Section")
		return nil
	})
	a.Expand.Toggle(mark)
	b.Expand.Toggle(mark)

	if err := m.DeleteMark(a.ID, mark); err != nil {
		t.Fatalf("DeleteMark: %v", err)
	}

	if a.Expand.Expanded(mark) || b.Expand.Expanded(mark) {
		t.Error("expand state survived mark deletion")
	}
	m.With(a.ID, func(_ *Session, st *store.Store) error {
		if len(st.Marks()) != 0 {
			t.Errorf("marks = %v after delete", st.Marks())
		}
		return nil
	})
}

func TestClose(t *testing.T) {
	m := testManager(t)
	s := m.Create(0)
	m.Close(s.ID)
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNoSession) {
		t.Error("closed session still reachable")
	}
}

func TestSweep(t *testing.T) {
	m := testManager(t)
	stale := m.Create(0)
	stale.LastSeen = time.Now().Add(-time.Hour)
	fresh := m.Create(0)

	if removed := m.Sweep(10 * time.Minute); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := m.Get(stale.ID); !errors.Is(err, ErrNoSession) {
		t.Error("stale session survived sweep")
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Errorf("fresh session swept: %v", err)
	}
}

func TestPageStateResume(t *testing.T) {
	log := logger.New("error", false)
	backend, err := file.New(t.TempDir(), log)
	if err != nil {
		t.Fatal(err)
	}
	st := store.New(backend, log)
	st.Load(context.Background())
	book := &pages.Book{Pages: []string{"a", "b", "c"}}
	m := NewManager(st, book, log, WithPageState(backend))

	s := m.Create(-1)
	if s.CurrentPage != 0 {
		t.Fatalf("fresh resume page = %d, want 0", s.CurrentPage)
	}
	s.CurrentPage = 2
	m.Save(context.Background())

	m2 := NewManager(st, book, log, WithPageState(backend))
	if got := m2.Create(-1).CurrentPage; got != 2 {
		t.Errorf("resumed page = %d, want 2", got)
	}
	// Explicit pages win over the persisted position.
	if got := m2.Create(1).CurrentPage; got != 1 {
		t.Errorf("explicit page = %d, want 1", got)
	}
}

func TestSavePersists(t *testing.T) {
	log := logger.New("error", false)
	dir := t.TempDir()
	backend, err := file.New(dir, log)
	if err != nil {
		t.Fatal(err)
	}
	st := store.New(backend, log)
	st.Load(context.Background())
	book := &pages.Book{Pages: []string{"only page"}}
	m := NewManager(st, book, log)

	s := m.Create(0)
	m.With(s.ID, func(_ *Session, st *store.Store) error {
		st.AddMark(0, domain.Position{Row: 1, Col: 0}, "text", "Kept")
		return nil
	})
	m.Save(context.Background())

	st2 := store.New(backend, log)
	st2.Load(context.Background())
	if len(st2.Marks()) != 1 || st2.Marks()[0].Name != "Kept" {
		t.Errorf("reloaded marks = %v", st2.Marks())
	}
}
