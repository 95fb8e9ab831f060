package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/store"
)

func testBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(t.TempDir(), logger.New("error", false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestLoadMissingFiles(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()

	pages, err := b.LoadHighlights(ctx)
	if err != nil {
		t.Fatalf("LoadHighlights: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("pages = %v, want empty", pages)
	}

	marks, err := b.LoadMarks(ctx)
	if err != nil {
		t.Fatalf("LoadMarks: %v", err)
	}
	if len(marks) != 0 {
		t.Errorf("marks = %v, want empty", marks)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := testBackend(t)
	ctx := context.Background()

	pages := store.PageRecords{
		4: {{StartRow: 0, StartCol: 3, EndRow: 0, EndCol: 10, Text: "[content]", Note: "why", Color: "yellow"}},
	}
	marks := []store.MarkRecord{
		{Page: 4, Row: 2, Col: 0, Text: "selected", Name: "Section", Timestamp: 1700000000},
	}

	if err := b.SaveHighlights(ctx, pages); err != nil {
		t.Fatalf("SaveHighlights: %v", err)
	}
	if err := b.SaveMarks(ctx, marks); err != nil {
		t.Fatalf("SaveMarks: %v", err)
	}

	gotPages, err := b.LoadHighlights(ctx)
	if err != nil {
		t.Fatalf("LoadHighlights: %v", err)
	}
	if len(gotPages) != 1 || gotPages[4][0] != pages[4][0] {
		t.Errorf("pages round trip = %+v", gotPages)
	}

	gotMarks, err := b.LoadMarks(ctx)
	if err != nil {
		t.Fatalf("LoadMarks: %v", err)
	}
	if len(gotMarks) != 1 || gotMarks[0] != marks[0] {
		t.Errorf("marks round trip = %+v", gotMarks)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := New(dir, logger.New("error", false))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SaveMarks(context.Background(), nil); err != nil {
		t.Fatalf("SaveMarks: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "marks.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v, want only marks.json", names)
	}
}

func TestLoadLegacyHighlightsFile(t *testing.T) {
	dir := t.TempDir()
	raw := `{"0": [[[0,0],[0,5],"Hi","a note"]]}`
	if err := os.WriteFile(filepath.Join(dir, "highlights.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := New(dir, logger.New("error", false))
	if err != nil {
		t.Fatal(err)
	}

	pages, err := b.LoadHighlights(context.Background())
	if err != nil {
		t.Fatalf("LoadHighlights: %v", err)
	}
	rec := pages[0][0]
	if rec.Text != "Hi" || rec.Note != "a note" || rec.Color != "" {
		t.Errorf("legacy record = %+v", rec)
	}
}

func TestPageState(t *testing.T) {
	b := testBackend(t)

	if got := b.LoadCurrentPage(10); got != 0 {
		t.Errorf("missing state = %d, want 0", got)
	}

	b.SaveCurrentPage(7)
	if got := b.LoadCurrentPage(10); got != 7 {
		t.Errorf("saved page = %d, want 7", got)
	}

	// Book shrank: the saved page is out of bounds.
	if got := b.LoadCurrentPage(5); got != 0 {
		t.Errorf("out-of-bounds page = %d, want 0", got)
	}
}
