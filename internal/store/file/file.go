// Package file is the default persistence backend: two JSON files under
// a data directory, one per durable resource, fully overwritten on save.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/genrejinn/genrejinn/internal/logger"
	"github.com/genrejinn/genrejinn/internal/store"
)

const (
	highlightsFile = "highlights.json"
	marksFile      = "marks.json"
	pageStateFile  = "page_state.json"
)

// Backend persists annotations as JSON files.
type Backend struct {
	dir string
	log logger.Logger
}

// New creates the file backend, making the data directory if needed.
func New(dir string, log logger.Logger) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Backend{dir: dir, log: log}, nil
}

func (b *Backend) LoadHighlights(ctx context.Context) (store.PageRecords, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, highlightsFile))
	if os.IsNotExist(err) {
		b.log.Info("no highlights file found, starting fresh")
		return store.PageRecords{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read highlights file: %w", err)
	}
	return store.DecodeHighlightPages(data, b.log)
}

func (b *Backend) SaveHighlights(ctx context.Context, pages store.PageRecords) error {
	data, err := store.EncodeHighlightPages(pages)
	if err != nil {
		return fmt.Errorf("encode highlights: %w", err)
	}
	return b.writeFile(highlightsFile, data)
}

func (b *Backend) LoadMarks(ctx context.Context) ([]store.MarkRecord, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, marksFile))
	if os.IsNotExist(err) {
		b.log.Info("no marks file found, starting fresh")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read marks file: %w", err)
	}
	return store.DecodeMarks(data, b.log)
}

func (b *Backend) SaveMarks(ctx context.Context, marks []store.MarkRecord) error {
	data, err := store.EncodeMarks(marks)
	if err != nil {
		return fmt.Errorf("encode marks: %w", err)
	}
	return b.writeFile(marksFile, data)
}

// writeFile performs an atomic replace: write a temp file in the same
// directory, then rename over the target.
func (b *Backend) writeFile(name string, data []byte) error {
	target := filepath.Join(b.dir, name)
	tmp, err := os.CreateTemp(b.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
