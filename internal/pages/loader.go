// Package pages loads the paginated book produced by the external
// extraction step. The engine treats the result as an immutable ordered
// sequence of page texts, indexed from 0.
package pages

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Book is the parsed book file.
type Book struct {
	Title string   `yaml:"title"`
	Pages []string `yaml:"pages"`
}

// Loader handles loading and parsing of the book file.
type Loader struct {
	filePath string
}

// NewLoader creates a book loader for the given file.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the book file.
func (l *Loader) Load() (*Book, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read book file: %w", err)
	}

	var book Book
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("failed to parse book yaml: %w", err)
	}
	if len(book.Pages) == 0 {
		return nil, fmt.Errorf("book file %s contains no pages", l.filePath)
	}

	return &book, nil
}

// Page returns the text of one page, or "" and false when the index is
// out of range.
func (b *Book) Page(n int) (string, bool) {
	if n < 0 || n >= len(b.Pages) {
		return "", false
	}
	return b.Pages[n], true
}

// Len returns the number of pages.
func (b *Book) Len() int {
	return len(b.Pages)
}
