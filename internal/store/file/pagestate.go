package file

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/genrejinn/genrejinn/internal/logger"
)

// SaveCurrentPage persists the current reading position. Best effort:
// failures are logged and swallowed.
func (b *Backend) SaveCurrentPage(page int) {
	data, _ := json.Marshal(page)
	if err := b.writeFile(pageStateFile, data); err != nil {
		b.log.Warn("failed to save current page", logger.Error(err))
	}
}

// LoadCurrentPage returns the saved reading position, or 0 when nothing
// usable is stored or the saved page is out of bounds for this book.
func (b *Backend) LoadCurrentPage(totalPages int) int {
	data, err := os.ReadFile(filepath.Join(b.dir, pageStateFile))
	if err != nil {
		return 0
	}
	var page int
	if err := json.Unmarshal(data, &page); err != nil {
		b.log.Warn("unreadable page state, starting at page 0",
			logger.Error(err))
		return 0
	}
	if page < 0 || page >= totalPages {
		return 0
	}
	return page
}
