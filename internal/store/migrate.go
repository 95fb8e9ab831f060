package store

import (
	"github.com/genrejinn/genrejinn/internal/domain"
	"github.com/genrejinn/genrejinn/internal/logger"
)

// migrateHighlights upgrades legacy 4-field highlight records in place.
// A record without a color gets color=yellow, and its text is rewrapped
// in exactly one pair of yellow's brackets: any stray or doubled glyphs
// from old data are stripped first. Runs once per load, before any other
// operation touches the store; re-running it on upgraded records changes
// nothing.
func migrateHighlights(pages PageRecords, log logger.Logger) int {
	upgraded := 0

	for page, recs := range pages {
		for i, r := range recs {
			if r.Color != "" {
				continue
			}
			r.Color = string(domain.Yellow)
			r.Text = domain.Wrap(domain.StripAny(r.Text), domain.Yellow)
			pages[page][i] = r
			upgraded++
		}
	}

	if upgraded > 0 {
		log.Info("upgraded legacy highlight records",
			logger.Int("count", upgraded))
	}
	return upgraded
}
