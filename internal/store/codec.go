package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/genrejinn/genrejinn/internal/logger"
)

// Tolerant decoding for the two durable resources. A single malformed
// record is dropped with a log line; it never aborts the whole load.

// DecodeHighlightPages decodes the highlight resource, skipping records
// that fail to parse.
func DecodeHighlightPages(data []byte, log logger.Logger) (PageRecords, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode highlight store: %w", err)
	}

	pages := make(PageRecords, len(raw))
	for key, rawRecs := range raw {
		page, err := strconv.Atoi(key)
		if err != nil || page < 0 {
			log.Warn("dropping highlights under invalid page key",
				logger.String("key", key))
			continue
		}
		recs, err := DecodeHighlightRecords(rawRecs, page, log)
		if err != nil {
			log.Warn("dropping unreadable highlight page",
				logger.Int("page", page),
				logger.Error(err))
			continue
		}
		if len(recs) > 0 {
			pages[page] = recs
		}
	}
	return pages, nil
}

// DecodeHighlightRecords decodes one page's worth of highlight records,
// skipping records that fail to parse.
func DecodeHighlightRecords(data []byte, page int, log logger.Logger) ([]HighlightRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode highlight records: %w", err)
	}
	recs := make([]HighlightRecord, 0, len(raw))
	for _, rr := range raw {
		var rec HighlightRecord
		if err := json.Unmarshal(rr, &rec); err != nil {
			log.Warn("dropping malformed highlight record",
				logger.Int("page", page),
				logger.Error(err))
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// EncodeHighlightRecords encodes one page's records.
func EncodeHighlightRecords(recs []HighlightRecord) ([]byte, error) {
	if recs == nil {
		recs = []HighlightRecord{}
	}
	return json.Marshal(recs)
}

// DecodeMarks decodes the mark resource, skipping records that fail to
// parse.
func DecodeMarks(data []byte, log logger.Logger) ([]MarkRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode mark store: %w", err)
	}

	marks := make([]MarkRecord, 0, len(raw))
	for _, rr := range raw {
		var rec MarkRecord
		if err := json.Unmarshal(rr, &rec); err != nil {
			log.Warn("dropping malformed mark record", logger.Error(err))
			continue
		}
		marks = append(marks, rec)
	}
	return marks, nil
}

// EncodeHighlightPages encodes the highlight resource in its on-disk
// form.
func EncodeHighlightPages(pages PageRecords) ([]byte, error) {
	return json.Marshal(pages)
}

// EncodeMarks encodes the mark resource in its on-disk form.
func EncodeMarks(marks []MarkRecord) ([]byte, error) {
	if marks == nil {
		marks = []MarkRecord{}
	}
	return json.Marshal(marks)
}
