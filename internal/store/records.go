package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/genrejinn/genrejinn/internal/domain"
)

// Wire shapes for the two durable resources.
//
// A highlight record is a JSON array [[row,col],[row,col],text,note,color];
// the current schema has 5 elements, the legacy one 4 (no color). A mark
// record is a JSON array [page,row,col,text,name,timestamp]; legacy
// records have 5 elements (no timestamp). Both legacy shapes must keep
// decoding; the store upgrades them on load.

// HighlightRecord is the persisted form of one highlight. Page is
// carried by the surrounding map key, so Start/End hold row and col only.
type HighlightRecord struct {
	StartRow, StartCol int
	EndRow, EndCol     int
	Text               string
	Note               string
	Color              string // "" on legacy 4-field records
}

// PageRecords maps a page index to its persisted highlight records.
type PageRecords map[int][]HighlightRecord

// MarkRecord is the persisted form of one mark.
type MarkRecord struct {
	Page, Row, Col int
	Text           string
	Name           string
	Timestamp      int64 // 0 on legacy 5-field records
}

func (r HighlightRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		[2]int{r.StartRow, r.StartCol},
		[2]int{r.EndRow, r.EndCol},
		r.Text,
		r.Note,
		r.Color,
	})
}

func (r *HighlightRecord) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 4 && len(raw) != 5 {
		return fmt.Errorf("highlight record has %d fields, want 4 or 5", len(raw))
	}

	var start, end [2]int
	if err := json.Unmarshal(raw[0], &start); err != nil {
		return fmt.Errorf("start position: %w", err)
	}
	if err := json.Unmarshal(raw[1], &end); err != nil {
		return fmt.Errorf("end position: %w", err)
	}
	if err := json.Unmarshal(raw[2], &r.Text); err != nil {
		return fmt.Errorf("text: %w", err)
	}
	if err := json.Unmarshal(raw[3], &r.Note); err != nil {
		return fmt.Errorf("note: %w", err)
	}
	r.StartRow, r.StartCol = start[0], start[1]
	r.EndRow, r.EndCol = end[0], end[1]

	r.Color = ""
	if len(raw) == 5 {
		if err := json.Unmarshal(raw[4], &r.Color); err != nil {
			return fmt.Errorf("color: %w", err)
		}
	}
	return nil
}

func (r MarkRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{r.Page, r.Row, r.Col, r.Text, r.Name, r.Timestamp})
}

func (r *MarkRecord) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 5 && len(raw) != 6 {
		return fmt.Errorf("mark record has %d fields, want 5 or 6", len(raw))
	}
	if err := json.Unmarshal(raw[0], &r.Page); err != nil {
		return fmt.Errorf("page: %w", err)
	}
	if err := json.Unmarshal(raw[1], &r.Row); err != nil {
		return fmt.Errorf("row: %w", err)
	}
	if err := json.Unmarshal(raw[2], &r.Col); err != nil {
		return fmt.Errorf("col: %w", err)
	}
	if err := json.Unmarshal(raw[3], &r.Text); err != nil {
		return fmt.Errorf("text: %w", err)
	}
	if err := json.Unmarshal(raw[4], &r.Name); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	r.Timestamp = 0
	if len(raw) == 6 {
		if err := json.Unmarshal(raw[5], &r.Timestamp); err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
	}
	return nil
}

// MarshalJSON encodes page keys as strings, the usual JSON object form.
func (p PageRecords) MarshalJSON() ([]byte, error) {
	m := make(map[string][]HighlightRecord, len(p))
	for page, recs := range p {
		m[strconv.Itoa(page)] = recs
	}
	return json.Marshal(m)
}

func (p *PageRecords) UnmarshalJSON(data []byte) error {
	var m map[string][]HighlightRecord
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := make(PageRecords, len(m))
	for key, recs := range m {
		page, err := strconv.Atoi(key)
		if err != nil || page < 0 {
			return fmt.Errorf("invalid page key %q", key)
		}
		out[page] = recs
	}
	*p = out
	return nil
}

func recordFromHighlight(h domain.Highlight) HighlightRecord {
	return HighlightRecord{
		StartRow: h.Start.Row, StartCol: h.Start.Col,
		EndRow: h.End.Row, EndCol: h.End.Col,
		Text:  h.Text,
		Note:  h.Note,
		Color: string(h.Color),
	}
}

func (r HighlightRecord) toHighlight(page int) domain.Highlight {
	return domain.Highlight{
		Start: domain.Position{Page: page, Row: r.StartRow, Col: r.StartCol},
		End:   domain.Position{Page: page, Row: r.EndRow, Col: r.EndCol},
		Text:  r.Text,
		Note:  r.Note,
		Color: domain.Color(r.Color),
	}
}

func recordFromMark(m domain.Mark) MarkRecord {
	return MarkRecord{
		Page: m.Position.Page, Row: m.Position.Row, Col: m.Position.Col,
		Text:      m.Label,
		Name:      m.Name,
		Timestamp: m.CreatedAt,
	}
}

func (r MarkRecord) toMark() domain.Mark {
	return domain.Mark{
		Position:  domain.Position{Page: r.Page, Row: r.Row, Col: r.Col},
		Label:     r.Text,
		Name:      r.Name,
		CreatedAt: r.Timestamp,
	}
}
